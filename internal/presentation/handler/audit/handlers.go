package audit

import (
	"net/http"
	"strconv"

	"community-chat/internal/domain"
	"community-chat/internal/infrastructure/json"
	"community-chat/internal/presentation/utils"
)

type Handler struct {
	auditRepository domain.AuditRepository
	pageLimit       int
}

func NewHandler(auditRepository domain.AuditRepository, pageLimit int) *Handler {
	if pageLimit <= 0 {
		pageLimit = 100
	}

	return &Handler{
		auditRepository: auditRepository,
		pageLimit:       pageLimit,
	}
}

type queryResponse struct {
	Records []domain.AuditRecord `json:"records"`
	Limit   int                  `json:"limit"`
	Offset  int                  `json:"offset"`
}

// QueryHandler is the administrative read path over the moderation
// trail: newest first, filterable by action, actor and target type.
func (h *Handler) QueryHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := utils.ActorFromRequest(r)
	if !ok {
		json.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if !actor.Privileged() {
		json.WriteError(w, http.StatusForbidden, "audit access requires a privileged role")
		return
	}

	query := r.URL.Query()

	limit := h.pageLimit
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			json.WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if parsed < limit {
			limit = parsed
		}
	}

	offset := 0
	if raw := query.Get("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			json.WriteError(w, http.StatusBadRequest, "offset must be a non-negative integer")
			return
		}
		offset = parsed
	}

	filter := domain.AuditFilter{
		Action:     domain.AuditAction(query.Get("action")),
		ActorID:    query.Get("actor"),
		TargetType: query.Get("target"),
	}

	records, err := h.auditRepository.Query(r.Context(), filter, limit, offset)
	if err != nil {
		json.WriteInternalError(w)
		return
	}

	json.Write(w, http.StatusOK, queryResponse{
		Records: records,
		Limit:   limit,
		Offset:  offset,
	})
}
