package repository

import (
	"context"
	"sync"

	"community-chat/internal/domain"
)

type auditRepository struct {
	mu      sync.RWMutex
	records []domain.AuditRecord // append-only, insertion order
}

func NewAuditRepository() domain.AuditRepository {
	return &auditRepository{}
}

func (r *auditRepository) Record(ctx context.Context, rec *domain.AuditRecord) error {
	if rec == nil || rec.ID == "" {
		return domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, *rec)
	return nil
}

func (r *auditRepository) Query(ctx context.Context, filter domain.AuditFilter, limit, offset int) ([]domain.AuditRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []domain.AuditRecord
	// Newest-first: walk the append-only log backwards.
	for i := len(r.records) - 1; i >= 0; i-- {
		rec := r.records[i]
		if filter.Action != "" && rec.Action != filter.Action {
			continue
		}
		if filter.ActorID != "" && rec.ActorID != filter.ActorID {
			continue
		}
		if filter.TargetType != "" && rec.TargetType != filter.TargetType {
			continue
		}
		if !filter.From.IsZero() && rec.CreatedAt.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && rec.CreatedAt.After(filter.To) {
			continue
		}
		matched = append(matched, rec)
	}

	if offset > 0 {
		if offset >= len(matched) {
			return nil, nil
		}
		matched = matched[offset:]
	}
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	return matched, nil
}
