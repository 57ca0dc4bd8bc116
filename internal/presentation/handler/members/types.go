package members

import (
	"time"

	"community-chat/internal/domain"
)

type changeRoleRequest struct {
	Role string `json:"role"`
}

type memberResponse struct {
	UserID           string    `json:"userId"`
	RoomID           string    `json:"roomId"`
	Role             string    `json:"role"`
	CanRemoveMembers bool      `json:"canRemoveMembers"`
	CanPin           bool      `json:"canPin"`
	JoinedAt         time.Time `json:"joinedAt"`
}

type listMembersResponse struct {
	Members []memberResponse `json:"members"`
}

func toListResponse(memberships []domain.Membership) listMembersResponse {
	out := listMembersResponse{Members: make([]memberResponse, 0, len(memberships))}
	for _, m := range memberships {
		out.Members = append(out.Members, memberResponse{
			UserID:           m.UserID,
			RoomID:           m.RoomID,
			Role:             string(m.Role),
			CanRemoveMembers: m.CanRemoveMembers,
			CanPin:           m.CanPin,
			JoinedAt:         m.JoinedAt,
		})
	}
	return out
}

func parseRoomRole(raw string) (domain.RoomRole, bool) {
	switch role := domain.RoomRole(raw); role {
	case domain.RoomRoleMember, domain.RoomRoleModerator, domain.RoomRoleAdmin:
		return role, true
	default:
		// owner is assigned by room creation, never by role change
		return "", false
	}
}
