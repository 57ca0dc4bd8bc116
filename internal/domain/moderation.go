package domain

import "time"

// DeleteGraceWindow is how long an author may delete their own message.
// A short corrective window, not standing deletion rights: delete is not a
// retroactive conversation-editing tool.
const DeleteGraceWindow = 15 * time.Minute

// CanDelete decides whether actor may delete message. Pure policy, no I/O.
//
//   - The system owner may always delete.
//   - Platform-wide privileged roles (doctor, admin) may always delete,
//     independent of any room-specific role.
//   - The author may delete their own message within DeleteGraceWindow.
//   - Everyone else, including the author after the window, may not.
func CanDelete(actor Actor, message *Message, room *Room, now time.Time) bool {
	if message == nil {
		return false
	}
	if actor.Privileged() {
		return true
	}
	if actor.UserID != "" && actor.UserID == message.AuthorID {
		return now.Sub(message.CreatedAt) <= DeleteGraceWindow
	}
	return false
}
