package domain

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmptyMessage      = errors.New("message must contain text or attachments")
	ErrMessageNotFound   = errors.New("message not found")
	ErrRoomNotFound      = errors.New("room not found")
	ErrMemberNotFound    = errors.New("member not found")
	ErrAlreadyMember     = errors.New("already a member")
	ErrForbidden         = errors.New("forbidden")
	ErrOwnerCannotLeave  = errors.New("room owner cannot leave their own room")
	ErrOwnerProtected    = errors.New("room owner cannot be removed or demoted")
	ErrPersistenceFailed = errors.New("persistence failed")
)
