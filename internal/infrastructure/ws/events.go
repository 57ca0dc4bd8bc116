package ws

// Client -> server event types.
const (
	EventRegisterUser = "registerUser"
	EventJoinRoom     = "joinRoom"
	EventLeaveRoom    = "leaveRoom"
	EventSendMessage  = "sendMessage"
	EventTyping       = "typing"
)

// Server -> client event types.
const (
	EventMessageCreated = "messageCreated"
	EventMessageDeleted = "messageDeleted"
	EventMemberRemoved  = "memberRemoved"
	EventOnlinePresence = "onlinePresence"
	EventError          = "error"
)

// Error codes carried in ErrorPayload.
const (
	CodeValidation  = "validation_error"
	CodeNotFound    = "not_found"
	CodeForbidden   = "forbidden"
	CodePersistence = "persistence_error"
	CodeAuth        = "auth_error"
)
