package logging

type Category string
type SubCategory string
type ExtraKey string

const (
	General         Category = "General"
	IO              Category = "IO"
	Internal        Category = "Internal"
	Mongo           Category = "Mongo"
	RabbitMQ        Category = "RabbitMQ"
	WebSocket       Category = "WebSocket"
	Moderation      Category = "Moderation"
	Validation      Category = "Validation"
	RequestResponse Category = "RequestResponse"
)

const (
	Startup         SubCategory = "Startup"
	Shutdown        SubCategory = "Shutdown"
	RateLimiting    SubCategory = "RateLimiting"
	Broadcast       SubCategory = "Broadcast"
	Presence        SubCategory = "Presence"
	Delivery        SubCategory = "Delivery"
	Audit           SubCategory = "Audit"
	ExternalService SubCategory = "ExternalService"
)

const (
	AppName      ExtraKey = "AppName"
	LoggerName   ExtraKey = "Logger"
	ClientIP     ExtraKey = "ClientIp"
	Method       ExtraKey = "Method"
	StatusCode   ExtraKey = "StatusCode"
	Path         ExtraKey = "Path"
	Latency      ExtraKey = "Latency"
	RoomID       ExtraKey = "RoomId"
	UserID       ExtraKey = "UserId"
	SessionID    ExtraKey = "SessionId"
	MessageID    ExtraKey = "MessageId"
	ErrorMessage ExtraKey = "ErrorMessage"
)
