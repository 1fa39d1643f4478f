package logging

type Category string
type SubCategory string
type ExtraKey string

const (
	General         Category = "General"
	IO              Category = "IO"
	Internal        Category = "Internal"
	Relay           Category = "Relay"
	Presence        Category = "Presence"
	Validation      Category = "Validation"
	RequestResponse Category = "RequestResponse"
	Prometheus      Category = "Prometheus"
)

const (
	// General
	Startup         SubCategory = "Startup"
	Shutdown        SubCategory = "Shutdown"
	RateLimiting    SubCategory = "RateLimiting"
	ExternalService SubCategory = "ExternalService"

	// Relay
	Join      SubCategory = "Join"
	Leave     SubCategory = "Leave"
	Track     SubCategory = "Track"
	Fanout    SubCategory = "Fanout"
	Broadcast SubCategory = "Broadcast"
)

const (
	AppName      ExtraKey = "AppName"
	LoggerName   ExtraKey = "Logger"
	ClientIp     ExtraKey = "ClientIp"
	Method       ExtraKey = "Method"
	StatusCode   ExtraKey = "StatusCode"
	BodySize     ExtraKey = "BodySize"
	Path         ExtraKey = "Path"
	Latency      ExtraKey = "Latency"
	RoomKey      ExtraKey = "RoomKey"
	PeerID       ExtraKey = "PeerId"
	EventType    ExtraKey = "EventType"
	ErrorMessage ExtraKey = "ErrorMessage"
)
