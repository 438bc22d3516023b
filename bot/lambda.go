package bot

// LambdaEvent is the payload of a serverless decision request. When
// ReplyChannel is set the response is also published there.
type LambdaEvent struct {
	Request
	RequestID    string `json:"request_id"`
	ReplyChannel string `json:"reply_channel,omitempty"`
}
