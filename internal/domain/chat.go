package domain

// ChatMessageRequest is the body sent to the Next-AGI chat-messages endpoint.
// Inputs and Files are always sent, empty, so the upstream schema validates.
type ChatMessageRequest struct {
	Inputs         map[string]interface{} `json:"inputs"`
	Query          string                 `json:"query"`
	ResponseMode   string                 `json:"response_mode"`
	ConversationID string                 `json:"conversation_id"`
	User           string                 `json:"user"`
	Files          []interface{}          `json:"files"`
}

// NewStreamingChatMessageRequest builds a streaming chat request for one
// recognized utterance. The caller phone number doubles as the upstream
// user tag so conversation continuity survives across calls.
func NewStreamingChatMessageRequest(query, conversationID, caller string) ChatMessageRequest {
	return ChatMessageRequest{
		Inputs:         map[string]interface{}{},
		Query:          query,
		ResponseMode:   "streaming",
		ConversationID: conversationID,
		User:           caller,
		Files:          []interface{}{},
	}
}

// StreamEvent is one decoded server-sent event from the chat-messages stream.
// Events carry at most a conversation id update and an answer fragment; all
// other upstream event fields are ignored.
type StreamEvent struct {
	Event          string `json:"event,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
	Answer         string `json:"answer,omitempty"`
}
