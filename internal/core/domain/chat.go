package domain

import "time"

// ChatMessage is a single message inside a conversation.
type ChatMessage struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"` // "user" or "assistant"
	Content        string    `json:"content"`
	Model          string    `json:"model,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Conversation groups the messages of one chat thread.
type Conversation struct {
	ID        string        `json:"id"`
	Title     string        `json:"title,omitempty"`
	Messages  []ChatMessage `json:"messages,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ChatRequest is the input for sending a message. ConversationID empty means
// the server starts a new conversation.
type ChatRequest struct {
	Message        string  `json:"message"`
	ConversationID string  `json:"conversation_id,omitempty"`
	PreferModel    string  `json:"prefer_model,omitempty"`
	MaxTokens      int     `json:"max_tokens,omitempty"`
	Temperature    float64 `json:"temperature,omitempty"`
	TopP           float64 `json:"top_p,omitempty"`
}

// ChatReply is the assistant's answer to one ChatRequest.
type ChatReply struct {
	ConversationID string      `json:"conversation_id"`
	Message        ChatMessage `json:"message"`
	Model          string      `json:"model,omitempty"`
}

// ChatModel describes a model the backend can route chat requests to.
type ChatModel struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Provider  string `json:"provider"`
	Available bool   `json:"available"`
}
