package transport

import "github.com/cineai/cineai-go/internal/core/domain"

// Request and response envelopes for the CineAI wire format. Error responses
// always carry {"error": "<message>"} regardless of endpoint.

type errorEnvelope struct {
	Error string `json:"error"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type authEnvelope struct {
	Message string       `json:"message,omitempty"`
	User    *domain.User `json:"user"`
	Token   string       `json:"token"`
}

type userEnvelope struct {
	User *domain.User `json:"user"`
}

type chatEnvelope struct {
	Success bool              `json:"success"`
	Data    *domain.ChatReply `json:"data"`
}

type conversationsEnvelope struct {
	Conversations []domain.Conversation `json:"conversations"`
}

type conversationEnvelope struct {
	Conversation *domain.Conversation `json:"conversation"`
}

type modelsEnvelope struct {
	Models []domain.ChatModel `json:"models"`
}

type videosEnvelope struct {
	Videos []domain.Video `json:"videos"`
}

type videoEnvelope struct {
	Video *domain.Video `json:"video"`
}

type settingsData struct {
	Config     domain.Settings           `json:"config,omitempty"`
	Validation domain.SettingsValidation `json:"validation,omitempty"`
}

type settingsEnvelope struct {
	Success bool         `json:"success"`
	Data    settingsData `json:"data"`
}

type settingsUpdateRequest map[string]any
