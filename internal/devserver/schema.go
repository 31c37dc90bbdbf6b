package devserver

import "github.com/cineai/cineai-go/internal/core/domain"

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type profileRequest struct {
	Name *string `json:"name,omitempty"`
	Bio  *string `json:"bio,omitempty"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8"`
}

type authResponse struct {
	Message string       `json:"message,omitempty"`
	User    *domain.User `json:"user"`
	Token   string       `json:"token"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type chatSendRequest struct {
	Message        string  `json:"message" validate:"required"`
	ConversationID string  `json:"conversation_id,omitempty"`
	PreferModel    string  `json:"prefer_model,omitempty"`
	MaxTokens      int     `json:"max_tokens,omitempty"`
	Temperature    float64 `json:"temperature,omitempty"`
	TopP           float64 `json:"top_p,omitempty"`
}

type chatSendResponse struct {
	Success bool              `json:"success"`
	Data    *domain.ChatReply `json:"data"`
}

type conversationsResponse struct {
	Conversations []domain.Conversation `json:"conversations"`
}

type conversationResponse struct {
	Conversation *domain.Conversation `json:"conversation"`
}

type modelsResponse struct {
	Models []domain.ChatModel `json:"models"`
}

type videoCreateRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`
	Prompt      string `json:"prompt,omitempty"`
}

type videosResponse struct {
	Videos []domain.Video `json:"videos"`
}

type videoResponse struct {
	Video *domain.Video `json:"video"`
}

type settingsData struct {
	Config     domain.Settings           `json:"config,omitempty"`
	Validation domain.SettingsValidation `json:"validation,omitempty"`
}

type settingsResponse struct {
	Success bool         `json:"success"`
	Data    settingsData `json:"data"`
}
