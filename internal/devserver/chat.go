package devserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cineai/cineai-go/internal/core/domain"
)

const defaultChatModel = "openai"

var chatModels = []domain.ChatModel{
	{ID: "openai", Name: "GPT-4o", Provider: "openai", Available: true},
	{ID: "gemini", Name: "Gemini 2.0", Provider: "google", Available: true},
}

// SendMessage appends the user message to a conversation and answers with a
// simulated assistant reply.
//
// @Summary      Send a chat message
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        body  body      chatSendRequest  true  "Message"
// @Success      200   {object}  chatSendResponse
// @Router       /api/chat/send [post]
func (s *Server) handleChatSend(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req chatSendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	model := req.PreferModel
	if model == "" {
		model = defaultChatModel
	}

	conv, _ := s.conversations.Append(userID, req.ConversationID, "user", req.Message, "")
	reply := fmt.Sprintf("[%s] This is a simulated reply to: %s", model, req.Message)
	_, msg := s.conversations.Append(userID, conv.ID, "assistant", reply, model)

	return c.JSON(http.StatusOK, chatSendResponse{
		Success: true,
		Data: &domain.ChatReply{
			ConversationID: conv.ID,
			Message:        msg,
			Model:          model,
		},
	})
}

// @Summary      List conversations
// @Tags         chat
// @Produce      json
// @Success      200  {object}  conversationsResponse
// @Router       /api/chat/conversations [get]
func (s *Server) handleConversations(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, conversationsResponse{Conversations: s.conversations.List(userID)})
}

// @Summary      Get one conversation with messages
// @Tags         chat
// @Produce      json
// @Success      200  {object}  conversationResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/chat/conversations/{id} [get]
func (s *Server) handleConversation(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	conv, err := s.conversations.Get(userID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, conversationResponse{Conversation: conv})
}

// @Summary      Delete a conversation
// @Tags         chat
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/chat/conversations/{id} [delete]
func (s *Server) handleDeleteConversation(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := s.conversations.Delete(userID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "conversation deleted"})
}

// @Summary      List available chat models
// @Tags         chat
// @Produce      json
// @Success      200  {object}  modelsResponse
// @Router       /api/chat/models [get]
func (s *Server) handleModels(c echo.Context) error {
	return c.JSON(http.StatusOK, modelsResponse{Models: chatModels})
}
