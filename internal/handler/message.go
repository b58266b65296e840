package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"tush00nka/bbbab_chat/internal/pkg/httputils"
	"tush00nka/bbbab_chat/internal/service"
)

type MessageHandler struct {
	messageService service.MessageService
	log            *slog.Logger
}

func NewMessageHandler(messageService service.MessageService, log *slog.Logger) *MessageHandler {
	return &MessageHandler{messageService: messageService, log: log}
}

func (h *MessageHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/conversations/{id}/messages", h.getMessages).Methods("GET", "OPTIONS")
	router.HandleFunc("/conversations/{id}/messages", h.sendMessage).Methods("POST", "OPTIONS")
}

type SendMessageRequest struct {
	SenderID uint   `json:"senderId"`
	Content  string `json:"content"`
}

// @Summary Send message
// @Description Post a message to a conversation the sender belongs to
// @ID send-message
// @Tags messages
// @Accept json
// @Produce json
// @Param id path int true "Conversation ID"
// @Param messageData body SendMessageRequest true "Message data"
// @Success 201 {object} model.Message
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /conversations/{id}/messages [post]
func (h *MessageHandler) sendMessage(w http.ResponseWriter, r *http.Request) {
	conversationID, err := pathID(r, "id")
	if err != nil {
		httputils.ResponseAppError(w, h.log, err)
		return
	}

	var request SendMessageRequest
	if err := decodeJSON(r, &request); err != nil {
		httputils.ResponseAppError(w, h.log, err)
		return
	}

	msg, err := h.messageService.SendMessage(r.Context(), conversationID, request.SenderID, request.Content)
	if err != nil {
		httputils.ResponseAppError(w, h.log, err)
		return
	}

	httputils.ResponseJSON(w, http.StatusCreated, msg)
}

// @Summary Get messages
// @Description Get the conversation timeline, oldest first
// @ID get-messages
// @Tags messages
// @Produce json
// @Param id path int true "Conversation ID"
// @Success 200 {array} model.Message
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /conversations/{id}/messages [get]
func (h *MessageHandler) getMessages(w http.ResponseWriter, r *http.Request) {
	conversationID, err := pathID(r, "id")
	if err != nil {
		httputils.ResponseAppError(w, h.log, err)
		return
	}

	messages, err := h.messageService.GetMessages(r.Context(), conversationID)
	if err != nil {
		httputils.ResponseAppError(w, h.log, err)
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, messages)
}
