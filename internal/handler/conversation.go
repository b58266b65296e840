package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"tush00nka/bbbab_chat/internal/pkg/httputils"
	"tush00nka/bbbab_chat/internal/service"
)

type ConversationHandler struct {
	conversationService service.ConversationService
	log                 *slog.Logger
}

func NewConversationHandler(conversationService service.ConversationService, log *slog.Logger) *ConversationHandler {
	return &ConversationHandler{conversationService: conversationService, log: log}
}

func (h *ConversationHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/conversations", h.listConversations).Methods("GET", "OPTIONS")
	router.HandleFunc("/conversations", h.createConversation).Methods("POST", "OPTIONS")
	router.HandleFunc("/conversations/{id}", h.getConversation).Methods("GET", "OPTIONS")
}

type CreateConversationRequest struct {
	Name           *string `json:"name"`
	IsGroup        bool    `json:"isGroup"`
	ParticipantIDs []uint  `json:"participantIds"`
}

// @Summary Create conversation
// @Description Create a group, or open the direct conversation between two users.
// @Description An existing direct conversation for the pair is returned with 200.
// @ID create-conversation
// @Tags conversations
// @Accept json
// @Produce json
// @Param conversationData body CreateConversationRequest true "Conversation data"
// @Success 201 {object} model.Conversation
// @Success 200 {object} model.Conversation
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /conversations [post]
func (h *ConversationHandler) createConversation(w http.ResponseWriter, r *http.Request) {
	var request CreateConversationRequest
	if err := decodeJSON(r, &request); err != nil {
		httputils.ResponseAppError(w, h.log, err)
		return
	}

	conv, created, err := h.conversationService.ResolveOrCreate(r.Context(), service.CreateConversationInput{
		Name:           request.Name,
		IsGroup:        request.IsGroup,
		ParticipantIDs: request.ParticipantIDs,
	})
	if err != nil {
		httputils.ResponseAppError(w, h.log, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httputils.ResponseJSON(w, status, conv)
}

// @Summary List conversations
// @ID list-conversations
// @Tags conversations
// @Produce json
// @Success 200 {array} model.Conversation
// @Failure 500 {object} response.ErrorResponse
// @Router /conversations [get]
func (h *ConversationHandler) listConversations(w http.ResponseWriter, r *http.Request) {
	conversations, err := h.conversationService.ListConversations(r.Context())
	if err != nil {
		httputils.ResponseAppError(w, h.log, err)
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, conversations)
}

// @Summary Get conversation
// @ID get-conversation
// @Tags conversations
// @Produce json
// @Param id path int true "Conversation ID"
// @Success 200 {object} model.Conversation
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /conversations/{id} [get]
func (h *ConversationHandler) getConversation(w http.ResponseWriter, r *http.Request) {
	conversationID, err := pathID(r, "id")
	if err != nil {
		httputils.ResponseAppError(w, h.log, err)
		return
	}

	conv, err := h.conversationService.GetConversation(r.Context(), conversationID)
	if err != nil {
		httputils.ResponseAppError(w, h.log, err)
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, conv)
}
