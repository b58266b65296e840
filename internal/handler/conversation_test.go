package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"tush00nka/bbbab_chat/internal/model"
	"tush00nka/bbbab_chat/internal/pkg/apperr"
	"tush00nka/bbbab_chat/internal/service"
)

func TestCreateConversationHandlerStatus(t *testing.T) {
	conv := &model.Conversation{ID: 4, Participants: []model.UserSummary{{ID: 1, Username: "alice"}, {ID: 2, Username: "bob"}}}

	tests := []struct {
		name    string
		created bool
		want    int
	}{
		{"new conversation", true, http.StatusCreated},
		{"existing direct conversation", false, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			tr := newTestRouter(t)

			tr.conversations.EXPECT().
				ResolveOrCreate(gomock.Any(), service.CreateConversationInput{ParticipantIDs: []uint{2, 1}}).
				Return(conv, tt.created, nil)

			rr := tr.do("POST", "/api/conversations", `{"isGroup":false,"participantIds":[2,1]}`)

			req.Equal(tt.want, rr.Code)
			req.Contains(rr.Body.String(), `"id":4`)
			req.Contains(rr.Body.String(), `"participants":[{"id":1,"username":"alice"},{"id":2,"username":"bob"}]`)
		})
	}
}

func TestCreateConversationHandlerPassesGroupFields(t *testing.T) {
	req := require.New(t)
	tr := newTestRouter(t)

	tr.conversations.EXPECT().
		ResolveOrCreate(gomock.Any(), service.CreateConversationInput{
			Name:           lo.ToPtr("Team"),
			IsGroup:        true,
			ParticipantIDs: []uint{1, 2, 3},
		}).
		Return(&model.Conversation{ID: 5, Name: lo.ToPtr("Team"), IsGroup: true}, true, nil)

	rr := tr.do("POST", "/api/conversations", `{"name":"Team","isGroup":true,"participantIds":[1,2,3]}`)

	req.Equal(http.StatusCreated, rr.Code)
	req.Contains(rr.Body.String(), `"name":"Team"`)
	req.Contains(rr.Body.String(), `"isGroup":true`)
}

func TestCreateConversationHandlerErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperr.Validation("direct conversations require exactly two distinct participants"), http.StatusBadRequest},
		{"missing users", apperr.NotFound("participants not found: [9]"), http.StatusNotFound},
		{"database", apperr.Internal(errors.New("connection reset"), "failed to create conversation"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestRouter(t)
			tr.conversations.EXPECT().ResolveOrCreate(gomock.Any(), gomock.Any()).Return(nil, false, tt.err)

			rr := tr.do("POST", "/api/conversations", `{"participantIds":[1,9]}`)

			require.Equal(t, tt.want, rr.Code)
			require.NotContains(t, rr.Body.String(), "connection reset")
		})
	}
}

func TestGetConversationHandler(t *testing.T) {
	req := require.New(t)
	tr := newTestRouter(t)

	tr.conversations.EXPECT().GetConversation(gomock.Any(), uint(4)).Return(&model.Conversation{ID: 4}, nil)
	tr.conversations.EXPECT().ListConversations(gomock.Any()).Return([]model.Conversation{}, nil)

	req.Equal(http.StatusOK, tr.do("GET", "/api/conversations/4", "").Code)

	rr := tr.do("GET", "/api/conversations", "")
	req.Equal(http.StatusOK, rr.Code)
	req.JSONEq(`[]`, rr.Body.String())
}
