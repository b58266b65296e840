package service_test

import (
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
	"tush00nka/bbbab_chat/internal/event"
	"tush00nka/bbbab_chat/internal/mocks"
	"tush00nka/bbbab_chat/internal/model"
	"tush00nka/bbbab_chat/internal/pkg/testdb"
	"tush00nka/bbbab_chat/internal/repository"
	"tush00nka/bbbab_chat/internal/service"
)

type fixture struct {
	db            *gorm.DB
	users         []model.User
	broadcaster   *mocks.MockBroadcaster
	conversations service.ConversationService
	messages      service.MessageService
	userService   service.UserService
}

func newFixture(t *testing.T, cache repository.MessageCache, usernames ...string) *fixture {
	t.Helper()

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	db := testdb.New(t)
	broadcaster := mocks.NewMockBroadcaster(gomock.NewController(t))

	userRepo := repository.NewUserRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	return &fixture{
		db:          db,
		users:       testdb.CreateUsers(t, db, usernames...),
		broadcaster: broadcaster,
		conversations: service.NewConversationService(conversationRepo, userRepo, broadcaster, log,
			service.ConversationOptions{GroupMinParticipants: 1}),
		messages: service.NewMessageService(messageRepo, conversationRepo, userRepo, cache, broadcaster, log,
			service.MessageOptions{MaxContentLength: service.DefaultMaxContentLength}),
		userService: service.NewUserService(userRepo, log),
	}
}

func (f *fixture) id(i int) uint {
	return f.users[i].ID
}

func (f *fixture) count(t *testing.T, value any) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(value).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

// capture records every event handed to the broadcaster.
func (f *fixture) capture(times int) *[]event.Event {
	events := &[]event.Event{}
	f.broadcaster.EXPECT().
		Broadcast(gomock.Any()).
		DoAndReturn(func(ev event.Event) int {
			*events = append(*events, ev)
			return 1
		}).
		Times(times)
	return events
}

type panickingBroadcaster struct{}

func (panickingBroadcaster) Broadcast(event.Event) int {
	panic("connection registry is gone")
}
