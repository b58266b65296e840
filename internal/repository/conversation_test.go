package repository_test

import (
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"tush00nka/bbbab_chat/internal/model"
	"tush00nka/bbbab_chat/internal/pkg/testdb"
	"tush00nka/bbbab_chat/internal/repository"
)

func newDirect(a, b uint) *model.Conversation {
	return &model.Conversation{IsGroup: false, DirectKey: lo.ToPtr(model.DirectKey(a, b))}
}

func TestFindDirectMatchesExactPair(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db := testdb.New(t)
	users := testdb.CreateUsers(t, db, "alice", "bob", "carol")
	alice, bob, carol := users[0].ID, users[1].ID, users[2].ID
	repo := repository.NewConversationRepository(db)

	// Given a group holding alice and bob only, and a direct chat alice/carol
	group := &model.Conversation{IsGroup: true, Name: lo.ToPtr("pair group")}
	req.NoError(repo.CreateWithParticipants(ctx, group, []uint{alice, bob}))
	req.NoError(repo.CreateWithParticipants(ctx, newDirect(alice, carol), []uint{alice, carol}))

	// When looking up the direct pair alice/bob
	_, err := repo.FindDirect(ctx, alice, bob)

	// Then neither the group nor the other pair matches
	req.ErrorIs(err, repository.ErrNotFound)

	direct := newDirect(alice, bob)
	req.NoError(repo.CreateWithParticipants(ctx, direct, []uint{alice, bob}))

	found, err := repo.FindDirect(ctx, bob, alice)
	req.NoError(err)
	req.Equal(direct.ID, found.ID)
	req.Equal([]model.UserSummary{{ID: alice, Username: "alice"}, {ID: bob, Username: "bob"}}, found.Participants)
}

func TestFindDirectIgnoresConversationWithExtraParticipant(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db := testdb.New(t)
	users := testdb.CreateUsers(t, db, "alice", "bob", "carol")
	repo := repository.NewConversationRepository(db)

	// Given a non-group row that ended up with a stale third member
	conv := newDirect(users[0].ID, users[1].ID)
	req.NoError(repo.CreateWithParticipants(ctx, conv, []uint{users[0].ID, users[1].ID}))
	req.NoError(repo.AddParticipants(ctx, conv.ID, []uint{users[2].ID}))

	// Then it is not treated as the alice/bob direct conversation
	_, err := repo.FindDirect(ctx, users[0].ID, users[1].ID)
	req.ErrorIs(err, repository.ErrNotFound)
}

func TestCreateWithParticipantsRejectsSecondDirectForPair(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db := testdb.New(t)
	users := testdb.CreateUsers(t, db, "alice", "bob")
	repo := repository.NewConversationRepository(db)

	req.NoError(repo.CreateWithParticipants(ctx, newDirect(users[0].ID, users[1].ID), []uint{users[0].ID, users[1].ID}))

	err := repo.CreateWithParticipants(ctx, newDirect(users[1].ID, users[0].ID), []uint{users[1].ID, users[0].ID})

	req.ErrorIs(err, repository.ErrDuplicate)

	var count int64
	req.NoError(db.Model(&model.Conversation{}).Count(&count).Error)
	req.EqualValues(1, count)
}

func TestCreateWithParticipantsRollsBackOnUnknownUser(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db := testdb.New(t)
	users := testdb.CreateUsers(t, db, "alice")
	repo := repository.NewConversationRepository(db)

	group := &model.Conversation{IsGroup: true, Name: lo.ToPtr("ghosts")}
	err := repo.CreateWithParticipants(ctx, group, []uint{users[0].ID, 999})

	req.Error(err)
	var count int64
	req.NoError(db.Model(&model.Conversation{}).Count(&count).Error)
	req.Zero(count)
}

func TestCreateWithParticipantsStoresRepeatedIDsOnce(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db := testdb.New(t)
	users := testdb.CreateUsers(t, db, "alice", "bob")
	repo := repository.NewConversationRepository(db)

	group := &model.Conversation{IsGroup: true, Name: lo.ToPtr("team")}
	req.NoError(repo.CreateWithParticipants(ctx, group, []uint{users[0].ID, users[1].ID, users[1].ID, users[0].ID}))

	var count int64
	req.NoError(db.Model(&model.Participant{}).Where("conversation_id = ?", group.ID).Count(&count).Error)
	req.EqualValues(2, count)

	ok, err := repo.IsParticipant(ctx, group.ID, users[1].ID)
	req.NoError(err)
	req.True(ok)

	ok, err = repo.IsParticipant(ctx, group.ID, 42)
	req.NoError(err)
	req.False(ok)
}

func TestAddParticipantsIsIdempotent(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db := testdb.New(t)
	users := testdb.CreateUsers(t, db, "alice", "bob")
	repo := repository.NewConversationRepository(db)

	group := &model.Conversation{IsGroup: true, Name: lo.ToPtr("team")}
	req.NoError(repo.CreateWithParticipants(ctx, group, []uint{users[0].ID}))

	req.NoError(repo.AddParticipants(ctx, group.ID, []uint{users[0].ID, users[1].ID, users[1].ID}))

	participants, err := repo.Participants(ctx, group.ID)
	req.NoError(err)
	req.Len(participants, 2)
}

func TestListAttachesParticipants(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db := testdb.New(t)
	users := testdb.CreateUsers(t, db, "alice", "bob", "carol")
	repo := repository.NewConversationRepository(db)

	req.NoError(repo.CreateWithParticipants(ctx, newDirect(users[0].ID, users[1].ID), []uint{users[0].ID, users[1].ID}))
	req.NoError(repo.CreateWithParticipants(ctx, &model.Conversation{IsGroup: true, Name: lo.ToPtr("all")},
		[]uint{users[2].ID, users[1].ID, users[0].ID}))

	conversations, err := repo.List(ctx)

	req.NoError(err)
	req.Len(conversations, 2)
	req.Len(conversations[0].Participants, 2)
	req.Equal([]string{"alice", "bob", "carol"},
		lo.Map(conversations[1].Participants, func(u model.UserSummary, _ int) string { return u.Username }))
}

func TestFindByIDNotFound(t *testing.T) {
	repo := repository.NewConversationRepository(testdb.New(t))

	_, err := repo.FindByID(context.Background(), 77)

	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeletingConversationCascades(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db := testdb.New(t)
	users := testdb.CreateUsers(t, db, "alice", "bob")
	conversations := repository.NewConversationRepository(db)
	messages := repository.NewMessageRepository(db)

	conv := newDirect(users[0].ID, users[1].ID)
	req.NoError(conversations.CreateWithParticipants(ctx, conv, []uint{users[0].ID, users[1].ID}))
	req.NoError(messages.Create(ctx, &model.Message{ConversationID: conv.ID, SenderID: users[0].ID, Content: "hi"}))

	req.NoError(db.Delete(&model.Conversation{}, conv.ID).Error)

	var count int64
	req.NoError(db.Model(&model.Message{}).Count(&count).Error)
	req.Zero(count)
	req.NoError(db.Model(&model.Participant{}).Count(&count).Error)
	req.Zero(count)
}
