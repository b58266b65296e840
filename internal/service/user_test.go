package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"tush00nka/bbbab_chat/internal/model"
	"tush00nka/bbbab_chat/internal/pkg/apperr"
)

func TestCreateUser(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t, nil)

	user, err := f.userService.CreateUser(ctx, "  alice ")

	req.NoError(err)
	req.NotZero(user.ID)
	req.Equal("alice", user.Username)
}

func TestCreateUserDuplicateIsConflict(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t, nil, "alice")
	original := f.users[0]

	_, err := f.userService.CreateUser(ctx, "alice")

	req.True(apperr.Is(err, apperr.KindConflict), "got %v", err)
	req.EqualValues(1, f.count(t, &model.User{}))

	stored, err := f.userService.GetUserByID(ctx, original.ID)
	req.NoError(err)
	req.Equal(original.Username, stored.Username)
}

func TestCreateUserRejectsBlankName(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.userService.CreateUser(context.Background(), "   ")

	require.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestGetUserByID(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t, nil, "alice", "bob")

	_, err := f.userService.GetUserByID(ctx, 0)
	req.True(apperr.Is(err, apperr.KindValidation))

	_, err = f.userService.GetUserByID(ctx, 404)
	req.True(apperr.Is(err, apperr.KindNotFound))

	users, err := f.userService.ListUsers(ctx)
	req.NoError(err)
	req.Len(users, 2)
	req.Equal("alice", users[0].Username)
}
