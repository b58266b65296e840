package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"tush00nka/bbbab_chat/internal/model"
	"tush00nka/bbbab_chat/internal/pkg/testdb"
	"tush00nka/bbbab_chat/internal/repository"
)

func TestCreateUserDuplicateUsername(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := repository.NewUserRepository(testdb.New(t))

	req.NoError(repo.Create(ctx, &model.User{Username: "alice"}))
	err := repo.Create(ctx, &model.User{Username: "alice"})

	req.ErrorIs(err, repository.ErrDuplicate)
}

func TestFindMissing(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db := testdb.New(t)
	users := testdb.CreateUsers(t, db, "alice", "bob")
	repo := repository.NewUserRepository(db)

	missing, err := repo.FindMissing(ctx, []uint{users[0].ID, 40, users[1].ID, 41})

	req.NoError(err)
	req.Equal([]uint{40, 41}, missing)

	missing, err = repo.FindMissing(ctx, []uint{users[1].ID})
	req.NoError(err)
	req.Empty(missing)
}

func TestUserLookups(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db := testdb.New(t)
	users := testdb.CreateUsers(t, db, "bob", "alice")
	repo := repository.NewUserRepository(db)

	byID, err := repo.FindByID(ctx, users[1].ID)
	req.NoError(err)
	req.Equal("alice", byID.Username)

	_, err = repo.FindByID(ctx, 500)
	req.ErrorIs(err, repository.ErrNotFound)

	exists, err := repo.UsernameExists(ctx, "bob")
	req.NoError(err)
	req.True(exists)

	exists, err = repo.UsernameExists(ctx, "carol")
	req.NoError(err)
	req.False(exists)

	list, err := repo.List(ctx)
	req.NoError(err)
	req.Len(list, 2)
	req.Equal("bob", list[0].Username)
}
