package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"holidays/internal/core"
	"holidays/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type StoreTestSuite struct {
	suite.Suite
	repo   *storage.SQLiteRepository
	store  *Store
	userID int64
}

func (s *StoreTestSuite) SetupTest() {
	repo, err := storage.NewSQLiteRepository(filepath.Join(s.T().TempDir(), "sessions.db"))
	require.NoError(s.T(), err, "failed to open test database")
	s.repo = repo
	s.store = NewStore(repo.DB(), time.Hour)

	user, err := repo.CreateUser(context.Background(), core.User{
		Username:     "alice",
		PasswordHash: "x",
	})
	require.NoError(s.T(), err)
	s.userID = user.ID
}

func (s *StoreTestSuite) TearDownTest() {
	if s.repo != nil {
		s.repo.Close()
	}
}

func (s *StoreTestSuite) TestCreateAndResolve() {
	ctx := context.Background()

	token, err := s.store.Create(ctx, s.userID)
	require.NoError(s.T(), err)
	assert.Len(s.T(), token, 32, "token should be 128 bits of hex")

	userID, err := s.store.UserID(ctx, token)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), s.userID, userID)
}

func (s *StoreTestSuite) TestTokensAreUnique() {
	ctx := context.Background()

	first, err := s.store.Create(ctx, s.userID)
	require.NoError(s.T(), err)
	second, err := s.store.Create(ctx, s.userID)
	require.NoError(s.T(), err)

	assert.NotEqual(s.T(), first, second)
}

func (s *StoreTestSuite) TestUnknownToken() {
	_, err := s.store.UserID(context.Background(), "deadbeef")
	assert.True(s.T(), errors.Is(err, core.ErrUnauthorized), "unknown token should be unauthorized, got %v", err)
}

func (s *StoreTestSuite) TestDelete() {
	ctx := context.Background()

	token, err := s.store.Create(ctx, s.userID)
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.store.Delete(ctx, token))

	_, err = s.store.UserID(ctx, token)
	assert.True(s.T(), errors.Is(err, core.ErrUnauthorized))

	// Deleting again is a no-op, not an error.
	assert.NoError(s.T(), s.store.Delete(ctx, token))
}

func (s *StoreTestSuite) TestExpiredToken() {
	ctx := context.Background()

	expired := NewStore(s.repo.DB(), -time.Minute)
	token, err := expired.Create(ctx, s.userID)
	require.NoError(s.T(), err)

	_, err = expired.UserID(ctx, token)
	assert.True(s.T(), errors.Is(err, core.ErrUnauthorized), "expired token should be unauthorized, got %v", err)
}

func (s *StoreTestSuite) TestDeleteExpired() {
	ctx := context.Background()

	expired := NewStore(s.repo.DB(), -time.Minute)
	_, err := expired.Create(ctx, s.userID)
	require.NoError(s.T(), err)

	live, err := s.store.Create(ctx, s.userID)
	require.NoError(s.T(), err)

	removed, err := s.store.DeleteExpired(ctx)
	require.NoError(s.T(), err)
	assert.EqualValues(s.T(), 1, removed)

	_, err = s.store.UserID(ctx, live)
	assert.NoError(s.T(), err, "live session should survive cleanup")
}

func (s *StoreTestSuite) TestCascadeOnUserDelete() {
	ctx := context.Background()

	token, err := s.store.Create(ctx, s.userID)
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.repo.DeleteUser(ctx, s.userID))

	_, err = s.store.UserID(ctx, token)
	assert.True(s.T(), errors.Is(err, core.ErrUnauthorized), "sessions should cascade away with the user")
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
