package tokenstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"guardiangate/internal/gate"
	"guardiangate/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	now   time.Time
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.store = NewInMemoryStore(WithClock(func() time.Time { return s.now }))
}

func (s *InMemoryStoreSuite) payload() gate.ConsentPayload {
	return gate.ConsentPayload{
		ChildEmail:    "kid@example.com",
		GuardianEmail: "parent@example.com",
		MinorName:     "Kid Example",
		MinorDOB:      "2010-05-01",
		IssuedAt:      s.now,
		IssuerIP:      "203.0.113.9",
	}
}

func (s *InMemoryStoreSuite) TestPutGetRoundTrip() {
	err := s.store.Put(context.Background(), "t_abc", s.payload(), 6*time.Hour)
	require.NoError(s.T(), err)

	got, err := s.store.Get(context.Background(), "t_abc")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), s.payload(), got)
}

func (s *InMemoryStoreSuite) TestGetMissing() {
	_, err := s.store.Get(context.Background(), "t_nope")
	assert.ErrorIs(s.T(), err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestExpiredLooksAbsent() {
	require.NoError(s.T(), s.store.Put(context.Background(), "t_abc", s.payload(), 6*time.Hour))

	s.now = s.now.Add(6*time.Hour + time.Second)
	_, err := s.store.Get(context.Background(), "t_abc")
	assert.ErrorIs(s.T(), err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestTTLNotRenewedByReads() {
	require.NoError(s.T(), s.store.Put(context.Background(), "t_abc", s.payload(), time.Hour))

	s.now = s.now.Add(59 * time.Minute)
	_, err := s.store.Get(context.Background(), "t_abc")
	require.NoError(s.T(), err)

	s.now = s.now.Add(2 * time.Minute)
	_, err = s.store.Get(context.Background(), "t_abc")
	assert.ErrorIs(s.T(), err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestPutReplacesExisting() {
	require.NoError(s.T(), s.store.Put(context.Background(), "t_abc", s.payload(), time.Hour))

	replacement := s.payload()
	replacement.ChildEmail = "other@example.com"
	require.NoError(s.T(), s.store.Put(context.Background(), "t_abc", replacement, time.Hour))

	got, err := s.store.Get(context.Background(), "t_abc")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "other@example.com", got.ChildEmail)
}

func (s *InMemoryStoreSuite) TestDeleteIdempotent() {
	require.NoError(s.T(), s.store.Put(context.Background(), "t_abc", s.payload(), time.Hour))

	require.NoError(s.T(), s.store.Delete(context.Background(), "t_abc"))
	_, err := s.store.Get(context.Background(), "t_abc")
	assert.ErrorIs(s.T(), err, sentinel.ErrNotFound)

	// Absent token: still a no-op.
	assert.NoError(s.T(), s.store.Delete(context.Background(), "t_abc"))
	assert.NoError(s.T(), s.store.Delete(context.Background(), "t_never_existed"))
}

func (s *InMemoryStoreSuite) TestDeleteExpired() {
	require.NoError(s.T(), s.store.Put(context.Background(), "t_old", s.payload(), time.Minute))
	require.NoError(s.T(), s.store.Put(context.Background(), "t_new", s.payload(), time.Hour))

	deleted, err := s.store.DeleteExpired(context.Background(), s.now.Add(30*time.Minute))
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, deleted)

	_, err = s.store.Get(context.Background(), "t_new")
	assert.NoError(s.T(), err)
}

func (s *InMemoryStoreSuite) TestKeySanitization() {
	require.NoError(s.T(), s.store.Put(context.Background(), "t_abc", s.payload(), time.Hour))

	// A cookie value with junk around the token alphabet resolves to the
	// same key.
	got, err := s.store.Get(context.Background(), "t_abc\r\n")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "kid@example.com", got.ChildEmail)
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}
