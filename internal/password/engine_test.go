package password

import (
	"context"
	"testing"
	"time"

	"teamplan/internal/auth"
	"teamplan/internal/models"
	"teamplan/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUserRepo struct {
	repository.BaseRepository
	users map[uuid.UUID]*models.User
}

func (m *memUserRepo) Create(_ context.Context, _ *models.User) error { return nil }

func (m *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, _ string) (*models.User, error) {
	return nil, repository.ErrUserNotFound
}

func (m *memUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	u, ok := m.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Password = hash
	return nil
}

func (m *memUserRepo) VerifyEmail(_ context.Context, _ uuid.UUID) error { return nil }

type memHistoryRepo struct {
	repository.BaseRepository
	entries map[uuid.UUID][]models.PasswordHistory
}

func (m *memHistoryRepo) Add(_ context.Context, userID uuid.UUID, hash string) error {
	entry := models.PasswordHistory{
		ID:           uuid.New(),
		UserID:       userID,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	m.entries[userID] = append([]models.PasswordHistory{entry}, m.entries[userID]...)
	return nil
}

func (m *memHistoryRepo) GetRecent(_ context.Context, userID uuid.UUID, limit int) ([]models.PasswordHistory, error) {
	entries := m.entries[userID]
	if len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]models.PasswordHistory, len(entries))
	copy(out, entries)
	return out, nil
}

func (m *memHistoryRepo) Prune(_ context.Context, userID uuid.UUID, keep int) error {
	if len(m.entries[userID]) > keep {
		m.entries[userID] = m.entries[userID][:keep]
	}
	return nil
}

func newTestEngine(t *testing.T) (*Engine, *memUserRepo, *memHistoryRepo, *models.User) {
	t.Helper()

	hasher := auth.NewBcryptHasher(4)
	hash, err := hasher.Hash("Curr3nt!pw")
	require.NoError(t, err)

	user := &models.User{ID: uuid.New(), Email: "u@x.com", Username: "u", Password: hash}
	users := &memUserRepo{users: map[uuid.UUID]*models.User{user.ID: user}}
	history := &memHistoryRepo{entries: make(map[uuid.UUID][]models.PasswordHistory)}

	return NewEngine(users, history, hasher, 5), users, history, user
}

func TestEngineRejectsCurrentPassword(t *testing.T) {
	engine, _, _, user := newTestEngine(t)

	err := engine.Validate(context.Background(), user.ID, "Curr3nt!pw")
	pe, ok := IsPolicyError(err)
	require.True(t, ok)
	assert.Contains(t, pe.Violations, ViolationUnchanged)
}

func TestEngineRejectsHistoricalPasswords(t *testing.T) {
	engine, _, _, user := newTestEngine(t)

	passwords := []string{"Hist0ry!a", "Hist0ry!b", "Hist0ry!c", "Hist0ry!d", "Hist0ry!e"}
	for _, pw := range passwords {
		require.NoError(t, engine.ValidateAndCommit(context.Background(), user.ID, pw))
	}

	// Every one of the last five is rejected
	for _, pw := range passwords {
		err := engine.Validate(context.Background(), user.ID, pw)
		pe, ok := IsPolicyError(err)
		require.True(t, ok, "expected policy error for %q, got %v", pw, err)
		assert.Contains(t, pe.Violations, ViolationReused)
	}

	// A genuinely new strong password succeeds and evicts the oldest
	require.NoError(t, engine.ValidateAndCommit(context.Background(), user.ID, "Hist0ry!f"))
}

func TestEngineHistoryPrunedToDepth(t *testing.T) {
	engine, _, history, user := newTestEngine(t)

	for _, pw := range []string{"Hist0ry!a", "Hist0ry!b", "Hist0ry!c", "Hist0ry!d", "Hist0ry!e", "Hist0ry!f"} {
		require.NoError(t, engine.ValidateAndCommit(context.Background(), user.ID, pw))
	}

	entries, err := history.GetRecent(context.Background(), user.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 5, "history is capped at the configured depth")
}

func TestEngineCommitUpdatesUser(t *testing.T) {
	engine, users, _, user := newTestEngine(t)

	require.NoError(t, engine.ValidateAndCommit(context.Background(), user.ID, "Br4nd!new"))

	updated, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	hasher := auth.NewBcryptHasher(4)
	require.NoError(t, hasher.Compare(updated.Password, "Br4nd!new"))
}

func TestEngineReportsStrengthAndReuseTogether(t *testing.T) {
	engine, _, _, user := newTestEngine(t)

	// "Curr3nt!pw" is the current password; lowercase-only variant is
	// both weak and distinct, so only strength rules fire
	err := engine.Validate(context.Background(), user.ID, "weak")
	pe, ok := IsPolicyError(err)
	require.True(t, ok)
	assert.Contains(t, pe.Violations, ViolationTooShort)
	assert.Contains(t, pe.Violations, ViolationNoUpper)
}
