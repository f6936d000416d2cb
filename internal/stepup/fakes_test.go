package stepup

import (
	"context"
	"sync"
	"teamplan/internal/models"
	"teamplan/internal/repository"
	"time"

	"github.com/google/uuid"
)

// In-memory store fakes for the service tests. The token fake performs
// its claim under a mutex, mirroring the conditional-update atomicity
// of the Postgres implementation.

type fakeUserRepo struct {
	repository.BaseRepository
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrEmailExists
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Password = hash
	return nil
}

func (f *fakeUserRepo) VerifyEmail(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.EmailVerified = true
	return nil
}

type challengeKey struct {
	subject string
	opType  models.OperationType
}

type fakeChallengeRepo struct {
	repository.BaseRepository
	mu         sync.Mutex
	challenges map[challengeKey]*models.VerificationChallenge
}

func newFakeChallengeRepo() *fakeChallengeRepo {
	return &fakeChallengeRepo{challenges: make(map[challengeKey]*models.VerificationChallenge)}
}

func (f *fakeChallengeRepo) Create(_ context.Context, c *models.VerificationChallenge) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	f.challenges[challengeKey{c.Subject, c.OperationType}] = c
	return nil
}

func (f *fakeChallengeRepo) GetActive(_ context.Context, subject string, opType models.OperationType) (*models.VerificationChallenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.challenges[challengeKey{subject, opType}]
	if !ok {
		return nil, repository.ErrChallengeNotFound
	}
	if c.Expired(time.Now()) {
		return nil, repository.ErrChallengeExpired
	}
	clone := *c
	return &clone, nil
}

func (f *fakeChallengeRepo) IncrementAttempts(_ context.Context, id uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.challenges {
		if c.ID == id {
			c.AttemptCount++
			return c.AttemptCount, nil
		}
	}
	return 0, repository.ErrChallengeNotFound
}

func (f *fakeChallengeRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, c := range f.challenges {
		if c.ID == id {
			delete(f.challenges, k)
			return nil
		}
	}
	return repository.ErrChallengeNotFound
}

func (f *fakeChallengeRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for k, c := range f.challenges {
		if c.Expired(now) {
			delete(f.challenges, k)
			n++
		}
	}
	return n, nil
}

type fakeTokenRepo struct {
	repository.BaseRepository
	mu     sync.Mutex
	tokens map[uuid.UUID]*models.OperationToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[uuid.UUID]*models.OperationToken)}
}

func (f *fakeTokenRepo) Create(_ context.Context, t *models.OperationToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now()
	f.tokens[t.ID] = t
	return nil
}

func (f *fakeTokenRepo) Claim(_ context.Context, id uuid.UUID) (*models.OperationToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[id]
	if !ok {
		return nil, repository.ErrTokenNotFound
	}
	if t.ConsumedAt != nil {
		return nil, repository.ErrTokenConsumed
	}
	now := time.Now()
	t.ConsumedAt = &now
	if t.Expired(now) {
		return nil, repository.ErrTokenExpired
	}
	clone := *t
	return &clone, nil
}

func (f *fakeTokenRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, t := range f.tokens {
		if t.Expired(now) {
			delete(f.tokens, id)
			n++
		}
	}
	return n, nil
}

type fakeHistoryRepo struct {
	repository.BaseRepository
	mu      sync.Mutex
	entries map[uuid.UUID][]models.PasswordHistory
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{entries: make(map[uuid.UUID][]models.PasswordHistory)}
}

func (f *fakeHistoryRepo) Add(_ context.Context, userID uuid.UUID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry := models.PasswordHistory{
		ID:           uuid.New(),
		UserID:       userID,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	// Newest first
	f.entries[userID] = append([]models.PasswordHistory{entry}, f.entries[userID]...)
	return nil
}

func (f *fakeHistoryRepo) GetRecent(_ context.Context, userID uuid.UUID, limit int) ([]models.PasswordHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := f.entries[userID]
	if len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]models.PasswordHistory, len(entries))
	copy(out, entries)
	return out, nil
}

func (f *fakeHistoryRepo) Prune(_ context.Context, userID uuid.UUID, keep int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.entries[userID]) > keep {
		f.entries[userID] = f.entries[userID][:keep]
	}
	return nil
}

type fakeLinkRepo struct {
	repository.BaseRepository
	mu    sync.Mutex
	links map[uuid.UUID]map[string]*models.OAuthLink
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{links: make(map[uuid.UUID]map[string]*models.OAuthLink)}
}

func (f *fakeLinkRepo) Create(_ context.Context, link *models.OAuthLink) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.links[link.UserID] == nil {
		f.links[link.UserID] = make(map[string]*models.OAuthLink)
	}
	if _, exists := f.links[link.UserID][link.Provider]; exists {
		return repository.ErrLinkExists
	}
	link.ID = uuid.New()
	link.LinkedAt = time.Now()
	f.links[link.UserID][link.Provider] = link
	return nil
}

func (f *fakeLinkRepo) GetByUserAndProvider(_ context.Context, userID uuid.UUID, provider string) (*models.OAuthLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	link, ok := f.links[userID][provider]
	if !ok {
		return nil, repository.ErrLinkNotFound
	}
	return link, nil
}

func (f *fakeLinkRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]models.OAuthLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.OAuthLink
	for _, link := range f.links[userID] {
		out = append(out, *link)
	}
	return out, nil
}

func (f *fakeLinkRepo) Delete(_ context.Context, userID uuid.UUID, provider string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.links[userID][provider]; !ok {
		return repository.ErrLinkNotFound
	}
	delete(f.links[userID], provider)
	return nil
}

type fakeAuditRepo struct {
	repository.BaseRepository
	mu      sync.Mutex
	entries []models.CreateAuditLogRequest
}

func (f *fakeAuditRepo) Create(_ context.Context, log *models.CreateAuditLogRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *log)
	return nil
}

func (f *fakeAuditRepo) GetByUserID(_ context.Context, _ uuid.UUID, _ repository.AuditLogFilter) ([]models.AuditLog, error) {
	return nil, nil
}

func (f *fakeAuditRepo) CleanupOld(_ context.Context, _ time.Duration) error { return nil }

func (f *fakeAuditRepo) actions() []models.AuditAction {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.AuditAction, len(f.entries))
	for i, e := range f.entries {
		out[i] = e.Action
	}
	return out
}

type fakeBucketRepo struct {
	repository.BaseRepository
	mu      sync.Mutex
	buckets map[string]int
}

func newFakeBucketRepo() *fakeBucketRepo {
	return &fakeBucketRepo{buckets: make(map[string]int)}
}

func (f *fakeBucketRepo) Increment(_ context.Context, class, key string, windowStart time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := class + "/" + key + "/" + windowStart.Format(time.RFC3339)
	f.buckets[k]++
	return f.buckets[k], nil
}

func (f *fakeBucketRepo) DeleteBefore(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type sentMail struct {
	To       string
	Username string
	OpType   models.OperationType
	Code     string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
}

func (f *fakeNotifier) SendOperationCode(to, username string, opType models.OperationType, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{To: to, Username: username, OpType: opType, Code: code})
	return nil
}

func (f *fakeNotifier) SendUsernameRecovery(to, username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{To: to, Username: username})
	return nil
}

func (f *fakeNotifier) lastCode() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1].Code
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}
