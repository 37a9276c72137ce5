package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/Hameed1117/User-Management/internal/store"
	"github.com/Hameed1117/User-Management/types"
)

// fakeUserRepo is an in-memory UserRepository with the same atomicity
// guarantees the Postgres implementation provides: every lifecycle
// transition happens under one lock, so concurrent callers serialize.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*types.User

	createErr error
	updateErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*types.User{}}
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return *u, nil
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return *u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) GetByNickname(ctx context.Context, nickname string) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Nickname == nickname {
			return *u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return types.User{}, f.createErr
	}
	for _, u := range f.users {
		if u.Email == user.Email || u.Nickname == user.Nickname {
			return types.User{}, store.ErrConflict
		}
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := user
	f.users[user.ID] = &stored
	return user, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user types.User) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return types.User{}, f.updateErr
	}
	current, ok := f.users[user.ID]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	for id, u := range f.users {
		if id == user.ID {
			continue
		}
		if u.Email == user.Email || u.Nickname == user.Nickname {
			return types.User{}, store.ErrConflict
		}
	}
	user.CreatedAt = current.CreatedAt
	user.UpdatedAt = time.Now()
	stored := user
	f.users[user.ID] = &stored
	return user, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context, offset, limit int) ([]types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := []types.User{}
	i := 0
	for _, u := range f.users {
		if i >= offset && len(users) < limit {
			users = append(users, *u)
		}
		i++
	}
	return users, nil
}

func (f *fakeUserRepo) Count(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users), nil
}

func (f *fakeUserRepo) SetVerificationToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.VerificationTokenHash = tokenHash
	expiry := expiresAt
	u.VerificationExpiresAt = &expiry
	return nil
}

func (f *fakeUserRepo) ConsumeVerificationToken(ctx context.Context, id, tokenHash string, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return false, nil
	}
	if u.EmailVerified || u.VerificationTokenHash == "" || u.VerificationTokenHash != tokenHash {
		return false, nil
	}
	if u.VerificationExpiresAt == nil || !u.VerificationExpiresAt.After(now) {
		return false, nil
	}
	u.EmailVerified = true
	u.VerificationTokenHash = ""
	u.VerificationExpiresAt = nil
	return true, nil
}

func (f *fakeUserRepo) RecordLoginFailure(ctx context.Context, id string, maxAttempts int) (int, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return 0, false, store.ErrNotFound
	}
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= maxAttempts {
		u.IsLocked = true
	}
	return u.FailedLoginAttempts, u.IsLocked, nil
}

func (f *fakeUserRepo) RecordLoginSuccess(ctx context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.FailedLoginAttempts = 0
	stamp := at
	u.LastLoginAt = &stamp
	return nil
}

func (f *fakeUserRepo) SetLocked(ctx context.Context, id string, locked bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.IsLocked = locked
	if !locked {
		u.FailedLoginAttempts = 0
	}
	return nil
}

func (f *fakeUserRepo) SetProfilePictureURL(ctx context.Context, id, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.ProfilePictureURL = url
	return nil
}

// fakeNotifier records verification hand-offs.
type fakeNotifier struct {
	mu     sync.Mutex
	sent   []sentVerification
	sendErr error
}

type sentVerification struct {
	user  types.User
	token string
}

func (f *fakeNotifier) SendVerification(ctx context.Context, user types.User, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentVerification{user: user, token: token})
	return nil
}

func (f *fakeNotifier) lastToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1].token
}

func (f *fakeNotifier) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// fakeObjectStorage captures uploads in memory.
type fakeObjectStorage struct {
	mu     sync.Mutex
	puts   map[string][]byte
	putErr error
}

func newFakeObjectStorage() *fakeObjectStorage {
	return &fakeObjectStorage{puts: map[string][]byte{}}
}

func (f *fakeObjectStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.puts[key] = data
	return nil
}

func (f *fakeObjectStorage) PublicURL(key string) string {
	return "http://localhost:9000/profile-pictures/" + key
}

var errBoom = errors.New("boom")
