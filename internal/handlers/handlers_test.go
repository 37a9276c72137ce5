package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Hameed1117/User-Management/internal/auth"
	"github.com/Hameed1117/User-Management/internal/services"
	"github.com/Hameed1117/User-Management/internal/store"
	"github.com/Hameed1117/User-Management/types"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

// memRepo is a mutex-guarded in-memory user store used to exercise the
// HTTP surface without a database.
type memRepo struct {
	mu    sync.Mutex
	users map[string]*types.User
	seq   int
}

func newMemRepo() *memRepo {
	return &memRepo{users: map[string]*types.User{}}
}

func (m *memRepo) GetByID(ctx context.Context, id string) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return *u, nil
	}
	return types.User{}, store.ErrNotFound
}

func (m *memRepo) GetByEmail(ctx context.Context, email string) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return *u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (m *memRepo) GetByNickname(ctx context.Context, nickname string) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Nickname == nickname {
			return *u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (m *memRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email || u.Nickname == user.Nickname {
			return types.User{}, store.ErrConflict
		}
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	m.seq++
	clone := user
	m.users[user.ID] = &clone
	return user, nil
}

func (m *memRepo) Update(ctx context.Context, user types.User) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.users[user.ID]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	for id, u := range m.users {
		if id != user.ID && (u.Email == user.Email || u.Nickname == user.Nickname) {
			return types.User{}, store.ErrConflict
		}
	}
	existing.Nickname = user.Nickname
	existing.Email = user.Email
	existing.Role = user.Role
	existing.PasswordHash = user.PasswordHash
	existing.FirstName = user.FirstName
	existing.LastName = user.LastName
	existing.Bio = user.Bio
	existing.GithubProfileURL = user.GithubProfileURL
	existing.LinkedinProfileURL = user.LinkedinProfileURL
	existing.ProfilePictureURL = user.ProfilePictureURL
	existing.UpdatedAt = time.Now()
	return *existing, nil
}

func (m *memRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memRepo) List(ctx context.Context, offset, limit int) ([]types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]types.User, 0, len(m.users))
	for _, u := range m.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if offset >= len(all) {
		return []types.User{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *memRepo) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), nil
}

func (m *memRepo) SetVerificationToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.VerificationTokenHash = tokenHash
	u.VerificationExpiresAt = &expiresAt
	return nil
}

func (m *memRepo) ConsumeVerificationToken(ctx context.Context, id, tokenHash string, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.EmailVerified || u.VerificationTokenHash != tokenHash {
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

func (m *memRepo) RecordLoginFailure(ctx context.Context, id string, maxAttempts int) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return 0, false, store.ErrNotFound
	}
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= maxAttempts {
		u.IsLocked = true
	}
	return u.FailedLoginAttempts, u.IsLocked, nil
}

func (m *memRepo) RecordLoginSuccess(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.FailedLoginAttempts = 0
	u.LastLoginAt = &at
	return nil
}

func (m *memRepo) SetLocked(ctx context.Context, id string, locked bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.IsLocked = locked
	if !locked {
		u.FailedLoginAttempts = 0
	}
	return nil
}

func (m *memRepo) SetProfilePictureURL(ctx context.Context, id, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.ProfilePictureURL = url
	return nil
}

type memNotifier struct {
	mu     sync.Mutex
	tokens []string
}

func (n *memNotifier) SendVerification(ctx context.Context, user types.User, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.tokens = append(n.tokens, token)
	return nil
}

func (n *memNotifier) lastToken() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.tokens) == 0 {
		return ""
	}
	return n.tokens[len(n.tokens)-1]
}

type memStorage struct {
	mu   sync.Mutex
	puts map[string][]byte
}

func (s *memStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if s.puts == nil {
		s.puts = map[string][]byte{}
	}
	s.puts[key] = data
	return nil
}

func (s *memStorage) PublicURL(key string) string {
	return "http://localhost:9000/profile-pictures/" + key
}

type testEnv struct {
	router   *chi.Mux
	repo     *memRepo
	notifier *memNotifier
	tokens   *auth.TokenIssuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := newMemRepo()
	notifier := &memNotifier{}
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	userService := services.NewUserService(repo, tokens, notifier, services.Policy{
		MaxLoginAttempts: 5,
		VerificationTTL:  24 * time.Hour,
	}, logger)
	profileService := services.NewProfileService(repo, &memStorage{})

	r := chi.NewRouter()
	r.Get("/healthz", Healthz)
	r.Group(func(r chi.Router) {
		AuthRouter(r, userService, tokens)
	})
	r.Route("/users", func(r chi.Router) {
		UserRouter(r, userService, RequireAuth(tokens))
	})
	r.Route("/profile", func(r chi.Router) {
		ProfileRouter(r, profileService, RequireAuth(tokens))
	})

	return &testEnv{router: r, repo: repo, notifier: notifier, tokens: tokens}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

// registerAndVerify drives the public endpoints to produce a verified
// account and returns its id.
func (e *testEnv) registerAndVerify(t *testing.T, nickname, email, password string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/register", "", map[string]string{
		"nickname": nickname,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	user := decode[types.User](t, rec)

	rec = e.do(t, http.MethodGet, "/verify-email/"+user.ID+"/"+e.notifier.lastToken(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return user.ID
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[LoginResponse](t, rec).Token
}

// seedAdmin plants a verified admin directly in the store and returns a
// token for it.
func (e *testEnv) seedAdmin(t *testing.T) string {
	t.Helper()
	hash, err := auth.HashPassword("AdminPassword$1234")
	require.NoError(t, err)
	_, err = e.repo.Create(context.Background(), types.User{
		ID:            "00000000-0000-0000-0000-0000000000aa",
		Nickname:      "root",
		Email:         "root@x.com",
		Role:          types.RoleAdmin,
		PasswordHash:  hash,
		EmailVerified: true,
	})
	require.NoError(t, err)
	token, err := e.tokens.Issue("00000000-0000-0000-0000-0000000000aa", types.RoleAdmin)
	require.NoError(t, err)
	return token
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/register", "", map[string]string{
		"nickname": "alice",
		"email":    "a@x.com",
		"password": "MySuperPassword$1234",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	user := decode[types.User](t, rec)
	require.Equal(t, "alice", user.Nickname)
	require.False(t, user.EmailVerified)
	// Sensitive fields never serialize.
	require.NotContains(t, rec.Body.String(), "password_hash")
	require.NotContains(t, rec.Body.String(), "verification_token_hash")
}

func TestRegisterEndpoint_Validation(t *testing.T) {
	env := newTestEnv(t)

	cases := []map[string]string{
		{"nickname": "al", "email": "a@x.com", "password": "MySuperPassword$1234"},
		{"nickname": "alice", "email": "not-an-email", "password": "MySuperPassword$1234"},
		{"nickname": "alice", "email": "a@x.com", "password": "short"},
		{"nickname": "alice", "email": "a@x.com"},
	}
	for _, body := range cases {
		rec := env.do(t, http.MethodPost, "/register", "", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	}
}

func TestRegisterEndpoint_Duplicate(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndVerify(t, "alice", "a@x.com", "MySuperPassword$1234")

	rec := env.do(t, http.MethodPost, "/register", "", map[string]string{
		"nickname": "alice2",
		"email":    "a@x.com",
		"password": "MySuperPassword$1234",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "account already exists", decode[ErrorResponse](t, rec).Error)
}

func TestVerifyEmailEndpoint_UniformFailureBody(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/register", "", map[string]string{
		"nickname": "alice",
		"email":    "a@x.com",
		"password": "MySuperPassword$1234",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	user := decode[types.User](t, rec)
	token := env.notifier.lastToken()

	// Consume the token once, then collect the failure responses.
	rec = env.do(t, http.MethodGet, "/verify-email/"+user.ID+"/"+token, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Already consumed, wrong token, unknown account.
	paths := []string{
		"/verify-email/" + user.ID + "/" + token,
		"/verify-email/" + user.ID + "/deadbeefdeadbeef",
		"/verify-email/unknown-user-id/" + token,
	}
	var bodies []string
	for _, p := range paths {
		rec := env.do(t, http.MethodGet, p, "", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code, p)
		bodies = append(bodies, rec.Body.String())
	}
	require.Equal(t, bodies[0], bodies[1])
	require.Equal(t, bodies[1], bodies[2])
}

func TestLoginEndpoint(t *testing.T) {
	env := newTestEnv(t)
	userID := env.registerAndVerify(t, "alice", "a@x.com", "MySuperPassword$1234")

	token := env.login(t, "a@x.com", "MySuperPassword$1234")

	rec := env.do(t, http.MethodGet, "/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, userID, decode[types.User](t, rec).ID)
}

func TestLoginEndpoint_BeforeVerification(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/register", "", map[string]string{
		"nickname": "alice",
		"email":    "a@x.com",
		"password": "MySuperPassword$1234",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "MySuperPassword$1234",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "email not verified", decode[ErrorResponse](t, rec).Error)
}

func TestLoginEndpoint_UniformCredentialFailure(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndVerify(t, "alice", "a@x.com", "MySuperPassword$1234")

	wrongPassword := env.do(t, http.MethodPost, "/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "WrongPassword!",
	})
	unknownEmail := env.do(t, http.MethodPost, "/login", "", map[string]string{
		"email":    "nobody@x.com",
		"password": "MySuperPassword$1234",
	})

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	require.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestLoginEndpoint_Lockout(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndVerify(t, "alice", "a@x.com", "MySuperPassword$1234")

	for i := 0; i < 5; i++ {
		rec := env.do(t, http.MethodPost, "/login", "", map[string]string{
			"email":    "a@x.com",
			"password": "WrongPassword!",
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec := env.do(t, http.MethodPost, "/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "MySuperPassword$1234",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "account is locked", decode[ErrorResponse](t, rec).Error)
}

func TestResendVerificationEndpoint(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/register", "", map[string]string{
		"nickname": "alice",
		"email":    "a@x.com",
		"password": "MySuperPassword$1234",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	user := decode[types.User](t, rec)
	stale := env.notifier.lastToken()

	rec = env.do(t, http.MethodPost, "/resend-verification", "", map[string]string{"email": "a@x.com"})
	require.Equal(t, http.StatusAccepted, rec.Code)
	fresh := env.notifier.lastToken()
	require.NotEqual(t, stale, fresh)

	// Unknown email gets the same acceptance, leaking nothing.
	rec = env.do(t, http.MethodPost, "/resend-verification", "", map[string]string{"email": "nobody@x.com"})
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = env.do(t, http.MethodGet, "/verify-email/"+user.ID+"/"+fresh, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMe_Unauthorized(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/me", "not-a-jwt", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	expired, err := env.tokens.IssueWithTTL("uid-1", types.RoleAuthenticated, -time.Minute)
	require.NoError(t, err)
	rec = env.do(t, http.MethodGet, "/me", expired, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserEndpoints_ForbiddenForNonAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndVerify(t, "alice", "a@x.com", "MySuperPassword$1234")
	token := env.login(t, "a@x.com", "MySuperPassword$1234")

	rec := env.do(t, http.MethodGet, "/users/", token, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/users/", token, map[string]string{
		"nickname": "mallory",
		"email":    "m@x.com",
		"password": "MySuperPassword$1234",
		"role":     "ADMIN",
	})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUserEndpoints_AdminCRUD(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedAdmin(t)

	// Create with an explicit role.
	rec := env.do(t, http.MethodPost, "/users/", admin, map[string]string{
		"nickname": "bob",
		"email":    "b@x.com",
		"password": "MySuperPassword$1234",
		"role":     "manager",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[types.User](t, rec)
	require.Equal(t, types.RoleManager, created.Role)

	// Invalid role is rejected.
	rec = env.do(t, http.MethodPost, "/users/", admin, map[string]string{
		"nickname": "carol",
		"email":    "c@x.com",
		"password": "MySuperPassword$1234",
		"role":     "SUPERUSER",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// List.
	rec = env.do(t, http.MethodGet, "/users/?page=1&limit=10", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[UserListResponse](t, rec)
	require.Equal(t, 2, list.Total)
	require.Len(t, list.Items, 2)

	// Get.
	rec = env.do(t, http.MethodGet, "/users/"+created.ID+"/", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Update role.
	rec = env.do(t, http.MethodPut, "/users/"+created.ID+"/", admin, map[string]string{"role": "admin"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, types.RoleAdmin, decode[types.User](t, rec).Role)

	// Lock, then unlock.
	rec = env.do(t, http.MethodPut, "/users/"+created.ID+"/lock", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	locked, err := env.repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.True(t, locked.IsLocked)

	rec = env.do(t, http.MethodDelete, "/users/"+created.ID+"/lock", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Delete.
	rec = env.do(t, http.MethodDelete, "/users/"+created.ID+"/", admin, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/users/"+created.ID+"/", admin, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "user not found", decode[ErrorResponse](t, rec).Error)
}

func TestProfileEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndVerify(t, "alice", "a@x.com", "MySuperPassword$1234")
	token := env.login(t, "a@x.com", "MySuperPassword$1234")

	rec := env.do(t, http.MethodGet, "/profile/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "alice", decode[types.User](t, rec).Nickname)

	rec = env.do(t, http.MethodPut, "/profile/", token, map[string]string{
		"first_name": "Alice",
		"bio":        "Hello.",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[types.User](t, rec)
	require.Equal(t, "Alice", updated.FirstName)
	require.Equal(t, "Hello.", updated.Bio)
	// Role is not reachable through the profile surface.
	require.Equal(t, types.RoleAuthenticated, updated.Role)
}

func TestUploadPictureEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndVerify(t, "alice", "a@x.com", "MySuperPassword$1234")
	token := env.login(t, "a@x.com", "MySuperPassword$1234")

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", "avatar.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/profile/picture", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[map[string]string](t, rec)
	require.True(t, strings.HasPrefix(resp["file_url"], "http://localhost:9000/profile-pictures/"))

	rec2 := env.do(t, http.MethodGet, "/profile/", token, nil)
	require.Equal(t, http.StatusOK, rec2.Code)
	require.Equal(t, resp["file_url"], decode[types.User](t, rec2).ProfilePictureURL)
}

func TestUploadPictureEndpoint_MissingFile(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndVerify(t, "alice", "a@x.com", "MySuperPassword$1234")
	token := env.login(t, "a@x.com", "MySuperPassword$1234")

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("name", "not-a-file"))
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/profile/picture", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
