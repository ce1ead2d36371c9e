// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/safehaven/internal/core"
)

type fakeUsers struct {
	byUsername map[string]*UserInfo
	byMail     map[string]*UserInfo
	nextID     int64
	rehashed   map[int64]string
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byUsername: map[string]*UserInfo{},
		byMail:     map[string]*UserInfo{},
		nextID:     1,
		rehashed:   map[int64]string{},
	}
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*UserInfo, error) {
	if u, ok := f.byUsername[username]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
}

func (f *fakeUsers) GetByMail(_ context.Context, mail string) (*UserInfo, error) {
	if u, ok := f.byMail[mail]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
}

func (f *fakeUsers) Create(_ context.Context, in NewUser) (*UserInfo, error) {
	if _, ok := f.byUsername[in.Username]; ok {
		return nil, core.ConflictError("username already exists")
	}
	if _, ok := f.byMail[in.Mail]; ok {
		return nil, core.ConflictError("mail already registered")
	}

	u := &UserInfo{
		PasswordHash: in.PasswordHash,
		Profile: UserResponse{
			ID:               f.nextID,
			Mail:             in.Mail,
			Username:         in.Username,
			ProfileImagePath: in.ProfileImagePath,
		},
	}
	f.nextID++
	f.byUsername[in.Username] = u
	f.byMail[in.Mail] = u
	return u, nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id int64, hash string) error {
	f.rehashed[id] = hash
	return nil
}

func newTestRouter(t *testing.T) (*chi.Mux, *fakeUsers, *TokenManager) {
	t.Helper()
	users := newFakeUsers()
	tokens := newTestManager(t, testJWTConfig())

	r := chi.NewRouter()
	NewHandler(NewService(tokens, users)).RegisterRoutes(r, nil)
	return r, users, tokens
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRegister(t *testing.T) {
	r, users, tokens := newTestRouter(t)

	rec := do(r, http.MethodPost, "/register",
		`{"username":"ana","mail":"a@x.io","password":"p1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "user registered", resp.Message)
	assert.Equal(t, "ana", resp.User.Username)
	assert.False(t, resp.User.Pro)
	assert.NotContains(t, rec.Body.String(), "password")

	claims, err := tokens.VerifyAccessToken(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	stored := users.byUsername["ana"].PasswordHash
	assert.True(t, strings.HasPrefix(stored, "$argon2id$"))
}

func TestRegister_Conflicts(t *testing.T) {
	r, _, _ := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/register",
		`{"username":"ana","mail":"a@x.io","password":"p1"}`).Code)

	rec := do(r, http.MethodPost, "/register",
		`{"username":"ana","mail":"b@x.io","password":"p"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"username already exists"}`, rec.Body.String())

	rec = do(r, http.MethodPost, "/register",
		`{"username":"bob","mail":"a@x.io","password":"p"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"mail already registered"}`, rec.Body.String())
}

func TestRegister_MissingFields(t *testing.T) {
	r, _, _ := newTestRouter(t)

	for _, body := range []string{
		`{"mail":"a@x.io","password":"p"}`,
		`{"username":"ana","password":"p"}`,
		`{"username":"ana","mail":"a@x.io"}`,
		`nope`,
	} {
		rec := do(r, http.MethodPost, "/register", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestLogin(t *testing.T) {
	r, _, _ := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/register",
		`{"username":"ana","mail":"a@x.io","password":"p1"}`).Code)

	rec := do(r, http.MethodPost, "/login", `{"username":"ana","password":"p1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "login successful", resp.Message)
	assert.NotEmpty(t, resp.AccessToken)

	rec = do(r, http.MethodPost, "/login", `{"mail":"a@x.io","password":"p1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(r, http.MethodPost, "/login", `{"username":"ana","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"invalid credentials"}`, rec.Body.String())

	rec = do(r, http.MethodPost, "/login", `{"username":"ghost","password":"p1"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"invalid credentials"}`, rec.Body.String())

	rec = do(r, http.MethodPost, "/login", `{"password":"p1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(r, http.MethodPost, "/login", `{"username":"ana"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_UsernameWinsOverMail(t *testing.T) {
	r, _, _ := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/register",
		`{"username":"ana","mail":"a@x.io","password":"p1"}`).Code)

	rec := do(r, http.MethodPost, "/login",
		`{"username":"ghost","mail":"a@x.io","password":"p1"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
