// AngelaMos | 2026
// post_test.go

package post

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/safehaven/internal/core"
	"github.com/carterperez-dev/safehaven/internal/haven"
	"github.com/carterperez-dev/safehaven/internal/middleware"
)

type guard map[int64]int64

func (g guard) Get(_ context.Context, id int64) (*haven.Haven, error) {
	owner, ok := g[id]
	if !ok {
		return nil, fmt.Errorf("get haven: %w", core.ErrNotFound)
	}
	return &haven.Haven{ID: id, UserID: owner}, nil
}

func (g guard) Owned(ctx context.Context, caller, id int64) (*haven.Haven, error) {
	h, err := g.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !h.OwnedBy(caller) {
		return nil, core.ErrForbidden
	}
	return h, nil
}

func mockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })
	return NewRepository(sqlx.NewDb(raw, "sqlmock")), mock
}

func router(svc *Service, caller int64) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUserID(req.Context(), caller)))
		})
	})
	r.Route("/havens", NewHandler(svc).RegisterRoutes)
	return r
}

func call(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestCreatePost(t *testing.T) {
	repo, mock := mockRepo(t)
	stamp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO haven_posts").
		WithArgs(int64(1), "hello").
		WillReturnRows(sqlmock.NewRows([]string{"post_id", "date"}).AddRow(5, stamp))

	h := router(NewService(repo, guard{1: 10}), 10)
	rec := call(h, http.MethodPost, "/havens/1/posts", `{"content":"hello"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp CreatePostResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "post created", resp.Message)
	assert.Equal(t, int64(5), resp.Post.ID)
	assert.True(t, stamp.Equal(resp.Post.Date))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePost_ErrorOrder(t *testing.T) {
	repo, mock := mockRepo(t)
	h := router(NewService(repo, guard{1: 10}), 20)

	rec := call(h, http.MethodPost, "/havens/2/posts", `{"content":""}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"haven not found"}`, rec.Body.String())

	rec = call(h, http.MethodPost, "/havens/1/posts", `{"content":""}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	owner := router(NewService(repo, guard{1: 10}), 10)
	rec = call(owner, http.MethodPost, "/havens/1/posts", `{"content":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"content is required"}`, rec.Body.String())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPosts(t *testing.T) {
	repo, mock := mockRepo(t)
	newer := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY date DESC, post_id DESC")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"post_id", "haven_id", "content", "date"}).
			AddRow(2, 1, "b", newer).
			AddRow(1, 1, "a", older))

	h := router(NewService(repo, guard{1: 10}), 99)

	rec := call(h, http.MethodGet, "/havens/1/posts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var posts []PostResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &posts))
	require.Len(t, posts, 2)
	assert.Equal(t, "b", posts[0].Content)

	rec = call(h, http.MethodGet, "/havens/3/posts", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
