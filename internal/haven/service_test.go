// AngelaMos | 2026
// service_test.go

package haven

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/safehaven/internal/config"
	"github.com/carterperez-dev/safehaven/internal/core"
	"github.com/carterperez-dev/safehaven/internal/middleware"
)

type memRepo struct {
	havens map[int64]*Haven
	nextID int64
	pro    map[int64]bool
}

func newMemRepo() *memRepo {
	return &memRepo{havens: map[int64]*Haven{}, nextID: 1, pro: map[int64]bool{}}
}

func (m *memRepo) Create(_ context.Context, h *Haven) error {
	h.ID = m.nextID
	m.nextID++
	cp := *h
	m.havens[h.ID] = &cp
	return nil
}

func (m *memRepo) CreateWithinQuota(ctx context.Context, h *Haven, limit int) (Quota, error) {
	n, _ := m.CountByOwner(ctx, h.UserID)
	q := Quota{IsPro: m.pro[h.UserID], Current: n, Limit: limit}
	if !q.CanCreate() {
		return q, fmt.Errorf("create haven: %w", core.ErrQuotaExceeded)
	}
	return q, m.Create(ctx, h)
}

func (m *memRepo) CountByOwner(_ context.Context, userID int64) (int, error) {
	n := 0
	for _, h := range m.havens {
		if h.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *memRepo) GetByID(_ context.Context, id int64) (*Haven, error) {
	if h, ok := m.havens[id]; ok {
		cp := *h
		return &cp, nil
	}
	return nil, fmt.Errorf("get haven: %w", core.ErrNotFound)
}

func (m *memRepo) ListByOwner(_ context.Context, userID int64) ([]Haven, error) {
	out := []Haven{}
	for _, h := range m.havens {
		if h.UserID == userID {
			out = append(out, *h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memRepo) Update(_ context.Context, h *Haven) error {
	cp := *h
	m.havens[h.ID] = &cp
	return nil
}

func (m *memRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.havens[id]; !ok {
		return fmt.Errorf("delete haven: %w", core.ErrNotFound)
	}
	delete(m.havens, id)
	return nil
}

type accounts map[int64]bool

func (a accounts) IsPro(_ context.Context, id int64) (bool, error) {
	pro, ok := a[id]
	if !ok {
		return false, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	return pro, nil
}

type fixture struct {
	repo     *memRepo
	accounts accounts
	router   http.Handler
	caller   *int64
}

func newFixture(t *testing.T, strict bool) *fixture {
	t.Helper()
	repo := newMemRepo()
	repo.pro[2] = true
	accts := accounts{1: false, 2: true, 3: false}
	svc := NewService(repo, accts, config.HavenConfig{
		FreeLimit:   3,
		StrictQuota: strict,
	})

	caller := int64(1)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := middleware.WithUserID(req.Context(), caller)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Route("/havens", NewHandler(svc).RegisterRoutes)

	return &fixture{repo: repo, accounts: accts, router: r, caller: &caller}
}

func (f *fixture) as(id int64) *fixture {
	*f.caller = id
	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

const havenBody = `{"name":"home","latitude":0,"longitude":-3.7,"radius":150}`

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestCreate_FreeLimit(t *testing.T) {
	for _, strict := range []bool{false, true} {
		t.Run(fmt.Sprintf("strict=%v", strict), func(t *testing.T) {
			f := newFixture(t, strict)

			for i, want := range []float64{2, 1, 0} {
				rec := f.do(http.MethodPost, "/havens", havenBody)
				require.Equal(t, http.StatusCreated, rec.Code, "create %d", i+1)

				resp := decode[map[string]any](t, rec)
				assert.Equal(t, "haven created", resp["message"])
				assert.Equal(t, want, resp["remaining_havens"])
			}

			rec := f.do(http.MethodPost, "/havens", havenBody)
			assert.Equal(t, http.StatusForbidden, rec.Code)
			resp := decode[QuotaExceededResponse](t, rec)
			assert.Equal(t, 3, resp.MaxHavens)
			assert.Equal(t, 0, resp.RemainingHavens)
			assert.NotEmpty(t, resp.Error)

			n, _ := f.repo.CountByOwner(context.Background(), 1)
			assert.Equal(t, 3, n)
		})
	}
}

func TestCreate_ProIsUnlimited(t *testing.T) {
	f := newFixture(t, false).as(2)

	for range 5 {
		rec := f.do(http.MethodPost, "/havens", havenBody)
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "unlimited", decode[map[string]any](t, rec)["remaining_havens"])
	}

	rec := f.do(http.MethodGet, "/havens/can-create", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"can_create":true,"is_pro":true,"current_havens":5,"max_havens":"unlimited","remaining_havens":"unlimited"}`,
		rec.Body.String(),
	)
}

func TestCanCreate_Free(t *testing.T) {
	f := newFixture(t, false)
	f.do(http.MethodPost, "/havens", havenBody)

	rec := f.do(http.MethodGet, "/havens/can-create", "")
	assert.JSONEq(t,
		`{"can_create":true,"is_pro":false,"current_havens":1,"max_havens":3,"remaining_havens":2}`,
		rec.Body.String(),
	)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t, false)

	for _, body := range []string{
		`{"latitude":1,"longitude":1,"radius":1}`,
		`{"name":"a","longitude":1,"radius":1}`,
		`{"name":"a","latitude":1,"radius":1}`,
		`{"name":"a","latitude":1,"longitude":1}`,
	} {
		rec := f.do(http.MethodPost, "/havens", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}

	rec := f.do(http.MethodPost, "/havens", `{"name":"zero","latitude":0,"longitude":0,"radius":0}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestReadUpdateDelete(t *testing.T) {
	f := newFixture(t, false)
	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/havens", havenBody).Code)

	rec := f.as(3).do(http.MethodGet, "/havens/1", "")
	assert.Equal(t, http.StatusOK, rec.Code, "reads are not owner restricted")

	rec = f.do(http.MethodPut, "/havens/1", `{"name":"mine now"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(http.MethodDelete, "/havens/1", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(http.MethodGet, "/havens", "")
	assert.JSONEq(t, `[]`, rec.Body.String())

	f.as(1)
	rec = f.do(http.MethodPut, "/havens/1", `{"radius":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[HavenMessageResponse](t, rec)
	assert.Equal(t, "haven updated", updated.Message)
	assert.Zero(t, updated.Haven.Radius)
	assert.Equal(t, "home", updated.Haven.Name)

	rec = f.do(http.MethodGet, "/havens", "")
	list := decode[[]HavenResponse](t, rec)
	require.Len(t, list, 1)

	rec = f.do(http.MethodDelete, "/havens/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"haven deleted"}`, rec.Body.String())

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		rec = f.do(method, "/havens/1", `{}`)
		assert.Equal(t, http.StatusNotFound, rec.Code, method)
	}

	rec = f.do(http.MethodGet, "/havens/x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdate_ChecksBodyLast(t *testing.T) {
	f := newFixture(t, false)
	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/havens", havenBody).Code)

	rec := f.do(http.MethodPut, "/havens/99", `{"name":""}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"haven not found"}`, rec.Body.String())

	rec = f.as(3).do(http.MethodPut, "/havens/1", `{"name":""}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.as(1).do(http.MethodPut, "/havens/1", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "home", f.repo.havens[1].Name)
}

func TestCreate_UpgradeLiftsFreeLimit(t *testing.T) {
	f := newFixture(t, false)

	for i := range 3 {
		require.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/havens", havenBody).Code, "create %d", i+1)
	}
	require.Equal(t, http.StatusForbidden, f.do(http.MethodPost, "/havens", havenBody).Code)

	f.accounts[1] = true

	rec := f.do(http.MethodPost, "/havens", havenBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "unlimited", decode[map[string]any](t, rec)["remaining_havens"])

	n, _ := f.repo.CountByOwner(context.Background(), 1)
	assert.Equal(t, 4, n)
}
