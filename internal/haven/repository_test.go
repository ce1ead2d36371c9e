// AngelaMos | 2026
// repository_test.go

package haven

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/safehaven/internal/core"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })
	return NewRepository(sqlx.NewDb(raw, "sqlmock")), mock
}

func TestCreateWithinQuota_Inserts(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT pro FROM users WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"pro"}).AddRow(false))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM havens")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("INSERT INTO havens").
		WithArgs(int64(1), "home", 1.5, 2.5, 100.0).
		WillReturnRows(sqlmock.NewRows([]string{"haven_id"}).AddRow(9))
	mock.ExpectCommit()

	h := &Haven{UserID: 1, Name: "home", Latitude: 1.5, Longitude: 2.5, Radius: 100}
	q, err := repo.CreateWithinQuota(context.Background(), h, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(9), h.ID)
	assert.Equal(t, Quota{IsPro: false, Current: 2, Limit: 3}, q)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithinQuota_RollsBackAtLimit(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"pro"}).AddRow(false))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM havens")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectRollback()

	_, err := repo.CreateWithinQuota(context.Background(), &Haven{UserID: 1}, 3)
	assert.ErrorIs(t, err, core.ErrQuotaExceeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithinQuota_UnknownOwner(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"pro"}))
	mock.ExpectRollback()

	_, err := repo.CreateWithinQuota(context.Background(), &Haven{UserID: 77}, 3)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestListByOwner_OrderedAndNeverNil(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1 ORDER BY haven_id")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{
			"haven_id", "user_id", "name", "latitude", "longitude", "radius",
		}))

	havens, err := repo.ListByOwner(context.Background(), 4)
	require.NoError(t, err)
	assert.NotNil(t, havens)
	assert.Empty(t, havens)
}

func TestDelete_Missing(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM havens WHERE haven_id = $1")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 5), core.ErrNotFound)
}
