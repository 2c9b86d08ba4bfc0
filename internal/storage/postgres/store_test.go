package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/seed-api/internal/rest"
)

type note struct {
	ID      string
	Body    string
	Created string
}

func (n *note) GetID() string   { return n.ID }
func (n *note) SetID(id string) { n.ID = id }

var notes = Table[*note]{
	Name:      "notes",
	Columns:   []string{"id", "body", "created"},
	Immutable: []string{"created"},
	New:       func() *note { return &note{} },
	Values: func(n *note) []any {
		return []any{n.ID, n.Body, n.Created}
	},
	Fields: func(n *note) []any {
		return []any{&n.ID, &n.Body, &n.Created}
	},
}

func newMockStore(t *testing.T) (*Store[*note], sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db, notes), mock
}

func TestUpsertQuery_SkipsImmutableColumns(t *testing.T) {
	assert.Equal(t,
		"INSERT INTO notes (id, body, created) VALUES ($1, $2, $3) ON CONFLICT (id) DO UPDATE SET body = EXCLUDED.body",
		upsertQuery(notes))

	keysOnly := Table[*note]{Name: "k", Columns: []string{"id"}}
	assert.Equal(t, "INSERT INTO k (id) VALUES ($1) ON CONFLICT (id) DO NOTHING", upsertQuery(keysOnly))
}

func TestStore_FindByID(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, body, created FROM notes WHERE id = $1")).
		WithArgs("n1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "body", "created"}).AddRow("n1", "hello", "today"))

	got, err := store.FindByID(context.Background(), "n1")
	require.NoError(t, err)
	assert.Equal(t, &note{ID: "n1", Body: "hello", Created: "today"}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_FindByIDMissing(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, body, created FROM notes WHERE id = $1")).
		WithArgs("gone").
		WillReturnError(sql.ErrNoRows)

	_, err := store.FindByID(context.Background(), "gone")
	assert.ErrorIs(t, err, rest.ErrNotFound)
}

func TestStore_FindAll(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, body, created FROM notes ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "body", "created"}).
			AddRow("a", "first", "t1").
			AddRow("b", "second", "t2"))

	got, err := store.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "second", got[1].Body)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_FindAllEmpty(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, body, created FROM notes ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "body", "created"}))

	got, err := store.FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStore_SaveCommitsAllItems(t *testing.T) {
	store, mock := newMockStore(t)
	upsert := regexp.QuoteMeta(upsertQuery(notes))

	mock.ExpectBegin()
	mock.ExpectExec(upsert).WithArgs("a", "first", "t1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(upsert).WithArgs("b", "second", "t2").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.Save(context.Background(),
		&note{ID: "a", Body: "first", Created: "t1"},
		&note{ID: "b", Body: "second", Created: "t2"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SaveRollsBackOnFailure(t *testing.T) {
	store, mock := newMockStore(t)
	upsert := regexp.QuoteMeta(upsertQuery(notes))

	mock.ExpectBegin()
	mock.ExpectExec(upsert).WithArgs("a", "first", "t1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(upsert).WithArgs("b", "second", "t2").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := store.Save(context.Background(),
		&note{ID: "a", Body: "first", Created: "t1"},
		&note{ID: "b", Body: "second", Created: "t2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SaveMapsUniqueViolation(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(upsertQuery(notes))).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value"})
	mock.ExpectRollback()

	err := store.Save(context.Background(), &note{ID: "a"})
	assert.ErrorIs(t, err, rest.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SaveMapsForeignKeyViolation(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(upsertQuery(notes))).
		WillReturnError(&pq.Error{
			Code:   "23503",
			Detail: `Key (parent_id)=(ghost) is not present in table "notes".`,
		})
	mock.ExpectRollback()

	err := store.Save(context.Background(), &note{ID: "a"})
	assert.ErrorIs(t, err, rest.ErrInvalidReference)

	var refErr *rest.ReferenceError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "parent_id", refErr.Field)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDetailColumn(t *testing.T) {
	assert.Equal(t, "parent_id", detailColumn(`Key (parent_id)=(x) is not present in table "nodes".`))
	assert.Equal(t, "", detailColumn(`Key (a, b)=(1, 2) is not present in table "t".`))
	assert.Equal(t, "", detailColumn(""))
}

func TestStore_SaveNothing(t *testing.T) {
	store, mock := newMockStore(t)
	require.NoError(t, store.Save(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Delete(t *testing.T) {
	store, mock := newMockStore(t)
	del := regexp.QuoteMeta("DELETE FROM notes WHERE id = $1")
	mock.ExpectExec(del).WithArgs("a").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(del).WithArgs("a").WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := store.Delete(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.Delete(context.Background(), "a")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE a (id TEXT)")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE b (id TEXT)")).WillReturnError(errors.New("boom"))

	err = Migrate(context.Background(), db, "CREATE TABLE a (id TEXT)", "  ", "CREATE TABLE b (id TEXT)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration 3")
	assert.NoError(t, mock.ExpectationsWereMet())
}
