package repository_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rulekit/pkg/logger"
	"github.com/dmitrymomot/rulekit/pkg/repository"
	"github.com/dmitrymomot/rulekit/pkg/validator"
)

type account struct {
	_     validator.Validation `validation:"exhaustive"`
	ID    int64                `db:"id"`
	Email string               `db:"email" validate:"required; email" field:"email"`
	Name  string               `db:"name" validate:"length(2,50)" field:"name"`
}

func (a *account) InsertSQL() (string, []any) {
	return "INSERT INTO accounts (email, name) VALUES ($1, $2)", []any{a.Email, a.Name}
}

func (a *account) UpdateSQL() (string, []any) {
	return "UPDATE accounts SET email = $1, name = $2 WHERE id = $3", []any{a.Email, a.Name, a.ID}
}

func (a *account) DeleteSQL() (string, []any) {
	return "DELETE FROM accounts WHERE id = $1", []any{a.ID}
}

type billingAddress struct {
	_   validator.Validation
	ID  int64  `db:"id" field:"id"`
	Zip string `validate:"required" field:"zip"`
}

type customer struct {
	_       validator.Validation
	ID      string         `validate:"required" field:"id"`
	Billing billingAddress `field:"billing,model"`
}

func (c *customer) InsertSQL() (string, []any) {
	return "INSERT INTO customers (id, zip) VALUES ($1, $2)", []any{c.ID, c.Billing.Zip}
}

func (c *customer) UpdateSQL() (string, []any) { return "", nil }
func (c *customer) DeleteSQL() (string, []any) { return "", nil }

type rawStatement string

func (s rawStatement) InsertSQL() (string, []any) { return string(s), nil }
func (s rawStatement) UpdateSQL() (string, []any) { return string(s), nil }
func (s rawStatement) DeleteSQL() (string, []any) { return string(s), nil }

// fakeTx records executed statements and serves canned query results.
type fakeTx struct {
	pgx.Tx
	execs      []string
	affected   int64
	execErr    error
	rows       [][]any
	columns    []string
	committed  bool
	rolledBack bool
}

func (tx *fakeTx) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	if tx.execErr != nil {
		return pgconn.CommandTag{}, tx.execErr
	}
	tx.execs = append(tx.execs, sql)
	verb, _, _ := strings.Cut(sql, " ")
	if verb == "INSERT" {
		return pgconn.NewCommandTag(fmt.Sprintf("INSERT 0 %d", tx.affected)), nil
	}
	return pgconn.NewCommandTag(fmt.Sprintf("%s %d", verb, tx.affected)), nil
}

func (tx *fakeTx) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return &fakeRows{columns: tx.columns, rows: tx.rows, pos: -1}, nil
}

func (tx *fakeTx) Commit(context.Context) error {
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback(context.Context) error {
	tx.rolledBack = true
	return nil
}

type fakeRows struct {
	pgx.Rows
	columns []string
	rows    [][]any
	pos     int
}

func (r *fakeRows) Close()                        {}
func (r *fakeRows) Err() error                    { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.NewCommandTag("SELECT") }

func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	fds := make([]pgconn.FieldDescription, len(r.columns))
	for i, c := range r.columns {
		fds[i] = pgconn.FieldDescription{Name: c}
	}
	return fds
}

func (r *fakeRows) Next() bool {
	r.pos++
	return r.pos < len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.rows[r.pos][i]))
	}
	return nil
}

type fakeDB struct {
	tx     *fakeTx
	begins int
}

func (db *fakeDB) Begin(context.Context) (pgx.Tx, error) {
	db.begins++
	return db.tx, nil
}

func newRepo(tx *fakeTx) (*repository.Repository, *fakeDB) {
	db := &fakeDB{tx: tx}
	engine := validator.NewEngine(validator.WithRegistry(validator.NewDefaultRegistry()))
	return repository.New(db, engine), db
}

func TestRepository_Save(t *testing.T) {
	t.Parallel()

	t.Run("inserts valid entity in a transaction", func(t *testing.T) {
		tx := &fakeTx{affected: 1}
		repo, db := newRepo(tx)

		err := repo.Save(context.Background(), &account{Email: "user@example.com", Name: "John"})
		require.NoError(t, err)
		assert.Equal(t, 1, db.begins)
		assert.True(t, tx.committed)
		require.Len(t, tx.execs, 1)
		assert.True(t, strings.HasPrefix(tx.execs[0], "INSERT"))
	})

	t.Run("rejects invalid entity without touching the database", func(t *testing.T) {
		tx := &fakeTx{affected: 1}
		repo, db := newRepo(tx)

		err := repo.Save(context.Background(), &account{Email: "nope", Name: "J"})
		require.Error(t, err)
		assert.ErrorIs(t, err, repository.ErrInvalidInput)

		errs := validator.ExtractValidationErrors(err)
		assert.Equal(t, map[string]string{
			"email": "must be a valid email address",
			"name":  "must be between 2 and 50 characters long",
		}, errs.Map())
		assert.Zero(t, db.begins)
	})

	t.Run("rolls back on statement failure", func(t *testing.T) {
		tx := &fakeTx{execErr: errors.New("duplicate key")}
		repo, _ := newRepo(tx)

		err := repo.Save(context.Background(), &account{Email: "user@example.com"})
		assert.ErrorIs(t, err, repository.ErrQueryFailed)
		assert.True(t, tx.rolledBack)
		assert.False(t, tx.committed)
	})

	t.Run("nested model fields without rules do not shadow the entity", func(t *testing.T) {
		tx := &fakeTx{affected: 1}
		repo, db := newRepo(tx)

		require.NoError(t, repo.Save(context.Background(), &customer{ID: "c1", Billing: billingAddress{Zip: "12345"}}))
		assert.Equal(t, 1, db.begins)
	})

	t.Run("entities without struct shape skip validation", func(t *testing.T) {
		tx := &fakeTx{affected: 1}
		repo, _ := newRepo(tx)
		assert.NoError(t, repo.Save(context.Background(), rawStatement("INSERT INTO audit DEFAULT VALUES")))
	})

	t.Run("nil entity and empty statement", func(t *testing.T) {
		repo, _ := newRepo(&fakeTx{})
		assert.ErrorIs(t, repo.Save(context.Background(), nil), repository.ErrNilEntity)
		assert.ErrorIs(t, repo.Save(context.Background(), rawStatement("")), repository.ErrEmptyQuery)
	})
}

func TestRepository_SaveAll(t *testing.T) {
	t.Parallel()

	tx := &fakeTx{affected: 1}
	repo, db := newRepo(tx)

	err := repo.SaveAll(context.Background(),
		&account{Email: "a@example.com"},
		&account{Email: "b@example.com"},
	)
	require.NoError(t, err)
	assert.Equal(t, 1, db.begins)
	assert.Len(t, tx.execs, 2)

	err = repo.SaveAll(context.Background(), &account{Email: "c@example.com"}, &account{})
	assert.ErrorIs(t, err, repository.ErrInvalidInput)
	assert.Equal(t, 1, db.begins)
}

func TestRepository_Update(t *testing.T) {
	t.Parallel()

	t.Run("updates existing row", func(t *testing.T) {
		tx := &fakeTx{affected: 1}
		repo, _ := newRepo(tx)
		require.NoError(t, repo.Update(context.Background(), &account{ID: 1, Email: "user@example.com"}))
		assert.True(t, strings.HasPrefix(tx.execs[0], "UPDATE"))
	})

	t.Run("missing row", func(t *testing.T) {
		tx := &fakeTx{affected: 0}
		repo, _ := newRepo(tx)
		err := repo.Update(context.Background(), &account{ID: 9, Email: "user@example.com"})
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.True(t, tx.rolledBack)
	})
}

func TestRepository_Delete(t *testing.T) {
	t.Parallel()

	tx := &fakeTx{affected: 1}
	repo, _ := newRepo(tx)

	deleted, err := repo.Delete(context.Background(), &account{ID: 1})
	require.NoError(t, err)
	assert.True(t, deleted)

	tx.affected = 0
	deleted, err = repo.Delete(context.Background(), &account{ID: 2})
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = repo.Delete(context.Background(), nil)
	assert.ErrorIs(t, err, repository.ErrNilEntity)
}

func TestRepository_Exec(t *testing.T) {
	t.Parallel()

	tx := &fakeTx{affected: 3}
	repo, _ := newRepo(tx)

	n, err := repo.Exec(context.Background(), "DELETE FROM sessions WHERE expired")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	_, err = repo.Exec(context.Background(), "")
	assert.ErrorIs(t, err, repository.ErrEmptyQuery)
}

func TestRepository_Logging(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(logger.WithOutput(buf), logger.WithLevel(slog.LevelDebug))
	engine := validator.NewEngine(validator.WithRegistry(validator.NewDefaultRegistry()))
	repo := repository.New(&fakeDB{tx: &fakeTx{affected: 1}}, engine, repository.WithLogger(log))

	require.NoError(t, repo.Save(context.Background(), &account{Email: "user@example.com"}))
	require.ErrorIs(t, repo.Update(context.Background(), &account{}), repository.ErrInvalidInput)

	var ops []any
	for line := range bytes.Lines(buf.Bytes()) {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry))
		ops = append(ops, entry["op"])
	}
	assert.Equal(t, []any{"save", "update"}, ops)
}

func TestFind(t *testing.T) {
	t.Parallel()

	type row struct {
		ID    int64  `db:"id"`
		Email string `db:"email"`
	}

	tx := &fakeTx{
		columns: []string{"id", "email"},
		rows: [][]any{
			{int64(1), "a@example.com"},
			{int64(2), "b@example.com"},
		},
	}
	repo, _ := newRepo(tx)

	items, err := repository.Find[row](context.Background(), repo, "SELECT id, email FROM accounts")
	require.NoError(t, err)
	assert.Equal(t, []row{{1, "a@example.com"}, {2, "b@example.com"}}, items)
	assert.True(t, tx.committed)

	one, err := repository.FindOne[row](context.Background(), repo, "SELECT id, email FROM accounts LIMIT 1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), one.ID)

	tx.rows = nil
	_, err = repository.FindOne[row](context.Background(), repo, "SELECT id, email FROM accounts WHERE id = $1", 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repository.Find[row](context.Background(), repo, "")
	assert.ErrorIs(t, err, repository.ErrEmptyQuery)
}
