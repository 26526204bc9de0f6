package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/rulekit/pkg/logger"
	"github.com/dmitrymomot/rulekit/pkg/pg"
	"github.com/dmitrymomot/rulekit/pkg/validator"
)

var (
	ErrNotFound     = errors.New("entity not found")
	ErrNilEntity    = errors.New("entity is nil")
	ErrEmptyQuery   = errors.New("entity returned an empty statement")
	ErrQueryFailed  = errors.New("query failed")
	ErrInvalidInput = errors.New("entity failed validation")
)

// Entity is a persistable value that knows its own statements. Entities that
// declare a validator.Validation marker are validated before they are written.
type Entity interface {
	InsertSQL() (string, []any)
	UpdateSQL() (string, []any)
	DeleteSQL() (string, []any)
}

// Repository runs every operation in its own transaction, released on every
// exit path.
type Repository struct {
	db     pg.TxBeginner
	engine *validator.Engine
	logger *slog.Logger
}

type Option func(*Repository)

func WithLogger(l *slog.Logger) Option {
	return func(r *Repository) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a repository over db. A nil engine uses validator.NewEngine().
// Records logged by the repository carry the running operation under "op".
func New(db pg.TxBeginner, engine *validator.Engine, opts ...Option) *Repository {
	r := &Repository{
		db:     db,
		engine: engine,
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = slog.New(logger.NewLogHandlerDecorator(r.logger.Handler(), logger.OperationExtractor))
	if r.engine == nil {
		r.engine = validator.NewEngine(validator.WithLogger(r.logger))
	}
	return r
}

// Save validates and inserts the entity. Invalid entities are returned as
// validator.ValidationErrors joined with ErrInvalidInput and never reach the
// database.
func (r *Repository) Save(ctx context.Context, e Entity) error {
	return r.write(ctx, "save", e, Entity.InsertSQL, false)
}

// SaveAll validates every entity first and inserts them in one transaction.
// The first invalid entity aborts the call.
func (r *Repository) SaveAll(ctx context.Context, entities ...Entity) error {
	ctx = logger.ContextWithOperation(ctx, "save_all")
	for _, e := range entities {
		if err := r.validate(ctx, e); err != nil {
			return err
		}
	}

	start := time.Now()
	err := pg.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		for _, e := range entities {
			if _, err := exec(ctx, tx, Entity.InsertSQL, e); err != nil {
				return err
			}
		}
		return nil
	})
	r.log(ctx, start, err, slog.Int("entities", len(entities)))
	return err
}

// Update validates the entity and runs its update statement. ErrNotFound is
// returned when no row was affected.
func (r *Repository) Update(ctx context.Context, e Entity) error {
	return r.write(ctx, "update", e, Entity.UpdateSQL, true)
}

// Delete runs the entity's delete statement and reports whether a row was removed.
func (r *Repository) Delete(ctx context.Context, e Entity) (bool, error) {
	if e == nil {
		return false, ErrNilEntity
	}

	ctx = logger.ContextWithOperation(ctx, "delete")
	start := time.Now()
	var affected int64
	err := pg.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		n, err := exec(ctx, tx, Entity.DeleteSQL, e)
		affected = n
		return err
	})
	r.log(ctx, start, err)
	return affected > 0, err
}

// Exec runs an arbitrary statement and returns the number of affected rows.
func (r *Repository) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	if sql == "" {
		return 0, ErrEmptyQuery
	}

	ctx = logger.ContextWithOperation(ctx, "exec")
	start := time.Now()
	var affected int64
	err := pg.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return errors.Join(ErrQueryFailed, err)
		}
		affected = tag.RowsAffected()
		return nil
	})
	r.log(ctx, start, err)
	return affected, err
}

func (r *Repository) write(ctx context.Context, op string, e Entity, stmt func(Entity) (string, []any), mustAffect bool) error {
	ctx = logger.ContextWithOperation(ctx, op)
	if err := r.validate(ctx, e); err != nil {
		return err
	}

	start := time.Now()
	err := pg.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		n, err := exec(ctx, tx, stmt, e)
		if err != nil {
			return err
		}
		if mustAffect && n == 0 {
			return ErrNotFound
		}
		return nil
	})
	r.log(ctx, start, err)
	return err
}

func (r *Repository) validate(ctx context.Context, e Entity) error {
	if e == nil {
		return ErrNilEntity
	}
	err := r.engine.Struct(e)
	if errs := validator.ExtractValidationErrors(err); errs != nil {
		r.logger.DebugContext(ctx, "entity rejected", logger.Failures(len(errs)))
		return errors.Join(ErrInvalidInput, errs)
	}
	if err != nil && !errors.Is(err, validator.ErrNotStruct) {
		return err
	}
	return nil
}

func exec(ctx context.Context, tx pgx.Tx, stmt func(Entity) (string, []any), e Entity) (int64, error) {
	sql, args := stmt(e)
	if sql == "" {
		return 0, ErrEmptyQuery
	}
	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return 0, errors.Join(ErrQueryFailed, err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) log(ctx context.Context, start time.Time, err error, attrs ...slog.Attr) {
	attrs = append(attrs,
		logger.Component("repository"),
		logger.Duration(time.Since(start)),
	)
	if err != nil {
		r.logger.LogAttrs(ctx, slog.LevelError, "repository operation failed", append(attrs, logger.Error(err))...)
		return
	}
	r.logger.LogAttrs(ctx, slog.LevelDebug, "repository operation finished", attrs...)
}
