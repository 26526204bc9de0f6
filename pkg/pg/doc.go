// Package pg provides PostgreSQL helpers on top of the pgx/v5 driver:
// connection pooling with retries, a health probe, transaction scoping and
// error classification.
//
// # Architecture
//
//   - Config is populated from PG_* environment variables (see pkg/config).
//   - Connect opens a *pgxpool.Pool and pings it, retrying with a linearly
//     growing pause until the database becomes available or ctx ends.
//   - WithTx opens a transaction, runs a callback and commits or rolls back.
//     The transaction is released on every exit path, panics included.
//   - Healthcheck turns any Pinger into a readiness probe.
//
// # Usage
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	err = pg.WithTx(ctx, pool, func(tx pgx.Tx) error {
//	    _, err := tx.Exec(ctx, "UPDATE accounts SET email = $1 WHERE id = $2", email, id)
//	    return err
//	})
//
// # Error Handling
//
// IsNotFoundError, IsDuplicateKeyError, IsForeignKeyViolationError and
// IsCheckViolationError unwrap pgx errors and *pgconn.PgError so callers can
// branch on the failure kind without inspecting SQLSTATE codes.
package pg
