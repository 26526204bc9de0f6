// Package repository persists validated entities to PostgreSQL.
//
// Every operation opens its own transaction through pg.WithTx and releases it
// on every exit path. Save, SaveAll and Update validate entities with a
// validator.Engine before any statement runs; entities that declare a
// validator.Validation marker and fail come back as validator.ValidationErrors
// joined with ErrInvalidInput.
//
// # Usage
//
//	type Account struct {
//		_     validator.Validation `validation:"exhaustive"`
//		ID    int64                `db:"id"`
//		Email string               `db:"email" validate:"required; email" field:"email"`
//	}
//
//	func (a *Account) InsertSQL() (string, []any) {
//		return "INSERT INTO accounts (email) VALUES ($1)", []any{a.Email}
//	}
//
//	repo := repository.New(pool, engine, repository.WithLogger(log))
//	if err := repo.Save(ctx, account); err != nil {
//	    if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	        return verrs.Map()
//	    }
//	    return err
//	}
//
//	accounts, err := repository.Find[Account](ctx, repo, "SELECT id, email FROM accounts")
//
// # Error Handling
//
// ErrNotFound is returned by Update when no row changed and by FindOne when the
// query is empty. Driver failures are joined with ErrQueryFailed and can be
// classified further with the pg.Is*Error helpers.
package repository
