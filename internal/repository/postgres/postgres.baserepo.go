// FilePath: internal/repository/postgres/postgres.baserepo.go
package postgres

import (
	"context"

	"github.com/lib/pq"
	"github.com/sarlink/relayhub/internal/database"
	"github.com/sarlink/relayhub/internal/errors"
)

// pq error code for a query against a table that does not exist yet
const pqUndefinedTable = "42P01"

type PostgresBaseRepo struct {
	db database.DB
}

// wrapStorageError maps driver errors to the typed taxonomy. The
// undefined-table code is detected by code, never by message text, so the
// lazy-init retry path has a stable signal to key on.
func wrapStorageError(msg string, err error) error {
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pqUndefinedTable {
		return errors.NewNotInitializedError(msg, err)
	}
	return errors.NewDatabaseError(msg, err)
}

// retryAfterInit runs a write op, and when it reports the typed
// missing-schema signal, initializes the schema and retries the op exactly
// once. Any other error, or a failing initialization, surfaces unchanged.
func retryAfterInit(ctx context.Context, initSchema func(context.Context) error, op func() error) error {
	err := op()
	if err != nil && errors.IsNotInitialized(err) {
		if initErr := initSchema(ctx); initErr != nil {
			return initErr
		}
		err = op()
	}
	return err
}
