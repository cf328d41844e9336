// FilePath: internal/repository/postgres/postgres.baserepo_test.go
package postgres

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/sarlink/relayhub/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapStorageError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		err            error
		notInitialized bool
	}{
		{name: "undefined table", err: &pq.Error{Code: pqUndefinedTable}, notInitialized: true},
		{name: "unique violation", err: &pq.Error{Code: "23505"}, notInitialized: false},
		{name: "plain driver error", err: assert.AnError, notInitialized: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			wrapped := wrapStorageError("failed", tt.err)
			require.Error(t, wrapped)
			assert.Equal(t, tt.notInitialized, errors.IsNotInitialized(wrapped))
			if !tt.notInitialized {
				apiErr, ok := wrapped.(*errors.APIError)
				require.True(t, ok)
				assert.Equal(t, errors.ErrorTypeDatabase, apiErr.Type)
			}
		})
	}
}

func TestRetryAfterInitMissingSchema(t *testing.T) {
	t.Parallel()

	initCalls, opCalls := 0, 0
	err := retryAfterInit(context.Background(),
		func(context.Context) error {
			initCalls++
			return nil
		},
		func() error {
			opCalls++
			if opCalls == 1 {
				return errors.NewNotInitializedError("missing table", nil)
			}
			return nil
		})

	// Missing schema triggers initialization and exactly one retry.
	require.NoError(t, err)
	assert.Equal(t, 1, initCalls)
	assert.Equal(t, 2, opCalls)
}

func TestRetryAfterInitNoRetryOnSuccess(t *testing.T) {
	t.Parallel()

	initCalls, opCalls := 0, 0
	err := retryAfterInit(context.Background(),
		func(context.Context) error {
			initCalls++
			return nil
		},
		func() error {
			opCalls++
			return nil
		})

	require.NoError(t, err)
	assert.Equal(t, 0, initCalls)
	assert.Equal(t, 1, opCalls)
}

func TestRetryAfterInitNoRetryOnOtherErrors(t *testing.T) {
	t.Parallel()

	initCalls, opCalls := 0, 0
	dbErr := errors.NewDatabaseError("connection reset", nil)
	err := retryAfterInit(context.Background(),
		func(context.Context) error {
			initCalls++
			return nil
		},
		func() error {
			opCalls++
			return dbErr
		})

	// Only the typed missing-schema signal triggers the retry.
	require.Equal(t, dbErr, err)
	assert.Equal(t, 0, initCalls)
	assert.Equal(t, 1, opCalls)
}

func TestRetryAfterInitSurfacesResidualError(t *testing.T) {
	t.Parallel()

	initCalls, opCalls := 0, 0
	residual := errors.NewNotInitializedError("still missing", nil)
	err := retryAfterInit(context.Background(),
		func(context.Context) error {
			initCalls++
			return nil
		},
		func() error {
			opCalls++
			return residual
		})

	// The retry happens once and only once; the residual error surfaces.
	require.Equal(t, residual, err)
	assert.Equal(t, 1, initCalls)
	assert.Equal(t, 2, opCalls)
}

func TestRetryAfterInitFailingInitialization(t *testing.T) {
	t.Parallel()

	initErr := errors.NewUnavailableError("database unreachable", nil)
	opCalls := 0
	err := retryAfterInit(context.Background(),
		func(context.Context) error {
			return initErr
		},
		func() error {
			opCalls++
			return errors.NewNotInitializedError("missing table", nil)
		})

	// A failing initialization short-circuits; the op is not retried.
	require.Equal(t, initErr, err)
	assert.Equal(t, 1, opCalls)
}
