package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"bookstore-server/internal/interfaces"
	"bookstore-server/internal/schemas"
)

// BeginTransaction begins a new database transaction on the request context.
// If the transaction fails to begin, it writes the error response and
// returns nil.
func BeginTransaction(ctx *gin.Context, pool interfaces.PgxPoolIface) pgx.Tx {
	LogMessageWithFields(ctx, "debug", "Beginning transaction")

	tx, err := pool.Begin(ctx)
	if err != nil {
		WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return nil
	}

	return tx
}

// RollbackTransaction rolls the transaction back unless it was already
// committed. Rolling back a committed transaction only returns ErrTxClosed,
// so deferring this after BeginTransaction is always safe.
func RollbackTransaction(ctx *gin.Context, tx pgx.Tx, err error) {
	if err != nil {
		LogMessageWithFieldsAndError(ctx, "debug", "Rolling back transaction", err)
	}

	if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
		LogMessageWithFieldsAndError(ctx, "error", "Error rolling back transaction", rbErr)
	}
}

// CommitTransaction attempts to commit the given transaction. On failure it
// writes the error response and returns the error.
func CommitTransaction(ctx *gin.Context, tx pgx.Tx) error {
	LogMessageWithFields(ctx, "debug", "Committing transaction")

	if err := tx.Commit(ctx); err != nil {
		WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return err
	}

	return nil
}
