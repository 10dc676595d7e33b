package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nursewise/nursewise-backend/internal/adapter/postgres"
	"github.com/nursewise/nursewise-backend/internal/adapter/postgres/testhelper"
)

// categoryExists checks whether a category row with the given ID exists.
func categoryExists(t *testing.T, pool *pgxpool.Pool, id uuid.UUID) bool {
	t.Helper()
	var exists bool
	err := pool.QueryRow(
		context.Background(),
		`SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`,
		id,
	).Scan(&exists)
	if err != nil {
		t.Fatalf("categoryExists query: %v", err)
	}
	return exists
}

func insertCategory(ctx context.Context, pool *pgxpool.Pool, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, pool)
	_, err := q.Exec(ctx,
		`INSERT INTO categories (id, name) VALUES ($1, $2)`,
		id, "tx-test-"+id.String()[:8],
	)
	return err
}

func TestRunInTx_Commit(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	id := uuid.New()

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		return insertCategory(ctx, pool, id)
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}

	if !categoryExists(t, pool, id) {
		t.Fatal("expected category to exist after committed transaction")
	}
}

func TestRunInTx_RollbackOnError(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	id := uuid.New()
	sentinel := errors.New("business logic error")

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if err := insertCategory(ctx, pool, id); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got: %v", err)
	}

	if categoryExists(t, pool, id) {
		t.Fatal("expected rollback, category still exists")
	}
}

func TestRunInTx_RollbackOnPanic(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	id := uuid.New()

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		_ = tm.RunInTx(context.Background(), func(ctx context.Context) error {
			if err := insertCategory(ctx, pool, id); err != nil {
				return err
			}
			panic("boom")
		})
	}()

	if categoryExists(t, pool, id) {
		t.Fatal("expected rollback after panic, category still exists")
	}
}

// Writes on both sides of a nested helper share the same transaction.
func TestRunInTx_SharedQuerier(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	first := uuid.New()
	second := uuid.New()

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if err := insertCategory(ctx, pool, first); err != nil {
			return err
		}
		return insertCategory(ctx, pool, second)
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}

	if !categoryExists(t, pool, first) || !categoryExists(t, pool, second) {
		t.Fatal("expected both categories after commit")
	}
}
