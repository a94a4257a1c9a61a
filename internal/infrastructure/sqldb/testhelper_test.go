package sqldb

import (
	"context"
	"testing"

	"github.com/martijn/clientbook/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.InitializeSchema(context.Background()))
	return db
}

func seedClient(t *testing.T, db *DB, first, last, email string, numbers ...int64) int64 {
	t.Helper()

	ctx := context.Background()
	repo := NewClientPhoneRepository(db)
	client := &domain.Client{FirstName: first, LastName: last, Email: email}
	require.NoError(t, repo.InsertClient(ctx, client))
	for _, n := range numbers {
		require.NoError(t, repo.InsertPhone(ctx, domain.NewPhone(client.ID, n)))
	}
	return client.ID
}

func ptr[T any](v T) *T {
	return &v
}
