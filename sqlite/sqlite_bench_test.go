package sqlite_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/serpwall/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkWALMode compares toggle persistence between WAL and rollback
// journal modes.
func BenchmarkWALMode(b *testing.B) {
	b.Run("rollback_journal", func(b *testing.B) {
		benchmarkSessionWrites(b, false)
	})

	b.Run("wal_mode", func(b *testing.B) {
		benchmarkSessionWrites(b, true)
	})
}

func benchmarkSessionWrites(b *testing.B, useWAL bool) {
	b.Helper()

	tmpDir := b.TempDir()
	dbPath := filepath.Join(tmpDir, "bench.db")

	db := sqlite.NewDB(dbPath)
	require.NoError(b, db.Open())

	ctx := context.Background()
	mode := "DELETE"
	if useWAL {
		mode = "WAL"
	}
	_, err := db.ExecContext(ctx, "PRAGMA journal_mode = "+mode)
	require.NoError(b, err)

	defer func() {
		db.Close()
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	}()

	store, err := sqlite.NewSessionStore(ctx, db)
	require.NoError(b, err)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if err := store.Set(ctx, fmt.Sprintf("key%d", i%16), fmt.Sprint(i%2)); err != nil {
			b.Fatal(err)
		}
	}
}
