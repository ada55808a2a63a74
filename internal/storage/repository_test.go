package storage_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycastapp/skycast/internal/storage"
)

// ---- mock Querier ----

type mockQuerier struct {
	queryRowFn func(ctx context.Context, sql string, args ...any) pgx.Row
	queryFn    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	execFn     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return m.queryRowFn(ctx, sql, args...)
}
func (m *mockQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return m.queryFn(ctx, sql, args...)
}
func (m *mockQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return m.execFn(ctx, sql, args...)
}

// ---- mock pgx.Row ----

type fakeRow struct {
	scanFn func(dest ...any) error
}

func (f *fakeRow) Scan(dest ...any) error { return f.scanFn(dest...) }

// ---- mock pgx.Rows ----

type fakeRows struct {
	rows    [][]any
	idx     int
	rowErr  error
	scanErr error
}

func (f *fakeRows) Next() bool                                   { f.idx++; return f.idx <= len(f.rows) }
func (f *fakeRows) Err() error                                   { return f.rowErr }
func (f *fakeRows) Close()                                       {}
func (f *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (f *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (f *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (f *fakeRows) RawValues() [][]byte                          { return nil }
func (f *fakeRows) Conn() *pgx.Conn                              { return nil }

func (f *fakeRows) Scan(dest ...any) error {
	if f.scanErr != nil {
		return f.scanErr
	}
	row := f.rows[f.idx-1]
	for i, d := range dest {
		if i >= len(row) {
			break
		}
		switch v := d.(type) {
		case *int:
			*v = row[i].(int)
		case *string:
			*v = row[i].(string)
		case *time.Time:
			*v = row[i].(time.Time)
		}
	}
	return nil
}

// ---- mock MigrationPool ----

type mockMigrationPool struct {
	beginFn func(ctx context.Context) (pgx.Tx, error)
}

func (m *mockMigrationPool) Begin(ctx context.Context) (pgx.Tx, error) {
	return m.beginFn(ctx)
}

// mockTx is a minimal pgx.Tx implementation for testing migrations.
type mockTx struct {
	execFn     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	commitFn   func(ctx context.Context) error
	rollbackFn func(ctx context.Context) error
}

func (t *mockTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.execFn(ctx, sql, args...)
}
func (t *mockTx) Commit(ctx context.Context) error   { return t.commitFn(ctx) }
func (t *mockTx) Rollback(ctx context.Context) error { return t.rollbackFn(ctx) }

// pgx.Tx has many more methods — stub them all out.
func (t *mockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (t *mockTx) CopyFrom(_ context.Context, _ pgx.Identifier, _ []string, _ pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *mockTx) SendBatch(_ context.Context, _ *pgx.Batch) pgx.BatchResults { return nil }
func (t *mockTx) LargeObjects() pgx.LargeObjects                             { return pgx.LargeObjects{} }
func (t *mockTx) Prepare(_ context.Context, _, _ string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *mockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (t *mockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *mockTx) Conn() *pgx.Conn { return nil }

// ---- helpers ----

func writeSQLFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// ---- ListCities tests ----

func TestListCities_ReturnsRows(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	rows := &fakeRows{
		rows: [][]any{
			{2, "Porto", "Porto, PT", now},
			{1, "Oslo", "Oslo, NO", now.Add(-time.Hour)},
		},
	}

	q := &mockQuerier{
		queryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) { return rows, nil },
	}

	repo := storage.NewRepositoryWithQuerier(q)
	cities, err := repo.ListCities(context.Background())
	require.NoError(t, err)
	require.Len(t, cities, 2)
	assert.Equal(t, "Porto", cities[0].Name)
	assert.Equal(t, "Oslo, NO", cities[1].Label)
}

func TestListCities_Empty(t *testing.T) {
	q := &mockQuerier{
		queryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
			return &fakeRows{}, nil
		},
	}

	repo := storage.NewRepositoryWithQuerier(q)
	cities, err := repo.ListCities(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cities)
}

func TestListCities_QueryError(t *testing.T) {
	q := &mockQuerier{
		queryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
			return nil, fmt.Errorf("query failed")
		},
	}

	repo := storage.NewRepositoryWithQuerier(q)
	_, err := repo.ListCities(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "querying saved cities")
}

func TestListCities_ScanError(t *testing.T) {
	rows := &fakeRows{
		rows:    [][]any{{1, "Porto", "Porto, PT", time.Now()}},
		scanErr: fmt.Errorf("scan failed"),
	}

	q := &mockQuerier{
		queryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) { return rows, nil },
	}

	repo := storage.NewRepositoryWithQuerier(q)
	_, err := repo.ListCities(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scanning")
}

func TestListCities_RowsErr(t *testing.T) {
	rows := &fakeRows{rowErr: fmt.Errorf("rows iteration error")}

	q := &mockQuerier{
		queryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) { return rows, nil },
	}

	repo := storage.NewRepositoryWithQuerier(q)
	_, err := repo.ListCities(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "iterating")
}

// ---- SaveCity tests ----

func TestSaveCity_Success(t *testing.T) {
	var capturedArgs []any
	q := &mockQuerier{
		execFn: func(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
			capturedArgs = args
			return pgconn.CommandTag{}, nil
		},
	}

	repo := storage.NewRepositoryWithQuerier(q)
	err := repo.SaveCity(context.Background(), "Porto", "Porto, PT")
	require.NoError(t, err)
	require.Len(t, capturedArgs, 2)
	assert.Equal(t, "Porto", capturedArgs[0])
	assert.Equal(t, "Porto, PT", capturedArgs[1])
}

func TestSaveCity_DBError(t *testing.T) {
	q := &mockQuerier{
		execFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, fmt.Errorf("db error")
		},
	}

	repo := storage.NewRepositoryWithQuerier(q)
	err := repo.SaveCity(context.Background(), "Porto", "Porto, PT")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "saving city")
}

// ---- DeleteCity tests ----

func TestDeleteCity_RowMatched(t *testing.T) {
	q := &mockQuerier{
		execFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("DELETE 1"), nil
		},
	}

	repo := storage.NewRepositoryWithQuerier(q)
	deleted, err := repo.DeleteCity(context.Background(), "Porto")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestDeleteCity_NoRowMatched(t *testing.T) {
	q := &mockQuerier{
		execFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("DELETE 0"), nil
		},
	}

	repo := storage.NewRepositoryWithQuerier(q)
	deleted, err := repo.DeleteCity(context.Background(), "Atlantis")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDeleteCity_DBError(t *testing.T) {
	q := &mockQuerier{
		execFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, fmt.Errorf("db error")
		},
	}

	repo := storage.NewRepositoryWithQuerier(q)
	_, err := repo.DeleteCity(context.Background(), "Porto")
	require.Error(t, err)
}

// ---- RecordSearch tests ----

func TestRecordSearch_Success(t *testing.T) {
	var capturedArgs []any
	q := &mockQuerier{
		execFn: func(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
			capturedArgs = args
			return pgconn.CommandTag{}, nil
		},
	}

	repo := storage.NewRepositoryWithQuerier(q)
	err := repo.RecordSearch(context.Background(), "Porto", 81)
	require.NoError(t, err)
	require.Len(t, capturedArgs, 2)
	assert.Equal(t, "Porto", capturedArgs[0])
	assert.Equal(t, 81, capturedArgs[1])
}

func TestRecordSearch_DBError(t *testing.T) {
	q := &mockQuerier{
		execFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, fmt.Errorf("db error")
		},
	}

	repo := storage.NewRepositoryWithQuerier(q)
	err := repo.RecordSearch(context.Background(), "Porto", 81)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recording search")
}

// ---- RecentSearches tests ----

func TestRecentSearches_ReturnsRows(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	rows := &fakeRows{
		rows: [][]any{
			{3, "Porto", 81, now},
			{2, "Oslo", 55, now.Add(-time.Minute)},
		},
	}

	q := &mockQuerier{
		queryFn: func(_ context.Context, _ string, args ...any) (pgx.Rows, error) {
			require.Len(t, args, 1)
			assert.Equal(t, 10, args[0])
			return rows, nil
		},
	}

	repo := storage.NewRepositoryWithQuerier(q)
	records, err := repo.RecentSearches(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Porto", records[0].City)
	assert.Equal(t, 81, records[0].ComfortScore)
}

func TestRecentSearches_QueryError(t *testing.T) {
	q := &mockQuerier{
		queryFn: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
			return nil, fmt.Errorf("query failed")
		},
	}

	repo := storage.NewRepositoryWithQuerier(q)
	_, err := repo.RecentSearches(context.Background(), 10)
	require.Error(t, err)
}

// ---- LastSearch tests ----

func TestLastSearch_Found(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	q := &mockQuerier{
		queryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
			return &fakeRow{scanFn: func(dest ...any) error {
				*dest[0].(*int) = 7
				*dest[1].(*string) = "Porto"
				*dest[2].(*int) = 81
				*dest[3].(*time.Time) = now
				return nil
			}}
		},
	}

	repo := storage.NewRepositoryWithQuerier(q)
	rec, err := repo.LastSearch(context.Background(), "Porto")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Porto", rec.City)
	assert.Equal(t, 81, rec.ComfortScore)
	assert.Equal(t, now, rec.SearchedAt)
}

func TestLastSearch_NeverSearched(t *testing.T) {
	q := &mockQuerier{
		queryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
			return &fakeRow{scanFn: func(dest ...any) error { return pgx.ErrNoRows }}
		},
	}

	repo := storage.NewRepositoryWithQuerier(q)
	rec, err := repo.LastSearch(context.Background(), "Atlantis")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestLastSearch_DBError(t *testing.T) {
	q := &mockQuerier{
		queryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
			return &fakeRow{scanFn: func(dest ...any) error { return fmt.Errorf("connection reset") }}
		},
	}

	repo := storage.NewRepositoryWithQuerier(q)
	_, err := repo.LastSearch(context.Background(), "Porto")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "querying last search")
}

// ---- NewRepository ----

func TestNewRepository_NotNil(t *testing.T) {
	repo := storage.NewRepository(nil)
	assert.NotNil(t, repo)
}

// ---- RunMigrations tests ----

func TestRunMigrations_MissingDir(t *testing.T) {
	err := storage.RunMigrations(context.Background(), nil, "/nonexistent/dir")
	require.Error(t, err)
}

func TestRunMigrations_EmptyDir(t *testing.T) {
	err := storage.RunMigrations(context.Background(), nil, t.TempDir())
	require.NoError(t, err)
}

func TestRunMigrations_Success(t *testing.T) {
	dir := t.TempDir()
	writeSQLFile(t, dir, "001_test.sql", "SELECT 1;")

	var executed []string
	tx := &mockTx{
		execFn: func(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
			executed = append(executed, sql)
			return pgconn.CommandTag{}, nil
		},
		commitFn:   func(_ context.Context) error { return nil },
		rollbackFn: func(_ context.Context) error { return nil },
	}
	pool := &mockMigrationPool{
		beginFn: func(_ context.Context) (pgx.Tx, error) { return tx, nil },
	}

	err := storage.RunMigrations(context.Background(), pool, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"SELECT 1;"}, executed)
}

func TestRunMigrations_AppliesFilesInOrder(t *testing.T) {
	dir := t.TempDir()
	writeSQLFile(t, dir, "002_second.sql", "SELECT 2;")
	writeSQLFile(t, dir, "001_first.sql", "SELECT 1;")

	var executed []string
	tx := &mockTx{
		execFn: func(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
			executed = append(executed, sql)
			return pgconn.CommandTag{}, nil
		},
		commitFn:   func(_ context.Context) error { return nil },
		rollbackFn: func(_ context.Context) error { return nil },
	}
	pool := &mockMigrationPool{
		beginFn: func(_ context.Context) (pgx.Tx, error) { return tx, nil },
	}

	err := storage.RunMigrations(context.Background(), pool, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"SELECT 1;", "SELECT 2;"}, executed)
}

func TestRunMigrations_BeginError(t *testing.T) {
	dir := t.TempDir()
	writeSQLFile(t, dir, "001_test.sql", "SELECT 1;")

	pool := &mockMigrationPool{
		beginFn: func(_ context.Context) (pgx.Tx, error) { return nil, fmt.Errorf("cannot begin") },
	}

	err := storage.RunMigrations(context.Background(), pool, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "executing migration")
}

func TestRunMigrations_ExecError(t *testing.T) {
	dir := t.TempDir()
	writeSQLFile(t, dir, "001_test.sql", "INVALID SQL;")

	var rolledBack bool
	tx := &mockTx{
		execFn: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, fmt.Errorf("syntax error")
		},
		commitFn:   func(_ context.Context) error { return nil },
		rollbackFn: func(_ context.Context) error { rolledBack = true; return nil },
	}
	pool := &mockMigrationPool{
		beginFn: func(_ context.Context) (pgx.Tx, error) { return tx, nil },
	}

	err := storage.RunMigrations(context.Background(), pool, dir)
	require.Error(t, err)
	assert.True(t, rolledBack)
}
