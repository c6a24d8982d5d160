package fragment

import (
	"context"
	"fmt"
	"io"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const schema = `
CREATE TABLE IF NOT EXISTS fragments (
	key    TEXT PRIMARY KEY,
	data   BLOB NOT NULL,
	stored INTEGER NOT NULL
);`

// SQLiteStore keeps payloads between program runs.
type SQLiteStore struct {
	pool *sqlitex.Pool
	ttl  time.Duration
	now  func() time.Time
}

// OpenSQLiteStore opens (creating when necessary) database at path. Zero ttl
// means entries never expire.
func OpenSQLiteStore(path string, ttl time.Duration) (*SQLiteStore, error) {
	pool, err := sqlitex.NewPool(path, sqlitex.PoolOptions{
		PoolSize: 4,
		PrepareConn: func(conn *sqlite.Conn) error {
			for _, pragma := range []string{
				"PRAGMA journal_mode=WAL",
				"PRAGMA busy_timeout=5000",
			} {
				if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
					return fmt.Errorf("%s: %w", pragma, err)
				}
			}
			return sqlitex.ExecuteScript(conn, schema, nil)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to open fragment cache %s: %w", path, err)
	}
	return &SQLiteStore{pool: pool, ttl: ttl, now: time.Now}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, false, err
	}
	defer s.pool.Put(conn)

	var (
		data   []byte
		found  bool
		stored int64
	)
	err = sqlitex.Execute(conn, `SELECT data, stored FROM fragments WHERE key = ?`,
		&sqlitex.ExecOptions{
			Args: []any{key},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				if data, err = io.ReadAll(stmt.ColumnReader(0)); err != nil {
					return err
				}
				stored = stmt.ColumnInt64(1)
				found = true
				return nil
			},
		})
	if err != nil {
		return nil, false, fmt.Errorf("unable to read fragment %s: %w", key, err)
	}
	if !found || expired(time.Unix(0, stored), s.ttl, s.now()) {
		return nil, false, nil
	}
	return data, true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, key string, data []byte) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer s.pool.Put(conn)

	if data == nil {
		data = []byte{}
	}
	err = sqlitex.Execute(conn, `INSERT OR REPLACE INTO fragments (key, data, stored) VALUES (?, ?, ?)`,
		&sqlitex.ExecOptions{Args: []any{key, data, s.now().UnixNano()}})
	if err != nil {
		return fmt.Errorf("unable to store fragment %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.pool.Close()
}
