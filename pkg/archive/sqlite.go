package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"mercator-hq/ifccheck/pkg/engine"
)

const (
	// DriverCGO is the database/sql name of github.com/mattn/go-sqlite3.
	DriverCGO = "sqlite3"

	// DriverPure is the database/sql name of modernc.org/sqlite.
	DriverPure = "sqlite"
)

// SQLiteConfig configures the SQLite archive.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// Driver is DriverCGO or DriverPure.
	// Default: DriverPure
	Driver string

	// BusyTimeout is how long to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration

	// MaxOpenConns caps the connection pool.
	// Default: 4
	MaxOpenConns int
}

// SQLiteStorage is the SQLite backed archive.
type SQLiteStorage struct {
	db     *sql.DB
	config SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage opens the database, enables WAL and creates the schema.
func NewSQLiteStorage(config SQLiteConfig) (*SQLiteStorage, error) {
	if config.Path == "" {
		return nil, newStorageError("sqlite", "open", errors.New("db path cannot be empty"))
	}
	if config.Driver == "" {
		config.Driver = DriverPure
	}
	if config.BusyTimeout == 0 {
		config.BusyTimeout = 5 * time.Second
	}
	if config.MaxOpenConns == 0 {
		config.MaxOpenConns = 4
	}

	var dsn string
	switch config.Driver {
	case DriverPure:
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
			config.Path, config.BusyTimeout.Milliseconds())
	case DriverCGO:
		dsn = config.Path
	default:
		return nil, newStorageError("sqlite", "open", fmt.Errorf("unknown driver %q", config.Driver))
	}

	db, err := sql.Open(config.Driver, dsn)
	if err != nil {
		return nil, newStorageError("sqlite", "open", err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: slog.Default().With("component", "archive.sqlite"),
	}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Debug("archive opened", "path", config.Path, "driver", config.Driver)
	return s, nil
}

func (s *SQLiteStorage) initialize() error {
	if s.config.Driver == DriverCGO {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return newStorageError("sqlite", "enable_wal", err)
		}
		if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
			return newStorageError("sqlite", "set_busy_timeout", err)
		}
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return newStorageError("sqlite", "create_schema", err)
	}
	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return newStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	if err := s.db.QueryRow(GetSchemaVersion).Scan(&version); err != nil {
		return newStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return newStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}
	return nil
}

func (s *SQLiteStorage) Store(ctx context.Context, r *Record) error {
	_, err := s.db.ExecContext(ctx, insertRun,
		r.ID, r.StartedAt.UnixNano(), r.FinishedAt.UnixNano(), r.RulesFile, r.ModelFile,
		r.Status.String(), r.Rules, r.ValidRules, r.Instances, r.ValidInstances,
		r.Report, string(r.Document),
	)
	if err != nil {
		return newStorageError("sqlite", "store", err)
	}
	return nil
}

func (s *SQLiteStorage) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, selectRunColumns+" WHERE id = ?", id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, newStorageError("sqlite", "get", err)
	}
	return r, nil
}

func (s *SQLiteStorage) List(ctx context.Context, query *Query) ([]*Record, error) {
	stmt, args := buildListQuery(query)
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, newStorageError("sqlite", "list", err)
	}
	defer rows.Close()

	results := []*Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, newStorageError("sqlite", "scan", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, newStorageError("sqlite", "list", err)
	}
	return results, nil
}

func buildListQuery(q *Query) (string, []any) {
	var (
		where []string
		args  []any
	)
	if q != nil {
		if !q.Since.IsZero() {
			where = append(where, "started_at >= ?")
			args = append(args, q.Since.UnixNano())
		}
		if !q.Until.IsZero() {
			where = append(where, "started_at < ?")
			args = append(args, q.Until.UnixNano())
		}
		if q.Status != nil {
			where = append(where, "status = ?")
			args = append(args, q.Status.String())
		}
		if q.RulesFile != "" {
			where = append(where, "rules_file = ?")
			args = append(args, q.RulesFile)
		}
	}

	var sb strings.Builder
	sb.WriteString(selectRunColumns)
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY started_at DESC, id DESC")
	if q != nil && (q.Limit > 0 || q.Offset > 0) {
		limit := q.Limit
		if limit <= 0 {
			limit = -1
		}
		sb.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, limit, q.Offset)
	}
	return sb.String(), args
}

func (s *SQLiteStorage) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, countRuns).Scan(&n); err != nil {
		return 0, newStorageError("sqlite", "count", err)
	}
	return n, nil
}

func (s *SQLiteStorage) DeleteBefore(ctx context.Context, t time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, deleteRunsBefore, t.UnixNano())
	if err != nil {
		return 0, newStorageError("sqlite", "delete_before", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStorage) DeleteOldest(ctx context.Context, keep int) (int64, error) {
	res, err := s.db.ExecContext(ctx, deleteOldestRuns, keep)
	if err != nil {
		return 0, newStorageError("sqlite", "delete_oldest", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		r                 Record
		started, finished int64
		status, document  string
	)
	err := row.Scan(
		&r.ID, &started, &finished, &r.RulesFile, &r.ModelFile,
		&status, &r.Rules, &r.ValidRules, &r.Instances, &r.ValidInstances,
		&r.Report, &document,
	)
	if err != nil {
		return nil, err
	}

	r.StartedAt = time.Unix(0, started)
	r.FinishedAt = time.Unix(0, finished)
	r.Document = []byte(document)
	if r.Status, err = engine.ParseStatus(status); err != nil {
		return nil, err
	}
	return &r, nil
}
