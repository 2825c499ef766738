package sqlite

import (
	"context"
	"database/sql"
	"net/url"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // register the sqlite driver

	"github.com/askiada/go-procgraph/pkg/storage"
)

const table = "kv"

const createTable = `CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value BLOB
)`

// SQLiteStorage keeps values in the kv table of a SQLite database.
type SQLiteStorage struct {
	stbl   sq.StatementBuilderType
	db     *sql.DB
	closed atomic.Bool
}

var _ storage.Storage = (*SQLiteStorage)(nil)

// PrepareDSN sets the journal mode and busy timeout pragmas when uri does not.
func PrepareDSN(uri string) (string, error) {
	query := url.Values{}
	if i := strings.Index(uri, "?"); i != -1 {
		var err error
		query, err = url.ParseQuery(uri[i+1:])
		if err != nil {
			return uri, errors.Wrap(err, "unable to parse dsn")
		}
		uri = uri[:i]
	}

	foundJournalMode, foundBusyTimeout := false, false
	for _, val := range query["_pragma"] {
		switch {
		case strings.HasPrefix(val, "journal_mode"):
			foundJournalMode = true
		case strings.HasPrefix(val, "busy_timeout"):
			foundBusyTimeout = true
		}
	}
	if !foundJournalMode {
		query.Add("_pragma", "journal_mode(WAL)")
	}
	if !foundBusyTimeout {
		query.Add("_pragma", "busy_timeout(100)")
	}

	return uri + "?" + query.Encode(), nil
}

// New opens the database at uri and creates the kv table when needed.
func New(uri string) (*SQLiteStorage, error) {
	dsn, err := PrepareDSN(uri)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "unable to initialize sqlite connection")
	}

	_, err = db.Exec(createTable)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "unable to create table")
	}

	return &SQLiteStorage{
		stbl: sq.StatementBuilder.RunWith(db),
		db:   db,
	}, nil
}

func (s *SQLiteStorage) Read(ctx context.Context, key string) ([]byte, error) {
	if err := s.check(key); err != nil {
		return nil, err
	}

	var value []byte
	err := s.stbl.
		Select("value").
		From(table).
		Where(sq.Eq{"key": key}).
		QueryRowContext(ctx).
		Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrap(storage.ErrKeyNotFound, key)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read %s", key)
	}

	return value, nil
}

func (s *SQLiteStorage) Write(ctx context.Context, key string, value []byte) error {
	if err := s.check(key); err != nil {
		return err
	}
	if value == nil {
		value = []byte{}
	}

	_, err := s.stbl.
		Insert(table).
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = excluded.value").
		ExecContext(ctx)
	if err != nil {
		return errors.Wrapf(err, "unable to write %s", key)
	}

	return nil
}

func (s *SQLiteStorage) Exists(ctx context.Context, key string) (bool, error) {
	if err := s.check(key); err != nil {
		return false, err
	}

	var count int
	err := s.stbl.
		Select("COUNT(*)").
		From(table).
		Where(sq.Eq{"key": key}).
		QueryRowContext(ctx).
		Scan(&count)
	if err != nil {
		return false, errors.Wrapf(err, "unable to check %s", key)
	}

	return count > 0, nil
}

func (s *SQLiteStorage) Delete(ctx context.Context, key string) error {
	if err := s.check(key); err != nil {
		return err
	}

	res, err := s.stbl.
		Delete(table).
		Where(sq.Eq{"key": key}).
		ExecContext(ctx)
	if err != nil {
		return errors.Wrapf(err, "unable to delete %s", key)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "unable to delete %s", key)
	}
	if n == 0 {
		return errors.Wrap(storage.ErrKeyNotFound, key)
	}

	return nil
}

// Keys compares prefixes with substr rather than LIKE, which treats % and _ as wildcards.
func (s *SQLiteStorage) Keys(ctx context.Context, prefix string) ([]string, error) {
	if s.closed.Load() {
		return nil, storage.ErrClosed
	}

	rows, err := s.stbl.
		Select("key").
		From(table).
		Where(sq.Expr("substr(key, 1, ?) = ?", utf8.RuneCountInString(prefix), prefix)).
		OrderBy("key").
		QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "unable to list keys")
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		err = rows.Scan(&key)
		if err != nil {
			return nil, errors.Wrap(err, "unable to scan key")
		}
		keys = append(keys, key)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "unable to list keys")
	}

	return keys, nil
}

func (s *SQLiteStorage) Close() error {
	if s.closed.Swap(true) {
		return nil
	}

	return s.db.Close()
}

func (s *SQLiteStorage) check(key string) error {
	if s.closed.Load() {
		return storage.ErrClosed
	}

	return storage.CheckKey(key)
}
