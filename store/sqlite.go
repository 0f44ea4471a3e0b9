package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLite is a persistent SetStore backed by a single SQLite file. It is
// meant for single-process deployments where running Redis is overkill.
type SQLite struct {
	db   *sql.DB
	path string
}

// NewSQLite opens (or creates) a SQLite store at the given path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLite{db: db, path: path}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *SQLite) init() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := s.db.Exec(p); err != nil {
			return fmt.Errorf("pragma failed: %w", err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS set_members (
			set_key TEXT NOT NULL,
			member  TEXT NOT NULL,
			PRIMARY KEY (set_key, member)
		) WITHOUT ROWID;
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("schema creation failed: %w", err)
	}

	return nil
}

// Add unions members into the set at key.
func (s *SQLite) Add(ctx context.Context, key string, members ...string) error {
	return s.batchExec(ctx, func(tx *sql.Tx) error {
		return addTx(ctx, tx, key, members)
	})
}

// Remove deletes members from the set at key.
func (s *SQLite) Remove(ctx context.Context, key string, members ...string) error {
	return s.batchExec(ctx, func(tx *sql.Tx) error {
		return removeTx(ctx, tx, key, members)
	})
}

// Members returns all members of the set at key.
func (s *SQLite) Members(ctx context.Context, key string) ([]string, error) {
	return s.queryMembers(ctx,
		"SELECT member FROM set_members WHERE set_key = ?", key)
}

// Card returns the set's cardinality.
func (s *SQLite) Card(ctx context.Context, key string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM set_members WHERE set_key = ?", key).Scan(&n)
	return n, err
}

// IsMember reports whether member is in the set at key.
func (s *SQLite) IsMember(ctx context.Context, key, member string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM set_members WHERE set_key = ? AND member = ?",
		key, member).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// Inter returns the intersection of the sets at keys.
func (s *SQLite) Inter(ctx context.Context, keys ...string) ([]string, error) {
	if len(keys) == 0 {
		return []string{}, nil
	}
	parts := make([]string, len(keys))
	args := make([]interface{}, len(keys))
	for i, k := range keys {
		parts[i] = "SELECT member FROM set_members WHERE set_key = ?"
		args[i] = k
	}
	return s.queryMembers(ctx, strings.Join(parts, " INTERSECT "), args...)
}

// Diff returns members of the set at key that are in none of the others.
func (s *SQLite) Diff(ctx context.Context, key string, others ...string) ([]string, error) {
	if len(others) == 0 {
		return s.Members(ctx, key)
	}
	query := "SELECT member FROM set_members WHERE set_key = ?" +
		" EXCEPT SELECT member FROM set_members WHERE set_key IN (?" +
		strings.Repeat(", ?", len(others)-1) + ")"
	args := make([]interface{}, 0, len(others)+1)
	args = append(args, key)
	for _, k := range others {
		args = append(args, k)
	}
	return s.queryMembers(ctx, query, args...)
}

// RandomMember returns one uniformly-random member.
func (s *SQLite) RandomMember(ctx context.Context, key string) (string, error) {
	var member string
	err := s.db.QueryRowContext(ctx,
		"SELECT member FROM set_members WHERE set_key = ? ORDER BY random() LIMIT 1",
		key).Scan(&member)
	if err == sql.ErrNoRows {
		return "", ErrNoMember
	}
	return member, err
}

// Batch begins a batch executed as a single transaction.
func (s *SQLite) Batch() Batch {
	return &sqliteBatch{store: s}
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) queryMembers(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []string{}
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *SQLite) batchExec(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func addTx(ctx context.Context, tx *sql.Tx, key string, members []string) error {
	stmt, err := tx.PrepareContext(ctx,
		"INSERT OR IGNORE INTO set_members (set_key, member) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range members {
		if _, err := stmt.ExecContext(ctx, key, m); err != nil {
			return err
		}
	}
	return nil
}

func removeTx(ctx context.Context, tx *sql.Tx, key string, members []string) error {
	stmt, err := tx.PrepareContext(ctx,
		"DELETE FROM set_members WHERE set_key = ? AND member = ?")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range members {
		if _, err := stmt.ExecContext(ctx, key, m); err != nil {
			return err
		}
	}
	return nil
}

type sqliteOp struct {
	remove  bool
	draw    bool
	key     string
	members []string
	cmd     *MemberCmd
}

type sqliteBatch struct {
	store *SQLite
	ops   []sqliteOp
}

func (b *sqliteBatch) Add(key string, members ...string) {
	b.ops = append(b.ops, sqliteOp{key: key, members: members})
}

func (b *sqliteBatch) Remove(key string, members ...string) {
	b.ops = append(b.ops, sqliteOp{remove: true, key: key, members: members})
}

func (b *sqliteBatch) RandomMember(key string) *MemberCmd {
	cmd := &MemberCmd{}
	b.ops = append(b.ops, sqliteOp{draw: true, key: key, cmd: cmd})
	return cmd
}

// Exec runs the queued operations in issue order inside one transaction.
func (b *sqliteBatch) Exec(ctx context.Context) error {
	err := b.store.batchExec(ctx, func(tx *sql.Tx) error {
		for _, op := range b.ops {
			switch {
			case op.draw:
				var member string
				err := tx.QueryRowContext(ctx,
					"SELECT member FROM set_members WHERE set_key = ? ORDER BY random() LIMIT 1",
					op.key).Scan(&member)
				if err == sql.ErrNoRows {
					op.cmd.SetResult("", ErrNoMember)
					continue
				}
				if err != nil {
					return err
				}
				op.cmd.SetResult(member, nil)
			case op.remove:
				if err := removeTx(ctx, tx, op.key, op.members); err != nil {
					return err
				}
			default:
				if err := addTx(ctx, tx, op.key, op.members); err != nil {
					return err
				}
			}
		}
		return nil
	})
	b.ops = nil
	return err
}
