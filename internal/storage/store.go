// Package storage implements the document store backing the roster tool:
// named collections of JSON records with a primary key and secondary
// (optionally unique) indexes, versioned additive migrations, and
// transaction-per-call primitives on top of embedded SQLite.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	appErrors "github.com/dayoon-dev/homeroom-api/pkg/errors"
)

// Store is the process-wide storage handle. It is constructed once by the
// composition root and injected into repositories; every exposed operation
// runs in its own transaction with the minimum required mode and fully
// commits (or fails) before returning.
type Store struct {
	db     *sqlx.DB
	logger *zap.Logger
	cols   map[string]Collection
}

// Open migrates the database to the current schema version and returns a
// ready store. Failures here are connection errors: nothing else works
// until the store is reopened.
func Open(db *sqlx.DB, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cols := make(map[string]Collection, len(Schema))
	for _, col := range Schema {
		cols[col.Name] = col
	}
	s := &Store{db: db, logger: logger, cols: cols}

	if err := s.migrate(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrConnection.Code, appErrors.ErrConnection.Status, "storage initialization failed")
	}
	return s, nil
}

func (s *Store) migrate() error {
	var version int
	if err := s.db.Get(&version, "PRAGMA user_version"); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	for step := version; step < SchemaVersion; step++ {
		tx, err := s.db.Beginx()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", step+1, err)
		}
		if err := migrations[step](tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %d: %w", step+1, err)
		}
		// PRAGMA does not take bind parameters.
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", step+1)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("stamp schema version %d: %w", step+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", step+1, err)
		}
		s.logger.Info("schema migrated", zap.Int("version", step+1))
	}
	return nil
}

// Get returns the record stored under key, with found=false when absent.
func (s *Store) Get(ctx context.Context, collection, key string) (json.RawMessage, bool, error) {
	if _, err := s.collection(collection); err != nil {
		return nil, false, err
	}
	var doc string
	query := fmt.Sprintf("SELECT doc FROM %s WHERE k = ?", collection)
	if err := s.db.GetContext(ctx, &doc, query, key); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, s.readErr(collection, err)
	}
	return json.RawMessage(doc), true, nil
}

// GetAll returns every record of the collection in unspecified order.
func (s *Store) GetAll(ctx context.Context, collection string) ([]json.RawMessage, error) {
	if _, err := s.collection(collection); err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT doc FROM %s", collection)
	return s.selectDocs(ctx, collection, query)
}

// GetAllByIndex returns every record whose indexed fields match values, in
// unspecified order. Fewer values than index fields matches on the prefix.
func (s *Store) GetAllByIndex(ctx context.Context, collection, indexName string, values ...interface{}) ([]json.RawMessage, error) {
	col, err := s.collection(collection)
	if err != nil {
		return nil, err
	}
	where, err := indexPredicate(col, indexName, len(values))
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT doc FROM %s WHERE %s", collection, where)
	return s.selectDocs(ctx, collection, query, values...)
}

// Put inserts or replaces the record under its primary key and returns the
// key. A unique-index conflict with another record surfaces as a
// constraint violation.
func (s *Store) Put(ctx context.Context, collection string, record interface{}) (string, error) {
	col, err := s.collection(collection)
	if err != nil {
		return "", err
	}
	key, doc, err := encodeRecord(col, record)
	if err != nil {
		return "", err
	}
	query := fmt.Sprintf("INSERT INTO %s (k, doc) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET doc = excluded.doc", collection)
	if _, err := s.db.ExecContext(ctx, query, key, doc); err != nil {
		return "", s.writeErr(collection, err)
	}
	return key, nil
}

// PutMany writes all records in one transaction; if any individual write
// fails nothing is persisted.
func (s *Store) PutMany(ctx context.Context, collection string, records []interface{}) error {
	col, err := s.collection(collection)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return s.writeErr(collection, err)
	}
	query := fmt.Sprintf("INSERT INTO %s (k, doc) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET doc = excluded.doc", collection)
	for _, record := range records {
		key, doc, err := encodeRecord(col, record)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		if _, err := tx.ExecContext(ctx, query, key, doc); err != nil {
			_ = tx.Rollback()
			return s.writeErr(collection, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return s.writeErr(collection, err)
	}
	return nil
}

// Delete removes the record under key. Deleting an absent key is a no-op.
func (s *Store) Delete(ctx context.Context, collection, key string) error {
	if _, err := s.collection(collection); err != nil {
		return err
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE k = ?", collection)
	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return s.writeErr(collection, err)
	}
	return nil
}

// DeleteAllByIndex removes every record whose indexed fields match values,
// scanning matching keys and deleting them within one transaction.
func (s *Store) DeleteAllByIndex(ctx context.Context, collection, indexName string, values ...interface{}) error {
	col, err := s.collection(collection)
	if err != nil {
		return err
	}
	where, err := indexPredicate(col, indexName, len(values))
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return s.writeErr(collection, err)
	}
	var keys []string
	if err := tx.SelectContext(ctx, &keys, fmt.Sprintf("SELECT k FROM %s WHERE %s", collection, where), values...); err != nil {
		_ = tx.Rollback()
		return s.writeErr(collection, err)
	}
	del := fmt.Sprintf("DELETE FROM %s WHERE k = ?", collection)
	for _, key := range keys {
		if _, err := tx.ExecContext(ctx, del, key); err != nil {
			_ = tx.Rollback()
			return s.writeErr(collection, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return s.writeErr(collection, err)
	}
	return nil
}

func (s *Store) collection(name string) (Collection, error) {
	col, ok := s.cols[name]
	if !ok {
		return Collection{}, appErrors.Wrap(fmt.Errorf("unknown collection %q", name),
			appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "unknown collection")
	}
	return col, nil
}

func (s *Store) selectDocs(ctx context.Context, collection, query string, args ...interface{}) ([]json.RawMessage, error) {
	var docs []string
	if err := s.db.SelectContext(ctx, &docs, query, args...); err != nil {
		return nil, s.readErr(collection, err)
	}
	out := make([]json.RawMessage, len(docs))
	for i, d := range docs {
		out[i] = json.RawMessage(d)
	}
	return out, nil
}

func (s *Store) readErr(collection string, err error) error {
	s.logger.Error("storage read failed", zap.String("collection", collection), zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "storage read failed")
}

func (s *Store) writeErr(collection string, err error) error {
	if isUniqueViolation(err) {
		return appErrors.Wrap(err, appErrors.ErrConstraintViolation.Code, appErrors.ErrConstraintViolation.Status, "unique constraint violated")
	}
	s.logger.Error("storage write failed", zap.String("collection", collection), zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "storage write failed")
}

// isUniqueViolation matches the driver's SQLITE_CONSTRAINT_UNIQUE message;
// modernc.org/sqlite exposes no stable error type to assert on.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed: UNIQUE")
}

func indexPredicate(col Collection, indexName string, valueCount int) (string, error) {
	var idx *Index
	for i := range col.Indexes {
		if col.Indexes[i].Name == indexName {
			idx = &col.Indexes[i]
			break
		}
	}
	if idx == nil {
		return "", appErrors.Wrap(fmt.Errorf("unknown index %q on %s", indexName, col.Name),
			appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "unknown index")
	}
	if valueCount < 1 || valueCount > len(idx.Fields) {
		return "", appErrors.Wrap(fmt.Errorf("index %s.%s takes up to %d values, got %d", col.Name, indexName, len(idx.Fields), valueCount),
			appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "bad index query")
	}
	preds := make([]string, valueCount)
	for i := 0; i < valueCount; i++ {
		preds[i] = jsonField(idx.Fields[i]) + " = ?"
	}
	return strings.Join(preds, " AND "), nil
}

func encodeRecord(col Collection, record interface{}) (string, string, error) {
	doc, err := json.Marshal(record)
	if err != nil {
		return "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode record")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc, &fields); err != nil {
		return "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "record is not an object")
	}
	rawKey, ok := fields[col.Key]
	if !ok {
		return "", "", appErrors.Wrap(fmt.Errorf("record missing primary key %q", col.Key),
			appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "record missing primary key")
	}
	var key string
	if err := json.Unmarshal(rawKey, &key); err != nil || key == "" {
		return "", "", appErrors.Wrap(fmt.Errorf("primary key %q must be a non-empty string", col.Key),
			appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "bad primary key")
	}
	return key, string(doc), nil
}

// Decode unmarshals one stored record.
func Decode[T any](raw json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "decode record")
	}
	return v, nil
}

// DecodeAll unmarshals a result set.
func DecodeAll[T any](raws []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		v, err := Decode[T](raw)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
