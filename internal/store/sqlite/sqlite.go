// Package sqlite stores expenses in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"hometab/expense-tracker/internal/logging"
	"hometab/expense-tracker/internal/models"
	"hometab/expense-tracker/internal/parsererror"
	"hometab/expense-tracker/internal/store"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// BackendName is the name this backend reports in logs and errors.
const BackendName = "sqlite"

// Store is a SQLite backed store.Store. Every save replaces its collection
// inside a single SQL transaction.
type Store struct {
	mu     sync.Mutex
	db     *sql.DB
	path   string
	logger logging.Logger
}

// Open opens (creating if needed) the database at dbPath and migrates it.
func Open(dbPath string, logger logging.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer keeps SQLite away from "database is locked".
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}

	logger = logging.OrDefault(logger)
	logger.Debug("SQLite store opened", logging.F(logging.FieldFile, dbPath))
	return &Store{db: db, path: dbPath, logger: logger}, nil
}

func (s *Store) BackendName() string { return BackendName }

// Close releases the database handle. Calling it twice is harmless.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) handle() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, store.ErrClosed
	}
	return s.db, nil
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &parsererror.StorageError{Backend: BackendName, Operation: op, Err: err}
}

func (s *Store) LoadTransactions(ctx context.Context) ([]models.Transaction, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT id, date, business, amount, category, notes FROM transactions ORDER BY position`)
	if err != nil {
		return nil, wrap("load transactions", err)
	}
	defer rows.Close()

	records := []models.Transaction{}
	for rows.Next() {
		var tx models.Transaction
		var amount string
		if err := rows.Scan(&tx.ID, &tx.Date, &tx.Business, &amount, &tx.Category, &tx.Notes); err != nil {
			return nil, wrap("load transactions", err)
		}
		if v, ok := models.ParseAmount(amount); ok {
			tx.Amount = v
		} else {
			s.logger.Warn("Unreadable amount in database, using zero",
				logging.F("id", tx.ID), logging.F("amount", amount))
		}
		tx.RecomputeMonth()
		records = append(records, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("load transactions", err)
	}
	return records, nil
}

func (s *Store) SaveTransactions(ctx context.Context, records []models.Transaction) error {
	return s.replace(ctx, "save transactions", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO transactions (position, id, month, date, business, amount, category, notes)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, r := range records {
			r.RecomputeMonth()
			id := r.ID
			if id == "" {
				id = uuid.NewString()
			}
			if _, err := stmt.ExecContext(ctx, i, id, r.Month, r.Date, r.Business, r.AmountText(), r.Category, r.Notes); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) LoadCategories(ctx context.Context) ([]string, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var seeded int
	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM meta WHERE key = 'categories_saved'`).Scan(&seeded)
	if err != nil {
		return nil, wrap("load categories", err)
	}
	if seeded == 0 {
		return models.DefaultCategoriesCopy(), nil
	}

	rows, err := db.QueryContext(ctx, `SELECT name FROM categories ORDER BY position`)
	if err != nil {
		return nil, wrap("load categories", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, wrap("load categories", err)
		}
		categories = append(categories, name)
	}
	return categories, wrap("load categories", rows.Err())
}

func (s *Store) SaveCategories(ctx context.Context, categories []string) error {
	return s.replace(ctx, "save categories", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM categories`); err != nil {
			return err
		}
		for i, name := range categories {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO categories (position, name) VALUES (?, ?)`, i, name); err != nil {
				return err
			}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO meta (key, value) VALUES ('categories_saved', '1')
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`)
		return err
	})
}

func (s *Store) LoadMapping(ctx context.Context) (models.Mapping, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT business, category FROM mapping`)
	if err != nil {
		return nil, wrap("load mapping", err)
	}
	defer rows.Close()

	mapping := models.Mapping{}
	for rows.Next() {
		var business, category string
		if err := rows.Scan(&business, &category); err != nil {
			return nil, wrap("load mapping", err)
		}
		mapping[business] = category
	}
	return mapping, wrap("load mapping", rows.Err())
}

func (s *Store) SaveMapping(ctx context.Context, mapping models.Mapping) error {
	return s.replace(ctx, "save mapping", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM mapping`); err != nil {
			return err
		}
		for _, business := range mapping.Businesses() {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO mapping (business, category) VALUES (?, ?)`, business, mapping[business]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) replace(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	db, err := s.handle()
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return wrap(op, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return wrap(op, err)
	}
	return wrap(op, tx.Commit())
}
