package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/rajivgeraev/realty-api/internal/models"
	"github.com/rajivgeraev/realty-api/internal/search"
)

// sqliteDriver - go-sqlite3 с функцией ulower, сворачивающей регистр Unicode
const sqliteDriver = "sqlite3_realty"

func init() {
	sql.Register(sqliteDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("ulower", strings.ToLower, true)
		},
	})
}

// SQLiteStore хранит объекты недвижимости в файле SQLite.
// Используется для локальной разработки и тестов.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore открывает базу и применяет схему. Путь ":memory:"
// создает базу в памяти.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dsn := path + "?_foreign_keys=on&_busy_timeout=5000"
	if !strings.HasPrefix(path, ":memory:") {
		dsn += "&_journal_mode=WAL"
	}

	db, err := sql.Open(sqliteDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: open sqlite: %w", err)
	}
	if strings.HasPrefix(path, ":memory:") {
		// каждое новое соединение получило бы свою пустую базу
		db.SetMaxOpenConns(1)
	}

	s := &SQLiteStore{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate создает таблицы и индексы, если их еще нет
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	for _, stmt := range sqliteSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("storage: migrate sqlite: %w", err)
		}
	}
	return nil
}

// Find возвращает страницу объектов и общее число совпадений
func (s *SQLiteStore) Find(ctx context.Context, q search.Query) (search.Result, error) {
	countSQL, listSQL, countArgs, listArgs, err := findSQL(sqliteDialect, q)
	if err != nil {
		return search.Result{}, err
	}

	var total int
	if err := s.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return search.Result{}, fmt.Errorf("storage: count properties: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, listSQL, listArgs...)
	if err != nil {
		return search.Result{}, fmt.Errorf("storage: query properties: %w", err)
	}
	defer rows.Close()

	var docs []models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return search.Result{}, fmt.Errorf("storage: scan property: %w", err)
		}
		docs = append(docs, p)
	}
	if err := rows.Err(); err != nil {
		return search.Result{}, fmt.Errorf("storage: read properties: %w", err)
	}

	return search.Result{Docs: docs, TotalDocs: total}, nil
}

// FindOne возвращает первый подходящий объект вместе с галереей
func (s *SQLiteStore) FindOne(ctx context.Context, preds []search.Predicate) (models.Property, error) {
	query, args, err := findOneSQL(sqliteDialect, preds)
	if err != nil {
		return models.Property{}, err
	}

	p, err := scanProperty(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Property{}, ErrNotFound
		}
		return models.Property{}, fmt.Errorf("storage: find property: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(selectGallery, sqliteDialect.placeholder(1)), p.ID)
	if err != nil {
		return models.Property{}, fmt.Errorf("storage: query gallery: %w", err)
	}
	defer rows.Close()

	p.Gallery = []models.Media{}
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return models.Property{}, fmt.Errorf("storage: scan gallery: %w", err)
		}
		p.Gallery = append(p.Gallery, m)
	}
	if err := rows.Err(); err != nil {
		return models.Property{}, fmt.Errorf("storage: read gallery: %w", err)
	}
	return p, nil
}

// CreateMedia сохраняет описание загруженного изображения
func (s *SQLiteStore) CreateMedia(ctx context.Context, m *models.Media) error {
	if _, err := s.db.ExecContext(ctx, insertMediaSQL(sqliteDialect), mediaArgs(m)...); err != nil {
		return fmt.Errorf("storage: insert media: %w", err)
	}
	return nil
}

// CreateProperty сохраняет объект и его галерею в одной транзакции
func (s *SQLiteStore) CreateProperty(ctx context.Context, p *models.Property) error {
	args, err := propertyArgs(sqliteDialect, p)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, insertPropertySQL(sqliteDialect), args...); err != nil {
		return fmt.Errorf("storage: insert property %s: %w", p.Slug, err)
	}
	for i, m := range p.Gallery {
		if _, err := tx.ExecContext(ctx, insertGallerySQL(sqliteDialect), p.ID, m.ID, i); err != nil {
			return fmt.Errorf("storage: insert gallery of %s: %w", p.Slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: commit: %w", err)
	}
	return nil
}

// Close закрывает базу
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
