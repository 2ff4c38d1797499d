package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/rajivgeraev/realty-api/internal/models"
	"github.com/rajivgeraev/realty-api/internal/search"
)

// PostgresStore хранит объекты недвижимости в PostgreSQL
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore создает хранилище поверх готового пула соединений
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate создает таблицы и индексы, если их еще нет
func (s *PostgresStore) Migrate(ctx context.Context) error {
	for _, stmt := range postgresSchema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("storage: migrate postgres: %w", err)
		}
	}
	return nil
}

// Find возвращает страницу объектов и общее число совпадений.
// Подсчет и выборка выполняются параллельно.
func (s *PostgresStore) Find(ctx context.Context, q search.Query) (search.Result, error) {
	countSQL, listSQL, countArgs, listArgs, err := findSQL(postgresDialect, q)
	if err != nil {
		return search.Result{}, err
	}

	var (
		total int
		docs  []models.Property
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.pool.QueryRow(gctx, countSQL, countArgs...).Scan(&total); err != nil {
			return fmt.Errorf("storage: count properties: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		rows, err := s.pool.Query(gctx, listSQL, listArgs...)
		if err != nil {
			return fmt.Errorf("storage: query properties: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			p, err := scanProperty(rows)
			if err != nil {
				return fmt.Errorf("storage: scan property: %w", err)
			}
			docs = append(docs, p)
		}
		return rows.Err()
	})
	if err := g.Wait(); err != nil {
		return search.Result{}, err
	}

	return search.Result{Docs: docs, TotalDocs: total}, nil
}

// FindOne возвращает первый подходящий объект вместе с галереей
func (s *PostgresStore) FindOne(ctx context.Context, preds []search.Predicate) (models.Property, error) {
	query, args, err := findOneSQL(postgresDialect, preds)
	if err != nil {
		return models.Property{}, err
	}

	p, err := scanProperty(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Property{}, ErrNotFound
		}
		return models.Property{}, fmt.Errorf("storage: find property: %w", err)
	}

	rows, err := s.pool.Query(ctx, fmt.Sprintf(selectGallery, postgresDialect.placeholder(1)), p.ID)
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
func (s *PostgresStore) CreateMedia(ctx context.Context, m *models.Media) error {
	if _, err := s.pool.Exec(ctx, insertMediaSQL(postgresDialect), mediaArgs(m)...); err != nil {
		return fmt.Errorf("storage: insert media: %w", err)
	}
	return nil
}

// CreateProperty сохраняет объект и его галерею в одной транзакции
func (s *PostgresStore) CreateProperty(ctx context.Context, p *models.Property) error {
	args, err := propertyArgs(postgresDialect, p)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("storage: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, insertPropertySQL(postgresDialect), args...); err != nil {
		return fmt.Errorf("storage: insert property %s: %w", p.Slug, err)
	}
	for i, m := range p.Gallery {
		if _, err := tx.Exec(ctx, insertGallerySQL(postgresDialect), p.ID, m.ID, i); err != nil {
			return fmt.Errorf("storage: insert gallery of %s: %w", p.Slug, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("storage: commit: %w", err)
	}
	return nil
}

// Close закрывает пул соединений
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
