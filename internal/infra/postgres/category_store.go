package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/kitikazis/ELAC-Lectura/internal/app"
	"github.com/kitikazis/ELAC-Lectura/internal/domain"
)

// CategoryStore persists categories as JSONB rows keyed by slug. This is the
// hosted deployment mode, mirroring the remote-table layout of the original
// backend (categories: key, name, readingText, questions).
type CategoryStore struct {
	pool *pgxpool.Pool
}

var _ app.CategoryStore = (*CategoryStore)(nil)

func NewCategoryStore(pool *pgxpool.Pool) *CategoryStore {
	return &CategoryStore{pool: pool}
}

func (s *CategoryStore) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM categories ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		var c domain.Category
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("unmarshal category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

func (s *CategoryStore) Get(ctx context.Context, key string) (domain.Category, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM categories WHERE key=$1`, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Category{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Category{}, fmt.Errorf("load category: %w", err)
	}
	var c domain.Category
	if err := json.Unmarshal(raw, &c); err != nil {
		return domain.Category{}, fmt.Errorf("unmarshal category: %w", err)
	}
	return c, nil
}

func (s *CategoryStore) Create(ctx context.Context, category domain.Category) error {
	data, err := json.Marshal(category)
	if err != nil {
		return fmt.Errorf("marshal category: %w", err)
	}
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO categories (key, data) VALUES ($1, $2::jsonb) ON CONFLICT (key) DO NOTHING`,
		category.Key, data)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDuplicateKey
	}
	return nil
}

func (s *CategoryStore) Update(ctx context.Context, key, readingText string, questions []domain.Question) error {
	category, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	category.ReadingText = readingText
	category.Questions = questions
	data, err := json.Marshal(category)
	if err != nil {
		return fmt.Errorf("marshal category: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `UPDATE categories SET data=$2::jsonb WHERE key=$1`, key, data)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *CategoryStore) Delete(ctx context.Context, key string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM categories WHERE key=$1`, key)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
