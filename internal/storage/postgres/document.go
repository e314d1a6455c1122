// Package postgres — document.go реализует storage.Document поверх
// таблицы documents: одна строка на документ, полная перезапись JSONB.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Document — один именованный документ в таблице documents.
type Document struct {
	pool *pgxpool.Pool
	name string
}

// NewDocument создаёт документ с заданным именем ("xp", "stats", "badges").
func NewDocument(pool *pgxpool.Pool, name string) *Document {
	return &Document{pool: pool, name: name}
}

// Load читает документ целиком.
// Отсутствующая строка — не ошибка: возвращается (nil, nil).
func (d *Document) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := d.pool.QueryRow(ctx,
		"SELECT data FROM documents WHERE name = $1", d.name,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка чтения документа %q: %w", d.name, err)
	}
	return data, nil
}

// Save перезаписывает документ целиком (upsert по имени).
func (d *Document) Save(ctx context.Context, data []byte) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO documents (name, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`, d.name, data)
	if err != nil {
		return fmt.Errorf("ошибка сохранения документа %q: %w", d.name, err)
	}
	return nil
}
