package db

import (
	"context"
)

const getChunk = `
SELECT dim, x, y, biome, tiles, updated_at FROM chunks
WHERE dim = ? AND x = ? AND y = ?
`

type GetChunkParams struct {
	Dim string
	X   int64
	Y   int64
}

func (q *Queries) GetChunk(ctx context.Context, arg GetChunkParams) (Chunk, error) {
	row := q.db.QueryRowContext(ctx, getChunk, arg.Dim, arg.X, arg.Y)
	var i Chunk
	err := row.Scan(
		&i.Dim,
		&i.X,
		&i.Y,
		&i.Biome,
		&i.Tiles,
		&i.UpdatedAt,
	)
	return i, err
}

const upsertChunk = `
INSERT INTO chunks (dim, x, y, biome, tiles, updated_at)
VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (dim, x, y) DO UPDATE SET
    biome = excluded.biome,
    tiles = excluded.tiles,
    updated_at = CURRENT_TIMESTAMP
`

type UpsertChunkParams struct {
	Dim   string
	X     int64
	Y     int64
	Biome string
	Tiles []byte
}

func (q *Queries) UpsertChunk(ctx context.Context, arg UpsertChunkParams) error {
	_, err := q.db.ExecContext(ctx, upsertChunk,
		arg.Dim,
		arg.X,
		arg.Y,
		arg.Biome,
		arg.Tiles,
	)
	return err
}

const countChunks = `
SELECT COUNT(*) FROM chunks WHERE dim = ?
`

func (q *Queries) CountChunks(ctx context.Context, dim string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countChunks, dim)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const deleteAllChunks = `
DELETE FROM chunks
`

func (q *Queries) DeleteAllChunks(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllChunks)
	return err
}

const getMetadata = `
SELECT value FROM metadata WHERE key = ?
`

func (q *Queries) GetMetadata(ctx context.Context, key string) (string, error) {
	row := q.db.QueryRowContext(ctx, getMetadata, key)
	var value string
	err := row.Scan(&value)
	return value, err
}

const createMetadata = `
INSERT OR IGNORE INTO metadata (key, value) VALUES (?, ?)
`

type CreateMetadataParams struct {
	Key   string
	Value string
}

// CreateMetadata inserts a key only if it is not already present.
func (q *Queries) CreateMetadata(ctx context.Context, arg CreateMetadataParams) error {
	_, err := q.db.ExecContext(ctx, createMetadata, arg.Key, arg.Value)
	return err
}

const deleteMetadata = `
DELETE FROM metadata
`

func (q *Queries) DeleteMetadata(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteMetadata)
	return err
}

const getCharacter = `
SELECT id, dim, x, y FROM characters WHERE id = ?
`

func (q *Queries) GetCharacter(ctx context.Context, id int64) (Character, error) {
	row := q.db.QueryRowContext(ctx, getCharacter, id)
	var i Character
	err := row.Scan(
		&i.ID,
		&i.Dim,
		&i.X,
		&i.Y,
	)
	return i, err
}

const upsertCharacter = `
INSERT INTO characters (id, dim, x, y) VALUES (?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    dim = excluded.dim,
    x = excluded.x,
    y = excluded.y
`

type UpsertCharacterParams struct {
	ID  int64
	Dim string
	X   int64
	Y   int64
}

func (q *Queries) UpsertCharacter(ctx context.Context, arg UpsertCharacterParams) error {
	_, err := q.db.ExecContext(ctx, upsertCharacter,
		arg.ID,
		arg.Dim,
		arg.X,
		arg.Y,
	)
	return err
}

const deleteCharacters = `
DELETE FROM characters
`

func (q *Queries) DeleteCharacters(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteCharacters)
	return err
}

const listInventory = `
SELECT name, amount FROM inventory ORDER BY name
`

func (q *Queries) ListInventory(ctx context.Context) ([]InventoryItem, error) {
	rows, err := q.db.QueryContext(ctx, listInventory)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []InventoryItem
	for rows.Next() {
		var i InventoryItem
		if err := rows.Scan(&i.Name, &i.Amount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertInventoryItem = `
INSERT INTO inventory (name, amount) VALUES (?, ?)
ON CONFLICT (name) DO UPDATE SET amount = excluded.amount
`

type UpsertInventoryItemParams struct {
	Name   string
	Amount int64
}

func (q *Queries) UpsertInventoryItem(ctx context.Context, arg UpsertInventoryItemParams) error {
	_, err := q.db.ExecContext(ctx, upsertInventoryItem, arg.Name, arg.Amount)
	return err
}

const deleteInventory = `
DELETE FROM inventory
`

func (q *Queries) DeleteInventory(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteInventory)
	return err
}
