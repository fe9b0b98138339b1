// Package inventory maintains the per-user collection derived from matched
// capture sessions.
package inventory

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"lacquer/internal/db"
)

// Item is one owned shade with an acquisition count.
type Item struct {
	ID        int64
	UserID    string
	ShadeID   int64
	Quantity  int
	Note      string
	Brand     string
	ShadeName string
	Finish    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store persists inventory items.
type Store struct {
	db *db.DB
}

// NewStore creates an inventory store over an open database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// ApplyMatchTx upserts the item for (user, shade) inside a caller-owned
// transaction. A second match for the same shade increments quantity instead
// of duplicating the row, so replaying a finalize is harmless.
func ApplyMatchTx(tx *sql.Tx, userID string, shadeID int64, note string, now time.Time) error {
	var id int64
	err := tx.QueryRow(
		`SELECT id FROM inventory_items WHERE user_id = ? AND shade_id = ?`,
		userID, shadeID).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.Exec(`
			INSERT INTO inventory_items (user_id, shade_id, quantity, note, created_at, updated_at)
			VALUES (?, ?, 1, ?, ?, ?)`,
			userID, shadeID, db.NullableString(note), db.FormatTime(now), db.FormatTime(now))
		return err
	case err != nil:
		return err
	default:
		_, err = tx.Exec(`
			UPDATE inventory_items SET quantity = quantity + 1, updated_at = ? WHERE id = ?`,
			db.FormatTime(now), id)
		return err
	}
}

// List returns a user's items with their catalog display fields, newest
// update first.
func (s *Store) List(ctx context.Context, userID string) ([]*Item, error) {
	rows, err := s.db.SQL().QueryContext(ctx, `
		SELECT i.id, i.user_id, i.shade_id, i.quantity, i.note,
			b.name, sh.name, sh.finish, i.created_at, i.updated_at
		FROM inventory_items i
		JOIN shades sh ON sh.id = i.shade_id
		JOIN brands b ON b.id = sh.brand_id
		WHERE i.user_id = ?
		ORDER BY i.updated_at DESC, i.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		var item Item
		var note, finish sql.NullString
		var created, updated string
		err := rows.Scan(&item.ID, &item.UserID, &item.ShadeID, &item.Quantity, &note,
			&item.Brand, &item.ShadeName, &finish, &created, &updated)
		if err != nil {
			return nil, err
		}
		item.Note = note.String
		item.Finish = finish.String
		item.CreatedAt, _ = db.ParseTime(created)
		item.UpdatedAt, _ = db.ParseTime(updated)
		items = append(items, &item)
	}
	return items, rows.Err()
}

// Get returns one item for (user, shade), or nil when absent.
func (s *Store) Get(ctx context.Context, userID string, shadeID int64) (*Item, error) {
	items, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.ShadeID == shadeID {
			return item, nil
		}
	}
	return nil, nil
}
