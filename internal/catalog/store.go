package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"lacquer/internal/db"
)

// Store provides read-mostly access to the shared product catalog.
type Store struct {
	db *db.DB
}

// NewStore constructs a catalog store over the shared database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// AddBrand inserts a brand, returning the existing row when the name is taken.
func (s *Store) AddBrand(ctx context.Context, name string) (*Brand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("brand name is empty")
	}

	existing, err := s.FindBrandByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now().UTC()
	res, err := s.db.ExecRetry(ctx,
		`INSERT INTO brands (name, created_at) VALUES (?, ?)`,
		name, db.FormatTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("insert brand: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return &Brand{ID: id, Name: name, CreatedAt: now}, nil
}

// FindBrandByName looks a brand up by exact name.
func (s *Store) FindBrandByName(ctx context.Context, name string) (*Brand, error) {
	row := s.db.SQL().QueryRowContext(ctx,
		`SELECT id, name, created_at FROM brands WHERE name = ?`, strings.TrimSpace(name))
	brand, err := scanBrand(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find brand: %w", err)
	}
	return brand, nil
}

// AddShade inserts a shade under a brand, returning the existing row on a
// duplicate (brand, name) pair.
func (s *Store) AddShade(ctx context.Context, brandID int64, name, finish string) (*Shade, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("shade name is empty")
	}

	row := s.db.SQL().QueryRowContext(ctx,
		`SELECT `+shadeColumns+` FROM shades s JOIN brands b ON b.id = s.brand_id
         WHERE s.brand_id = ? AND s.name = ?`, brandID, name)
	if existing, err := scanShade(row); err == nil {
		return existing, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find shade: %w", err)
	}

	now := time.Now().UTC()
	res, err := s.db.ExecRetry(ctx,
		`INSERT INTO shades (brand_id, name, finish, created_at) VALUES (?, ?, ?, ?)`,
		brandID, name, db.NullableString(strings.TrimSpace(finish)), db.FormatTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("insert shade: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetShade(ctx, id)
}

// AddSKU attaches a barcode to a shade.
func (s *Store) AddSKU(ctx context.Context, shadeID int64, gtin, description string) (*SKU, error) {
	gtin = strings.TrimSpace(gtin)
	if gtin == "" {
		return nil, errors.New("gtin is empty")
	}

	now := time.Now().UTC()
	res, err := s.db.ExecRetry(ctx,
		`INSERT INTO skus (shade_id, gtin, description, created_at) VALUES (?, ?, ?, ?)`,
		shadeID, gtin, db.NullableString(strings.TrimSpace(description)), db.FormatTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("insert sku: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return &SKU{ID: id, ShadeID: shadeID, GTIN: gtin, Description: description, CreatedAt: now}, nil
}

// GetShade fetches a shade with its brand name.
func (s *Store) GetShade(ctx context.Context, id int64) (*Shade, error) {
	row := s.db.SQL().QueryRowContext(ctx,
		`SELECT `+shadeColumns+` FROM shades s JOIN brands b ON b.id = s.brand_id WHERE s.id = ?`, id)
	shade, err := scanShade(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get shade: %w", err)
	}
	return shade, nil
}

// FindByBarcode returns the shade carrying an exact GTIN, or nil.
func (s *Store) FindByBarcode(ctx context.Context, gtin string) (*BarcodeMatch, error) {
	gtin = strings.TrimSpace(gtin)
	if gtin == "" {
		return nil, nil
	}
	row := s.db.SQL().QueryRowContext(ctx,
		`SELECT s.id, k.gtin, b.name, s.name
         FROM skus k
         JOIN shades s ON s.id = k.shade_id
         JOIN brands b ON b.id = s.brand_id
         WHERE k.gtin = ?`, gtin)

	var (
		shadeID   int64
		code      string
		brandName string
		shadeName string
	)
	if err := row.Scan(&shadeID, &code, &brandName, &shadeName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find barcode: %w", err)
	}
	return &BarcodeMatch{
		ShadeID: shadeID,
		GTIN:    code,
		Display: fmt.Sprintf("%s — %s", brandName, shadeName),
	}, nil
}

// ListShades returns all shades, optionally filtered to one brand name.
func (s *Store) ListShades(ctx context.Context, brandName string) ([]*Shade, error) {
	query := `SELECT ` + shadeColumns + ` FROM shades s JOIN brands b ON b.id = s.brand_id`
	args := []any{}
	if strings.TrimSpace(brandName) != "" {
		query += ` WHERE b.name = ?`
		args = append(args, strings.TrimSpace(brandName))
	}
	query += ` ORDER BY b.name, s.name`

	rows, err := s.db.SQL().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shades: %w", err)
	}
	defer rows.Close()

	var shades []*Shade
	for rows.Next() {
		shade, err := scanShade(rows)
		if err != nil {
			return nil, err
		}
		shades = append(shades, shade)
	}
	return shades, rows.Err()
}

const shadeColumns = "s.id, s.brand_id, b.name, s.name, s.finish, s.created_at"

func scanShade(scanner interface{ Scan(dest ...any) error }) (*Shade, error) {
	var (
		id         int64
		brandID    int64
		brandName  string
		name       string
		finish     sql.NullString
		createdRaw string
	)
	if err := scanner.Scan(&id, &brandID, &brandName, &name, &finish, &createdRaw); err != nil {
		return nil, err
	}
	shade := &Shade{
		ID:        id,
		BrandID:   brandID,
		BrandName: brandName,
		Name:      name,
		Finish:    finish.String,
	}
	if created, err := db.ParseTime(createdRaw); err == nil {
		shade.CreatedAt = created
	}
	return shade, nil
}

func scanBrand(scanner interface{ Scan(dest ...any) error }) (*Brand, error) {
	var (
		id         int64
		name       string
		createdRaw string
	)
	if err := scanner.Scan(&id, &name, &createdRaw); err != nil {
		return nil, err
	}
	brand := &Brand{ID: id, Name: name}
	if created, err := db.ParseTime(createdRaw); err == nil {
		brand.CreatedAt = created
	}
	return brand, nil
}
