package plant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Repository defines the interface for plant persistence operations.
type Repository interface {
	Create(ctx context.Context, p *Plant) error
	GetByID(ctx context.Context, id int64) (*Plant, error)
	List(ctx context.Context) ([]Plant, error)
	Save(ctx context.Context, p *Plant) error
	Delete(ctx context.Context, id int64) error
	Find(ctx context.Context, q Query) ([]Plant, error)
	Count(ctx context.Context) (int, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed plant repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new plant and sets p.ID to the generated key.
// Any ID already present on p is ignored.
func (r *SQLiteRepository) Create(ctx context.Context, p *Plant) error {
	const query = `INSERT INTO plants (name, quantity, watering_frequency, has_fruit)
		VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		nullStr(p.Name), nullInt(p.Quantity), nullInt(p.WateringFrequency), nullBool(p.HasFruit))
	if err != nil {
		return fmt.Errorf("inserting plant: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading generated plant id: %w", err)
	}
	p.ID = id
	return nil
}

// GetByID returns a single plant by ID.
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*Plant, error) {
	const query = `SELECT id, name, quantity, watering_frequency, has_fruit
		FROM plants WHERE id = ?`
	p, err := scanPlant(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlantNotFound
		}
		return nil, fmt.Errorf("getting plant %d: %w", id, err)
	}
	return p, nil
}

// List returns all plants ordered by id.
func (r *SQLiteRepository) List(ctx context.Context) ([]Plant, error) {
	const query = `SELECT id, name, quantity, watering_frequency, has_fruit
		FROM plants ORDER BY id`
	return r.queryPlants(ctx, query)
}

// Save writes p as the full new state of its record.
//
// A zero ID behaves like Create. Otherwise the row with that ID is replaced,
// or inserted with that ID when it does not exist yet.
func (r *SQLiteRepository) Save(ctx context.Context, p *Plant) error {
	if p.ID == 0 {
		return r.Create(ctx, p)
	}
	const query = `INSERT INTO plants (id, name, quantity, watering_frequency, has_fruit)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			quantity = excluded.quantity,
			watering_frequency = excluded.watering_frequency,
			has_fruit = excluded.has_fruit`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, nullStr(p.Name), nullInt(p.Quantity), nullInt(p.WateringFrequency), nullBool(p.HasFruit))
	if err != nil {
		return fmt.Errorf("saving plant %d: %w", p.ID, err)
	}
	return nil
}

// Delete removes a plant by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plants WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting plant %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if n == 0 {
		return ErrPlantNotFound
	}
	return nil
}

// Find returns the plants matching q, ordered by id.
// Rows with a NULL value in a filtered column never match.
func (r *SQLiteRepository) Find(ctx context.Context, q Query) ([]Plant, error) {
	query, ok := querySQL[q.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidQuery, q.Kind)
	}
	if q.usesQuantity() {
		return r.queryPlants(ctx, query, q.MaxQuantity)
	}
	return r.queryPlants(ctx, query)
}

// Count returns the number of stored plants.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM plants`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting plants: %w", err)
	}
	return n, nil
}

// queryPlants executes a query and returns a non-nil slice of Plant.
func (r *SQLiteRepository) queryPlants(ctx context.Context, query string, args ...any) ([]Plant, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying plants: %w", err)
	}
	defer rows.Close()

	plants := []Plant{}
	for rows.Next() {
		p, err := scanPlant(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning plant row: %w", err)
		}
		plants = append(plants, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plant rows: %w", err)
	}
	return plants, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPlant(s scanner) (*Plant, error) {
	var (
		p        Plant
		name     sql.NullString
		quantity sql.NullInt64
		watering sql.NullInt64
		hasFruit sql.NullBool
	)
	if err := s.Scan(&p.ID, &name, &quantity, &watering, &hasFruit); err != nil {
		return nil, err
	}
	if name.Valid {
		p.Name = &name.String
	}
	if quantity.Valid {
		v := int(quantity.Int64)
		p.Quantity = &v
	}
	if watering.Valid {
		v := int(watering.Int64)
		p.WateringFrequency = &v
	}
	if hasFruit.Valid {
		p.HasFruit = &hasFruit.Bool
	}
	return &p, nil
}

// nullStr converts a *string to a sql.NullString for nullable columns.
func nullStr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}
