package plant

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates an in-memory SQLite database with the plants table.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	// Every pooled connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	schema := `
		CREATE TABLE plants (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT,
			quantity INTEGER,
			watering_frequency INTEGER,
			has_fruit INTEGER CHECK (has_fruit IN (0, 1))
		);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

// seedPlants inserts a fixed set of plants and returns them with ids assigned.
func seedPlants(t *testing.T, repo *SQLiteRepository) []Plant {
	t.Helper()

	plants := []Plant{
		{Name: strPtr("Tomato"), Quantity: intPtr(3), WateringFrequency: intPtr(1), HasFruit: boolPtr(true)},
		{Name: strPtr("Lemon"), Quantity: intPtr(12), WateringFrequency: intPtr(4), HasFruit: boolPtr(true)},
		{Name: strPtr("Fern"), Quantity: intPtr(5), WateringFrequency: intPtr(3), HasFruit: boolPtr(false)},
		{Name: strPtr("Cactus"), Quantity: intPtr(20), WateringFrequency: intPtr(14), HasFruit: boolPtr(false)},
		{Name: strPtr("Mystery"), Quantity: nil, HasFruit: nil},
		{Name: strPtr("Seedling"), Quantity: intPtr(1), HasFruit: nil},
	}
	for i := range plants {
		if err := repo.Create(context.Background(), &plants[i]); err != nil {
			t.Fatalf("seeding plant %d: %v", i, err)
		}
	}
	return plants
}

func TestCreate_AssignsID(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	p := &Plant{ID: 999, Name: strPtr("Basil"), Quantity: intPtr(2)}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.ID != 1 {
		t.Errorf("ID = %d, want 1 (incoming id ignored)", p.ID)
	}

	got, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name == nil || *got.Name != "Basil" {
		t.Errorf("Name = %v, want Basil", got.Name)
	}
	if got.HasFruit != nil {
		t.Errorf("HasFruit = %v, want nil", *got.HasFruit)
	}
	if got.WateringFrequency != nil {
		t.Errorf("WateringFrequency = %v, want nil", *got.WateringFrequency)
	}
}

func TestCreate_IDsNeverReused(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	first := &Plant{Name: strPtr("A")}
	second := &Plant{Name: strPtr("B")}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Delete(ctx, second.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	third := &Plant{Name: strPtr("C")}
	if err := repo.Create(ctx, third); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if third.ID <= second.ID {
		t.Errorf("third ID = %d, want > %d", third.ID, second.ID)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	_, err := repo.GetByID(context.Background(), 42)
	if !errors.Is(err, ErrPlantNotFound) {
		t.Errorf("GetByID() error = %v, want ErrPlantNotFound", err)
	}
}

func TestList(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	empty, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("List() on empty table = %v, want empty non-nil slice", empty)
	}

	seeded := seedPlants(t, repo)
	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != len(seeded) {
		t.Fatalf("List() returned %d plants, want %d", len(all), len(seeded))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].ID >= all[i].ID {
			t.Errorf("List() not ordered by id: %d before %d", all[i-1].ID, all[i].ID)
		}
	}
}

func TestSave_OverwritesExisting(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	p := &Plant{Name: strPtr("Fern"), Quantity: intPtr(5), HasFruit: boolPtr(false)}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	p.Quantity = intPtr(9)
	p.Name = nil
	if err := repo.Save(ctx, p); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Quantity == nil || *got.Quantity != 9 {
		t.Errorf("Quantity = %v, want 9", got.Quantity)
	}
	if got.Name != nil {
		t.Errorf("Name = %q, want nil after full-state save", *got.Name)
	}
	if n, _ := repo.Count(ctx); n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}

func TestSave_ZeroIDCreates(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	p := &Plant{Name: strPtr("Mint")}
	if err := repo.Save(context.Background(), p); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if p.ID == 0 {
		t.Error("Save() with zero ID should assign an id")
	}
}

func TestSave_UnknownIDInserts(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	p := &Plant{ID: 7, Name: strPtr("Orphan")}
	if err := repo.Save(ctx, p); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := repo.GetByID(ctx, 7); err != nil {
		t.Errorf("GetByID(7) error = %v, want upserted row", err)
	}
}

func TestDelete(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()
	seeded := seedPlants(t, repo)

	if err := repo.Delete(ctx, seeded[0].ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID(ctx, seeded[0].ID); !errors.Is(err, ErrPlantNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrPlantNotFound", err)
	}
	if err := repo.Delete(ctx, seeded[0].ID); !errors.Is(err, ErrPlantNotFound) {
		t.Errorf("second Delete() error = %v, want ErrPlantNotFound", err)
	}
}

func TestFind(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	seedPlants(t, repo)

	// Seed: Tomato(3,fruit) Lemon(12,fruit) Fern(5,no) Cactus(20,no) Mystery(nil,nil) Seedling(1,nil)
	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"with fruit", Query{Kind: QueryWithFruit}, []string{"Tomato", "Lemon"}},
		{"without fruit", Query{Kind: QueryWithoutFruit}, []string{"Fern", "Cactus"}},
		{"quantity below 6", Query{Kind: QueryQuantityBelow, MaxQuantity: 6}, []string{"Tomato", "Fern", "Seedling"}},
		{"quantity bound is exclusive", Query{Kind: QueryQuantityBelow, MaxQuantity: 3}, []string{"Seedling"}},
		{"fruit and quantity below 10", Query{Kind: QueryWithFruitQuantityBelow, MaxQuantity: 10}, []string{"Tomato"}},
		{"no fruit and quantity below 10", Query{Kind: QueryWithoutFruitQuantityBelow, MaxQuantity: 10}, []string{"Fern"}},
		{"nothing below zero", Query{Kind: QueryQuantityBelow, MaxQuantity: 0}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Find(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("Find() error = %v", err)
			}
			if got == nil {
				t.Fatal("Find() returned nil slice")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Find() returned %d plants, want %d (%v)", len(got), len(tt.want), tt.want)
			}
			for i, p := range got {
				if p.Name == nil || *p.Name != tt.want[i] {
					t.Errorf("plant[%d] = %v, want %s", i, p.Name, tt.want[i])
				}
			}
		})
	}
}

func TestFind_InvalidKind(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	_, err := repo.Find(context.Background(), Query{Kind: QueryKind(99)})
	if !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("Find() error = %v, want ErrInvalidQuery", err)
	}
}

func TestCount(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	seeded := seedPlants(t, repo)

	n, err := repo.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != len(seeded) {
		t.Errorf("Count() = %d, want %d", n, len(seeded))
	}
}

func TestRepository_ClosedDB(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	db.Close()

	if _, err := repo.List(context.Background()); err == nil {
		t.Error("List() on closed db should fail")
	}
	if err := repo.Create(context.Background(), &Plant{}); err == nil {
		t.Error("Create() on closed db should fail")
	}
}
