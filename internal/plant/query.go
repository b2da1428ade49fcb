package plant

import "fmt"

// QueryKind identifies one of the fixed plant filters.
type QueryKind int

// The five supported filters. Quantity bounds are exclusive ("less than").
const (
	// QueryWithFruit selects plants where has_fruit is true.
	QueryWithFruit QueryKind = iota + 1

	// QueryWithoutFruit selects plants where has_fruit is false.
	QueryWithoutFruit

	// QueryQuantityBelow selects plants with quantity < MaxQuantity.
	QueryQuantityBelow

	// QueryWithFruitQuantityBelow selects fruiting plants with quantity < MaxQuantity.
	QueryWithFruitQuantityBelow

	// QueryWithoutFruitQuantityBelow selects non-fruiting plants with quantity < MaxQuantity.
	QueryWithoutFruitQuantityBelow
)

// String returns the filter name used in logs and metrics.
func (k QueryKind) String() string {
	switch k {
	case QueryWithFruit:
		return "with_fruit"
	case QueryWithoutFruit:
		return "without_fruit"
	case QueryQuantityBelow:
		return "quantity_below"
	case QueryWithFruitQuantityBelow:
		return "with_fruit_quantity_below"
	case QueryWithoutFruitQuantityBelow:
		return "without_fruit_quantity_below"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Query is a filter over stored plants.
// MaxQuantity is only read by the quantity kinds.
type Query struct {
	Kind        QueryKind
	MaxQuantity int
}

// usesQuantity reports whether the query binds MaxQuantity.
func (q Query) usesQuantity() bool {
	switch q.Kind {
	case QueryQuantityBelow, QueryWithFruitQuantityBelow, QueryWithoutFruitQuantityBelow:
		return true
	default:
		return false
	}
}

// querySQL holds the literal statement behind each kind.
var querySQL = map[QueryKind]string{
	QueryWithFruit: `SELECT id, name, quantity, watering_frequency, has_fruit
		FROM plants WHERE has_fruit = 1 ORDER BY id`,
	QueryWithoutFruit: `SELECT id, name, quantity, watering_frequency, has_fruit
		FROM plants WHERE has_fruit = 0 ORDER BY id`,
	QueryQuantityBelow: `SELECT id, name, quantity, watering_frequency, has_fruit
		FROM plants WHERE quantity < ? ORDER BY id`,
	QueryWithFruitQuantityBelow: `SELECT id, name, quantity, watering_frequency, has_fruit
		FROM plants WHERE has_fruit = 1 AND quantity < ? ORDER BY id`,
	QueryWithoutFruitQuantityBelow: `SELECT id, name, quantity, watering_frequency, has_fruit
		FROM plants WHERE has_fruit = 0 AND quantity < ? ORDER BY id`,
}

// SelectQuery picks the filter for the optional search parameters.
//
// Rules, first match wins:
//  1. hasFruit=true and maxQuantity set  -> QueryWithFruitQuantityBelow
//  2. hasFruit=false and maxQuantity set -> QueryWithoutFruitQuantityBelow
//  3. hasFruit=true only                 -> QueryWithFruit
//  4. hasFruit=false only                -> QueryWithoutFruit
//  5. maxQuantity only                   -> QueryQuantityBelow
//
// ok is false when neither parameter is set; callers answer with no plants.
func SelectQuery(hasFruit *bool, maxQuantity *int) (q Query, ok bool) {
	switch {
	case hasFruit != nil && maxQuantity != nil && *hasFruit:
		return Query{Kind: QueryWithFruitQuantityBelow, MaxQuantity: *maxQuantity}, true
	case hasFruit != nil && maxQuantity != nil:
		return Query{Kind: QueryWithoutFruitQuantityBelow, MaxQuantity: *maxQuantity}, true
	case hasFruit != nil && *hasFruit:
		return Query{Kind: QueryWithFruit}, true
	case hasFruit != nil:
		return Query{Kind: QueryWithoutFruit}, true
	case maxQuantity != nil:
		return Query{Kind: QueryQuantityBelow, MaxQuantity: *maxQuantity}, true
	default:
		return Query{}, false
	}
}
