// Package store defines the boundary between the storefront clients and the
// remote data service that owns cart, order and catalog rows.
//
// Every call is a single request. Filters are equality only, results come
// back in the order the service returns them, and related rows are expanded
// by naming the related table in Query.Embed.
package store

import "context"

const (
	TableFoods        = "foods"
	TableCategories   = "categories"
	TableCartItems    = "cart_items"
	TableOrders       = "orders"
	TableOrderItems   = "order_items"
	TableUserProfiles = "user_profiles"
)

// Row is a set of column values for inserts and updates.
type Row map[string]any

// Filter matches rows whose columns equal every given value.
type Filter map[string]any

type Order struct {
	Column     string
	Descending bool
}

func Asc(column string) Order  { return Order{Column: column} }
func Desc(column string) Order { return Order{Column: column, Descending: true} }

type Query struct {
	Table  string
	Filter Filter
	Order  []Order
	Embed  []string
}

// Remote is a row-level data service. Implementations enforce ownership: a
// caller only sees and mutates rows that belong to its identity.
//
// dest arguments are pointers to slices of the row type for the table, for
// example *[]models.CartItem. Insert accepts a nil dest when the caller does
// not need the persisted rows back.
type Remote interface {
	Select(ctx context.Context, q Query, dest any) error
	Insert(ctx context.Context, table string, rows []Row, dest any) error
	Update(ctx context.Context, table string, fields Row, filter Filter) error
	Delete(ctx context.Context, table string, filter Filter) error
}

// Incrementer is implemented by remotes that can adjust a numeric column in
// place, without a read-modify-write round trip.
type Incrementer interface {
	Increment(ctx context.Context, table, column string, delta int, filter Filter) error
}
