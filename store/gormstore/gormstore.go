// Package gormstore implements store.Remote over a gorm database and applies
// the ownership rules of the hosted data service: cart, order and profile
// rows are visible only to the identity that owns them, and catalog tables
// are read-only. Orders and their lines are insert-only for owners, apart
// from cancelling a pending order, and quantities stay above zero.
package gormstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sort"

	"github.com/Kariqs/amexan-eats/models"
	"github.com/Kariqs/amexan-eats/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

type table struct {
	model  func() any
	rows   func() any
	public bool
	// owner is the column holding the owning identity.
	owner string
	// ownedBy references a parent row in parent whose user_id owns this row.
	ownedBy string
	parent  string
	// embeds maps a related table name to the gorm association to preload.
	embeds map[string]string
	// positive lists integer columns that must stay above zero.
	positive []string
	// insertOnly tables accept owner inserts but no updates or deletes,
	// except the cancel transition when cancellable is set.
	insertOnly  bool
	cancellable bool
}

var tables = map[string]table{
	store.TableFoods: {
		model:  func() any { return &models.Food{} },
		rows:   func() any { return &[]models.Food{} },
		public: true,
	},
	store.TableCategories: {
		model:  func() any { return &models.Category{} },
		rows:   func() any { return &[]models.Category{} },
		public: true,
	},
	store.TableCartItems: {
		model:    func() any { return &models.CartItem{} },
		rows:     func() any { return &[]models.CartItem{} },
		owner:    "user_id",
		embeds:   map[string]string{store.TableFoods: "Food"},
		positive: []string{"quantity"},
	},
	store.TableOrders: {
		model:       func() any { return &models.Order{} },
		rows:        func() any { return &[]models.Order{} },
		owner:       "user_id",
		embeds:      map[string]string{store.TableOrderItems: "OrderItems"},
		insertOnly:  true,
		cancellable: true,
	},
	store.TableOrderItems: {
		model:      func() any { return &models.OrderItem{} },
		rows:       func() any { return &[]models.OrderItem{} },
		ownedBy:    "order_id",
		parent:     store.TableOrders,
		positive:   []string{"quantity"},
		insertOnly: true,
	},
	store.TableUserProfiles: {
		model: func() any { return &models.UserProfile{} },
		rows:  func() any { return &[]models.UserProfile{} },
		owner: "id",
	},
}

// NewRows returns a pointer to an empty slice of the row type for table,
// suitable as the dest of Select or Insert.
func NewRows(name string) (any, error) {
	t, ok := tables[name]
	if !ok {
		return nil, store.Errorf(store.CodeNotFound, "unknown table %q", name)
	}
	return t.rows(), nil
}

type Store struct {
	db       *gorm.DB
	identity string
}

// New returns a store with no identity. It can only read public tables.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// As returns a store acting on behalf of identity.
func (s *Store) As(identity string) *Store {
	return &Store{db: s.db, identity: identity}
}

func (s *Store) Identity() string { return s.identity }

func (s *Store) Select(ctx context.Context, q store.Query, dest any) error {
	t, sch, err := s.lookup(q.Table)
	if err != nil {
		return err
	}
	if reflect.TypeOf(dest) != reflect.TypeOf(t.rows()) {
		return store.Errorf(store.CodeInvalid, "select %s: dest must be %T, got %T", q.Table, t.rows(), dest)
	}
	if err := checkColumns(sch, q.Filter); err != nil {
		return err
	}

	tx, err := s.scopeRead(ctx, s.db.WithContext(ctx), t)
	if err != nil {
		return err
	}
	tx = where(tx, q.Filter)

	for _, name := range q.Embed {
		assoc, ok := t.embeds[name]
		if !ok {
			return store.Errorf(store.CodeInvalid, "%s has no relation %q", q.Table, name)
		}
		tx = tx.Preload(assoc)
	}

	order := q.Order
	if len(order) == 0 {
		order = []store.Order{store.Asc("created_at"), store.Asc("id")}
	}
	for _, o := range order {
		if _, err := column(sch, o.Column); err != nil {
			return err
		}
		tx = tx.Order(clause.OrderByColumn{
			Column: clause.Column{Table: clause.CurrentTable, Name: o.Column},
			Desc:   o.Descending,
		})
	}

	if err := tx.Find(dest).Error; err != nil {
		return translate("select "+q.Table, err)
	}
	return nil
}

func (s *Store) Insert(ctx context.Context, name string, rows []store.Row, dest any) error {
	t, sch, err := s.lookup(name)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return store.Errorf(store.CodeInvalid, "insert %s: no rows", name)
	}
	if err := s.authorizeWrite(t, name); err != nil {
		return err
	}

	parents := map[string]struct{}{}
	for _, row := range rows {
		if err := checkColumns(sch, row); err != nil {
			return err
		}
		if t.owner != "" && fmt.Sprint(row[t.owner]) != s.identity {
			return store.Errorf(store.CodePermission, "insert %s: %s must be the caller", name, t.owner)
		}
		if err := checkPositive(ctx, sch, t, name, row, true); err != nil {
			return err
		}
		if status, ok := row["status"]; ok && t.cancellable && fmt.Sprint(status) != models.OrderStatusPending {
			return store.Errorf(store.CodePermission, "insert %s: new rows must be %s", name, models.OrderStatusPending)
		}
		if t.ownedBy != "" {
			parents[fmt.Sprint(row[t.ownedBy])] = struct{}{}
		}
	}
	if t.ownedBy != "" {
		if err := s.checkParents(ctx, t, parents); err != nil {
			return err
		}
	}

	created := t.rows()
	if err := convert(rows, created); err != nil {
		return store.Wrap(store.CodeInvalid, "insert "+name, err)
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(created).Error; err != nil {
		return translate("insert "+name, err)
	}

	if dest != nil {
		if err := convert(created, dest); err != nil {
			return store.Wrap(store.CodeInvalid, "insert "+name+": decode result", err)
		}
	}
	return nil
}

func (s *Store) Update(ctx context.Context, name string, fields store.Row, filter store.Filter) error {
	t, sch, err := s.lookup(name)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return store.Errorf(store.CodeInvalid, "update %s: no fields", name)
	}
	if err := checkColumns(sch, filter); err != nil {
		return err
	}
	if _, ok := fields["id"]; ok {
		return store.Errorf(store.CodeInvalid, "update %s: id is immutable", name)
	}
	if v, ok := fields[t.owner]; ok && t.owner != "" && fmt.Sprint(v) != s.identity {
		return store.Errorf(store.CodePermission, "update %s: cannot reassign %s", name, t.owner)
	}
	cancel := t.insertOnly && t.cancellable && isCancel(fields)
	if t.insertOnly && !cancel {
		return store.Errorf(store.CodePermission, "update %s: rows are read-only once placed", name)
	}
	if err := checkPositive(ctx, sch, t, name, fields, false); err != nil {
		return err
	}

	values, err := typedValues(ctx, sch, t.model(), fields)
	if err != nil {
		return err
	}

	tx, err := s.scopeWrite(ctx, s.db.WithContext(ctx).Model(t.model()), t, name, filter)
	if err != nil {
		return err
	}
	if cancel {
		tx = tx.Where(clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: "status"},
			Value:  models.OrderStatusPending,
		})
	}
	if err := where(tx, filter).Updates(values).Error; err != nil {
		return translate("update "+name, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, name string, filter store.Filter) error {
	t, sch, err := s.lookup(name)
	if err != nil {
		return err
	}
	if err := checkColumns(sch, filter); err != nil {
		return err
	}
	if t.insertOnly {
		return store.Errorf(store.CodePermission, "delete %s: rows are read-only once placed", name)
	}

	tx, err := s.scopeWrite(ctx, s.db.WithContext(ctx), t, name, filter)
	if err != nil {
		return err
	}
	if err := where(tx, filter).Delete(t.model()).Error; err != nil {
		return translate("delete "+name, err)
	}
	return nil
}

// Increment adds delta to an integer column in a single statement.
func (s *Store) Increment(ctx context.Context, name, col string, delta int, filter store.Filter) error {
	t, sch, err := s.lookup(name)
	if err != nil {
		return err
	}
	f, err := column(sch, col)
	if err != nil {
		return err
	}
	if f.DataType != schema.Int && f.DataType != schema.Uint {
		return store.Errorf(store.CodeInvalid, "increment %s: %s is not an integer column", name, col)
	}
	if t.insertOnly {
		return store.Errorf(store.CodePermission, "increment %s: rows are read-only once placed", name)
	}
	if slices.Contains(t.positive, col) && delta <= 0 {
		return store.Errorf(store.CodeInvalid, "increment %s: %s can only grow, delta %d", name, col, delta)
	}
	if err := checkColumns(sch, filter); err != nil {
		return err
	}

	tx, err := s.scopeWrite(ctx, s.db.WithContext(ctx).Model(t.model()), t, name, filter)
	if err != nil {
		return err
	}
	err = where(tx, filter).Updates(map[string]any{
		f.DBName: gorm.Expr(f.DBName+" + ?", delta),
	}).Error
	if err != nil {
		return translate("increment "+name, err)
	}
	return nil
}

func (s *Store) lookup(name string) (table, *schema.Schema, error) {
	t, ok := tables[name]
	if !ok {
		return table{}, nil, store.Errorf(store.CodeNotFound, "unknown table %q", name)
	}
	stmt := &gorm.Statement{DB: s.db}
	if err := stmt.Parse(t.model()); err != nil {
		return table{}, nil, store.Wrap(store.CodeUnavailable, "parse "+name, err)
	}
	return t, stmt.Schema, nil
}

func (s *Store) scopeRead(ctx context.Context, tx *gorm.DB, t table) (*gorm.DB, error) {
	if t.public {
		return tx, nil
	}
	if s.identity == "" {
		return nil, store.Errorf(store.CodePermission, "sign in required")
	}
	return s.ownerScope(ctx, tx, t), nil
}

func (s *Store) authorizeWrite(t table, name string) error {
	if t.public {
		return store.Errorf(store.CodePermission, "%s is read-only", name)
	}
	if s.identity == "" {
		return store.Errorf(store.CodePermission, "sign in required")
	}
	return nil
}

// scopeWrite requires owner tables to be filtered by the caller's identity
// and restricts child tables to rows under the caller's parents.
func (s *Store) scopeWrite(ctx context.Context, tx *gorm.DB, t table, name string, filter store.Filter) (*gorm.DB, error) {
	if err := s.authorizeWrite(t, name); err != nil {
		return nil, err
	}
	if t.owner != "" {
		v, ok := filter[t.owner]
		if !ok || fmt.Sprint(v) != s.identity {
			return nil, store.Errorf(store.CodePermission, "%s filter must include %s of the caller", name, t.owner)
		}
	}
	return s.ownerScope(ctx, tx, t), nil
}

func (s *Store) ownerScope(ctx context.Context, tx *gorm.DB, t table) *gorm.DB {
	if t.owner != "" {
		return tx.Where(clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: t.owner},
			Value:  s.identity,
		})
	}
	owned := s.db.WithContext(ctx).Table(t.parent).Select("id").Where("user_id = ?", s.identity)
	return tx.Where(t.ownedBy+" IN (?)", owned)
}

func (s *Store) checkParents(ctx context.Context, t table, ids map[string]struct{}) error {
	keys := make([]string, 0, len(ids))
	for id := range ids {
		keys = append(keys, id)
	}
	var count int64
	err := s.db.WithContext(ctx).Table(t.parent).
		Where("id IN ? AND user_id = ?", keys, s.identity).
		Count(&count).Error
	if err != nil {
		return translate("check "+t.parent, err)
	}
	if count != int64(len(keys)) {
		return store.Errorf(store.CodePermission, "%s must reference %s owned by the caller", t.ownedBy, t.parent)
	}
	return nil
}

// isCancel reports whether fields only move a row to the cancelled status.
func isCancel(fields store.Row) bool {
	return len(fields) == 1 && fmt.Sprint(fields["status"]) == models.OrderStatusCancelled
}

// checkPositive rejects values of t.positive columns that are zero or less.
// When required is set, the columns must be present.
func checkPositive(ctx context.Context, sch *schema.Schema, t table, name string, fields store.Row, required bool) error {
	for _, col := range t.positive {
		v, ok := fields[col]
		if !ok {
			if required {
				return store.Errorf(store.CodeInvalid, "%s: %s is required", name, col)
			}
			continue
		}
		values, err := typedValues(ctx, sch, t.model(), store.Row{col: v})
		if err != nil {
			return err
		}
		if !isPositive(values[col]) {
			return store.Errorf(store.CodeInvalid, "%s: %s must be greater than zero, got %v", name, col, v)
		}
	}
	return nil
}

func isPositive(v any) bool {
	rv := reflect.Indirect(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() > 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() > 0
	}
	return false
}

func where(tx *gorm.DB, filter store.Filter) *gorm.DB {
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		tx = tx.Where(clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: k},
			Value:  filter[k],
		})
	}
	return tx
}

func column(sch *schema.Schema, name string) (*schema.Field, error) {
	f := sch.LookUpField(name)
	if f == nil || f.DBName != name {
		return nil, store.Errorf(store.CodeInvalid, "unknown column %q on %s", name, sch.Table)
	}
	return f, nil
}

func checkColumns(sch *schema.Schema, cols map[string]any) error {
	for name := range cols {
		if _, err := column(sch, name); err != nil {
			return err
		}
	}
	return nil
}

// typedValues decodes fields through the model so values reach the driver
// with their column types (decimals, timestamps, JSON lists).
func typedValues(ctx context.Context, sch *schema.Schema, model any, fields store.Row) (map[string]any, error) {
	if err := convert(fields, model); err != nil {
		return nil, store.Wrap(store.CodeInvalid, "decode fields", err)
	}
	rv := reflect.Indirect(reflect.ValueOf(model))
	values := make(map[string]any, len(fields))
	for name := range fields {
		f, err := column(sch, name)
		if err != nil {
			return nil, err
		}
		v, _ := f.ValueOf(ctx, rv)
		values[f.DBName] = v
	}
	return values, nil
}

func convert(src, dest any) error {
	raw, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func translate(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.Wrap(store.CodeNotFound, op, err)
	case errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrForeignKeyViolated),
		errors.Is(err, gorm.ErrInvalidData),
		errors.Is(err, gorm.ErrInvalidField):
		return store.Wrap(store.CodeInvalid, op, err)
	default:
		return store.Wrap(store.CodeUnavailable, op, err)
	}
}
