// Package cart keeps a signed-in user's cart in step with the remote store.
//
// The remote store is authoritative. The engine holds the result of the last
// successful fetch for the current identity, routes every mutation through
// the store and re-fetches afterwards. Store failures leave the cached items
// untouched.
//
// Mutations are serialized per engine, so an add-to-cart that increments an
// existing line always reads the quantity written by the previous mutation.
// When the remote supports store.Incrementer the increment is applied
// server-side instead.
//
// Every sign-in or sign-out starts a new epoch. A fetch only applies its
// result if its epoch is still current, so a slow fetch issued for a previous
// identity never overwrites the cart of the next one.
package cart

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Kariqs/amexan-eats/auth"
	"github.com/Kariqs/amexan-eats/models"
	"github.com/Kariqs/amexan-eats/store"
	"github.com/shopspring/decimal"
)

// ErrNoIdentity is returned by operations attempted while signed out. The
// caller should prompt for sign-in rather than retry.
var ErrNoIdentity = auth.ErrNoIdentity

// Snapshot is the state published to subscribers after every change.
type Snapshot struct {
	Identity string
	Items    []models.CartItem
	Syncing  bool

	seq uint64
}

type Options struct {
	// Logger receives store failures. Defaults to log.Default().
	Logger *log.Logger
	// OnError is called with every store failure, after logging.
	OnError func(op string, err error)
	Now     func() time.Time
}

type subscriber struct {
	id int
	fn func(Snapshot)
}

type Engine struct {
	remote   store.Remote
	provider auth.Provider
	logger   *log.Logger
	onError  func(op string, err error)
	now      func() time.Time

	// writeMu serializes mutating operations.
	writeMu sync.Mutex

	mu       sync.Mutex
	identity string
	epoch    uint64
	items    []models.CartItem
	inflight int
	subs     []subscriber
	nextSub  int
	seq      uint64

	// deliverMu orders delivery; snapshots older than delivered are dropped.
	deliverMu sync.Mutex
	delivered uint64
}

func New(remote store.Remote, provider auth.Provider, opts Options) *Engine {
	e := &Engine{
		remote:   remote,
		provider: provider,
		logger:   opts.Logger,
		onError:  opts.OnError,
		now:      opts.Now,
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Attach syncs the engine with the provider's current identity and follows
// its changes until the returned function is called. Fetch failures during
// identity changes are reported through the logger and OnError.
func (e *Engine) Attach(ctx context.Context) (detach func()) {
	cancel := e.provider.Subscribe(func(id auth.Identity, ok bool) {
		e.SetIdentity(ctx, id, ok)
	})
	id, ok := e.provider.Current()
	e.SetIdentity(ctx, id, ok)
	return cancel
}

// SetIdentity applies an identity transition. Signing out empties the cart
// without contacting the store; signing in replaces it with a full fetch.
func (e *Engine) SetIdentity(ctx context.Context, id auth.Identity, ok bool) error {
	e.mu.Lock()
	e.epoch++
	epoch := e.epoch
	if !ok || id.ID == "" {
		e.identity = ""
		e.items = nil
		snap := e.snapshotLocked()
		e.mu.Unlock()
		e.publish(snap)
		return nil
	}
	if e.identity != id.ID {
		e.items = nil
	}
	e.identity = id.ID
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.publish(snap)

	return e.fetch(ctx, id.ID, epoch)
}

// Fetch reloads the cart from the store.
func (e *Engine) Fetch(ctx context.Context) error {
	identity, epoch := e.current()
	if identity == "" {
		return ErrNoIdentity
	}
	return e.fetch(ctx, identity, epoch)
}

// AddToCart adds one unit of food, merging into the existing line for the
// same food if there is one.
func (e *Engine) AddToCart(ctx context.Context, food models.Food) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	identity, epoch := e.current()
	if identity == "" {
		return ErrNoIdentity
	}

	if item, ok := e.find(food.ID); ok {
		inc, atomic := e.remote.(store.Incrementer)
		if !atomic {
			return e.updateQuantity(ctx, identity, epoch, item.ID, item.Quantity+1)
		}
		filter := store.Filter{"id": item.ID, "user_id": identity}
		if err := inc.Increment(ctx, store.TableCartItems, "quantity", 1, filter); err != nil {
			return e.fail("add to cart", err)
		}
		return e.fetch(ctx, identity, epoch)
	}

	row := store.Row{"user_id": identity, "food_id": food.ID, "quantity": 1}
	if err := e.remote.Insert(ctx, store.TableCartItems, []store.Row{row}, nil); err != nil {
		return e.fail("add to cart", err)
	}
	return e.fetch(ctx, identity, epoch)
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less
// removes it.
func (e *Engine) UpdateQuantity(ctx context.Context, itemID string, quantity int) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	identity, epoch := e.current()
	if identity == "" {
		return ErrNoIdentity
	}
	return e.updateQuantity(ctx, identity, epoch, itemID, quantity)
}

func (e *Engine) RemoveFromCart(ctx context.Context, itemID string) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	identity, epoch := e.current()
	if identity == "" {
		return ErrNoIdentity
	}
	return e.remove(ctx, identity, epoch, itemID)
}

// ClearCart deletes every line in one request and empties the cart without
// re-fetching.
func (e *Engine) ClearCart(ctx context.Context) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	identity, epoch := e.current()
	if identity == "" {
		return ErrNoIdentity
	}
	if err := e.remote.Delete(ctx, store.TableCartItems, store.Filter{"user_id": identity}); err != nil {
		return e.fail("clear cart", err)
	}

	e.mu.Lock()
	if e.epoch != epoch {
		e.mu.Unlock()
		return nil
	}
	e.items = nil
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.publish(snap)
	return nil
}

func (e *Engine) updateQuantity(ctx context.Context, identity string, epoch uint64, itemID string, quantity int) error {
	if quantity <= 0 {
		return e.remove(ctx, identity, epoch, itemID)
	}
	fields := store.Row{"quantity": quantity, "updated_at": e.now().UTC()}
	filter := store.Filter{"id": itemID, "user_id": identity}
	if err := e.remote.Update(ctx, store.TableCartItems, fields, filter); err != nil {
		return e.fail("update quantity", err)
	}
	return e.fetch(ctx, identity, epoch)
}

func (e *Engine) remove(ctx context.Context, identity string, epoch uint64, itemID string) error {
	filter := store.Filter{"id": itemID, "user_id": identity}
	if err := e.remote.Delete(ctx, store.TableCartItems, filter); err != nil {
		return e.fail("remove from cart", err)
	}
	return e.fetch(ctx, identity, epoch)
}

func (e *Engine) fetch(ctx context.Context, identity string, epoch uint64) error {
	e.mu.Lock()
	e.inflight++
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.publish(snap)

	var items []models.CartItem
	err := e.remote.Select(ctx, store.Query{
		Table:  store.TableCartItems,
		Filter: store.Filter{"user_id": identity},
		Embed:  []string{store.TableFoods},
	}, &items)

	e.mu.Lock()
	e.inflight--
	if err == nil && e.epoch == epoch {
		e.items = items
	}
	snap = e.snapshotLocked()
	e.mu.Unlock()
	e.publish(snap)

	if err != nil {
		return e.fail("fetch cart", err)
	}
	return nil
}

func (e *Engine) fail(op string, err error) error {
	e.logger.Printf("Error during %s: %v", op, err)
	if e.onError != nil {
		e.onError(op, err)
	}
	return fmt.Errorf("cart: %s: %w", op, err)
}

func (e *Engine) current() (string, uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.identity, e.epoch
}

func (e *Engine) find(foodID string) (models.CartItem, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, item := range e.items {
		if item.FoodID == foodID {
			return item, true
		}
	}
	return models.CartItem{}, false
}

// Items returns a copy of the cached cart lines in store order.
func (e *Engine) Items() []models.CartItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.copyItemsLocked()
}

func (e *Engine) Syncing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inflight > 0
}

// Identity returns the identity the cart belongs to, or "" when signed out.
func (e *Engine) Identity() string {
	identity, _ := e.current()
	return identity
}

func (e *Engine) TotalPrice() decimal.Decimal {
	return TotalPrice(e.Items())
}

func (e *Engine) TotalItems() int {
	return TotalItems(e.Items())
}

// Subscribe registers fn to receive a snapshot after every state change.
// fn runs on the goroutine that made the change and must not block or call
// the engine's mutating methods. A snapshot superseded by a newer delivered
// one is skipped.
func (e *Engine) Subscribe(fn func(Snapshot)) (cancel func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextSub++
	id := e.nextSub
	e.subs = append(e.subs, subscriber{id: id, fn: fn})
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		for i, s := range e.subs {
			if s.id == id {
				e.subs = append(e.subs[:i:i], e.subs[i+1:]...)
				return
			}
		}
	}
}

func (e *Engine) snapshotLocked() Snapshot {
	e.seq++
	return Snapshot{
		Identity: e.identity,
		Items:    e.copyItemsLocked(),
		Syncing:  e.inflight > 0,
		seq:      e.seq,
	}
}

func (e *Engine) copyItemsLocked() []models.CartItem {
	items := make([]models.CartItem, len(e.items))
	copy(items, e.items)
	return items
}

// publish delivers snap unless a newer snapshot has already been delivered,
// so subscribers always observe states in the order they were taken.
func (e *Engine) publish(snap Snapshot) {
	e.deliverMu.Lock()
	defer e.deliverMu.Unlock()
	if snap.seq <= e.delivered {
		return
	}
	e.delivered = snap.seq

	e.mu.Lock()
	subs := make([]subscriber, len(e.subs))
	copy(subs, e.subs)
	e.mu.Unlock()

	for _, s := range subs {
		s.fn(snap)
	}
}
