package store

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamo-store/backend/internal/domain/catalog"
	"github.com/mamo-store/backend/internal/domain/identity"
	"github.com/mamo-store/backend/internal/domain/shared"
	"github.com/mamo-store/backend/internal/infrastructure/config"
	"github.com/mamo-store/backend/internal/store/mirror"
	"github.com/mamo-store/backend/internal/store/remote"
	"github.com/mamo-store/backend/internal/store/syncq"
)

// CartLine is a cart entry joined with its product
type CartLine struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Container owns all storefront state: the catalog, the exchange rate, the
// cart and the session user. Every mutation funnels through a method under
// one mutex, writes hit the local mirror first and reach the server later
// through the sync queue. The storefront keeps working when the server does
// not.
type Container struct {
	mu sync.RWMutex

	products []*catalog.Product
	cart     []mirror.CartItem
	rate     decimal.Decimal
	user     *identity.User
	admin    bool
	online   bool

	mirror *mirror.Mirror
	remote *remote.Client
	queue  *syncq.Queue
	cfg    config.StoreConfig
	logger *zap.Logger

	// overridable in tests
	randFloat func() float64
}

// New creates a container. Call Restore before first use.
func New(m *mirror.Mirror, rc *remote.Client, q *syncq.Queue, cfg config.StoreConfig, logger *zap.Logger) *Container {
	return &Container{
		mirror:    m,
		remote:    rc,
		queue:     q,
		cfg:       cfg,
		rate:      catalog.InitialExchangeRate,
		logger:    logger,
		randFloat: rand.Float64,
	}
}

// Restore loads persisted state from the mirror: catalog, rate, cart and the
// previous session. Prices are always recomputed from the restored rate, the
// mirrored priceSYP is only a display cache.
func (c *Container) Restore() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	rate, err := c.mirror.Rate()
	if err != nil {
		return err
	}
	products, err := c.mirror.Products()
	if err != nil {
		return err
	}
	cart, err := c.mirror.Cart()
	if err != nil {
		return err
	}
	user, err := c.mirror.User()
	if err != nil {
		return err
	}
	token, err := c.mirror.Token()
	if err != nil {
		return err
	}

	c.rate = rate
	c.products = products
	c.cart = cart
	c.user = user
	for _, p := range c.products {
		p.Reprice(c.rate)
	}
	if token != "" {
		c.remote.SetToken(token)
	}

	c.logger.Info("state restored",
		zap.Int("products", len(c.products)),
		zap.Int("cart_items", len(c.cart)),
		zap.Bool("logged_in", c.user != nil))
	return nil
}

// Products returns a snapshot of the catalog
func (c *Container) Products() []catalog.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]catalog.Product, len(c.products))
	for i, p := range c.products {
		out[i] = *p
	}
	return out
}

// Product returns a snapshot of one product
func (c *Container) Product(id string) (catalog.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p := c.findLocked(id)
	if p == nil {
		return catalog.Product{}, shared.ErrNotFound
	}
	return *p, nil
}

func (c *Container) findLocked(id string) *catalog.Product {
	for _, p := range c.products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Rate returns the current exchange rate
func (c *Container) Rate() decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rate
}

// User returns the session user, nil when logged out
func (c *Container) User() *identity.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	cp := *c.user
	return &cp
}

// IsAdmin reports whether this session passed the PIN gate
func (c *Container) IsAdmin() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.admin
}

// Online reports the result of the last health probe
func (c *Container) Online() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.online
}

// SetExchangeRate sets a new rate and reprices the whole catalog
func (c *Container) SetExchangeRate(rate decimal.Decimal) error {
	if err := catalog.ValidateRate(rate); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setRateLocked(rate)
}

func (c *Container) setRateLocked(rate decimal.Decimal) error {
	c.rate = rate
	for _, p := range c.products {
		p.Reprice(rate)
		if err := c.mirror.UpsertProduct(p); err != nil {
			return err
		}
	}
	if err := c.mirror.SetRate(rate); err != nil {
		return err
	}
	c.logger.Info("exchange rate set", zap.String("rate", rate.String()))
	return nil
}

// AddToCart adds one unit of a product. Adding a product already in the cart
// increments its quantity; insertion order is preserved.
func (c *Container) AddToCart(productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.findLocked(productID) == nil {
		return shared.ErrNotFound
	}
	for i := range c.cart {
		if c.cart[i].ProductID == productID {
			c.cart[i].Quantity++
			return c.mirror.SetCartItem(productID, c.cart[i].Quantity)
		}
	}
	c.cart = append(c.cart, mirror.CartItem{ProductID: productID, Quantity: 1, UpdatedAt: time.Now()})
	return c.mirror.SetCartItem(productID, 1)
}

// RemoveFromCart drops a cart line. Removing an absent line is a no-op.
func (c *Container) RemoveFromCart(productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.cart {
		if c.cart[i].ProductID == productID {
			c.cart = append(c.cart[:i], c.cart[i+1:]...)
			return c.mirror.RemoveCartItem(productID)
		}
	}
	return nil
}

// ClearCart empties the cart
func (c *Container) ClearCart() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clearCartLocked()
}

func (c *Container) clearCartLocked() error {
	c.cart = nil
	return c.mirror.ClearCart()
}

// Cart returns the cart joined with product snapshots, in insertion order.
// Lines whose product has since been deleted are skipped.
func (c *Container) Cart() []CartLine {
	c.mu.RLock()
	defer c.mu.RUnlock()
	lines := make([]CartLine, 0, len(c.cart))
	for _, item := range c.cart {
		p := c.findLocked(item.ProductID)
		if p == nil {
			continue
		}
		lines = append(lines, CartLine{Product: *p, Quantity: item.Quantity})
	}
	return lines
}

// CartTotal returns the cart total in local currency
func (c *Container) CartTotal() int64 {
	var total int64
	for _, line := range c.Cart() {
		total += line.Product.PriceSYP * int64(line.Quantity)
	}
	return total
}

// AddProduct validates and applies a new product locally, then queues the
// write for sync. The local write is never rolled back.
func (c *Container) AddProduct(p *catalog.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p.ID == "" {
		fresh, err := catalog.NewProduct("", p.Name, p.Category, p.PriceUSD)
		if err != nil {
			return err
		}
		p.ID = fresh.ID
	}
	p.Reprice(c.rate)
	if err := p.Validate(); err != nil {
		return err
	}
	if c.findLocked(p.ID) != nil {
		return shared.ErrAlreadyExists
	}

	cp := *p
	c.products = append([]*catalog.Product{&cp}, c.products...)
	if err := c.mirror.UpsertProduct(&cp); err != nil {
		return err
	}
	return c.queue.EnqueueUpsert(&cp)
}

// UpdateProduct replaces an existing product locally and queues the write
func (c *Container) UpdateProduct(p *catalog.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing := c.findLocked(p.ID)
	if existing == nil {
		return shared.ErrNotFound
	}
	p.Reprice(c.rate)
	if err := p.Validate(); err != nil {
		return err
	}

	*existing = *p
	if err := c.mirror.UpsertProduct(existing); err != nil {
		return err
	}
	return c.queue.EnqueueUpsert(existing)
}

// DeleteProduct removes a product locally and queues the deletion
func (c *Container) DeleteProduct(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, p := range c.products {
		if p.ID == id {
			c.products = append(c.products[:i], c.products[i+1:]...)
			break
		}
	}
	if err := c.mirror.DeleteProduct(id); err != nil {
		return err
	}
	return c.queue.EnqueueDelete(id)
}

// RefreshData pulls the catalog from the server, falling back to the current
// local state when the server is unreachable. Either way every product is
// repriced, and the market may drift: with a small probability the rate moves
// by a bounded step, mimicking street-rate volatility.
func (c *Container) RefreshData(ctx context.Context) error {
	fetched, err := c.remote.FetchProducts(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.logger.Debug("refresh using local mirror", zap.Error(err))
	} else {
		c.products = fetched
		if err := c.mirror.ReplaceProducts(fetched); err != nil {
			return err
		}
	}

	if c.randFloat() < c.cfg.FluctuationChance {
		// integer delta in [-bound, bound)
		span := c.randFloat() * float64(2*c.cfg.FluctuationBound)
		delta := decimal.NewFromInt(int64(span) - c.cfg.FluctuationBound)
		next := c.rate.Add(delta)
		if next.IsPositive() {
			if err := c.setRateLocked(next); err != nil {
				return err
			}
		}
	}

	for _, p := range c.products {
		p.Reprice(c.rate)
	}
	return nil
}

// Login resolves the user remote-first and falls back to a local find-or-
// create keyed by phone when the server is unreachable. This is the one
// operation whose validation errors reach the caller.
func (c *Container) Login(ctx context.Context, name, phone string) (*identity.User, error) {
	user, token, err := c.remote.Login(ctx, name, phone)
	if err != nil {
		var lerr error
		user, lerr = identity.NewUser(name, phone)
		if lerr != nil {
			return nil, lerr
		}
		c.logger.Debug("login using local fallback", zap.Error(err))
		token = ""
	}

	c.mu.Lock()
	c.user = user
	if err := c.mirror.SetUser(user); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if token != "" {
		c.remote.SetToken(token)
		if err := c.mirror.SetToken(token); err != nil {
			c.mu.Unlock()
			return nil, err
		}
	}
	c.mu.Unlock()

	c.logger.Info("logged in", zap.String("phone", user.Phone))

	// a fresh session starts from fresh data
	if err := c.RefreshData(ctx); err != nil {
		c.logger.Warn("post-login refresh failed", zap.Error(err))
	}

	cp := *user
	return &cp, nil
}

// Logout clears the session user, the cart and any admin elevation
func (c *Container) Logout() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.user = nil
	c.admin = false
	c.remote.SetToken("")
	if err := c.clearCartLocked(); err != nil {
		return err
	}
	return c.mirror.ClearUser()
}

// ElevateAdmin unlocks admin operations for this session via the store PIN
func (c *Container) ElevateAdmin(pin string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if pin == "" || pin != c.cfg.AdminPIN {
		return shared.ErrUnauthorized
	}
	c.admin = true
	return nil
}

// TrackEvent appends an analytics event to the bounded local log
func (c *Container) TrackEvent(eventType string, payload any) {
	if err := c.mirror.AppendEvent(eventType, payload); err != nil {
		c.logger.Warn("failed to track event", zap.String("type", eventType), zap.Error(err))
	}
}

// Events returns recent analytics events, newest first
func (c *Container) Events(limit int) ([]mirror.Event, error) {
	return c.mirror.Events(limit)
}

// CheckHealth probes the server once and updates the online flag
func (c *Container) CheckHealth(ctx context.Context) bool {
	_, err := c.remote.Health(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	was := c.online
	c.online = err == nil
	if was != c.online {
		c.logger.Info("connectivity changed", zap.Bool("online", c.online))
	}
	return c.online
}
