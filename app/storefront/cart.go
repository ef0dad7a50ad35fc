package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/shashiranjanraj/agromart/app/models"
	"github.com/shashiranjanraj/agromart/pkg/kv"
	"github.com/shashiranjanraj/agromart/pkg/logger"
)

// Cart is the per-user cart. Lines hold only ids; prices are resolved
// against the catalog each time the cart is read. When the persistent
// store fails the cart keeps working in memory for the rest of its life.
type Cart struct {
	mu       sync.Mutex
	store    kv.Store
	lines    []models.CartLine
	degraded bool
}

// Summary is the cart badge: item count and total price.
type Summary struct {
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

// Item is a cart line resolved against the catalog for display.
type Item struct {
	ProductID    int     `json:"productId"`
	VariantIndex *int    `json:"variantIndex"`
	Name         string  `json:"name"`
	Image        string  `json:"image"`
	UnitPrice    float64 `json:"unitPrice"`
	Quantity     int     `json:"quantity"`
	Subtotal     float64 `json:"subtotal"`
}

// NewCart loads the persisted lines. A missing or corrupt entry is an
// empty cart.
func NewCart(ctx context.Context, store kv.Store) *Cart {
	c := &Cart{store: store}
	raw, err := store.Get(ctx, CartKey)
	switch {
	case errors.Is(err, kv.ErrNotFound):
	case err != nil:
		c.degrade(ctx, err)
	default:
		if err := json.Unmarshal(raw, &c.lines); err != nil {
			logger.WithCtx(ctx).Warn("cart data corrupt, starting empty", "error", err)
			c.lines = nil
		}
	}
	c.lines = validLines(c.lines)
	return c
}

// Add puts one more of the product/variant in the cart.
func (c *Cart) Add(ctx context.Context, productID int, variantIndex *int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.find(productID, variantIndex); i >= 0 {
		c.lines[i].Quantity++
	} else {
		c.lines = append(c.lines, models.CartLine{ProductID: productID, Quantity: 1, VariantIndex: copyIndex(variantIndex)})
	}
	c.save(ctx)
}

// SetQuantity changes the quantity of an existing line; qty <= 0 removes it.
func (c *Cart) SetQuantity(ctx context.Context, productID int, variantIndex *int, qty int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.find(productID, variantIndex)
	if i < 0 {
		return
	}
	if qty <= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	} else {
		c.lines[i].Quantity = qty
	}
	c.save(ctx)
}

// Remove drops the product/variant line. A nil variantIndex drops every
// line of the product.
func (c *Cart) Remove(ctx context.Context, productID int, variantIndex *int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.lines[:0]
	for _, l := range c.lines {
		drop := l.ProductID == productID
		if variantIndex != nil {
			drop = l.Matches(productID, variantIndex)
		}
		if !drop {
			kept = append(kept, l)
		}
	}
	c.lines = kept
	c.save(ctx)
}

func (c *Cart) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = nil
	if c.degraded {
		return
	}
	if err := c.store.Delete(ctx, CartKey); err != nil {
		c.degrade(ctx, err)
	}
}

// Lines returns a copy of the raw cart lines.
func (c *Cart) Lines() []models.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.CartLine, len(c.lines))
	for i, l := range c.lines {
		l.VariantIndex = copyIndex(l.VariantIndex)
		out[i] = l
	}
	return out
}

// Summary counts and prices the lines whose product still exists. Lines
// for removed products are skipped, not deleted.
func (c *Cart) Summary(catalog models.Snapshot) Summary {
	var s Summary
	for _, it := range c.Items(catalog) {
		s.Count += it.Quantity
		s.Total += it.Subtotal
	}
	return s
}

// Items resolves each line against catalog: the variant price when the
// index is valid, else the product offer price.
func (c *Cart) Items(catalog models.Snapshot) []Item {
	lines := c.Lines()
	items := make([]Item, 0, len(lines))
	for _, l := range lines {
		p, ok := catalog.ProductByID(l.ProductID)
		if !ok {
			continue
		}
		price := p.UnitPrice(l.VariantIndex)
		items = append(items, Item{
			ProductID:    p.ID,
			VariantIndex: l.VariantIndex,
			Name:         p.DisplayName(l.VariantIndex),
			Image:        p.Image,
			UnitPrice:    price,
			Quantity:     l.Quantity,
			Subtotal:     price * float64(l.Quantity),
		})
	}
	return items
}

// Degraded reports whether the cart has fallen back to memory only.
func (c *Cart) Degraded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.degraded
}

func (c *Cart) find(productID int, variantIndex *int) int {
	for i, l := range c.lines {
		if l.Matches(productID, variantIndex) {
			return i
		}
	}
	return -1
}

// save must be called with mu held.
func (c *Cart) save(ctx context.Context) {
	if c.degraded {
		return
	}
	raw, err := json.Marshal(c.lines)
	if err == nil {
		err = c.store.Set(ctx, CartKey, raw)
	}
	if err != nil {
		c.degrade(ctx, err)
	}
}

func (c *Cart) degrade(ctx context.Context, err error) {
	c.degraded = true
	logger.WithCtx(ctx).Warn("cart storage unavailable, keeping cart in memory", "error", err)
}

func validLines(lines []models.CartLine) []models.CartLine {
	out := lines[:0]
	for _, l := range lines {
		if l.ProductID > 0 && l.Quantity > 0 {
			out = append(out, l)
		}
	}
	return out
}

func copyIndex(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}
