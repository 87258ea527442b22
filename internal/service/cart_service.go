package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/volnyigory/storefront/internal/domain/model"
	"github.com/volnyigory/storefront/internal/infra/repository/kvstore"
)

const cartStorageKey = "moy_sklad_cart_items"

const persistTimeout = 5 * time.Second

type ICartService interface {
	Add(product model.ProductSnapshot, quantity int)
	Remove(productID string)
	SetQuantity(productID string, quantity int)
	Clear()
	Lines() []model.CartLine
	TotalItems() int
	TotalPrice() int64
}

// CartService owns the cart lines. Mutations are applied in memory first and
// then written through to the durable store; a failed write is logged, never
// surfaced — the in-memory cart stays authoritative for the session.
type CartService struct {
	mu     sync.Mutex
	lines  []model.CartLine
	kv     kvstore.KVStore
	logger zerolog.Logger
}

func NewCartService(ctx context.Context, kv kvstore.KVStore, logger zerolog.Logger) *CartService {
	c := &CartService{kv: kv, logger: logger}
	c.restore(ctx)
	return c
}

func (c *CartService) restore(ctx context.Context) {
	raw, err := c.kv.Get(ctx, cartStorageKey)
	if err == kvstore.ErrNotFound {
		return
	}
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to load cart, starting empty")
		return
	}

	var lines []model.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		// corrupt payload: drop it and start empty
		c.logger.Warn().Err(err).Msg("discarding corrupt cart payload")
		if delErr := c.kv.Del(ctx, cartStorageKey); delErr != nil {
			c.logger.Warn().Err(delErr).Msg("failed to delete corrupt cart payload")
		}
		return
	}
	c.lines = lines
}

// persist serializes the full line list. Callers hold the lock.
func (c *CartService) persist() {
	raw, err := json.Marshal(c.lines)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to serialize cart")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := c.kv.Set(ctx, cartStorageKey, string(raw)); err != nil {
		c.logger.Error().Err(err).Msg("failed to persist cart")
	}
}

// Add merges into an existing line or appends a new one. A quantity below 1
// is treated as 1.
func (c *CartService) Add(product model.ProductSnapshot, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].Product.ID == product.ID {
			c.lines[i].Quantity += quantity
			c.persist()
			return
		}
	}
	c.lines = append(c.lines, model.CartLine{Product: product, Quantity: quantity})
	c.persist()
}

// Remove drops the line if present; removing an absent product is a no-op.
func (c *CartService) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(productID)
}

func (c *CartService) removeLocked(productID string) {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			c.persist()
			return
		}
	}
}

// SetQuantity overwrites a line's quantity; zero or below removes the line.
func (c *CartService) SetQuantity(productID string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		c.removeLocked(productID)
		return
	}
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			c.lines[i].Quantity = quantity
			c.persist()
			return
		}
	}
}

func (c *CartService) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.persist()
}

// Lines returns a copy in insertion order.
func (c *CartService) Lines() []model.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines := make([]model.CartLine, len(c.lines))
	copy(lines, c.lines)
	return lines
}

func (c *CartService) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

// TotalPrice is the cart total in kopecks; lines without a price count as 0.
func (c *CartService) TotalPrice() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total int64
	for _, l := range c.lines {
		total += l.LineTotal()
	}
	return total
}
