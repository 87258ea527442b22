package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/volnyigory/storefront/internal/domain/model"
	"github.com/volnyigory/storefront/internal/infra/repository/db"
	"github.com/volnyigory/storefront/internal/infra/repository/kvstore"
)

const favoritesStorageKey = "favorites_items"

// ErrToggleInFlight is returned when a second add/remove arrives for a
// product whose previous persistence call has not finished yet. The second
// toggle is dropped so its rollback cannot undo the first one's state.
var ErrToggleInFlight = errors.New("favorite toggle already in progress")

// favoritesBackend is the storage strategy: the durable KV store for
// anonymous sessions, the per-user favorites table for authenticated ones.
type favoritesBackend interface {
	Load(ctx context.Context) ([]model.ProductSnapshot, error)
	Add(ctx context.Context, product model.ProductSnapshot) error
	Remove(ctx context.Context, productID string) error
}

type IFavoritesService interface {
	Add(ctx context.Context, product model.ProductSnapshot) error
	Remove(ctx context.Context, productID string) error
	Contains(productID string) bool
	Items() []model.ProductSnapshot
	Size() int
	SetUser(ctx context.Context, userID string) error
	ClearUser(ctx context.Context) error
}

// FavoritesService keeps the in-memory set and applies optimistic updates:
// the set changes first, the backend write follows, and a failed write is
// undone with the inverse command.
type FavoritesService struct {
	mu       sync.Mutex
	items    map[string]model.ProductSnapshot
	order    []string
	inFlight map[string]struct{}
	backend  favoritesBackend

	kv          kvstore.KVStore
	favRepo     db.IFavoriteRepository
	productRepo db.IProductRepository
	logger      zerolog.Logger
}

func NewFavoritesService(ctx context.Context, kv kvstore.KVStore, favRepo db.IFavoriteRepository, productRepo db.IProductRepository, logger zerolog.Logger) *FavoritesService {
	s := &FavoritesService{
		items:       make(map[string]model.ProductSnapshot),
		inFlight:    make(map[string]struct{}),
		kv:          kv,
		favRepo:     favRepo,
		productRepo: productRepo,
		logger:      logger,
	}
	s.backend = &localFavorites{kv: kv, logger: logger}
	s.reload(ctx)
	return s
}

// SetUser switches to the per-user remote backend and replaces the set
// wholesale with the remote contents.
func (s *FavoritesService) SetUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	s.backend = &remoteFavorites{userID: userID, favRepo: s.favRepo, productRepo: s.productRepo}
	s.mu.Unlock()
	return s.reload(ctx)
}

// ClearUser switches back to the anonymous KV backend.
func (s *FavoritesService) ClearUser(ctx context.Context) error {
	s.mu.Lock()
	s.backend = &localFavorites{kv: s.kv, logger: s.logger}
	s.mu.Unlock()
	return s.reload(ctx)
}

func (s *FavoritesService) reload(ctx context.Context) error {
	s.mu.Lock()
	backend := s.backend
	s.mu.Unlock()

	products, err := backend.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]model.ProductSnapshot, len(products))
	s.order = s.order[:0]
	for _, p := range products {
		if _, ok := s.items[p.ID]; ok {
			continue
		}
		s.items[p.ID] = p
		s.order = append(s.order, p.ID)
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load favorites")
		return fmt.Errorf("failed to load favorites: %w", err)
	}
	return nil
}

// Add is a logged no-op for an already-present product.
func (s *FavoritesService) Add(ctx context.Context, product model.ProductSnapshot) error {
	s.mu.Lock()
	if _, ok := s.items[product.ID]; ok {
		s.mu.Unlock()
		s.logger.Debug().Str("product_id", product.ID).Msg("product already in favorites")
		return nil
	}
	if _, busy := s.inFlight[product.ID]; busy {
		s.mu.Unlock()
		s.logger.Warn().Str("product_id", product.ID).Msg("favorite toggle dropped, previous one still in flight")
		return ErrToggleInFlight
	}

	// optimistic apply
	s.items[product.ID] = product
	s.order = append(s.order, product.ID)
	s.inFlight[product.ID] = struct{}{}
	backend := s.backend
	s.mu.Unlock()

	err := backend.Add(ctx, product)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, product.ID)
	if err != nil {
		// inverse command: undo the optimistic insert
		delete(s.items, product.ID)
		s.dropFromOrder(product.ID)
		s.logger.Error().Err(err).Str("product_id", product.ID).Msg("failed to persist favorite, rolled back")
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (s *FavoritesService) Remove(ctx context.Context, productID string) error {
	s.mu.Lock()
	product, ok := s.items[productID]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	if _, busy := s.inFlight[productID]; busy {
		s.mu.Unlock()
		s.logger.Warn().Str("product_id", productID).Msg("favorite toggle dropped, previous one still in flight")
		return ErrToggleInFlight
	}

	idx := s.indexInOrder(productID)
	delete(s.items, productID)
	s.dropFromOrder(productID)
	s.inFlight[productID] = struct{}{}
	backend := s.backend
	s.mu.Unlock()

	err := backend.Remove(ctx, productID)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, productID)
	if err != nil {
		// inverse command: reinsert at the original position
		s.items[productID] = product
		if idx < 0 || idx > len(s.order) {
			idx = len(s.order)
		}
		s.order = append(s.order[:idx], append([]string{productID}, s.order[idx:]...)...)
		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to remove favorite, rolled back")
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

func (s *FavoritesService) Contains(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[productID]
	return ok
}

// Items returns the set in insertion order.
func (s *FavoritesService) Items() []model.ProductSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]model.ProductSnapshot, 0, len(s.order))
	for _, id := range s.order {
		items = append(items, s.items[id])
	}
	return items
}

func (s *FavoritesService) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *FavoritesService) indexInOrder(productID string) int {
	for i, id := range s.order {
		if id == productID {
			return i
		}
	}
	return -1
}

func (s *FavoritesService) dropFromOrder(productID string) {
	for i, id := range s.order {
		if id == productID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// localFavorites serializes the whole snapshot list under a fixed key.
type localFavorites struct {
	kv     kvstore.KVStore
	logger zerolog.Logger
}

func (b *localFavorites) Load(ctx context.Context) ([]model.ProductSnapshot, error) {
	raw, err := b.kv.Get(ctx, favoritesStorageKey)
	if err == kvstore.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var products []model.ProductSnapshot
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		// corrupt payload: drop it and start empty
		b.logger.Warn().Err(err).Msg("discarding corrupt favorites payload")
		if delErr := b.kv.Del(ctx, favoritesStorageKey); delErr != nil {
			b.logger.Warn().Err(delErr).Msg("failed to delete corrupt favorites payload")
		}
		return nil, nil
	}
	return products, nil
}

func (b *localFavorites) Add(ctx context.Context, product model.ProductSnapshot) error {
	products, err := b.Load(ctx)
	if err != nil {
		return err
	}
	for _, p := range products {
		if p.ID == product.ID {
			return nil
		}
	}
	return b.store(ctx, append(products, product))
}

func (b *localFavorites) Remove(ctx context.Context, productID string) error {
	products, err := b.Load(ctx)
	if err != nil {
		return err
	}
	kept := products[:0]
	for _, p := range products {
		if p.ID != productID {
			kept = append(kept, p)
		}
	}
	return b.store(ctx, kept)
}

func (b *localFavorites) store(ctx context.Context, products []model.ProductSnapshot) error {
	if products == nil {
		products = []model.ProductSnapshot{}
	}
	raw, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return b.kv.Set(ctx, favoritesStorageKey, string(raw))
}

// remoteFavorites stores product ids per user and joins display data from
// the products table on load.
type remoteFavorites struct {
	userID      string
	favRepo     db.IFavoriteRepository
	productRepo db.IProductRepository
}

func (b *remoteFavorites) Load(ctx context.Context) ([]model.ProductSnapshot, error) {
	ids, err := b.favRepo.GetProductIDs(ctx, b.userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return b.productRepo.GetProductsByIDs(ctx, ids)
}

func (b *remoteFavorites) Add(ctx context.Context, product model.ProductSnapshot) error {
	return b.favRepo.Add(ctx, b.userID, product.ID)
}

func (b *remoteFavorites) Remove(ctx context.Context, productID string) error {
	return b.favRepo.Remove(ctx, b.userID, productID)
}
