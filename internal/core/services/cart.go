package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/quickpass/internal/core/domain"
	"github.com/custodia-labs/quickpass/internal/core/ports/driven"
	"github.com/custodia-labs/quickpass/internal/core/ports/driving"
	"github.com/custodia-labs/quickpass/internal/logger"
)

// Ensure OrderCartStore implements the interface.
var _ driving.OrderCartService = (*OrderCartStore)(nil)

// storedItem is the persisted form of a cart item.
// When images are offloaded, RenderedImage keeps its metadata and ImageRef
// names the blob holding the bytes.
type storedItem struct {
	domain.CartItem
	ImageRef string `json:"image_ref,omitempty"`
}

// storedOrder is the persisted form of an order.
type storedOrder struct {
	ID          string             `json:"id"`
	CreatedDate string             `json:"date"`
	Status      domain.OrderStatus `json:"status"`
	Total       domain.Money       `json:"total_cents"`
	Items       []storedItem       `json:"items"`
	Summary     string             `json:"service"`
}

// OrderCartStore owns the cart and the order history and persists both
// after every mutation. All operations are serialised by one mutex, so a
// checkout is observed as a single step.
type OrderCartStore struct {
	store driven.StateStore
	blobs driven.BlobStore
	clock driven.Clock
	newID func() string

	mu        sync.Mutex
	cart      []domain.CartItem
	orders    []domain.Order
	offloaded map[string]bool
	lastSave  domain.SaveResult
}

// NewOrderCartStore creates an empty cart store.
// The state store may be nil, in which case nothing is persisted.
// The blob store is optional; without it images are embedded in the records.
func NewOrderCartStore(store driven.StateStore, blobs driven.BlobStore, clock driven.Clock) *OrderCartStore {
	return &OrderCartStore{
		store:     store,
		blobs:     blobs,
		clock:     clock,
		newID:     uuid.NewString,
		offloaded: make(map[string]bool),
		lastSave:  domain.SaveResult{Status: domain.SaveSkipped},
	}
}

// Load restores persisted cart and orders. Missing or unreadable records load as empty.
func (s *OrderCartStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = nil
	s.orders = nil
	s.offloaded = make(map[string]bool)

	if s.store == nil {
		return nil
	}

	var items []storedItem
	if s.loadRecord(ctx, domain.RecordCart, &items) {
		s.cart = s.restoreItems(ctx, items)
	}

	var orders []storedOrder
	if s.loadRecord(ctx, domain.RecordOrders, &orders) {
		s.orders = make([]domain.Order, 0, len(orders))
		for _, o := range orders {
			s.orders = append(s.orders, domain.Order{
				ID:          o.ID,
				CreatedDate: o.CreatedDate,
				Status:      o.Status,
				Total:       o.Total,
				Items:       s.restoreItems(ctx, o.Items),
				Summary:     o.Summary,
			})
		}
	}

	logger.Debug("loaded %d cart items and %d orders", len(s.cart), len(s.orders))
	return nil
}

// loadRecord reads and decodes one record, treating any failure as absent.
func (s *OrderCartStore) loadRecord(ctx context.Context, key string, v any) bool {
	data, err := s.store.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("reading %s failed, starting empty: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		logger.Warn("record %s is not valid JSON, starting empty: %v", key, err)
		return false
	}
	return true
}

// restoreItems resolves image references (caller must hold lock).
func (s *OrderCartStore) restoreItems(ctx context.Context, stored []storedItem) []domain.CartItem {
	items := make([]domain.CartItem, 0, len(stored))
	for _, st := range stored {
		item := st.CartItem
		if st.ImageRef != "" {
			s.offloaded[item.UniqueID] = true
			if s.blobs == nil {
				logger.Warn("item %s references image %s but no image store is configured", item.UniqueID, st.ImageRef)
			} else if data, err := s.blobs.Get(ctx, st.ImageRef); err != nil {
				logger.Warn("image %s for item %s unavailable: %v", st.ImageRef, item.UniqueID, err)
			} else if item.RenderedImage != nil {
				item.RenderedImage.Data = data
			}
		}
		items = append(items, item)
	}
	return items
}

// AddToCart appends a new immutable item with a fresh unique id.
func (s *OrderCartStore) AddToCart(ctx context.Context, in domain.NewCartItem) (domain.CartItem, domain.SaveResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := domain.CartItem{
		UniqueID:      s.newID(),
		ServiceID:     in.Service.ID,
		Name:          in.Service.Name,
		Price:         in.Service.Price,
		DocumentType:  in.Service.DocumentType,
		PresetID:      in.PresetID,
		SizeLabel:     in.SizeLabel,
		CountryHint:   strings.TrimSpace(in.CountryHint),
		RenderedImage: in.RenderedImage.Clone(),
	}
	if s.clock != nil {
		item.AddedAt = s.clock.Now().UTC()
	}

	s.offload(ctx, item)
	s.cart = append(s.cart, item)

	logger.Debug("added %s (%s) to cart, %d items", item.UniqueID, item.Name, len(s.cart))
	return item.Clone(), s.persistCart(ctx)
}

// offload writes the item's image to the blob store (caller must hold lock).
// Failures leave the image embedded in the record.
func (s *OrderCartStore) offload(ctx context.Context, item domain.CartItem) {
	if s.blobs == nil || item.RenderedImage == nil || len(item.RenderedImage.Data) == 0 {
		return
	}
	err := s.blobs.Put(ctx, imageKey(item.UniqueID), item.RenderedImage.Data, item.RenderedImage.MIMEType)
	if err != nil {
		logger.Warn("storing image for %s failed, embedding it instead: %v", item.UniqueID, err)
		return
	}
	s.offloaded[item.UniqueID] = true
}

// imageKey is the blob key for a cart item's rendered image.
func imageKey(uniqueID string) string {
	return "images/" + uniqueID + ".jpg"
}

// RemoveFromCart removes exactly the item at index. Invalid indexes are a no-op.
func (s *OrderCartStore) RemoveFromCart(ctx context.Context, index int) (bool, domain.SaveResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.cart) {
		return false, domain.SaveResult{Status: domain.SaveSkipped, Key: domain.RecordCart}
	}

	removed := s.cart[index]
	s.cart = append(s.cart[:index:index], s.cart[index+1:]...)

	if s.offloaded[removed.UniqueID] {
		delete(s.offloaded, removed.UniqueID)
		// A reference restored without an image store is left behind.
		if s.blobs == nil {
			logger.Warn("no image store configured, leaving image for %s in place", removed.UniqueID)
		} else if err := s.blobs.Delete(ctx, imageKey(removed.UniqueID)); err != nil {
			logger.Warn("deleting image for %s failed: %v", removed.UniqueID, err)
		}
	}

	return true, s.persistCart(ctx)
}

// CartTotal returns the exact sum of cart prices.
func (s *OrderCartStore) CartTotal() domain.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.SumPrices(s.cart)
}

// Cart returns a copy of the cart items.
func (s *OrderCartStore) Cart() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.cart)
}

// Checkout snapshots the cart into a new completed order, prepends it to the
// history and clears the cart, all under one lock acquisition.
func (s *OrderCartStore) Checkout(ctx context.Context) (*domain.Order, domain.SaveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.cart) == 0 {
		return nil, domain.SaveResult{Status: domain.SaveSkipped}, domain.ErrEmptyCart
	}

	items := cloneItems(s.cart)
	order := domain.Order{
		ID:      "ORD-" + strings.ToUpper(strings.ReplaceAll(s.newID(), "-", "")[:8]),
		Status:  domain.OrderStatusCompleted,
		Total:   domain.SumPrices(items),
		Items:   items,
		Summary: domain.SummarizeItems(items),
	}
	if s.clock != nil {
		order.CreatedDate = s.clock.Now().Format(domain.OrderDateLayout)
	}

	s.orders = append([]domain.Order{order}, s.orders...)
	s.cart = nil

	logger.Info("order %s created with %d items, total %s", order.ID, len(order.Items), order.Total)

	// Orders first: a crash between the two writes keeps the purchase.
	ordersResult := s.persistOrders(ctx)
	cartResult := s.persistCart(ctx)

	result := worseSave(ordersResult, cartResult)
	s.lastSave = result

	out := order.Clone()
	return &out, result, nil
}

// Orders returns copies of all orders, most recent first.
func (s *OrderCartStore) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Order, len(s.orders))
	for i := range s.orders {
		out[i] = s.orders[i].Clone()
	}
	return out
}

// Order returns a copy of the order with the given id.
func (s *OrderCartStore) Order(id string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if strings.EqualFold(s.orders[i].ID, id) {
			o := s.orders[i].Clone()
			return &o, nil
		}
	}
	return nil, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
}

// LastSave returns the outcome of the most recent persistence step.
// After a checkout it is the worse of the orders and cart writes.
func (s *OrderCartStore) LastSave() domain.SaveResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSave
}

// persistCart writes the cart record (caller must hold lock).
func (s *OrderCartStore) persistCart(ctx context.Context) domain.SaveResult {
	return s.persist(ctx, domain.RecordCart, s.storedItems(s.cart))
}

// persistOrders writes the orders record (caller must hold lock).
func (s *OrderCartStore) persistOrders(ctx context.Context) domain.SaveResult {
	stored := make([]storedOrder, len(s.orders))
	for i, o := range s.orders {
		stored[i] = storedOrder{
			ID:          o.ID,
			CreatedDate: o.CreatedDate,
			Status:      o.Status,
			Total:       o.Total,
			Items:       s.storedItems(o.Items),
			Summary:     o.Summary,
		}
	}
	return s.persist(ctx, domain.RecordOrders, stored)
}

// storedItems converts items to their persisted form (caller must hold lock).
func (s *OrderCartStore) storedItems(items []domain.CartItem) []storedItem {
	out := make([]storedItem, len(items))
	for i, item := range items {
		st := storedItem{CartItem: item}
		if s.offloaded[item.UniqueID] && item.RenderedImage != nil {
			meta := *item.RenderedImage
			meta.Data = nil
			st.CartItem.RenderedImage = &meta
			st.ImageRef = imageKey(item.UniqueID)
		}
		out[i] = st
	}
	return out
}

// persist marshals v and saves it under key (caller must hold lock).
// Failures are logged as warnings and never roll back in-memory state.
func (s *OrderCartStore) persist(ctx context.Context, key string, v any) domain.SaveResult {
	result := persistRecord(ctx, s.store, key, v)
	s.lastSave = result
	return result
}

// persistRecord is the shared save step for keyed records.
func persistRecord(ctx context.Context, store driven.StateStore, key string, v any) domain.SaveResult {
	if store == nil {
		return domain.SaveResult{Status: domain.SaveSkipped, Key: key}
	}

	data, err := json.Marshal(v)
	if err != nil {
		logger.Warn("encoding %s failed: %v", key, err)
		return domain.SaveResult{Status: domain.SaveIOError, Key: key, Err: err}
	}

	result := domain.SaveResult{Status: domain.SaveOK, Key: key, Bytes: len(data)}
	if err := store.Save(ctx, key, data); err != nil {
		result.Err = err
		if errors.Is(err, domain.ErrQuotaExceeded) {
			result.Status = domain.SaveTooLarge
			logger.Warn("%s too large for storage (%d bytes, likely image data); keeping it in memory only", key, len(data))
		} else {
			result.Status = domain.SaveIOError
			logger.Warn("saving %s failed; keeping it in memory only: %v", key, err)
		}
	}
	return result
}

// worseSave returns the more severe of two save results.
func worseSave(a, b domain.SaveResult) domain.SaveResult {
	if !a.OK() {
		return a
	}
	if !b.OK() {
		return b
	}
	return a
}

func cloneItems(items []domain.CartItem) []domain.CartItem {
	if len(items) == 0 {
		return []domain.CartItem{}
	}
	out := make([]domain.CartItem, len(items))
	for i := range items {
		out[i] = items[i].Clone()
	}
	return out
}
