package domain

import (
	"fmt"
	"time"
)

// CartItem is an immutable snapshot of an approved photo and its pricing context.
// Price and RenderedImage are frozen when the item is created.
type CartItem struct {
	UniqueID      string         `json:"unique_id"`
	ServiceID     string         `json:"service_id"`
	Name          string         `json:"name"`
	Price         Money          `json:"price_cents"`
	DocumentType  string         `json:"document_type"`
	PresetID      string         `json:"preset_id"`
	SizeLabel     string         `json:"size_label"`
	CountryHint   string         `json:"country_hint,omitempty"`
	RenderedImage *RenderedImage `json:"rendered_image,omitempty"`
	AddedAt       time.Time      `json:"added_at"`
}

// Clone returns a deep copy of the item.
func (c CartItem) Clone() CartItem {
	c.RenderedImage = c.RenderedImage.Clone()
	return c
}

// FileName derives the download name from the size label and a 1-based sequence
// number, e.g. "35-x-45-mm-quickpass-1.jpg".
func (c CartItem) FileName(seq int) string {
	return fmt.Sprintf("%s-quickpass-%d.jpg", SlugifyLabel(c.SizeLabel), seq)
}

// NewCartItem carries everything OrderCartStore needs to snapshot a new item.
type NewCartItem struct {
	Service       Service
	RenderedImage *RenderedImage
	PresetID      string
	SizeLabel     string
	CountryHint   string
}

// OrderStatus is the lifecycle status of an order.
type OrderStatus string

// Order statuses. Checkout only ever produces completed orders.
const (
	OrderStatusCompleted OrderStatus = "Completed"
	OrderStatusPending   OrderStatus = "Pending"
)

// OrderDateLayout is the format of Order.CreatedDate.
const OrderDateLayout = "2006-01-02"

// Order is an immutable, dated record created once per checkout.
type Order struct {
	ID          string      `json:"id"`
	CreatedDate string      `json:"date"`
	Status      OrderStatus `json:"status"`
	Total       Money       `json:"total_cents"`
	Items       []CartItem  `json:"items"`

	// Summary is a one-line description such as "US Passport Photo + 2 more".
	Summary string `json:"service"`
}

// Clone returns a deep copy of the order and its items.
func (o Order) Clone() Order {
	items := make([]CartItem, len(o.Items))
	for i := range o.Items {
		items[i] = o.Items[i].Clone()
	}
	o.Items = items
	return o
}

// SummarizeItems builds the order summary line for a list of items.
func SummarizeItems(items []CartItem) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0].Name
	default:
		return fmt.Sprintf("%s + %d more", items[0].Name, len(items)-1)
	}
}

// SumPrices returns the exact total of the items' prices.
func SumPrices(items []CartItem) Money {
	var total Money
	for i := range items {
		total += items[i].Price
	}
	return total
}
