package cart

import (
	"github.com/google/uuid"

	"github.com/mandimart/mandimart-backend/internal/catalog"
)

// PackSize is the purchase mode a line was added under. Multiplier expands
// one purchase unit to base units.
type PackSize struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Multiplier int    `json:"multiplier"`
}

// UnitPack is the default purchase mode for callers that never send pack
// sizes; it makes the simple productID-keyed cart a special case of the
// pack-size cart.
var UnitPack = PackSize{ID: "unit", Name: "Unit", Multiplier: 1}

// LineItem is one row in the cart: a product at a specific pack
// configuration and quantity, with its derived tier price.
type LineItem struct {
	ProductID uuid.UUID        `json:"product_id"`
	Product   catalog.Snapshot `json:"product"`
	Pack      PackSize         `json:"pack"`
	Quantity  int              `json:"quantity"`
	UnitPrice float64          `json:"unit_price"`
	Margin    float64          `json:"margin"`
	// Fallback records that the line priced via the first-tier fallback.
	Fallback bool `json:"fallback,omitempty"`
}

// ExpandedQuantity is the base-unit count the line's tier was resolved
// against.
func (li LineItem) ExpandedQuantity() int {
	multiplier := li.Pack.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}
	return li.Quantity * multiplier
}

// LineTotal is the line's contribution to the cart total.
func (li LineItem) LineTotal() float64 {
	return li.UnitPrice * float64(li.ExpandedQuantity())
}

// State is the authoritative cart value. It is only ever produced by the
// reducer operations; totals always agree with the item list.
type State struct {
	Items       []LineItem `json:"items"`
	TotalItems  int        `json:"total_items"`
	TotalAmount float64    `json:"total_amount"`
}

// Empty returns the initial cart state.
func Empty() State {
	return State{Items: []LineItem{}}
}

// lineIndex finds the line with the given identity key, or -1.
func lineIndex(items []LineItem, productID uuid.UUID, packID string) int {
	for i, item := range items {
		if item.ProductID == productID && item.Pack.ID == packID {
			return i
		}
	}
	return -1
}

func cloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}
