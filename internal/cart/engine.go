package cart

import (
	"github.com/google/uuid"

	"github.com/mandimart/mandimart-backend/internal/catalog"
	pkgerrors "github.com/mandimart/mandimart-backend/pkg/errors"
)

// The four reducer operations below are the only way a State changes. Each
// takes the previous state by value and returns a fresh one; on error the
// input state is returned unchanged, so a failed operation never partially
// applies.

// Add appends a line or merges into an existing one with the same
// (product, pack) identity. The merged line is re-priced against its total
// expanded quantity, so the tier price applies uniformly to the whole line,
// never as a blend of old and new tier prices.
func Add(state State, product catalog.Snapshot, pack PackSize, quantity int) (State, error) {
	if quantity < 1 {
		return state, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if pack.ID == "" {
		pack = UnitPack
	}
	if pack.Multiplier < 1 {
		return state, pkgerrors.New(pkgerrors.CodeValidation, "pack multiplier must be at least 1")
	}

	items := cloneItems(state.Items)
	idx := lineIndex(items, product.ID, pack.ID)

	if idx >= 0 {
		merged := items[idx]
		merged.Quantity += quantity
		repriced, err := reprice(merged)
		if err != nil {
			return state, err
		}
		items[idx] = repriced
		return finalize(items), nil
	}

	line := LineItem{
		ProductID: product.ID,
		Product:   product,
		Pack:      pack,
		Quantity:  quantity,
	}
	priced, err := reprice(line)
	if err != nil {
		return state, err
	}
	items = append(items, priced)
	return finalize(items), nil
}

// UpdateQuantity replaces a line's quantity and re-resolves its tier.
// Quantity zero delegates to Remove; a missing line is a no-op.
func UpdateQuantity(state State, productID uuid.UUID, packID string, quantity int) (State, error) {
	if quantity < 0 {
		return state, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	if quantity == 0 {
		return Remove(state, productID, packID), nil
	}
	if packID == "" {
		packID = UnitPack.ID
	}

	idx := lineIndex(state.Items, productID, packID)
	if idx < 0 {
		return state, nil
	}

	items := cloneItems(state.Items)
	updated := items[idx]
	updated.Quantity = quantity
	repriced, err := reprice(updated)
	if err != nil {
		return state, err
	}
	items[idx] = repriced
	return finalize(items), nil
}

// Remove deletes the matching line. Removing an absent line is a no-op, not
// an error.
func Remove(state State, productID uuid.UUID, packID string) State {
	if packID == "" {
		packID = UnitPack.ID
	}
	idx := lineIndex(state.Items, productID, packID)
	if idx < 0 {
		return state
	}
	items := make([]LineItem, 0, len(state.Items)-1)
	items = append(items, state.Items[:idx]...)
	items = append(items, state.Items[idx+1:]...)
	return finalize(items)
}

// Clear resets to the empty state.
func Clear(State) State {
	return Empty()
}

// reprice re-resolves the line's tier against its expanded quantity.
func reprice(line LineItem) (LineItem, error) {
	quote, err := line.Product.Resolver().Resolve(line.ExpandedQuantity())
	if err != nil {
		return line, err
	}
	line.UnitPrice = quote.UnitPrice
	line.Margin = quote.Margin
	line.Fallback = quote.Fallback
	return line, nil
}

// finalize rebuilds the aggregate totals from scratch over the item list.
// Totals are never patched incrementally; drift is impossible because every
// transition ends here.
func finalize(items []LineItem) State {
	state := State{Items: items}
	for _, item := range items {
		state.TotalItems += item.Quantity
		state.TotalAmount += item.LineTotal()
	}
	return state
}
