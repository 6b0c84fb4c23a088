package pricing

import (
	"github.com/mandimart/mandimart-backend/pkg/enums"
	pkgerrors "github.com/mandimart/mandimart-backend/pkg/errors"
)

// Tier is one row of an ordered quantity-tier table. MaxQuantity nil means
// the tier is unbounded above.
type Tier struct {
	MinQuantity int
	MaxQuantity *int
	Price       float64
	Margin      float64
}

// Contains reports whether the quantity falls inside the tier's range.
func (t Tier) Contains(quantity int) bool {
	if quantity < t.MinQuantity {
		return false
	}
	return t.MaxQuantity == nil || quantity <= *t.MaxQuantity
}

// BandPrice is the price/margin pair stored under a customer band key.
type BandPrice struct {
	Price  float64
	Margin float64
}

// BandTable is the legacy band-keyed tier representation.
type BandTable map[enums.CustomerBand]BandPrice

// Quote is the result of resolving a quantity against a tier table.
type Quote struct {
	UnitPrice   float64
	Margin      float64
	MinQuantity int
	Band        enums.CustomerBand
	// Fallback is set when no range matched and the first tier was applied.
	Fallback bool
}

// Resolver maps an effective unit quantity to a unit price. Implementations
// never fail for a quantity once constructed over a non-empty table; the
// only error case is a product with no pricing data at all.
type Resolver interface {
	Resolve(quantity int) (Quote, error)
}

// RangeResolver scans an ordered, non-overlapping tier list and returns the
// first tier containing the quantity. Quantities below the lowest minimum
// fall back to the first tier instead of failing; callers that care can
// observe Quote.Fallback.
type RangeResolver struct {
	Tiers []Tier
}

func (r RangeResolver) Resolve(quantity int) (Quote, error) {
	if len(r.Tiers) == 0 {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "product has no pricing tiers")
	}
	for _, tier := range r.Tiers {
		if tier.Contains(quantity) {
			return Quote{
				UnitPrice:   tier.Price,
				Margin:      tier.Margin,
				MinQuantity: tier.MinQuantity,
			}, nil
		}
	}
	first := r.Tiers[0]
	return Quote{
		UnitPrice:   first.Price,
		Margin:      first.Margin,
		MinQuantity: first.MinQuantity,
		Fallback:    true,
	}, nil
}

// Band quantity thresholds for the legacy band-keyed representation.
const (
	retailerMinQuantity   = 11
	wholesalerMinQuantity = 51
)

// BandFor classifies a quantity into a customer band.
func BandFor(quantity int) enums.CustomerBand {
	switch {
	case quantity >= wholesalerMinQuantity:
		return enums.CustomerBandWholesaler
	case quantity >= retailerMinQuantity:
		return enums.CustomerBandRetailer
	default:
		return enums.CustomerBandConsumer
	}
}

// BandResolver prices against a band-keyed table. A missing band entry falls
// back to the consumer entry, mirroring the range resolver's first-tier
// policy.
type BandResolver struct {
	Table BandTable
}

func (r BandResolver) Resolve(quantity int) (Quote, error) {
	if len(r.Table) == 0 {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "product has no band pricing")
	}
	band := BandFor(quantity)
	entry, ok := r.Table[band]
	if !ok {
		fallback, hasConsumer := r.Table[enums.CustomerBandConsumer]
		if !hasConsumer {
			return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "band table missing consumer entry")
		}
		return Quote{
			UnitPrice: fallback.Price,
			Margin:    fallback.Margin,
			Band:      enums.CustomerBandConsumer,
			Fallback:  true,
		}, nil
	}
	return Quote{
		UnitPrice: entry.Price,
		Margin:    entry.Margin,
		Band:      band,
	}, nil
}

// UnitPrice resolves the per-unit price for the given effective quantity.
func UnitPrice(resolver Resolver, quantity int) (float64, error) {
	quote, err := resolver.Resolve(quantity)
	if err != nil {
		return 0, err
	}
	return quote.UnitPrice, nil
}

// LineTotal prices a line of quantity purchase units at the given pack
// multiplier. The tier lookup uses the expanded unit count (quantity times
// multiplier): two boxes of 24 price against 48 units, not 2.
func LineTotal(resolver Resolver, quantity, multiplier int) (float64, error) {
	if multiplier < 1 {
		multiplier = 1
	}
	expanded := quantity * multiplier
	quote, err := resolver.Resolve(expanded)
	if err != nil {
		return 0, err
	}
	return quote.UnitPrice * float64(expanded), nil
}
