package pricing

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/mandimart/mandimart-backend/pkg/enums"
	pkgerrors "github.com/mandimart/mandimart-backend/pkg/errors"
)

// ValidateTiers checks a range tier table at the catalog-ingestion boundary.
// The resolver itself tolerates bad tables via its fallback, so malformed
// tables must be rejected before they are stored, not at pricing time.
// Rules: at least one tier, minimums start at 1 or above, prices
// non-negative, margins within 0-100, ranges ordered ascending, contiguous,
// and non-overlapping, with only the last tier allowed to be unbounded.
func ValidateTiers(tiers []Tier) error {
	if len(tiers) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one pricing tier is required")
	}

	var errs error
	for i, tier := range tiers {
		if tier.MinQuantity < 1 {
			errs = multierr.Append(errs, fmt.Errorf("tier %d: min_quantity must be >= 1", i))
		}
		if tier.Price < 0 {
			errs = multierr.Append(errs, fmt.Errorf("tier %d: price must be non-negative", i))
		}
		if tier.Margin < 0 || tier.Margin > 100 {
			errs = multierr.Append(errs, fmt.Errorf("tier %d: margin must be between 0 and 100", i))
		}
		if tier.MaxQuantity != nil && *tier.MaxQuantity < tier.MinQuantity {
			errs = multierr.Append(errs, fmt.Errorf("tier %d: max_quantity below min_quantity", i))
		}

		if i == len(tiers)-1 {
			continue
		}
		if tier.MaxQuantity == nil {
			errs = multierr.Append(errs, fmt.Errorf("tier %d: only the last tier may be unbounded", i))
			continue
		}
		next := tiers[i+1]
		if next.MinQuantity != *tier.MaxQuantity+1 {
			errs = multierr.Append(errs, fmt.Errorf("tier %d: range gap or overlap before tier %d", i, i+1))
		}
	}

	if errs != nil {
		details := make([]string, 0, len(multierr.Errors(errs)))
		for _, e := range multierr.Errors(errs) {
			details = append(details, e.Error())
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, errs, "malformed tier table").
			WithDetails(map[string]any{"violations": details})
	}
	return nil
}

// ValidateBandTable checks a legacy band-keyed table. Every known band must
// be present with sane values; the band resolver's consumer fallback exists
// for partial legacy payloads already in flight, not for newly stored data.
func ValidateBandTable(table BandTable) error {
	if len(table) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "band table is empty")
	}

	var errs error
	for _, band := range []enums.CustomerBand{
		enums.CustomerBandConsumer,
		enums.CustomerBandRetailer,
		enums.CustomerBandWholesaler,
	} {
		entry, ok := table[band]
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("band %s: missing entry", band))
			continue
		}
		if entry.Price < 0 {
			errs = multierr.Append(errs, fmt.Errorf("band %s: price must be non-negative", band))
		}
		if entry.Margin < 0 || entry.Margin > 100 {
			errs = multierr.Append(errs, fmt.Errorf("band %s: margin must be between 0 and 100", band))
		}
	}

	if errs != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, errs, "malformed band table")
	}
	return nil
}

// ValidatePackaging checks packaging metadata before it is stored.
func ValidatePackaging(p Packaging) error {
	var errs error
	if p.UnitsPerBox < 1 {
		errs = multierr.Append(errs, fmt.Errorf("units_per_box must be >= 1"))
	}
	if p.BoxesPerPack < 1 {
		errs = multierr.Append(errs, fmt.Errorf("boxes_per_pack must be >= 1"))
	}
	if p.MinBoxes < 1 {
		errs = multierr.Append(errs, fmt.Errorf("min_boxes must be >= 1"))
	}
	if p.MaxBoxes < p.MinBoxes {
		errs = multierr.Append(errs, fmt.Errorf("max_boxes must be >= min_boxes"))
	}
	if errs != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, errs, "malformed packaging")
	}
	return nil
}
