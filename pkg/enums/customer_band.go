package enums

import "fmt"

// CustomerBand names the quantity band a purchase falls into when a product
// carries band-keyed pricing instead of an ordered tier list.
type CustomerBand string

const (
	CustomerBandConsumer   CustomerBand = "consumer"
	CustomerBandRetailer   CustomerBand = "retailer"
	CustomerBandWholesaler CustomerBand = "wholesaler"
)

var validCustomerBands = []CustomerBand{
	CustomerBandConsumer,
	CustomerBandRetailer,
	CustomerBandWholesaler,
}

// String implements fmt.Stringer.
func (c CustomerBand) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CustomerBand.
func (c CustomerBand) IsValid() bool {
	for _, candidate := range validCustomerBands {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCustomerBand converts raw input into a CustomerBand.
func ParseCustomerBand(value string) (CustomerBand, error) {
	for _, candidate := range validCustomerBands {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid customer band %q", value)
}
