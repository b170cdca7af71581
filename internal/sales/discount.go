package sales

// discountTier maps a minimum quantity to a discount percentage. Tiers are
// evaluated top-down; the first match wins.
type discountTier struct {
	minQuantity int
	percent     float64
}

// The discount schedule is a closed table, not a pluggable policy. Any
// change to these breakpoints is a contract change.
var discountTiers = []discountTier{
	{minQuantity: 10, percent: 20},
	{minQuantity: 4, percent: 10},
}

// DiscountFor returns the discount percentage for a line-item quantity.
// Quantity is validated to be >= 1 upstream.
func DiscountFor(quantity int) float64 {
	for _, tier := range discountTiers {
		if quantity >= tier.minQuantity {
			return tier.percent
		}
	}
	return 0
}
