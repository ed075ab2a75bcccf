package cart

// Delivery pricing: flat fee waived once the subtotal reaches the threshold.
const (
	FreeDeliveryThreshold = 1000
	FlatDeliveryFee       = 150
)

// DeliveryFeeFor returns the delivery fee owed for a given subtotal.
func DeliveryFeeFor(subtotal float64) float64 {
	if subtotal >= FreeDeliveryThreshold {
		return 0
	}
	return FlatDeliveryFee
}

// ComputeTotals derives the order money fields from priced lines. The
// invariant total == subtotal + deliveryFee - discount holds by construction.
func ComputeTotals(subtotal, discount float64, itemCount int) Totals {
	fee := DeliveryFeeFor(subtotal)
	return Totals{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Discount:    discount,
		Total:       subtotal + fee - discount,
		ItemCount:   itemCount,
	}
}

// effectiveQuantity clamps a requested quantity to the available stock.
func effectiveQuantity(requested, stock int) int {
	if requested < 0 {
		return 0
	}
	if requested > stock {
		return stock
	}
	return requested
}
