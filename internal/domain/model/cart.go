package model

// CartLine pairs a captured product snapshot with a quantity.
// Invariant: Quantity >= 1; a line whose quantity drops to 0 is removed.
type CartLine struct {
	Product  ProductSnapshot `json:"product"`
	Quantity int             `json:"quantity"`
}

// LineTotal is unit price times quantity in kopecks, nil price counted as 0.
func (l CartLine) LineTotal() int64 {
	return l.Product.PriceOrZero() * int64(l.Quantity)
}
