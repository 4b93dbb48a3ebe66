package domain

// compareAtMarkup is the list-price multiplier shown struck through on the
// product detail view.
const compareAtMarkup = 1.15

// Product is a catalog entry as served by the catalog source.
type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      *Rating `json:"rating,omitempty"`
}

// Rating is the aggregate customer rating of a product.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Rate returns the product's rating, 0 when it has none.
func (p Product) Rate() float64 {
	if p.Rating == nil {
		return 0
	}
	return p.Rating.Rate
}

// CompareAtPrice is the list price the current price is compared against.
func (p Product) CompareAtPrice() float64 {
	return p.Price * compareAtMarkup
}
