package model

// LowStockThreshold is the quantity below which a product is flagged as low stock.
const LowStockThreshold = 5

// Product represents one inventory item as exposed by the catalog API.
type Product struct {
	ID          int     `json:"id" csv:"id"`
	Name        string  `json:"name" csv:"name"`
	Description string  `json:"description" csv:"description"`
	Price       float64 `json:"price" csv:"price"`
	Quantity    int     `json:"quantity" csv:"quantity"`
}

// LowStock reports whether the product quantity is under LowStockThreshold.
func (p Product) LowStock() bool {
	return p.Quantity < LowStockThreshold
}

// Draft is the uncommitted text buffer behind the create/update form.
type Draft struct {
	ID          string `form:"id" json:"id"`
	Name        string `form:"name" json:"name"`
	Description string `form:"description" json:"description"`
	Price       string `form:"price" json:"price"`
	Quantity    string `form:"quantity" json:"quantity"`
}

// IsEmpty reports whether no field of the draft holds text.
func (d Draft) IsEmpty() bool {
	return d == Draft{}
}
