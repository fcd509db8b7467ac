package model

import (
	"strconv"
)

// DraftFromProduct fills a form draft with the fields of an existing product.
func DraftFromProduct(p Product) Draft {
	return Draft{
		ID:          strconv.Itoa(p.ID),
		Name:        p.Name,
		Description: p.Description,
		Price:       strconv.FormatFloat(p.Price, 'f', -1, 64),
		Quantity:    strconv.Itoa(p.Quantity),
	}
}
