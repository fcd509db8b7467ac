package view

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/iyhunko/inventory-console/internal/model"
)

// SortField names the product attribute the table is ordered by.
type SortField string

const (
	SortByID          SortField = "id"
	SortByName        SortField = "name"
	SortByDescription SortField = "description"
	SortByPrice       SortField = "price"
	SortByQuantity    SortField = "quantity"
)

// Direction is the sort order.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortFields lists every sortable column in table order.
var SortFields = []SortField{SortByID, SortByName, SortByDescription, SortByPrice, SortByQuantity}

// ParseSortField maps a query value to a SortField, falling back to SortByID.
func ParseSortField(s string) SortField {
	for _, f := range SortFields {
		if string(f) == s {
			return f
		}
	}
	return SortByID
}

// ParseDirection maps a query value to a Direction, falling back to Asc.
func ParseDirection(s string) Direction {
	if Direction(s) == Desc {
		return Desc
	}
	return Asc
}

// Params are the inputs of a projection besides the product list.
type Params struct {
	Filter    string
	Sort      SortField
	Direction Direction
}

// DefaultParams shows everything ordered by ascending id.
func DefaultParams() Params {
	return Params{Sort: SortByID, Direction: Asc}
}

// Toggle returns the params after a click on the header of field: the active column
// flips its direction, any other column becomes active in ascending order.
func (p Params) Toggle(field SortField) Params {
	if p.Sort == field {
		if p.Direction == Desc {
			p.Direction = Asc
		} else {
			p.Direction = Desc
		}
		return p
	}
	p.Sort = field
	p.Direction = Asc
	return p
}

// Matches reports whether product passes the free text filter: the decimal id or
// the lowercased name must contain the lowercased filter.
func Matches(p model.Product, filter string) bool {
	if filter == "" {
		return true
	}
	needle := strings.ToLower(filter)
	return strings.Contains(strconv.Itoa(p.ID), needle) ||
		strings.Contains(strings.ToLower(p.Name), needle)
}

// Project derives the rows to display. The input slice is never modified.
func Project(products []model.Product, params Params) []model.Product {
	result := make([]model.Product, 0, len(products))
	for _, p := range products {
		if Matches(p, params.Filter) {
			result = append(result, p)
		}
	}

	less := compareBy(params.Sort)
	slices.SortStableFunc(result, func(a, b model.Product) int {
		if params.Direction == Desc {
			return less(b, a)
		}
		return less(a, b)
	})
	return result
}

func compareBy(field SortField) func(a, b model.Product) int {
	switch field {
	case SortByName:
		return func(a, b model.Product) int { return cmp.Compare(a.Name, b.Name) }
	case SortByDescription:
		return func(a, b model.Product) int { return cmp.Compare(a.Description, b.Description) }
	case SortByPrice:
		return func(a, b model.Product) int { return cmp.Compare(a.Price, b.Price) }
	case SortByQuantity:
		return func(a, b model.Product) int { return cmp.Compare(a.Quantity, b.Quantity) }
	default:
		return func(a, b model.Product) int { return cmp.Compare(a.ID, b.ID) }
	}
}
