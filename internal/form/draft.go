package form

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/iyhunko/inventory-console/internal/model"
	"github.com/shopspring/decimal"
)

// FieldError describes one rejected draft field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a draft cannot become a product.
// No request is sent to the catalog API in that case.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return "Invalid product: " + strings.Join(msgs, "; ")
}

// Has reports whether field was rejected.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// productRules are the constraints a coerced draft must satisfy.
type productRules struct {
	ID          int     `json:"id" validate:"gte=1"`
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseCreate turns a draft into a product to be created. The id comes from the draft.
func ParseCreate(d model.Draft) (model.Product, error) {
	var errs []FieldError
	id, ok := parseInt("id", d.ID, &errs)
	if !ok {
		id = 1
	}
	return parse(id, d, errs)
}

// ParseUpdate turns a draft into the replacement for product id. The id text of the
// draft is ignored: it is not editable once a product exists.
func ParseUpdate(id int, d model.Draft) (model.Product, error) {
	return parse(id, d, nil)
}

func parse(id int, d model.Draft, errs []FieldError) (model.Product, error) {
	price, priceOK := parsePrice(d.Price, &errs)
	quantity, quantityOK := parseInt("quantity", d.Quantity, &errs)

	rules := productRules{
		ID:          id,
		Name:        strings.TrimSpace(d.Name),
		Description: strings.TrimSpace(d.Description),
		Price:       price,
		Quantity:    quantity,
	}
	if err := validate.Struct(rules); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return model.Product{}, fmt.Errorf("failed to validate draft: %w", err)
		}
		for _, fe := range verrs {
			// unparsable numbers already reported
			if (fe.Field() == "price" && !priceOK) || (fe.Field() == "quantity" && !quantityOK) {
				continue
			}
			errs = append(errs, FieldError{Field: fe.Field(), Message: ruleMessage(fe)})
		}
	}
	if len(errs) > 0 {
		return model.Product{}, &ValidationError{Fields: errs}
	}

	return model.Product{
		ID:          rules.ID,
		Name:        rules.Name,
		Description: rules.Description,
		Price:       rules.Price,
		Quantity:    rules.Quantity,
	}, nil
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "gte":
		if fe.Param() == "0" {
			return fe.Field() + " must not be negative"
		}
		return fe.Field() + " must be at least " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}

func parseInt(field, text string, errs *[]FieldError) (int, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		*errs = append(*errs, FieldError{Field: field, Message: field + " is required"})
		return 0, false
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		*errs = append(*errs, FieldError{Field: field, Message: field + " must be a whole number"})
		return 0, false
	}
	return n, true
}

// parsePrice accepts any finite decimal. NaN and infinities are not decimals and fail here.
func parsePrice(text string, errs *[]FieldError) (float64, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		*errs = append(*errs, FieldError{Field: "price", Message: "price is required"})
		return 0, false
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		*errs = append(*errs, FieldError{Field: "price", Message: "price must be a number"})
		return 0, false
	}
	f := d.InexactFloat64()
	if math.IsInf(f, 0) {
		*errs = append(*errs, FieldError{Field: "price", Message: "price is out of range"})
		return 0, false
	}
	return f, true
}
