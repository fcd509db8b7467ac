package store

import (
	"slices"
	"time"

	"github.com/iyhunko/inventory-console/internal/model"
)

// Status is the phase of the most recent operation.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Token orders requests of one class. A larger token was issued later.
type Token uint64

// State is the whole UI state of one console session.
type State struct {
	// Products is the last successful server snapshot.
	Products []model.Product
	// Synced is false until the first successful sync.
	Synced bool

	Draft model.Draft
	// EditID is the product being edited, nil when the form creates.
	EditID *int

	Status Status
	// Message is a one-shot success notice.
	Message string
	// Error persists until the next action starts.
	Error string

	// ReadToken and WriteToken are the newest tokens issued per class.
	ReadToken  Token
	WriteToken Token
	// ReadInFlight and WriteInFlight track only the newest request of each class.
	ReadInFlight  bool
	WriteInFlight bool
	// LoadingUntil keeps the loading indicator up after a fast sync.
	LoadingUntil time.Time
}

// Loading reports whether the loading indicator is visible at now.
func (s State) Loading(now time.Time) bool {
	return s.ReadInFlight || s.WriteInFlight || now.Before(s.LoadingUntil)
}

// Editing reports whether the form updates an existing product.
func (s State) Editing() bool {
	return s.EditID != nil
}

// Clone returns a deep copy that shares nothing with s.
func (s State) Clone() State {
	c := s
	c.Products = slices.Clone(s.Products)
	if s.EditID != nil {
		id := *s.EditID
		c.EditID = &id
	}
	return c
}
