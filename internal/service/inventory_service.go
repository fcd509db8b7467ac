package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iyhunko/inventory-console/internal/catalog"
	"github.com/iyhunko/inventory-console/internal/form"
	"github.com/iyhunko/inventory-console/internal/metrics"
	"github.com/iyhunko/inventory-console/internal/model"
	"github.com/iyhunko/inventory-console/internal/sqs"
	"github.com/iyhunko/inventory-console/internal/store"
)

// User facing notices.
const (
	MsgSyncFailed      = "Sync failed. Check backend connection."
	MsgCreated         = "New product added to catalog"
	MsgUpdated         = "Stock updated successfully"
	MsgOperationFailed = "Operation failed"
	MsgDeleteFailed    = "Delete failed"
	MsgNotFound        = "Product not found"
	MsgConfirmDelete   = "Permanent delete?"
)

var (
	// ErrNotConfirmed is returned by Remove until the user confirmed the delete.
	ErrNotConfirmed = errors.New("delete not confirmed")

	// ErrNotEditing is returned by Update when the session is not editing that product.
	ErrNotEditing = errors.New("product is not being edited")
)

// Catalog is the product REST API as seen by the service.
type Catalog interface {
	List(ctx context.Context) ([]model.Product, error)
	Get(ctx context.Context, id int) (model.Product, error)
	Create(ctx context.Context, product model.Product) error
	Update(ctx context.Context, id int, product model.Product) error
	Delete(ctx context.Context, id int) error
}

// EventPublisher announces accepted writes.
type EventPublisher interface {
	PublishProductEvent(ctx context.Context, event sqs.ProductEvent) error
}

// InventoryService runs the sync and write operations of a console session against the catalog.
type InventoryService struct {
	catalog    Catalog
	publisher  EventPublisher
	minLoading time.Duration
	now        func() time.Time
}

// NewInventoryService creates an InventoryService. publisher may be nil.
func NewInventoryService(catalog Catalog, publisher EventPublisher, minLoading time.Duration) *InventoryService {
	return &InventoryService{
		catalog:    catalog,
		publisher:  publisher,
		minLoading: minLoading,
		now:        time.Now,
	}
}

// Refresh replaces the session's product list with a fresh server snapshot. On failure
// the previous list is kept and the sync error is shown.
func (s *InventoryService) Refresh(ctx context.Context, st *store.Store) error {
	token := st.BeginSync(s.now().Add(s.minLoading))

	products, err := s.catalog.List(ctx)
	if err != nil {
		slog.Error("Failed to sync products", slog.Any("err", err))
		applied := st.Dispatch(store.SyncFail{Token: token, Error: MsgSyncFailed})
		metrics.Syncs.WithLabelValues(result(applied, metrics.ResultError)).Inc()
		return fmt.Errorf("failed to sync products: %w", err)
	}

	applied := st.Dispatch(store.SyncOK{Token: token, Products: products})
	metrics.Syncs.WithLabelValues(result(applied, metrics.ResultSuccess)).Inc()
	return nil
}

// Create validates draft and adds it to the catalog. The draft stays in the form on failure.
func (s *InventoryService) Create(ctx context.Context, st *store.Store, draft model.Draft) error {
	st.Dispatch(store.DraftChange{Draft: draft})

	product, err := form.ParseCreate(draft)
	if err != nil {
		return s.reject(st, err)
	}

	return s.write(ctx, st, "create", submitted(MsgCreated), writeFailure,
		func(ctx context.Context) error { return s.catalog.Create(ctx, product) },
		sqs.NewProductEvent(sqs.ActionCreated, product),
	)
}

// Update validates draft and replaces the product being edited. The id is taken from the
// edit session, never from the draft.
func (s *InventoryService) Update(ctx context.Context, st *store.Store, id int, draft model.Draft) error {
	snap := st.Snapshot()
	if !snap.Editing() || *snap.EditID != id {
		return ErrNotEditing
	}
	st.Dispatch(store.DraftChange{Draft: draft})

	product, err := form.ParseUpdate(id, draft)
	if err != nil {
		return s.reject(st, err)
	}

	return s.write(ctx, st, "update", submitted(MsgUpdated), writeFailure,
		func(ctx context.Context) error { return s.catalog.Update(ctx, id, product) },
		sqs.NewProductEvent(sqs.ActionUpdated, product),
	)
}

// Remove deletes the product with id once the user confirmed it.
func (s *InventoryService) Remove(ctx context.Context, st *store.Store, id int, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}

	event := sqs.ProductEvent{Action: sqs.ActionDeleted, ProductID: id}
	if p, ok := find(st.Snapshot().Products, id); ok {
		event = sqs.NewProductEvent(sqs.ActionDeleted, p)
	}

	deleted := func(token store.Token) store.Action { return store.DeleteOK{Token: token, ID: id} }
	return s.write(ctx, st, "delete", deleted, func(error) string { return MsgDeleteFailed },
		func(ctx context.Context) error { return s.catalog.Delete(ctx, id) },
		event,
	)
}

// BeginEdit loads the product with id into the form. Products missing from the last
// snapshot are fetched from the catalog.
func (s *InventoryService) BeginEdit(ctx context.Context, st *store.Store, id int) error {
	if p, ok := find(st.Snapshot().Products, id); ok {
		st.Dispatch(store.EditBegin{Product: p})
		return nil
	}

	p, err := s.catalog.Get(ctx, id)
	if err != nil {
		msg := MsgOperationFailed
		if catalog.IsNotFound(err) {
			msg = MsgNotFound
		}
		st.Dispatch(store.EditFail{Error: msg})
		return fmt.Errorf("failed to load product %d: %w", id, err)
	}
	st.Dispatch(store.EditBegin{Product: p})
	return nil
}

// CancelEdit empties the form and leaves edit mode.
func (s *InventoryService) CancelEdit(st *store.Store) {
	st.Dispatch(store.EditCancel{})
}

func (s *InventoryService) reject(st *store.Store, err error) error {
	metrics.ValidationFailures.Inc()
	token := st.BeginWrite()
	st.Dispatch(store.WriteFail{Token: token, Error: err.Error()})
	return err
}

func (s *InventoryService) write(
	ctx context.Context,
	st *store.Store,
	operation string,
	success func(store.Token) store.Action,
	failure func(error) string,
	call func(context.Context) error,
	event sqs.ProductEvent,
) error {
	token := st.BeginWrite()

	if err := call(ctx); err != nil {
		slog.Error("Catalog write failed", slog.String("operation", operation), slog.Int("product_id", event.ProductID), slog.Any("err", err))
		applied := st.Dispatch(store.WriteFail{Token: token, Error: failure(err)})
		metrics.Writes.WithLabelValues(operation, result(applied, metrics.ResultError)).Inc()
		return fmt.Errorf("failed to %s product %d: %w", operation, event.ProductID, err)
	}

	applied := st.Dispatch(success(token))
	metrics.Writes.WithLabelValues(operation, result(applied, metrics.ResultSuccess)).Inc()
	s.publish(ctx, event)

	// The backend committed the write even when its outcome was superseded.
	if err := s.Refresh(ctx, st); err != nil {
		slog.Warn("Refresh after write failed", slog.String("operation", operation), slog.Any("err", err))
	}
	return nil
}

func (s *InventoryService) publish(ctx context.Context, event sqs.ProductEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishProductEvent(ctx, event); err != nil {
		// Log error but don't fail the request
		slog.Error("Failed to send SQS message", slog.Any("err", err), slog.String("action", event.Action), slog.Int("product_id", event.ProductID))
	}
}

// submitted completes a form submit: the draft is cleared and msg is shown once.
func submitted(msg string) func(store.Token) store.Action {
	return func(token store.Token) store.Action {
		return store.WriteOK{Token: token, Message: msg}
	}
}

// writeFailure picks the backend detail when there is one.
func writeFailure(err error) string {
	var apiErr *catalog.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return MsgOperationFailed
}

func result(applied bool, outcome string) string {
	if !applied {
		return metrics.ResultStale
	}
	return outcome
}

func find(products []model.Product, id int) (model.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}
