package store

import (
	"time"

	"github.com/iyhunko/inventory-console/internal/model"
)

// Kind identifies an action type.
type Kind string

const (
	KindSyncStart    Kind = "SYNC_START"
	KindSyncOK       Kind = "SYNC_OK"
	KindSyncFail     Kind = "SYNC_FAIL"
	KindWriteStart   Kind = "WRITE_START"
	KindWriteOK      Kind = "WRITE_OK"
	KindWriteFail    Kind = "WRITE_FAIL"
	KindDeleteOK     Kind = "DELETE_OK"
	KindEditBegin    Kind = "EDIT_BEGIN"
	KindEditCancel   Kind = "EDIT_CANCEL"
	KindEditFail     Kind = "EDIT_FAIL"
	KindDraftChange  Kind = "DRAFT_CHANGE"
	KindMessageShown Kind = "MESSAGE_SHOWN"
)

// Action is a state transition request handled by Reduce.
type Action interface {
	Kind() Kind
}

// SyncStart marks a product list fetch as issued.
type SyncStart struct {
	Token Token
	// LoadingUntil is the earliest moment the loading indicator may disappear.
	LoadingUntil time.Time
}

// SyncOK carries a fresh server snapshot.
type SyncOK struct {
	Token    Token
	Products []model.Product
}

// SyncFail reports a failed fetch.
type SyncFail struct {
	Token Token
	Error string
}

// WriteStart marks a create, update or delete as issued.
type WriteStart struct {
	Token Token
}

// WriteOK reports an accepted write.
type WriteOK struct {
	Token   Token
	Message string
}

// WriteFail reports a rejected or failed write.
type WriteFail struct {
	Token Token
	Error string
}

// DeleteOK reports an accepted delete. The form is only cleared when it was editing
// the deleted product.
type DeleteOK struct {
	Token Token
	ID    int
}

// EditBegin loads a product into the form for updating.
type EditBegin struct {
	Product model.Product
}

// EditCancel empties the form and leaves edit mode.
type EditCancel struct{}

// EditFail reports that the product to edit could not be loaded.
type EditFail struct {
	Error string
}

// DraftChange replaces the form buffer.
type DraftChange struct {
	Draft model.Draft
}

// MessageShown consumes the one-shot success message.
type MessageShown struct{}

func (SyncStart) Kind() Kind    { return KindSyncStart }
func (SyncOK) Kind() Kind       { return KindSyncOK }
func (SyncFail) Kind() Kind     { return KindSyncFail }
func (WriteStart) Kind() Kind   { return KindWriteStart }
func (WriteOK) Kind() Kind      { return KindWriteOK }
func (WriteFail) Kind() Kind    { return KindWriteFail }
func (DeleteOK) Kind() Kind     { return KindDeleteOK }
func (EditBegin) Kind() Kind    { return KindEditBegin }
func (EditCancel) Kind() Kind   { return KindEditCancel }
func (EditFail) Kind() Kind     { return KindEditFail }
func (DraftChange) Kind() Kind  { return KindDraftChange }
func (MessageShown) Kind() Kind { return KindMessageShown }
