package store

import (
	"slices"

	"github.com/iyhunko/inventory-console/internal/model"
)

// Stale reports whether a completion belongs to a request that was superseded by a
// newer request of the same class. Stale completions leave the state untouched.
func Stale(s State, a Action) bool {
	switch a := a.(type) {
	case SyncOK:
		return a.Token != s.ReadToken
	case SyncFail:
		return a.Token != s.ReadToken
	case WriteOK:
		return a.Token != s.WriteToken
	case WriteFail:
		return a.Token != s.WriteToken
	case DeleteOK:
		return a.Token != s.WriteToken
	default:
		return false
	}
}

// Reduce returns the state that follows s after a. It never mutates s.
func Reduce(s State, a Action) State {
	if Stale(s, a) {
		return s
	}
	next := s.Clone()

	switch a := a.(type) {
	case SyncStart:
		next.ReadToken = a.Token
		next.ReadInFlight = true
		next.LoadingUntil = a.LoadingUntil
		next.Status = StatusLoading
		next.Error = ""
	case SyncOK:
		next.Products = slices.Clone(a.Products)
		if next.Products == nil {
			next.Products = []model.Product{}
		}
		next.Synced = true
		next.ReadInFlight = false
		next.Error = ""
		next.Status = StatusSuccess
	case SyncFail:
		next.ReadInFlight = false
		next.Error = a.Error
		next.Status = StatusError
	case WriteStart:
		next.WriteToken = a.Token
		next.WriteInFlight = true
		next.Status = StatusLoading
		next.Message = ""
		next.Error = ""
	case WriteOK:
		next.WriteInFlight = false
		next.Draft = model.Draft{}
		next.EditID = nil
		next.Message = a.Message
		next.Status = StatusSuccess
	case DeleteOK:
		next.WriteInFlight = false
		if next.EditID != nil && *next.EditID == a.ID {
			next.EditID = nil
			next.Draft = model.Draft{}
		}
		next.Status = StatusSuccess
	case WriteFail:
		next.WriteInFlight = false
		next.Error = a.Error
		next.Status = StatusError
	case EditBegin:
		id := a.Product.ID
		next.EditID = &id
		next.Draft = model.DraftFromProduct(a.Product)
		next.Message = ""
		next.Error = ""
	case EditCancel:
		next.EditID = nil
		next.Draft = model.Draft{}
	case EditFail:
		next.Message = ""
		next.Error = a.Error
		next.Status = StatusError
	case DraftChange:
		next.Draft = a.Draft
	case MessageShown:
		next.Message = ""
		if next.Status == StatusSuccess {
			next.Status = StatusIdle
		}
	}
	return next
}
