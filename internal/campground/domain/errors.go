package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates that a referenced entity is absent.
	ErrNotFound = errors.New("entity not found")
	// ErrForbidden indicates that the principal is not authorized to perform the action.
	ErrForbidden = errors.New("action forbidden")
	// ErrInvalidInput indicates malformed input fields.
	ErrInvalidInput = errors.New("invalid input data")
	// ErrRepository indicates a generic persistence failure.
	ErrRepository = errors.New("repository error")
)

// GeocodeErrorKind classifies failures of the geocoding lookup.
type GeocodeErrorKind string

const (
	GeocodeNotFound           GeocodeErrorKind = "not_found"
	GeocodeServiceUnavailable GeocodeErrorKind = "service_unavailable"
	GeocodeInvalidQuery       GeocodeErrorKind = "invalid_query"
)

// GeocodeError is returned by the geocoding adapter when the upstream
// lookup fails or yields no result.
type GeocodeError struct {
	Kind    GeocodeErrorKind
	Message string
}

func (e *GeocodeError) Error() string {
	return fmt.Sprintf("geocode %s: %s", e.Kind, e.Message)
}

// AssetErrorKind classifies failures of the asset store.
type AssetErrorKind string

const (
	AssetUploadFailed AssetErrorKind = "upload_failed"
	AssetDeleteFailed AssetErrorKind = "delete_failed"
)

// AssetError is returned by the asset store adapter. For delete failures,
// Failed carries the identifiers that could not be removed so an operator
// reconciliation job can retry them.
type AssetError struct {
	Kind    AssetErrorKind
	Message string
	Failed  []string
}

func (e *AssetError) Error() string {
	if len(e.Failed) > 0 {
		return fmt.Sprintf("asset %s: %s (identifiers: %s)", e.Kind, e.Message, strings.Join(e.Failed, ", "))
	}
	return fmt.Sprintf("asset %s: %s", e.Kind, e.Message)
}
