package domain

import (
	"fmt"
)

// ErrorKind classifies request-scoped failures
type ErrorKind string

// ErrorKind constants
const (
	KindNotFound                  ErrorKind = "NOT_FOUND"
	KindInsufficientFunds         ErrorKind = "INSUFFICIENT_FUNDS"
	KindInsufficientAssetQuantity ErrorKind = "INSUFFICIENT_ASSET_QUANTITY"
	KindValidation                ErrorKind = "VALIDATION"
)

// Entity names used in NotFound errors
const (
	EntityUser      = "User"
	EntityPortfolio = "Portfolio"
	EntityAsset     = "Asset"
	EntityTrade     = "Trade"
)

// Error is a failure with a stable kind and a human-readable detail
type Error struct {
	Kind   ErrorKind
	Entity string
	Detail string

	// Required and Available are set for InsufficientFunds
	Required  int64
	Available int64
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return e.Detail
}

// Is matches any *Error of the same kind, and the same entity when target names one
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Entity == "" || t.Entity == e.Entity
}

// Sentinels for errors.Is
var (
	ErrNotFound                  = &Error{Kind: KindNotFound}
	ErrUserNotFound              = &Error{Kind: KindNotFound, Entity: EntityUser}
	ErrPortfolioNotFound         = &Error{Kind: KindNotFound, Entity: EntityPortfolio}
	ErrAssetNotFound             = &Error{Kind: KindNotFound, Entity: EntityAsset}
	ErrTradeNotFound             = &Error{Kind: KindNotFound, Entity: EntityTrade}
	ErrInsufficientFunds         = &Error{Kind: KindInsufficientFunds}
	ErrInsufficientAssetQuantity = &Error{Kind: KindInsufficientAssetQuantity}
	ErrValidation                = &Error{Kind: KindValidation}
)

// NotFound builds a NotFound error for entity identified by key
func NotFound(entity string, key any) error {
	return &Error{
		Kind:   KindNotFound,
		Entity: entity,
		Detail: fmt.Sprintf("%s not found: %v", entity, key),
	}
}

// InsufficientFunds builds the error returned when a BUY costs more gems than available
func InsufficientFunds(required, available int64) error {
	return &Error{
		Kind:      KindInsufficientFunds,
		Detail:    fmt.Sprintf("Insufficient funds. Required: %d gems, Available: %d gems", required, available),
		Required:  required,
		Available: available,
	}
}

// InsufficientAssetQuantity builds the error returned when a SELL exceeds the held quantity
func InsufficientAssetQuantity(requested, held string) error {
	return &Error{
		Kind:   KindInsufficientAssetQuantity,
		Detail: fmt.Sprintf("Insufficient asset quantity in portfolio. Requested: %s, Held: %s", requested, held),
	}
}

// Validation builds a Validation error
func Validation(format string, args ...any) error {
	return &Error{
		Kind:   KindValidation,
		Detail: fmt.Sprintf(format, args...),
	}
}
