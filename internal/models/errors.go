package models

import "errors"

// Domain errors. Handlers map each to an HTTP status; anything outside this
// set becomes a generic internal error.
var (
	ErrValidation         = errors.New("invalid input")
	ErrUnknownSymbol      = errors.New("unknown symbol")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrAuthentication     = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrQuoteUnavailable   = errors.New("quote service unavailable")
	ErrNegativeBalance    = errors.New("cash balance may not go negative")
	ErrNotFound           = errors.New("not found")
)
