package errors

import "errors"

var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrInvalidRecordType = errors.New("unknown record type")
	ErrInvalidAmount     = errors.New("amount must be a decimal number")
	ErrRecordNotFound    = errors.New("record not found")
)
