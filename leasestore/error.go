package leasestore

import "errors"

var (
	ErrNotFound    = errors.New("kunci: lease not found")
	ErrReadOnly    = errors.New("kunci: lease store is read-only")
	ErrUnavailable = errors.New("kunci: lease store unavailable")
)
