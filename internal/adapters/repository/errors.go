package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrCollectionNotFound = errors.New("collection not found")
	ErrItemNotFound       = errors.New("item not found")
	ErrInvalidPair        = errors.New("invalid pair")
	ErrInvalidOutcome     = errors.New("invalid outcome")
	ErrEmptyLabel         = errors.New("empty item label")
	ErrEmptyName          = errors.New("empty collection name")
)
