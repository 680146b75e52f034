package storage

import "errors"

var (
	ErrBatchNotFound = errors.New("batch not found")
)
