package repository

import "errors"

var (
	ErrInvalidRowData = errors.New("invalid row data")
)
