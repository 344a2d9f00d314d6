package models

import "errors"

// ErrNotFound indicates a requested record does not exist
var ErrNotFound = errors.New("record not found")
