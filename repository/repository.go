// Package repository holds the gorm-backed persistence for every aggregate.
// Lookups return (nil, nil) when the record does not exist.
package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrStaleWrite is returned when a guarded update matched no row because the
// record changed since it was read
var ErrStaleWrite = errors.New("record was modified concurrently")

func notFoundAsNil(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
