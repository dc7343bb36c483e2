package store

import (
	"errors"

	"gorm.io/gorm"
)

// ErrRecordNotFound hides the gorm error type from callers.
var ErrRecordNotFound = errors.New("record not found")

func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	return err
}
