package storage

import (
	"errors"

	"gorm.io/gorm"

	"github.com/emmiamia/nourishsteps/models"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("record not found")

// ListFilter narrows list queries. Limit <= 0 means DefaultListLimit.
type ListFilter struct {
	Date  *models.Day
	Limit int
}

const (
	DefaultListLimit = 10
	MaxListLimit     = 50
)

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
