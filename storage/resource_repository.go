package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/emmiamia/nourishsteps/models"
)

// ResourceRepository reads and seeds support resources.
type ResourceRepository struct {
	db *gorm.DB
}

func NewResourceRepository(db *gorm.DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

func (r *ResourceRepository) List(ctx context.Context) ([]models.Resource, error) {
	var out []models.Resource
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return out, nil
}

// Replace swaps the whole resource table for items in one transaction.
func (r *ResourceRepository) Replace(ctx context.Context, items []models.Resource) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Resource{}).Error; err != nil {
			return fmt.Errorf("clear resources: %w", err)
		}
		if len(items) == 0 {
			return nil
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("insert resources: %w", err)
		}
		return nil
	})
}
