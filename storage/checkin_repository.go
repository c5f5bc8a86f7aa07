package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/emmiamia/nourishsteps/models"
)

// CheckInRepository persists check-ins through gorm.
type CheckInRepository struct {
	db *gorm.DB
}

func NewCheckInRepository(db *gorm.DB) *CheckInRepository {
	return &CheckInRepository{db: db}
}

func (r *CheckInRepository) Create(ctx context.Context, c *models.CheckIn) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create check-in: %w", err)
	}
	return nil
}

func (r *CheckInRepository) Get(ctx context.Context, id uint) (models.CheckIn, error) {
	var c models.CheckIn
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return models.CheckIn{}, notFound(err)
	}
	return c, nil
}

// List returns check-ins newest first, optionally restricted to one date.
func (r *CheckInRepository) List(ctx context.Context, f ListFilter) ([]models.CheckIn, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Limit(normalizeLimit(f.Limit))
	if f.Date != nil {
		q = q.Where("date = ?", *f.Date)
	}
	var out []models.CheckIn
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list check-ins: %w", err)
	}
	return out, nil
}

// Save writes every column of an existing check-in.
func (r *CheckInRepository) Save(ctx context.Context, c *models.CheckIn) error {
	if err := r.db.WithContext(ctx).Save(c).Error; err != nil {
		return fmt.Errorf("update check-in %d: %w", c.ID, err)
	}
	return nil
}

func (r *CheckInRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.CheckIn{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete check-in %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll removes every check-in; used by the seed command.
func (r *CheckInRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.CheckIn{}).Error
}

func (r *CheckInRepository) CheckInsByDate(ctx context.Context, day models.Day) ([]models.CheckIn, error) {
	var out []models.CheckIn
	err := r.db.WithContext(ctx).
		Where("date = ?", day).
		Order("created_at ASC").Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("check-ins on %s: %w", day, err)
	}
	return out, nil
}

func (r *CheckInRepository) CheckInsBetween(ctx context.Context, start, end models.Day) ([]models.CheckIn, error) {
	var out []models.CheckIn
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", start, end).
		Order("date ASC").Order("created_at ASC").Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("check-ins %s..%s: %w", start, end, err)
	}
	return out, nil
}
