package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/emmiamia/nourishsteps/models"
)

// MealRepository persists meal logs through gorm.
type MealRepository struct {
	db *gorm.DB
}

func NewMealRepository(db *gorm.DB) *MealRepository {
	return &MealRepository{db: db}
}

func (r *MealRepository) Create(ctx context.Context, m *models.Meal) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create meal: %w", err)
	}
	return nil
}

func (r *MealRepository) Get(ctx context.Context, id uint) (models.Meal, error) {
	var m models.Meal
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return models.Meal{}, notFound(err)
	}
	return m, nil
}

// List returns meals ordered by date then id, newest first.
func (r *MealRepository) List(ctx context.Context, f ListFilter) ([]models.Meal, error) {
	q := r.db.WithContext(ctx).Order("date DESC").Order("id DESC").Limit(normalizeLimit(f.Limit))
	if f.Date != nil {
		q = q.Where("date = ?", *f.Date)
	}
	var out []models.Meal
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	return out, nil
}

func (r *MealRepository) Save(ctx context.Context, m *models.Meal) error {
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return fmt.Errorf("update meal %d: %w", m.ID, err)
	}
	return nil
}

func (r *MealRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Meal{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete meal %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MealRepository) MealsByDate(ctx context.Context, day models.Day) ([]models.Meal, error) {
	var out []models.Meal
	err := r.db.WithContext(ctx).
		Where("date = ?", day).
		Order("created_at ASC").Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("meals on %s: %w", day, err)
	}
	return out, nil
}

func (r *MealRepository) MealsBetween(ctx context.Context, start, end models.Day) ([]models.Meal, error) {
	var out []models.Meal
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", start, end).
		Order("date ASC").Order("created_at ASC").Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("meals %s..%s: %w", start, end, err)
	}
	return out, nil
}
