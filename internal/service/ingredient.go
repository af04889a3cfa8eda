package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/foodgram-project/backend/internal/models"
)

// IngredientService handles the ingredient dictionary.
type IngredientService struct {
	db *gorm.DB
}

func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{db: db}
}

// ListIngredients returns ingredients, optionally narrowed by a
// case-insensitive substring match on the name.
func (s *IngredientService) ListIngredients(ctx context.Context, name string) ([]models.Ingredient, error) {
	query := s.db.WithContext(ctx).Model(&models.Ingredient{})
	if name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}

	var ingredients []models.Ingredient
	if err := query.Order("id").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (s *IngredientService) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("ingredient %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &ingredient, nil
}

// CreateIngredient stores a new (name, unit) pair.
func (s *IngredientService) CreateIngredient(ctx context.Context, name, unit string) (*models.Ingredient, error) {
	if name == "" || unit == "" {
		return nil, validationf("ingredient name and measurement unit are required")
	}

	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := s.db.WithContext(ctx).Create(&ingredient).Error; err != nil {
		return nil, fmt.Errorf("ingredient %w", ErrConflict)
	}
	return &ingredient, nil
}

// GetOrCreateIngredient is used by the CSV import; it reports whether the
// row was created.
func (s *IngredientService) GetOrCreateIngredient(ctx context.Context, name, unit string) (*models.Ingredient, bool, error) {
	var ingredient models.Ingredient
	err := s.db.WithContext(ctx).
		Where("name = ? AND measurement_unit = ?", name, unit).
		First(&ingredient).Error
	if err == nil {
		return &ingredient, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	created, err := s.CreateIngredient(ctx, name, unit)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}
