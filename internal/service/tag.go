package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/foodgram-project/backend/internal/models"
)

// TagService handles the tag dictionary.
type TagService struct {
	db *gorm.DB
}

func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

func (s *TagService) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("id").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *TagService) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("tag %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &tag, nil
}

// CreateTag stores a tag. The color is kept as the submitted hex value but
// must resolve to a known color name.
func (s *TagService) CreateTag(ctx context.Context, name, color, slug string) (*models.Tag, error) {
	if name == "" || slug == "" {
		return nil, validationf("tag name and slug are required")
	}
	if _, err := HexToColorName(color); err != nil {
		return nil, err
	}

	tag := models.Tag{Name: name, Color: color, Slug: slug}
	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		return nil, fmt.Errorf("tag %w", ErrConflict)
	}
	return &tag, nil
}
