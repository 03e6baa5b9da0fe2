package comment

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"elearn-system/internal/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *Repository) GetByUUID(uuid string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.Where("uuid = ?", uuid).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("comment %s: %w", uuid, models.ErrNotFound)
		}
		return nil, err
	}
	return &comment, nil
}

func (r *Repository) GetByCourse(courseUUID string) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.Where("course_id = ?", courseUUID).Order("created_at asc").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *Repository) Delete(uuid string) error {
	result := r.db.Where("uuid = ?", uuid).Delete(&models.Comment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("comment %s: %w", uuid, models.ErrNotFound)
	}
	return nil
}
