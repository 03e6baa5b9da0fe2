package course

import (
	"encoding/json"
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

func (r *Repository) Create(course *models.Course) error {
	return r.db.Create(course).Error
}

func (r *Repository) GetByUUID(uuid string) (*models.Course, error) {
	var course models.Course
	if err := r.db.Where("uuid = ?", uuid).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("course %s: %w", uuid, models.ErrNotFound)
		}
		return nil, err
	}
	return &course, nil
}

func (r *Repository) GetByTitle(title string) (*models.Course, error) {
	var course models.Course
	if err := r.db.Where("title = ?", title).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("course titled %q: %w", title, models.ErrNotFound)
		}
		return nil, err
	}
	return &course, nil
}

func (r *Repository) GetAll() ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

// GetByTag matches exact membership in the jsonb tags array.
func (r *Repository) GetByTag(tag string) ([]models.Course, error) {
	member, err := json.Marshal([]string{tag})
	if err != nil {
		return nil, err
	}

	var courses []models.Course
	if err := r.db.Where("tags @> ?::jsonb", string(member)).Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *Repository) GetByCreator(creatorUUID string) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.Where("creator_id = ?", creatorUUID).Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *Repository) GetByStudent(studentUUID string) ([]models.Course, error) {
	member, err := json.Marshal([]string{studentUUID})
	if err != nil {
		return nil, err
	}

	var courses []models.Course
	if err := r.db.Where("students @> ?::jsonb", string(member)).Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *Repository) Save(course *models.Course) error {
	return r.db.Save(course).Error
}

func (r *Repository) Delete(uuid string) error {
	result := r.db.Where("uuid = ?", uuid).Delete(&models.Course{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("course %s: %w", uuid, models.ErrNotFound)
	}
	return nil
}
