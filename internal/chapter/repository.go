package chapter

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

func (r *Repository) Create(chapter *models.Chapter) error {
	return r.db.Create(chapter).Error
}

func (r *Repository) GetByUUID(uuid string) (*models.Chapter, error) {
	var chapter models.Chapter
	if err := r.db.Where("uuid = ?", uuid).First(&chapter).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("chapter %s: %w", uuid, models.ErrNotFound)
		}
		return nil, err
	}
	return &chapter, nil
}

func (r *Repository) GetAll() ([]models.Chapter, error) {
	var chapters []models.Chapter
	if err := r.db.Find(&chapters).Error; err != nil {
		return nil, err
	}
	return chapters, nil
}

func (r *Repository) GetByCourse(courseUUID string) ([]models.Chapter, error) {
	var chapters []models.Chapter
	if err := r.db.Where("course_id = ?", courseUUID).Find(&chapters).Error; err != nil {
		return nil, err
	}
	return chapters, nil
}

func (r *Repository) GetByTitleAndCourse(title, courseUUID string) (*models.Chapter, error) {
	var chapter models.Chapter
	if err := r.db.Where("title = ? AND course_id = ?", title, courseUUID).First(&chapter).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("chapter titled %q in course %s: %w", title, courseUUID, models.ErrNotFound)
		}
		return nil, err
	}
	return &chapter, nil
}

func (r *Repository) Save(chapter *models.Chapter) error {
	return r.db.Save(chapter).Error
}

// UpdateSummary writes the generated summary without touching other fields,
// so the background write-back cannot clobber a concurrent content edit.
func (r *Repository) UpdateSummary(uuid, summary string) error {
	result := r.db.Model(&models.Chapter{}).Where("uuid = ?", uuid).Update("summary", summary)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("chapter %s: %w", uuid, models.ErrNotFound)
	}
	return nil
}

// UpdateQuizRef overwrites the single quiz reference; empty string clears it.
func (r *Repository) UpdateQuizRef(uuid, quizUUID string) error {
	result := r.db.Model(&models.Chapter{}).Where("uuid = ?", uuid).Update("quiz_id", quizUUID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("chapter %s: %w", uuid, models.ErrNotFound)
	}
	return nil
}

func (r *Repository) Delete(uuid string) error {
	result := r.db.Where("uuid = ?", uuid).Delete(&models.Chapter{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("chapter %s: %w", uuid, models.ErrNotFound)
	}
	return nil
}
