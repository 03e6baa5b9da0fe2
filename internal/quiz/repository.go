package quiz

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

func (r *Repository) Create(quiz *models.Quiz) error {
	return r.db.Create(quiz).Error
}

func (r *Repository) GetByUUID(uuid string) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := r.db.Where("uuid = ?", uuid).First(&quiz).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("quiz %s: %w", uuid, models.ErrNotFound)
		}
		return nil, err
	}
	return &quiz, nil
}

func (r *Repository) GetAll() ([]models.Quiz, error) {
	var quizzes []models.Quiz
	if err := r.db.Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *Repository) GetByChapter(chapterUUID string) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := r.db.Where("chapter_id = ?", chapterUUID).First(&quiz).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("quiz of chapter %s: %w", chapterUUID, models.ErrNotFound)
		}
		return nil, err
	}
	return &quiz, nil
}

func (r *Repository) GetByTitleAndChapter(title, chapterUUID string) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := r.db.Where("title = ? AND chapter_id = ?", title, chapterUUID).First(&quiz).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("quiz titled %q in chapter %s: %w", title, chapterUUID, models.ErrNotFound)
		}
		return nil, err
	}
	return &quiz, nil
}

func (r *Repository) Save(quiz *models.Quiz) error {
	return r.db.Save(quiz).Error
}

func (r *Repository) Delete(uuid string) error {
	result := r.db.Where("uuid = ?", uuid).Delete(&models.Quiz{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("quiz %s: %w", uuid, models.ErrNotFound)
	}
	return nil
}

func (r *Repository) CreateAnswer(answer *models.QuizAnswer) error {
	return r.db.Create(answer).Error
}

func (r *Repository) GetAnswersByQuiz(quizUUID string) ([]models.QuizAnswer, error) {
	var answers []models.QuizAnswer
	if err := r.db.Where("quiz_id = ?", quizUUID).Order("created_at desc").Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *Repository) GetAnswersByQuizAndUser(quizUUID, userUUID string) ([]models.QuizAnswer, error) {
	var answers []models.QuizAnswer
	if err := r.db.Where("quiz_id = ? AND user_id = ?", quizUUID, userUUID).Order("created_at desc").Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}
