package auth

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

func (r *Repository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *Repository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with email %s: %w", email, models.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetByUUID(uuid string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("uuid = ?", uuid).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", uuid, models.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) Save(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *Repository) Delete(uuid string) error {
	result := r.db.Where("uuid = ?", uuid).Delete(&models.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %s: %w", uuid, models.ErrNotFound)
	}
	return nil
}
