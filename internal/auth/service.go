package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"elearn-system/internal/models"
)

// Store is the persistence surface the user registry needs.
type Store interface {
	CreateUser(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByUUID(uuid string) (*models.User, error)
	Save(user *models.User) error
	Delete(uuid string) error
}

type Service struct {
	store     Store
	jwtSecret []byte
}

func NewService(store Store, jwtSecret string) *Service {
	return &Service{
		store:     store,
		jwtSecret: []byte(jwtSecret),
	}
}

// Register creates a user account. Email uniqueness is enforced here: a
// second account with the same address fails with a conflict.
func (s *Service) Register(req models.RegisterRequest) (*models.User, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("email and password are required: %w", models.ErrInvalid)
	}
	if req.Type != models.UserTypeTeacher && req.Type != models.UserTypeStudent {
		return nil, fmt.Errorf("user type %q: %w", req.Type, models.ErrInvalid)
	}

	if _, err := s.store.GetByEmail(req.Email); err == nil {
		return nil, fmt.Errorf("user with email %s: %w", req.Email, models.ErrConflict)
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		UUID:      uuid.NewString(),
		Email:     req.Email,
		Password:  string(hashedPassword),
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Type:      req.Type,
	}

	if err := s.store.CreateUser(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) Login(email, password string) (string, error) {
	user, err := s.store.GetByEmail(email)
	if err != nil {
		return "", errors.New("user not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", errors.New("invalid password")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_uuid": user.UUID,
		"user_type": user.Type,
		"exp":       time.Now().Add(time.Hour * 24).Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *Service) GetByUUID(uuid string) (*models.User, error) {
	return s.store.GetByUUID(uuid)
}

// GetByUUIDWithoutPassword is the lookup handed to other users: same record,
// password stripped.
func (s *Service) GetByUUIDWithoutPassword(uuid string) (*models.User, error) {
	user, err := s.store.GetByUUID(uuid)
	if err != nil {
		return nil, err
	}
	view := user.WithoutPassword()
	return &view, nil
}

// Update applies a partial payload. A changed email must not collide with
// another account. Editing a user does not touch courses, comments or quiz
// attempts they authored.
func (s *Service) Update(uuid string, patch models.UpdateUserPatch) (*models.User, error) {
	user, err := s.store.GetByUUID(uuid)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil && *patch.Email != user.Email {
		if _, err := s.store.GetByEmail(*patch.Email); err == nil {
			return nil, fmt.Errorf("user with email %s: %w", *patch.Email, models.ErrConflict)
		} else if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		user.Email = *patch.Email
	}
	if patch.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashedPassword)
	}
	if patch.Firstname != nil {
		user.Firstname = *patch.Firstname
	}
	if patch.Lastname != nil {
		user.Lastname = *patch.Lastname
	}
	if patch.Type != nil {
		if *patch.Type != models.UserTypeTeacher && *patch.Type != models.UserTypeStudent {
			return nil, fmt.Errorf("user type %q: %w", *patch.Type, models.ErrInvalid)
		}
		user.Type = *patch.Type
	}

	if err := s.store.Save(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) Delete(uuid string) error {
	return s.store.Delete(uuid)
}
