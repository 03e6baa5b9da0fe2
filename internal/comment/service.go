package comment

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"elearn-system/internal/models"
	"elearn-system/pkg/websocket"
)

// Store is the persistence surface the comment registry needs.
type Store interface {
	Create(comment *models.Comment) error
	GetByUUID(uuid string) (*models.Comment, error)
	GetByCourse(courseUUID string) ([]models.Comment, error)
	Delete(uuid string) error
}

// CourseRegistry gives the comment registry course reads plus the
// comments-array patch operations.
type CourseRegistry interface {
	GetByUUID(uuid string) (*models.Course, error)
	AddCommentRef(courseUUID, commentUUID string) error
	RemoveCommentRef(courseUUID, commentUUID string) error
}

type Service struct {
	store   Store
	courses CourseRegistry
	hub     *websocket.Hub
}

func NewService(store Store, courses CourseRegistry, hub *websocket.Hub) *Service {
	return &Service{
		store:   store,
		courses: courses,
		hub:     hub,
	}
}

// Create validates the course, persists the comment with the requester as
// its author and appends it to the course's comments array.
func (s *Service) Create(req models.CreateCommentRequest, authorUUID string) (*models.Comment, error) {
	course, err := s.courses.GetByUUID(req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("comment course: %w", err)
	}

	comment := &models.Comment{
		UUID:     uuid.NewString(),
		UserID:   authorUUID,
		CourseID: req.CourseID,
		Content:  req.Content,
	}

	if err := s.store.Create(comment); err != nil {
		return nil, err
	}

	if err := s.courses.AddCommentRef(course.UUID, comment.UUID); err != nil {
		log.Printf("Error appending comment %s to course %s: %v", comment.UUID, course.UUID, err)
	}

	if s.hub != nil {
		s.hub.Broadcast(course.UUID, "comment_created", comment)
	}

	return comment, nil
}

func (s *Service) GetByUUID(commentUUID string) (*models.Comment, error) {
	return s.store.GetByUUID(commentUUID)
}

func (s *Service) ListByCourse(courseUUID string) ([]models.Comment, error) {
	if _, err := s.courses.GetByUUID(courseUUID); err != nil {
		return nil, fmt.Errorf("comment course: %w", err)
	}
	return s.store.GetByCourse(courseUUID)
}

// Delete is author-only. The removed id is filtered out of the course's
// comments array, best-effort.
func (s *Service) Delete(commentUUID, requesterUUID string) error {
	comment, err := s.store.GetByUUID(commentUUID)
	if err != nil {
		return err
	}

	if comment.UserID != requesterUUID {
		return fmt.Errorf("only the comment author may delete it: %w", models.ErrForbidden)
	}

	if err := s.store.Delete(commentUUID); err != nil {
		return err
	}

	if err := s.courses.RemoveCommentRef(comment.CourseID, comment.UUID); err != nil {
		log.Printf("Error removing comment %s from course %s: %v", comment.UUID, comment.CourseID, err)
	}

	return nil
}
