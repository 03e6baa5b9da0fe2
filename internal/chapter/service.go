package chapter

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"elearn-system/internal/models"
	"elearn-system/pkg/websocket"
)

// Store is the persistence surface the chapter registry needs.
type Store interface {
	Create(chapter *models.Chapter) error
	GetByUUID(uuid string) (*models.Chapter, error)
	GetAll() ([]models.Chapter, error)
	GetByCourse(courseUUID string) ([]models.Chapter, error)
	GetByTitleAndCourse(title, courseUUID string) (*models.Chapter, error)
	Save(chapter *models.Chapter) error
	UpdateSummary(uuid, summary string) error
	UpdateQuizRef(uuid, quizUUID string) error
	Delete(uuid string) error
}

// CourseRegistry is what the chapter registry needs from the course side:
// existence checks plus the parent-array patch operations.
type CourseRegistry interface {
	GetByUUID(uuid string) (*models.Course, error)
	AddChapterRef(courseUUID, chapterUUID string) error
	RemoveChapterRef(courseUUID, chapterUUID string) error
}

// QuizRegistry is wired after construction because the quiz registry itself
// depends on chapters.
type QuizRegistry interface {
	GetByUUID(uuid string) (*models.Quiz, error)
	Delete(uuid string) error
}

type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

type Service struct {
	store      Store
	courses    CourseRegistry
	quizzes    QuizRegistry
	summarizer Summarizer
	hub        *websocket.Hub
}

func NewService(store Store, courses CourseRegistry, summarizer Summarizer, hub *websocket.Hub) *Service {
	return &Service{
		store:      store,
		courses:    courses,
		summarizer: summarizer,
		hub:        hub,
	}
}

// SetQuizRegistry breaks the chapter<->quiz construction cycle.
func (s *Service) SetQuizRegistry(quizzes QuizRegistry) {
	s.quizzes = quizzes
}

// Create validates the parent course, checks the (title, course) pair,
// persists the chapter, appends it to the course's chapters array and kicks
// off summary generation in the background. The chapter is returned before
// the summary lands.
func (s *Service) Create(req models.CreateChapterRequest) (*models.Chapter, error) {
	course, err := s.courses.GetByUUID(req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("chapter course: %w", err)
	}

	if _, err := s.store.GetByTitleAndCourse(req.Title, req.CourseID); err == nil {
		return nil, fmt.Errorf("chapter titled %q in course %s: %w", req.Title, req.CourseID, models.ErrConflict)
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	chapter := &models.Chapter{
		UUID:     uuid.NewString(),
		Title:    req.Title,
		Content:  req.Content,
		CourseID: req.CourseID,
	}

	if err := s.store.Create(chapter); err != nil {
		return nil, err
	}

	if err := s.courses.AddChapterRef(course.UUID, chapter.UUID); err != nil {
		// The chapter is already committed; the missing back-reference is
		// the documented cost of having no transaction boundary.
		log.Printf("Error appending chapter %s to course %s: %v", chapter.UUID, course.UUID, err)
	}

	s.regenerateSummary(chapter.UUID, chapter.CourseID, chapter.Content)

	return chapter, nil
}

func (s *Service) GetByUUID(chapterUUID string) (*models.Chapter, error) {
	return s.store.GetByUUID(chapterUUID)
}

func (s *Service) GetAll() ([]models.Chapter, error) {
	return s.store.GetAll()
}

func (s *Service) GetByCourse(courseUUID string) ([]models.Chapter, error) {
	return s.store.GetByCourse(courseUUID)
}

// FindQuizOfChapter resolves the chapter's quiz reference. A chapter without
// a quiz yields nil, not an error.
func (s *Service) FindQuizOfChapter(chapterUUID string) (*models.Quiz, error) {
	chapter, err := s.store.GetByUUID(chapterUUID)
	if err != nil {
		return nil, err
	}
	if chapter.QuizID == "" || s.quizzes == nil {
		return nil, nil
	}
	return s.quizzes.GetByUUID(chapter.QuizID)
}

// Update re-validates any reference present in the patch, re-checks the
// (title, course) pair when it changes, and re-triggers summary generation
// with the new content, or the stored content if none was supplied.
func (s *Service) Update(chapterUUID string, patch models.UpdateChapterPatch) (*models.Chapter, error) {
	chapter, err := s.store.GetByUUID(chapterUUID)
	if err != nil {
		return nil, err
	}

	if patch.CourseID != nil {
		if _, err := s.courses.GetByUUID(*patch.CourseID); err != nil {
			return nil, fmt.Errorf("chapter course: %w", err)
		}
	}
	if patch.QuizID != nil && *patch.QuizID != "" {
		if s.quizzes == nil {
			return nil, fmt.Errorf("quiz %s: %w", *patch.QuizID, models.ErrNotFound)
		}
		if _, err := s.quizzes.GetByUUID(*patch.QuizID); err != nil {
			return nil, fmt.Errorf("chapter quiz: %w", err)
		}
	}

	newTitle := chapter.Title
	if patch.Title != nil {
		newTitle = *patch.Title
	}
	newCourse := chapter.CourseID
	if patch.CourseID != nil {
		newCourse = *patch.CourseID
	}
	if newTitle != chapter.Title || newCourse != chapter.CourseID {
		existing, err := s.store.GetByTitleAndCourse(newTitle, newCourse)
		if err == nil && existing.UUID != chapter.UUID {
			return nil, fmt.Errorf("chapter titled %q in course %s: %w", newTitle, newCourse, models.ErrConflict)
		}
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
	}

	chapter.Title = newTitle
	chapter.CourseID = newCourse
	if patch.Content != nil {
		chapter.Content = *patch.Content
	}
	if patch.QuizID != nil {
		chapter.QuizID = *patch.QuizID
	}

	if err := s.store.Save(chapter); err != nil {
		return nil, err
	}

	s.regenerateSummary(chapter.UUID, chapter.CourseID, chapter.Content)

	return chapter, nil
}

// Delete cascades to the chapter's quiz first, then removes the chapter and
// best-effort patches the parent course. A failing course lookup does not
// resurrect the chapter; the stale reference is logged and left behind.
func (s *Service) Delete(chapterUUID string) error {
	chapter, err := s.store.GetByUUID(chapterUUID)
	if err != nil {
		return err
	}

	if chapter.QuizID != "" && s.quizzes != nil {
		if err := s.quizzes.Delete(chapter.QuizID); err != nil && !errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("cascading quiz delete: %w", err)
		}
	}

	if err := s.store.Delete(chapterUUID); err != nil {
		return err
	}

	if err := s.courses.RemoveChapterRef(chapter.CourseID, chapter.UUID); err != nil {
		log.Printf("Error removing chapter %s from course %s: %v", chapter.UUID, chapter.CourseID, err)
	}

	return nil
}

// SetQuizRef is the write path the quiz registry uses to point a chapter at
// its quiz.
func (s *Service) SetQuizRef(chapterUUID, quizUUID string) error {
	return s.store.UpdateQuizRef(chapterUUID, quizUUID)
}

// ClearQuizRef empties the reference, but only if it still points at the
// quiz being removed.
func (s *Service) ClearQuizRef(chapterUUID, quizUUID string) error {
	chapter, err := s.store.GetByUUID(chapterUUID)
	if err != nil {
		return err
	}
	if chapter.QuizID != quizUUID {
		return nil
	}
	return s.store.UpdateQuizRef(chapterUUID, "")
}

// regenerateSummary runs detached: the caller never waits on it, a failure
// only shows up in the log and as an empty summary field.
func (s *Service) regenerateSummary(chapterUUID, courseUUID, content string) {
	if s.summarizer == nil || content == "" {
		return
	}

	go func() {
		summary, err := s.summarizer.Summarize(context.Background(), content)
		if err != nil {
			log.Printf("Error summarizing chapter %s: %v", chapterUUID, err)
			return
		}

		if err := s.store.UpdateSummary(chapterUUID, summary); err != nil {
			log.Printf("Error saving summary for chapter %s: %v", chapterUUID, err)
			return
		}

		if s.hub != nil {
			s.hub.Broadcast(courseUUID, "summary_ready", map[string]string{
				"chapter_uuid": chapterUUID,
			})
		}
	}()
}
