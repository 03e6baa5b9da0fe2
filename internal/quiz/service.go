package quiz

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"elearn-system/internal/models"
	"elearn-system/pkg/cache"
)

// Store is the persistence surface the quiz registry needs; it also owns
// the stored attempts.
type Store interface {
	Create(quiz *models.Quiz) error
	GetByUUID(uuid string) (*models.Quiz, error)
	GetAll() ([]models.Quiz, error)
	GetByChapter(chapterUUID string) (*models.Quiz, error)
	GetByTitleAndChapter(title, chapterUUID string) (*models.Quiz, error)
	Save(quiz *models.Quiz) error
	Delete(uuid string) error
	CreateAnswer(answer *models.QuizAnswer) error
	GetAnswersByQuiz(quizUUID string) ([]models.QuizAnswer, error)
	GetAnswersByQuizAndUser(quizUUID, userUUID string) ([]models.QuizAnswer, error)
}

// ChapterRegistry gives the quiz registry chapter reads plus the quiz
// back-reference write path.
type ChapterRegistry interface {
	GetByUUID(uuid string) (*models.Chapter, error)
	SetQuizRef(chapterUUID, quizUUID string) error
	ClearQuizRef(chapterUUID, quizUUID string) error
}

type CourseReader interface {
	GetByUUID(uuid string) (*models.Course, error)
}

type UserReader interface {
	GetByUUID(uuid string) (*models.User, error)
}

type Service struct {
	store    Store
	chapters ChapterRegistry
	courses  CourseReader
	users    UserReader
	cache    *cache.RedisCache
}

func NewService(store Store, chapters ChapterRegistry, courses CourseReader, users UserReader, cache *cache.RedisCache) *Service {
	return &Service{
		store:    store,
		chapters: chapters,
		courses:  courses,
		users:    users,
		cache:    cache,
	}
}

// Create walks the chapter up to its course and compares the stored course
// creator against the requester; the ownership claim is never taken from the
// payload. On success the chapter's quiz reference is pointed at the new
// quiz.
func (s *Service) Create(req models.CreateQuizRequest, creatorUUID string) (*models.Quiz, error) {
	if _, err := s.users.GetByUUID(creatorUUID); err != nil {
		return nil, fmt.Errorf("quiz creator: %w", err)
	}

	chapter, err := s.chapters.GetByUUID(req.ChapterID)
	if err != nil {
		return nil, fmt.Errorf("quiz chapter: %w", err)
	}

	course, err := s.courses.GetByUUID(chapter.CourseID)
	if err != nil {
		return nil, fmt.Errorf("chapter course: %w", err)
	}

	if course.CreatorID != creatorUUID {
		return nil, fmt.Errorf("only the course creator may add quizzes: %w", models.ErrForbidden)
	}

	if _, err := s.store.GetByTitleAndChapter(req.Title, req.ChapterID); err == nil {
		return nil, fmt.Errorf("quiz titled %q in chapter %s: %w", req.Title, req.ChapterID, models.ErrConflict)
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	if err := validateQuestions(req.Questions); err != nil {
		return nil, err
	}

	quiz := &models.Quiz{
		UUID:      uuid.NewString(),
		Title:     req.Title,
		Questions: datatypes.JSONSlice[models.Question](req.Questions),
		ChapterID: req.ChapterID,
		CreatorID: creatorUUID,
	}

	if err := s.store.Create(quiz); err != nil {
		return nil, err
	}

	if err := s.chapters.SetQuizRef(chapter.UUID, quiz.UUID); err != nil {
		log.Printf("Error pointing chapter %s at quiz %s: %v", chapter.UUID, quiz.UUID, err)
	}

	s.cacheSet(quiz)
	return quiz, nil
}

func (s *Service) GetByUUID(quizUUID string) (*models.Quiz, error) {
	if s.cache != nil {
		if quiz, err := s.cache.GetQuiz(quizUUID); err == nil {
			return quiz, nil
		}
	}

	quiz, err := s.store.GetByUUID(quizUUID)
	if err != nil {
		return nil, err
	}

	s.cacheSet(quiz)
	return quiz, nil
}

func (s *Service) GetAll() ([]models.Quiz, error) {
	return s.store.GetAll()
}

// GetByChapter re-validates the chapter before resolving its quiz.
func (s *Service) GetByChapter(chapterUUID string) (*models.Quiz, error) {
	if _, err := s.chapters.GetByUUID(chapterUUID); err != nil {
		return nil, fmt.Errorf("quiz chapter: %w", err)
	}
	return s.store.GetByChapter(chapterUUID)
}

// Update validates only what the patch carries: a moved quiz re-validates
// the target chapter, a changed (title, chapter) pair is re-checked
// excluding self, and patched questions are validated per present field.
func (s *Service) Update(quizUUID string, patch models.UpdateQuizPatch) (*models.Quiz, error) {
	quiz, err := s.store.GetByUUID(quizUUID)
	if err != nil {
		return nil, err
	}

	if patch.ChapterID != nil {
		if _, err := s.chapters.GetByUUID(*patch.ChapterID); err != nil {
			return nil, fmt.Errorf("quiz chapter: %w", err)
		}
	}

	newTitle := quiz.Title
	if patch.Title != nil {
		newTitle = *patch.Title
	}
	newChapter := quiz.ChapterID
	if patch.ChapterID != nil {
		newChapter = *patch.ChapterID
	}
	if newTitle != quiz.Title || newChapter != quiz.ChapterID {
		existing, err := s.store.GetByTitleAndChapter(newTitle, newChapter)
		if err == nil && existing.UUID != quiz.UUID {
			return nil, fmt.Errorf("quiz titled %q in chapter %s: %w", newTitle, newChapter, models.ErrConflict)
		}
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
	}

	quiz.Title = newTitle
	quiz.ChapterID = newChapter
	if patch.Questions != nil {
		questions, err := applyQuestionPatches(*patch.Questions)
		if err != nil {
			return nil, err
		}
		quiz.Questions = datatypes.JSONSlice[models.Question](questions)
	}

	if err := s.store.Save(quiz); err != nil {
		return nil, err
	}

	s.cacheSet(quiz)
	return quiz, nil
}

// Delete removes the quiz and clears the parent chapter's reference when it
// still points here.
func (s *Service) Delete(quizUUID string) error {
	quiz, err := s.store.GetByUUID(quizUUID)
	if err != nil {
		return err
	}

	if err := s.store.Delete(quizUUID); err != nil {
		return err
	}

	if err := s.chapters.ClearQuizRef(quiz.ChapterID, quiz.UUID); err != nil && !errors.Is(err, models.ErrNotFound) {
		log.Printf("Error clearing quiz reference on chapter %s: %v", quiz.ChapterID, err)
	}

	s.cacheDrop(quizUUID)
	return nil
}

// Submit scores the attempt and stores it. Every attempt is kept; picking
// the latest one is the caller's concern.
func (s *Service) Submit(quizUUID, userUUID string, answers []int) (*models.QuizAnswer, error) {
	quiz, err := s.store.GetByUUID(quizUUID)
	if err != nil {
		return nil, err
	}

	attempt := &models.QuizAnswer{
		QuizID:  quiz.UUID,
		UserID:  userUUID,
		Answers: datatypes.JSONSlice[int](answers),
		Score:   scoreAnswers(answers, quiz.Questions),
	}

	if err := s.store.CreateAnswer(attempt); err != nil {
		return nil, err
	}

	return attempt, nil
}

func (s *Service) ListAttempts(quizUUID string) ([]models.QuizAnswer, error) {
	if _, err := s.store.GetByUUID(quizUUID); err != nil {
		return nil, err
	}
	return s.store.GetAnswersByQuiz(quizUUID)
}

func (s *Service) ListAttemptsByUser(quizUUID, userUUID string) ([]models.QuizAnswer, error) {
	if _, err := s.store.GetByUUID(quizUUID); err != nil {
		return nil, err
	}
	return s.store.GetAnswersByQuizAndUser(quizUUID, userUUID)
}

// scoreAnswers counts index-aligned matches. A mismatched length never
// errors: positions beyond the shorter side simply score nothing.
func scoreAnswers(answers []int, questions []models.Question) int {
	score := 0
	for i, answer := range answers {
		if i >= len(questions) {
			break
		}
		if answer == questions[i].CorrectOption {
			score++
		}
	}
	return score
}

func validateQuestions(questions []models.Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("quiz needs at least one question: %w", models.ErrInvalid)
	}
	for i, question := range questions {
		if len(question.Options) < 2 {
			return fmt.Errorf("question %d needs at least two options: %w", i, models.ErrInvalid)
		}
		if question.CorrectOption < 0 || question.CorrectOption >= len(question.Options) {
			return fmt.Errorf("question %d correct option out of range: %w", i, models.ErrInvalid)
		}
	}
	return nil
}

// applyQuestionPatches checks each patched question's present fields only,
// then rebuilds the stored array from what was sent.
func applyQuestionPatches(patches []models.QuestionPatch) ([]models.Question, error) {
	questions := make([]models.Question, len(patches))
	for i, patch := range patches {
		if patch.Options != nil && len(*patch.Options) < 2 {
			return nil, fmt.Errorf("question %d needs at least two options: %w", i, models.ErrInvalid)
		}
		if patch.CorrectOption != nil {
			if *patch.CorrectOption < 0 {
				return nil, fmt.Errorf("question %d correct option out of range: %w", i, models.ErrInvalid)
			}
			if patch.Options != nil && *patch.CorrectOption >= len(*patch.Options) {
				return nil, fmt.Errorf("question %d correct option out of range: %w", i, models.ErrInvalid)
			}
		}

		if patch.Text != nil {
			questions[i].Text = *patch.Text
		}
		if patch.Options != nil {
			questions[i].Options = *patch.Options
		}
		if patch.CorrectOption != nil {
			questions[i].CorrectOption = *patch.CorrectOption
		}
	}
	return questions, nil
}

func (s *Service) cacheSet(quiz *models.Quiz) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetQuiz(quiz); err != nil {
		log.Printf("Error caching quiz %s: %v", quiz.UUID, err)
	}
}

func (s *Service) cacheDrop(quizUUID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteQuiz(quizUUID); err != nil {
		log.Printf("Error evicting quiz %s from cache: %v", quizUUID, err)
	}
}
