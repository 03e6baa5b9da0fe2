package course

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"elearn-system/internal/models"
	"elearn-system/pkg/cache"
	"elearn-system/pkg/websocket"
)

// Store is the persistence surface the course registry needs.
type Store interface {
	Create(course *models.Course) error
	GetByUUID(uuid string) (*models.Course, error)
	GetByTitle(title string) (*models.Course, error)
	GetAll() ([]models.Course, error)
	GetByTag(tag string) ([]models.Course, error)
	GetByCreator(creatorUUID string) ([]models.Course, error)
	GetByStudent(studentUUID string) ([]models.Course, error)
	Save(course *models.Course) error
	Delete(uuid string) error
}

// UserReader is the read capability the registry needs from the user side.
type UserReader interface {
	GetByUUID(uuid string) (*models.User, error)
}

// keyedMutex serializes read-modify-write cycles on a single course's
// reference arrays; acquired mutexes are kept for the process lifetime.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	lock, ok := k.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	return lock
}

type Service struct {
	store Store
	users UserReader
	cache *cache.RedisCache
	hub   *websocket.Hub
	locks *keyedMutex
}

func NewService(store Store, users UserReader, cache *cache.RedisCache, hub *websocket.Hub) *Service {
	return &Service{
		store: store,
		users: users,
		cache: cache,
		hub:   hub,
		locks: newKeyedMutex(),
	}
}

// Create validates the creator, the global title uniqueness and every listed
// student before persisting. Student validation stops at the first missing
// id rather than collecting all failures.
func (s *Service) Create(req models.CreateCourseRequest, creatorUUID string) (*models.Course, error) {
	if _, err := s.users.GetByUUID(creatorUUID); err != nil {
		return nil, fmt.Errorf("course creator: %w", err)
	}

	if _, err := s.store.GetByTitle(req.Title); err == nil {
		return nil, fmt.Errorf("course titled %q: %w", req.Title, models.ErrConflict)
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	for _, studentUUID := range req.Students {
		if _, err := s.users.GetByUUID(studentUUID); err != nil {
			return nil, fmt.Errorf("student %s: %w", studentUUID, err)
		}
	}

	course := &models.Course{
		UUID:        uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Chapters:    datatypes.JSONSlice[string]{},
		Tags:        datatypes.JSONSlice[string](req.Tags),
		CreatorID:   creatorUUID,
		Students:    datatypes.JSONSlice[string](req.Students),
		Comments:    datatypes.JSONSlice[string]{},
		Published:   req.Published,
	}

	if err := s.store.Create(course); err != nil {
		return nil, err
	}

	s.cacheSet(course)
	return course, nil
}

func (s *Service) GetByUUID(courseUUID string) (*models.Course, error) {
	if s.cache != nil {
		if course, err := s.cache.GetCourse(courseUUID); err == nil {
			return course, nil
		}
	}

	course, err := s.store.GetByUUID(courseUUID)
	if err != nil {
		return nil, err
	}

	s.cacheSet(course)
	return course, nil
}

func (s *Service) GetAll() ([]models.Course, error) {
	return s.store.GetAll()
}

func (s *Service) GetByTag(tag string) ([]models.Course, error) {
	return s.store.GetByTag(tag)
}

// GetByCreator re-validates the creator's existence before querying.
func (s *Service) GetByCreator(creatorUUID string) ([]models.Course, error) {
	if _, err := s.users.GetByUUID(creatorUUID); err != nil {
		return nil, fmt.Errorf("course creator: %w", err)
	}
	return s.store.GetByCreator(creatorUUID)
}

func (s *Service) GetByStudent(studentUUID string) ([]models.Course, error) {
	return s.store.GetByStudent(studentUUID)
}

// Update merges the patch into the stored course. Referenced users are
// re-validated at call time; the title is NOT re-checked for uniqueness, so
// a rename can collide with an existing course.
func (s *Service) Update(courseUUID string, patch models.UpdateCoursePatch) (*models.Course, error) {
	lock := s.locks.get(courseUUID)
	lock.Lock()
	defer lock.Unlock()

	course, err := s.store.GetByUUID(courseUUID)
	if err != nil {
		return nil, err
	}

	if patch.CreatorID != nil {
		if _, err := s.users.GetByUUID(*patch.CreatorID); err != nil {
			return nil, fmt.Errorf("course creator: %w", err)
		}
	}
	if patch.Students != nil {
		for _, studentUUID := range *patch.Students {
			if _, err := s.users.GetByUUID(studentUUID); err != nil {
				return nil, fmt.Errorf("student %s: %w", studentUUID, err)
			}
		}
	}

	if patch.Title != nil {
		course.Title = *patch.Title
	}
	if patch.Description != nil {
		course.Description = *patch.Description
	}
	if patch.Tags != nil {
		course.Tags = datatypes.JSONSlice[string](*patch.Tags)
	}
	if patch.CreatorID != nil {
		course.CreatorID = *patch.CreatorID
	}
	if patch.Students != nil {
		course.Students = datatypes.JSONSlice[string](*patch.Students)
	}
	if patch.Published != nil {
		course.Published = *patch.Published
	}

	if err := s.store.Save(course); err != nil {
		return nil, err
	}

	s.cacheSet(course)
	return course, nil
}

// Delete removes the course record only. Chapters, quizzes and comments that
// referenced it are left behind with dangling course ids.
func (s *Service) Delete(courseUUID string) error {
	if _, err := s.store.GetByUUID(courseUUID); err != nil {
		return err
	}

	if err := s.store.Delete(courseUUID); err != nil {
		return err
	}

	s.cacheDrop(courseUUID)
	return nil
}

// Enroll adds a student to the course roster. Enrolling twice is a no-op.
func (s *Service) Enroll(courseUUID, studentUUID string) (*models.Course, error) {
	if _, err := s.users.GetByUUID(studentUUID); err != nil {
		return nil, fmt.Errorf("student %s: %w", studentUUID, err)
	}

	lock := s.locks.get(courseUUID)
	lock.Lock()
	defer lock.Unlock()

	course, err := s.store.GetByUUID(courseUUID)
	if err != nil {
		return nil, err
	}

	for _, existing := range course.Students {
		if existing == studentUUID {
			return course, nil
		}
	}

	course.Students = append(course.Students, studentUUID)
	if err := s.store.Save(course); err != nil {
		return nil, err
	}

	s.cacheSet(course)
	if s.hub != nil {
		s.hub.Broadcast(courseUUID, "student_enrolled", map[string]string{
			"course_uuid":  courseUUID,
			"student_uuid": studentUUID,
		})
	}

	return course, nil
}

// AddChapterRef records a newly created chapter in the course's chapters
// array. Sibling registries call this instead of touching course storage.
func (s *Service) AddChapterRef(courseUUID, chapterUUID string) error {
	return s.appendRef(courseUUID, chapterUUID, func(course *models.Course) *datatypes.JSONSlice[string] {
		return &course.Chapters
	})
}

func (s *Service) RemoveChapterRef(courseUUID, chapterUUID string) error {
	return s.removeRef(courseUUID, chapterUUID, func(course *models.Course) *datatypes.JSONSlice[string] {
		return &course.Chapters
	})
}

func (s *Service) AddCommentRef(courseUUID, commentUUID string) error {
	return s.appendRef(courseUUID, commentUUID, func(course *models.Course) *datatypes.JSONSlice[string] {
		return &course.Comments
	})
}

func (s *Service) RemoveCommentRef(courseUUID, commentUUID string) error {
	return s.removeRef(courseUUID, commentUUID, func(course *models.Course) *datatypes.JSONSlice[string] {
		return &course.Comments
	})
}

func (s *Service) appendRef(courseUUID, ref string, field func(*models.Course) *datatypes.JSONSlice[string]) error {
	lock := s.locks.get(courseUUID)
	lock.Lock()
	defer lock.Unlock()

	course, err := s.store.GetByUUID(courseUUID)
	if err != nil {
		return err
	}

	slot := field(course)
	for _, existing := range *slot {
		if existing == ref {
			return nil
		}
	}
	*slot = append(*slot, ref)

	if err := s.store.Save(course); err != nil {
		return err
	}

	s.cacheSet(course)
	return nil
}

func (s *Service) removeRef(courseUUID, ref string, field func(*models.Course) *datatypes.JSONSlice[string]) error {
	lock := s.locks.get(courseUUID)
	lock.Lock()
	defer lock.Unlock()

	course, err := s.store.GetByUUID(courseUUID)
	if err != nil {
		return err
	}

	slot := field(course)
	filtered := (*slot)[:0]
	for _, existing := range *slot {
		if existing != ref {
			filtered = append(filtered, existing)
		}
	}
	*slot = filtered

	if err := s.store.Save(course); err != nil {
		return err
	}

	s.cacheSet(course)
	return nil
}

func (s *Service) cacheSet(course *models.Course) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetCourse(course); err != nil {
		log.Printf("Error caching course %s: %v", course.UUID, err)
	}
}

func (s *Service) cacheDrop(courseUUID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteCourse(courseUUID); err != nil {
		log.Printf("Error evicting course %s from cache: %v", courseUUID, err)
	}
}
