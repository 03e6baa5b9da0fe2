package comment

import (
	"errors"
	"fmt"
	"testing"

	"elearn-system/internal/models"
)

type fakeStore struct {
	comments map[string]*models.Comment
}

func newFakeStore() *fakeStore {
	return &fakeStore{comments: make(map[string]*models.Comment)}
}

func (f *fakeStore) Create(comment *models.Comment) error {
	copied := *comment
	f.comments[comment.UUID] = &copied
	return nil
}

func (f *fakeStore) GetByUUID(uuid string) (*models.Comment, error) {
	comment, ok := f.comments[uuid]
	if !ok {
		return nil, fmt.Errorf("comment %s: %w", uuid, models.ErrNotFound)
	}
	copied := *comment
	return &copied, nil
}

func (f *fakeStore) GetByCourse(courseUUID string) ([]models.Comment, error) {
	var comments []models.Comment
	for _, comment := range f.comments {
		if comment.CourseID == courseUUID {
			comments = append(comments, *comment)
		}
	}
	return comments, nil
}

func (f *fakeStore) Delete(uuid string) error {
	if _, ok := f.comments[uuid]; !ok {
		return fmt.Errorf("comment %s: %w", uuid, models.ErrNotFound)
	}
	delete(f.comments, uuid)
	return nil
}

// fakeCourses tracks both reference arrays so a misdirected patch (the
// historical chapters/comments mix-up) would be caught.
type fakeCourses struct {
	courses  map[string]*models.Course
	comments map[string][]string
	chapters map[string][]string
}

func newFakeCourses(uuids ...string) *fakeCourses {
	f := &fakeCourses{
		courses:  make(map[string]*models.Course),
		comments: make(map[string][]string),
		chapters: make(map[string][]string),
	}
	for _, uuid := range uuids {
		f.courses[uuid] = &models.Course{UUID: uuid}
	}
	return f
}

func (f *fakeCourses) GetByUUID(uuid string) (*models.Course, error) {
	course, ok := f.courses[uuid]
	if !ok {
		return nil, fmt.Errorf("course %s: %w", uuid, models.ErrNotFound)
	}
	return course, nil
}

func (f *fakeCourses) AddCommentRef(courseUUID, commentUUID string) error {
	if _, ok := f.courses[courseUUID]; !ok {
		return fmt.Errorf("course %s: %w", courseUUID, models.ErrNotFound)
	}
	f.comments[courseUUID] = append(f.comments[courseUUID], commentUUID)
	return nil
}

func (f *fakeCourses) RemoveCommentRef(courseUUID, commentUUID string) error {
	if _, ok := f.courses[courseUUID]; !ok {
		return fmt.Errorf("course %s: %w", courseUUID, models.ErrNotFound)
	}
	refs := f.comments[courseUUID][:0]
	for _, existing := range f.comments[courseUUID] {
		if existing != commentUUID {
			refs = append(refs, existing)
		}
	}
	f.comments[courseUUID] = refs
	return nil
}

func TestCreateCommentMissingCourse(t *testing.T) {
	service := NewService(newFakeStore(), newFakeCourses(), nil)

	_, err := service.Create(models.CreateCommentRequest{CourseID: "ghost", Content: "hi"}, "user-1")
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not-found for missing course, got %v", err)
	}
}

func TestCreateCommentAppendsToCourse(t *testing.T) {
	courses := newFakeCourses("course-1")
	service := NewService(newFakeStore(), courses, nil)

	comment, err := service.Create(models.CreateCommentRequest{CourseID: "course-1", Content: "nice"}, "user-1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	refs := courses.comments["course-1"]
	if len(refs) != 1 || refs[0] != comment.UUID {
		t.Fatalf("expected comment recorded on course, got %v", refs)
	}
	if comment.UserID != "user-1" {
		t.Fatalf("expected requester recorded as author, got %q", comment.UserID)
	}
}

// Deleting a comment must patch the course's comments array, not its
// chapters array.
func TestDeleteCommentRemovesFromCommentsArray(t *testing.T) {
	courses := newFakeCourses("course-1")
	courses.chapters["course-1"] = []string{"chapter-1"}
	service := NewService(newFakeStore(), courses, nil)

	comment, err := service.Create(models.CreateCommentRequest{CourseID: "course-1", Content: "nice"}, "user-1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := service.Delete(comment.UUID, "user-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if refs := courses.comments["course-1"]; len(refs) != 0 {
		t.Fatalf("expected comment removed from course comments, got %v", refs)
	}
	if refs := courses.chapters["course-1"]; len(refs) != 1 {
		t.Fatalf("chapters array must be untouched, got %v", refs)
	}
}

func TestDeleteCommentAuthorOnly(t *testing.T) {
	courses := newFakeCourses("course-1")
	service := NewService(newFakeStore(), courses, nil)

	comment, err := service.Create(models.CreateCommentRequest{CourseID: "course-1", Content: "nice"}, "user-1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := service.Delete(comment.UUID, "user-2"); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("expected forbidden for non-author, got %v", err)
	}
	if _, err := service.GetByUUID(comment.UUID); err != nil {
		t.Fatalf("comment should survive a forbidden delete: %v", err)
	}
}

func TestDeleteCommentMissing(t *testing.T) {
	service := NewService(newFakeStore(), newFakeCourses("course-1"), nil)

	if err := service.Delete("ghost", "user-1"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}
