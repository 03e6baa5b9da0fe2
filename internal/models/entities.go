package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	UserTypeTeacher = "teacher"
	UserTypeStudent = "student"
)

// Every entity carries a UUID assigned at creation. All cross-entity
// references use that UUID, never the database row id.
type User struct {
	ID        uint           `json:"-" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	UUID      string         `json:"uuid" gorm:"uniqueIndex;not null"`
	Email     string         `json:"email" gorm:"uniqueIndex;not null"`
	Password  string         `json:"password,omitempty" gorm:"not null"`
	Firstname string         `json:"firstname"`
	Lastname  string         `json:"lastname"`
	Type      string         `json:"type" gorm:"type:varchar(16);not null;default:'student'"`
}

type Course struct {
	ID          uint                        `json:"-" gorm:"primaryKey"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
	DeletedAt   gorm.DeletedAt              `json:"-" gorm:"index"`
	UUID        string                      `json:"uuid" gorm:"uniqueIndex;not null"`
	Title       string                      `json:"title" gorm:"not null"`
	Description string                      `json:"description"`
	Chapters    datatypes.JSONSlice[string] `json:"chapters" gorm:"type:jsonb"`
	Tags        datatypes.JSONSlice[string] `json:"tags" gorm:"type:jsonb"`
	CreatorID   string                      `json:"creator_id" gorm:"index;not null"`
	Students    datatypes.JSONSlice[string] `json:"students" gorm:"type:jsonb"`
	Comments    datatypes.JSONSlice[string] `json:"comments" gorm:"type:jsonb"`
	Published   bool                        `json:"published" gorm:"default:false"`
}

type Chapter struct {
	ID        uint           `json:"-" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	UUID      string         `json:"uuid" gorm:"uniqueIndex;not null"`
	Title     string         `json:"title" gorm:"not null"`
	Content   string         `json:"content"`
	CourseID  string         `json:"course_id" gorm:"index;not null"`
	// Empty string means the chapter has no quiz.
	QuizID  string `json:"quiz_id"`
	Summary string `json:"summary"`
}

// Question is embedded in the quiz document, not a table of its own.
type Question struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option"`
}

type Quiz struct {
	ID        uint                          `json:"-" gorm:"primaryKey"`
	CreatedAt time.Time                     `json:"created_at"`
	UpdatedAt time.Time                     `json:"updated_at"`
	DeletedAt gorm.DeletedAt                `json:"-" gorm:"index"`
	UUID      string                        `json:"uuid" gorm:"uniqueIndex;not null"`
	Title     string                        `json:"title" gorm:"not null"`
	Questions datatypes.JSONSlice[Question] `json:"questions" gorm:"type:jsonb"`
	ChapterID string                        `json:"chapter_id" gorm:"index;not null"`
	CreatorID string                        `json:"creator_id" gorm:"index;not null"`
}

type QuizAnswer struct {
	ID        uint                     `json:"-" gorm:"primaryKey"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
	DeletedAt gorm.DeletedAt           `json:"-" gorm:"index"`
	QuizID    string                   `json:"quiz_id" gorm:"index;not null"`
	UserID    string                   `json:"user_id" gorm:"index;not null"`
	Answers   datatypes.JSONSlice[int] `json:"answers" gorm:"type:jsonb"`
	Score     int                      `json:"score"`
}

type Comment struct {
	ID        uint           `json:"-" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	UUID      string         `json:"uuid" gorm:"uniqueIndex;not null"`
	UserID    string         `json:"user_id" gorm:"index;not null"`
	CourseID  string         `json:"course_id" gorm:"index;not null"`
	Content   string         `json:"content" gorm:"not null"`
}
