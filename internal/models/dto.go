package models

// Update payloads use pointer fields: nil means "field not present", so a
// partial update only touches what the client actually sent.

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Type      string `json:"type"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateUserPatch struct {
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	Firstname *string `json:"firstname"`
	Lastname  *string `json:"lastname"`
	Type      *string `json:"type"`
}

type CreateCourseRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Students    []string `json:"students"`
	Published   bool     `json:"published"`
}

type UpdateCoursePatch struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Tags        *[]string `json:"tags"`
	CreatorID   *string   `json:"creator_id"`
	Students    *[]string `json:"students"`
	Published   *bool     `json:"published"`
}

type CreateChapterRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	CourseID string `json:"course_id"`
}

type UpdateChapterPatch struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	CourseID *string `json:"course_id"`
	QuizID   *string `json:"quiz_id"`
}

type CreateQuizRequest struct {
	Title     string     `json:"title"`
	ChapterID string     `json:"chapter_id"`
	Questions []Question `json:"questions"`
}

// QuestionPatch validates only the fields the client sent; absent fields
// fall back to zero values when the stored questions array is replaced.
type QuestionPatch struct {
	Text          *string   `json:"text"`
	Options       *[]string `json:"options"`
	CorrectOption *int      `json:"correct_option"`
}

type UpdateQuizPatch struct {
	Title     *string          `json:"title"`
	ChapterID *string          `json:"chapter_id"`
	Questions *[]QuestionPatch `json:"questions"`
}

type SubmitAnswersRequest struct {
	Answers []int `json:"answers"`
}

type CreateCommentRequest struct {
	CourseID string `json:"course_id"`
	Content  string `json:"content"`
}

// WithoutPassword returns a copy safe to hand back to clients.
func (u User) WithoutPassword() User {
	u.Password = ""
	return u
}

type QuestionDTO struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectOption *int     `json:"correct_option,omitempty"` // owner only
}

type QuizDTO struct {
	UUID      string        `json:"uuid"`
	Title     string        `json:"title"`
	Questions []QuestionDTO `json:"questions"`
	ChapterID string        `json:"chapter_id"`
	CreatorID string        `json:"creator_id"`
}

// ToDTO hides the correct options from everyone but the quiz owner.
func (q Quiz) ToDTO(isOwner bool) QuizDTO {
	questions := make([]QuestionDTO, len(q.Questions))
	for i, question := range q.Questions {
		questions[i] = QuestionDTO{
			Text:    question.Text,
			Options: question.Options,
		}
		if isOwner {
			correct := question.CorrectOption
			questions[i].CorrectOption = &correct
		}
	}

	return QuizDTO{
		UUID:      q.UUID,
		Title:     q.Title,
		Questions: questions,
		ChapterID: q.ChapterID,
		CreatorID: q.CreatorID,
	}
}
