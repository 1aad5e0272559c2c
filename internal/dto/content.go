package dto

import (
	"time"

	"linguazone/internal/domain"
)

// ChoiceSpec is one choice supplied by the caller when creating or
// replacing the choice set of a multiple-choice question. IsCorrect is
// left loosely typed on purpose: clients send booleans, numbers, or
// "true"/"false" strings and the service coerces them.
type ChoiceSpec struct {
	Content    string      `json:"content"`
	IsCorrect  interface{} `json:"is_correct"`
	ChoiceType string      `json:"choice_type"`
	FileKey    string      `json:"file_key"`
}

// CreateQuestionRequest carries the fields for question creation.
type CreateQuestionRequest struct {
	SectionID       int64        `json:"section_id"`
	QuestionType    string       `json:"question_type"`
	QuestionContent string       `json:"question_content"`
	AnswerType      string       `json:"answer_type"`
	CorrectAnswer   string       `json:"correct_answer"`
	Choices         []ChoiceSpec `json:"choices"`
}

// UpdateQuestionRequest carries a partial update. Nil pointers mean
// "not supplied"; a supplied empty QuestionContent clears media content.
// A nil Choices leaves the existing choice set untouched; a non-nil one
// replaces it wholesale.
type UpdateQuestionRequest struct {
	SectionID       *int64        `json:"section_id"`
	QuestionType    *string       `json:"question_type"`
	QuestionContent *string       `json:"question_content"`
	AnswerType      *string       `json:"answer_type"`
	CorrectAnswer   *string       `json:"correct_answer"`
	Choices         *[]ChoiceSpec `json:"choices"`
}

// UpdateChoiceRequest carries a partial update of a single choice.
type UpdateChoiceRequest struct {
	Content    *string     `json:"content"`
	IsCorrect  interface{} `json:"is_correct"`
	ChoiceType *string     `json:"choice_type"`
}

// AddChoicesRequest appends choices to an existing question.
type AddChoicesRequest struct {
	Choices []ChoiceSpec `json:"choices"`
}

// ChoiceResponse is a choice in the API response.
type ChoiceResponse struct {
	ID         int64     `json:"id"`
	QuestionID int64     `json:"question_id"`
	ChoiceType string    `json:"choice_type"`
	Content    string    `json:"content"`
	IsCorrect  bool      `json:"is_correct"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// QuestionResponse is the full question graph in the API response.
type QuestionResponse struct {
	ID              int64            `json:"id"`
	SectionID       int64            `json:"section_id"`
	QuestionType    string           `json:"question_type"`
	QuestionContent string           `json:"question_content"`
	AnswerType      string           `json:"answer_type"`
	CorrectAnswer   string           `json:"correct_answer,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Choices         []ChoiceResponse `json:"choices"`
}

// LevelRequest carries level create/update fields.
type LevelRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LevelResponse is a level in the API response.
type LevelResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SectionRequest carries section create/update fields.
type SectionRequest struct {
	LevelID     int64  `json:"level_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SectionResponse is a section in the API response.
type SectionResponse struct {
	ID          int64     `json:"id"`
	LevelID     int64     `json:"level_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse carries a confirmation with no entity payload.
type MessageResponse struct {
	Message string `json:"message"`
}

func NewChoiceResponse(c *domain.QuestionChoice) ChoiceResponse {
	return ChoiceResponse{
		ID:         c.ID,
		QuestionID: c.QuestionID,
		ChoiceType: string(c.ChoiceType),
		Content:    c.Content,
		IsCorrect:  c.IsCorrect,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func NewQuestionResponse(q *domain.Question) *QuestionResponse {
	choices := make([]ChoiceResponse, 0, len(q.Choices))
	for _, c := range q.Choices {
		choices = append(choices, NewChoiceResponse(c))
	}
	return &QuestionResponse{
		ID:              q.ID,
		SectionID:       q.SectionID,
		QuestionType:    string(q.QuestionType),
		QuestionContent: q.Content,
		AnswerType:      string(q.AnswerType),
		CorrectAnswer:   q.CorrectAnswer,
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
		Choices:         choices,
	}
}

func NewLevelResponse(l *domain.Level) *LevelResponse {
	return &LevelResponse{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func NewSectionResponse(s *domain.Section) *SectionResponse {
	return &SectionResponse{
		ID:          s.ID,
		LevelID:     s.LevelID,
		Name:        s.Name,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
