package domain

import (
	"strings"
	"time"
)

// Quiz belongs to exactly one level and owns an ordered list of
// quiz questions.
type Quiz struct {
	ID          int64
	LevelID     int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Questions   []*QuizQuestion
}

func NewQuiz(levelID int64, name, description string) *Quiz {
	now := time.Now()
	return &Quiz{
		LevelID:     levelID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (q *Quiz) Validate() error {
	if q.LevelID == 0 {
		return NewValidationError("level_id is required")
	}
	if strings.TrimSpace(q.Name) == "" {
		return NewValidationError("quiz name is required")
	}
	return nil
}

// QuizQuestion mirrors Question one level up, with an explicit position
// inside its quiz. OrderInQuiz is unique per quiz.
type QuizQuestion struct {
	ID            int64
	QuizID        int64
	QuestionType  QuestionType
	Content       string
	AnswerType    AnswerType
	CorrectAnswer string
	OrderInQuiz   int
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Choices       []*QuizChoice
}

// QuizChoice is one selectable option of a multiple-choice quiz question.
type QuizChoice struct {
	ID             int64
	QuizQuestionID int64
	ChoiceType     ChoiceType
	Content        string
	IsCorrect      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (q *QuizQuestion) HasCorrectChoice() bool {
	for _, c := range q.Choices {
		if c.IsCorrect {
			return true
		}
	}
	return false
}
