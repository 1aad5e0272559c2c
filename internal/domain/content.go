package domain

import (
	"strings"
	"time"
)

// Level is a top-level unit of the content hierarchy.
type Level struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewLevel(name, description string) *Level {
	now := time.Now()
	return &Level{
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (l *Level) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return NewValidationError("level name is required")
	}
	return nil
}

// Section groups questions under a level.
type Section struct {
	ID          int64
	LevelID     int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewSection(levelID int64, name, description string) *Section {
	now := time.Now()
	return &Section{
		LevelID:     levelID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *Section) Validate() error {
	if s.LevelID == 0 {
		return NewValidationError("level_id is required")
	}
	if strings.TrimSpace(s.Name) == "" {
		return NewValidationError("section name is required")
	}
	return nil
}

// Question is one assessable item belonging to a section. Content is
// either literal text or a media reference, depending on QuestionType.
type Question struct {
	ID            int64
	SectionID     int64
	QuestionType  QuestionType
	Content       string
	AnswerType    AnswerType
	CorrectAnswer string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Choices       []*QuestionChoice
}

// QuestionChoice is one selectable option of a multiple-choice question.
type QuestionChoice struct {
	ID         int64
	QuestionID int64
	ChoiceType ChoiceType
	Content    string
	IsCorrect  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasCorrectChoice reports whether at least one owned choice is marked
// correct. For multiple-choice questions this must hold after every
// successful write.
func (q *Question) HasCorrectChoice() bool {
	for _, c := range q.Choices {
		if c.IsCorrect {
			return true
		}
	}
	return false
}

// CorrectChoiceCount returns the number of correct choices, optionally
// ignoring one choice id (used when checking whether a choice may be
// deleted or flipped to incorrect).
func (q *Question) CorrectChoiceCount(excludeID int64) int {
	n := 0
	for _, c := range q.Choices {
		if c.ID != excludeID && c.IsCorrect {
			n++
		}
	}
	return n
}

// ChoiceByID returns the owned choice with the given id, or nil.
func (q *Question) ChoiceByID(choiceID int64) *QuestionChoice {
	for _, c := range q.Choices {
		if c.ID == choiceID {
			return c
		}
	}
	return nil
}
