package models

import (
	"database/sql"
	"time"
)

// Level is the database row for a content level.
type Level struct {
	ID          int64          `db:"id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (Level) TableName() string {
	return "levels"
}

// Section is the database row for a section under a level.
type Section struct {
	ID          int64          `db:"id"`
	LevelID     int64          `db:"level_id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (Section) TableName() string {
	return "sections"
}

// Question is the database row for a question. Content holds literal text
// or a media reference depending on question_type; correct_answer is only
// set for fill-in-the-blank questions.
type Question struct {
	ID            int64          `db:"id"`
	SectionID     int64          `db:"section_id"`
	QuestionType  string         `db:"question_type"`
	Content       sql.NullString `db:"question_content"`
	AnswerType    string         `db:"answer_type"`
	CorrectAnswer sql.NullString `db:"correct_answer"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}

// QuestionChoice is the database row for a choice of a multiple-choice
// question.
type QuestionChoice struct {
	ID         int64     `db:"id"`
	QuestionID int64     `db:"question_id"`
	ChoiceType string    `db:"choice_type"`
	Content    string    `db:"content"`
	IsCorrect  int       `db:"is_correct"` // Oracle NUMBER(1): 0 or 1
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (QuestionChoice) TableName() string {
	return "question_choices"
}
