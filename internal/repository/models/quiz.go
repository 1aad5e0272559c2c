package models

import (
	"database/sql"
	"time"
)

// Quiz is the database row for a quiz. level_id carries a unique
// constraint: each level owns at most one quiz.
type Quiz struct {
	ID          int64          `db:"id"`
	LevelID     int64          `db:"level_id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuizQuestion is the database row for a question owned by a quiz.
// (quiz_id, order_in_quiz) carries a unique constraint.
type QuizQuestion struct {
	ID            int64          `db:"id"`
	QuizID        int64          `db:"quiz_id"`
	QuestionType  string         `db:"question_type"`
	Content       sql.NullString `db:"question_content"`
	AnswerType    string         `db:"answer_type"`
	CorrectAnswer sql.NullString `db:"correct_answer"`
	OrderInQuiz   int            `db:"order_in_quiz"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// QuizChoice is the database row for a choice of a multiple-choice quiz
// question.
type QuizChoice struct {
	ID             int64     `db:"id"`
	QuizQuestionID int64     `db:"quiz_question_id"`
	ChoiceType     string    `db:"choice_type"`
	Content        string    `db:"content"`
	IsCorrect      int       `db:"is_correct"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (QuizChoice) TableName() string {
	return "quiz_choices"
}
