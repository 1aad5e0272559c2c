package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"linguazone/internal/domain"
	"linguazone/internal/repository/models"
	"linguazone/internal/util"

	"github.com/jmoiron/sqlx"
)

// QuestionDatabaseAdapter implements domain.QuestionRepository using sqlx.
type QuestionDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuestionDatabaseAdapter creates a new instance of QuestionDatabaseAdapter
func NewQuestionDatabaseAdapter(db *sqlx.DB) domain.QuestionRepository {
	return &QuestionDatabaseAdapter{db: db}
}

const selectQuestionColumns = `
	id "id",
	section_id "section_id",
	question_type "question_type",
	question_content "question_content",
	answer_type "answer_type",
	correct_answer "correct_answer",
	created_at "created_at",
	updated_at "updated_at"`

const selectChoiceColumns = `
	id "id",
	question_id "question_id",
	choice_type "choice_type",
	content "content",
	is_correct "is_correct",
	created_at "created_at",
	updated_at "updated_at"`

// GetByID implements domain.QuestionRepository. It returns (nil, nil)
// when the id does not resolve.
func (a *QuestionDatabaseAdapter) GetByID(ctx context.Context, id int64) (*domain.Question, error) {
	ex := GetExecutor(ctx, a.db)

	var modelQuestion models.Question
	query := `SELECT ` + selectQuestionColumns + ` FROM questions WHERE id = :1`
	err := ex.GetContext(ctx, &modelQuestion, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question by ID %d: %w", id, err)
	}

	question := toDomainQuestion(&modelQuestion)
	if question.Choices, err = a.loadChoices(ctx, ex, id); err != nil {
		return nil, err
	}
	return question, nil
}

// List implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) List(ctx context.Context) ([]*domain.Question, error) {
	return a.list(ctx, `SELECT `+selectQuestionColumns+` FROM questions ORDER BY id`)
}

// ListBySection implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) ListBySection(ctx context.Context, sectionID int64) ([]*domain.Question, error) {
	return a.list(ctx, `SELECT `+selectQuestionColumns+` FROM questions WHERE section_id = :1 ORDER BY id`, sectionID)
}

func (a *QuestionDatabaseAdapter) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Question, error) {
	ex := GetExecutor(ctx, a.db)

	var modelQuestions []models.Question
	if err := ex.SelectContext(ctx, &modelQuestions, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	questions := make([]*domain.Question, 0, len(modelQuestions))
	for i := range modelQuestions {
		question := toDomainQuestion(&modelQuestions[i])
		choices, err := a.loadChoices(ctx, ex, question.ID)
		if err != nil {
			return nil, err
		}
		question.Choices = choices
		questions = append(questions, question)
	}
	return questions, nil
}

func (a *QuestionDatabaseAdapter) loadChoices(ctx context.Context, ex DBTX, questionID int64) ([]*domain.QuestionChoice, error) {
	var modelChoices []models.QuestionChoice
	query := `SELECT ` + selectChoiceColumns + ` FROM question_choices WHERE question_id = :1 ORDER BY id`
	if err := ex.SelectContext(ctx, &modelChoices, query, questionID); err != nil {
		return nil, fmt.Errorf("failed to load choices for question %d: %w", questionID, err)
	}

	choices := make([]*domain.QuestionChoice, 0, len(modelChoices))
	for i := range modelChoices {
		choices = append(choices, toDomainQuestionChoice(&modelChoices[i]))
	}
	return choices, nil
}

// Save implements domain.QuestionRepository. The question and all of its
// choices are inserted through the executor in ctx, so a surrounding
// transaction makes the whole graph commit or roll back together.
func (a *QuestionDatabaseAdapter) Save(ctx context.Context, question *domain.Question) error {
	ex := GetExecutor(ctx, a.db)

	id, err := nextID(ctx, ex, "questions_seq")
	if err != nil {
		return err
	}
	now := time.Now()
	question.ID = id
	question.CreatedAt = now
	question.UpdatedAt = now

	query := `INSERT INTO questions (
		id, section_id, question_type, question_content,
		answer_type, correct_answer, created_at, updated_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7, :8
	)`

	_, err = ex.ExecContext(ctx, query,
		question.ID,
		question.SectionID,
		string(question.QuestionType),
		util.StringToNullString(question.Content),
		string(question.AnswerType),
		util.StringToNullString(question.CorrectAnswer),
		question.CreatedAt,
		question.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save question: %w", err)
	}

	for _, choice := range question.Choices {
		choice.QuestionID = question.ID
		if err := a.SaveChoice(ctx, choice); err != nil {
			return err
		}
	}
	return nil
}

// Update implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) Update(ctx context.Context, question *domain.Question) error {
	ex := GetExecutor(ctx, a.db)

	question.UpdatedAt = time.Now()
	query := `UPDATE questions SET
		section_id = :1,
		question_type = :2,
		question_content = :3,
		answer_type = :4,
		correct_answer = :5,
		updated_at = :6
	WHERE id = :7`

	_, err := ex.ExecContext(ctx, query,
		question.SectionID,
		string(question.QuestionType),
		util.StringToNullString(question.Content),
		string(question.AnswerType),
		util.StringToNullString(question.CorrectAnswer),
		question.UpdatedAt,
		question.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update question %d: %w", question.ID, err)
	}
	return nil
}

// Delete implements domain.QuestionRepository. Choice rows are removed
// first so the delete does not rely on cascading constraints.
func (a *QuestionDatabaseAdapter) Delete(ctx context.Context, id int64) error {
	ex := GetExecutor(ctx, a.db)

	if err := a.DeleteChoicesByQuestion(ctx, id); err != nil {
		return err
	}
	if _, err := ex.ExecContext(ctx, `DELETE FROM questions WHERE id = :1`, id); err != nil {
		return fmt.Errorf("failed to delete question %d: %w", id, err)
	}
	return nil
}

// GetChoice implements domain.QuestionRepository. The choice must belong
// to the given question; (nil, nil) otherwise.
func (a *QuestionDatabaseAdapter) GetChoice(ctx context.Context, questionID, choiceID int64) (*domain.QuestionChoice, error) {
	ex := GetExecutor(ctx, a.db)

	var modelChoice models.QuestionChoice
	query := `SELECT ` + selectChoiceColumns + ` FROM question_choices WHERE id = :1 AND question_id = :2`
	err := ex.GetContext(ctx, &modelChoice, query, choiceID, questionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get choice %d of question %d: %w", choiceID, questionID, err)
	}
	return toDomainQuestionChoice(&modelChoice), nil
}

// SaveChoice implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) SaveChoice(ctx context.Context, choice *domain.QuestionChoice) error {
	ex := GetExecutor(ctx, a.db)

	id, err := nextID(ctx, ex, "question_choices_seq")
	if err != nil {
		return err
	}
	now := time.Now()
	choice.ID = id
	choice.CreatedAt = now
	choice.UpdatedAt = now

	query := `INSERT INTO question_choices (
		id, question_id, choice_type, content, is_correct, created_at, updated_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7
	)`

	_, err = ex.ExecContext(ctx, query,
		choice.ID,
		choice.QuestionID,
		string(choice.ChoiceType),
		choice.Content,
		boolToInt(choice.IsCorrect),
		choice.CreatedAt,
		choice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save choice: %w", err)
	}
	return nil
}

// UpdateChoice implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) UpdateChoice(ctx context.Context, choice *domain.QuestionChoice) error {
	ex := GetExecutor(ctx, a.db)

	choice.UpdatedAt = time.Now()
	query := `UPDATE question_choices SET
		choice_type = :1,
		content = :2,
		is_correct = :3,
		updated_at = :4
	WHERE id = :5`

	_, err := ex.ExecContext(ctx, query,
		string(choice.ChoiceType),
		choice.Content,
		boolToInt(choice.IsCorrect),
		choice.UpdatedAt,
		choice.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update choice %d: %w", choice.ID, err)
	}
	return nil
}

// DeleteChoice implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) DeleteChoice(ctx context.Context, choiceID int64) error {
	ex := GetExecutor(ctx, a.db)
	if _, err := ex.ExecContext(ctx, `DELETE FROM question_choices WHERE id = :1`, choiceID); err != nil {
		return fmt.Errorf("failed to delete choice %d: %w", choiceID, err)
	}
	return nil
}

// DeleteChoicesByQuestion implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) DeleteChoicesByQuestion(ctx context.Context, questionID int64) error {
	ex := GetExecutor(ctx, a.db)
	if _, err := ex.ExecContext(ctx, `DELETE FROM question_choices WHERE question_id = :1`, questionID); err != nil {
		return fmt.Errorf("failed to delete choices of question %d: %w", questionID, err)
	}
	return nil
}

func toDomainQuestion(m *models.Question) *domain.Question {
	return &domain.Question{
		ID:            m.ID,
		SectionID:     m.SectionID,
		QuestionType:  domain.QuestionType(m.QuestionType),
		Content:       m.Content.String,
		AnswerType:    domain.AnswerType(m.AnswerType),
		CorrectAnswer: m.CorrectAnswer.String,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toDomainQuestionChoice(m *models.QuestionChoice) *domain.QuestionChoice {
	return &domain.QuestionChoice{
		ID:         m.ID,
		QuestionID: m.QuestionID,
		ChoiceType: domain.ChoiceType(m.ChoiceType),
		Content:    m.Content,
		IsCorrect:  m.IsCorrect != 0,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
