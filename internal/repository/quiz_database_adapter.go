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

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx.
type QuizDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter
func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

const selectQuizColumns = `
	id "id",
	level_id "level_id",
	name "name",
	description "description",
	created_at "created_at",
	updated_at "updated_at"`

const selectQuizQuestionColumns = `
	id "id",
	quiz_id "quiz_id",
	question_type "question_type",
	question_content "question_content",
	answer_type "answer_type",
	correct_answer "correct_answer",
	order_in_quiz "order_in_quiz",
	created_at "created_at",
	updated_at "updated_at"`

const selectQuizChoiceColumns = `
	id "id",
	quiz_question_id "quiz_question_id",
	choice_type "choice_type",
	content "content",
	is_correct "is_correct",
	created_at "created_at",
	updated_at "updated_at"`

// GetByID implements domain.QuizRepository
func (a *QuizDatabaseAdapter) GetByID(ctx context.Context, id int64) (*domain.Quiz, error) {
	return a.getOne(ctx, `SELECT `+selectQuizColumns+` FROM quizzes WHERE id = :1`, id)
}

// GetByLevelID implements domain.QuizRepository. Each level owns at most
// one quiz.
func (a *QuizDatabaseAdapter) GetByLevelID(ctx context.Context, levelID int64) (*domain.Quiz, error) {
	return a.getOne(ctx, `SELECT `+selectQuizColumns+` FROM quizzes WHERE level_id = :1`, levelID)
}

func (a *QuizDatabaseAdapter) getOne(ctx context.Context, query string, arg int64) (*domain.Quiz, error) {
	ex := GetExecutor(ctx, a.db)

	var modelQuiz models.Quiz
	err := ex.GetContext(ctx, &modelQuiz, query, arg)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	quiz := toDomainQuiz(&modelQuiz)
	if quiz.Questions, err = a.ListQuestions(ctx, quiz.ID); err != nil {
		return nil, err
	}
	return quiz, nil
}

// List implements domain.QuizRepository
func (a *QuizDatabaseAdapter) List(ctx context.Context) ([]*domain.Quiz, error) {
	ex := GetExecutor(ctx, a.db)

	var modelQuizzes []models.Quiz
	query := `SELECT ` + selectQuizColumns + ` FROM quizzes ORDER BY id`
	if err := ex.SelectContext(ctx, &modelQuizzes, query); err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	quizzes := make([]*domain.Quiz, 0, len(modelQuizzes))
	for i := range modelQuizzes {
		quiz := toDomainQuiz(&modelQuizzes[i])
		questions, err := a.ListQuestions(ctx, quiz.ID)
		if err != nil {
			return nil, err
		}
		quiz.Questions = questions
		quizzes = append(quizzes, quiz)
	}
	return quizzes, nil
}

// Save implements domain.QuizRepository
func (a *QuizDatabaseAdapter) Save(ctx context.Context, quiz *domain.Quiz) error {
	ex := GetExecutor(ctx, a.db)

	id, err := nextID(ctx, ex, "quizzes_seq")
	if err != nil {
		return err
	}
	now := time.Now()
	quiz.ID = id
	quiz.CreatedAt = now
	quiz.UpdatedAt = now

	query := `INSERT INTO quizzes (
		id, level_id, name, description, created_at, updated_at
	) VALUES (
		:1, :2, :3, :4, :5, :6
	)`

	_, err = ex.ExecContext(ctx, query,
		quiz.ID,
		quiz.LevelID,
		quiz.Name,
		util.StringToNullString(quiz.Description),
		quiz.CreatedAt,
		quiz.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save quiz: %w", err)
	}
	return nil
}

// Update implements domain.QuizRepository
func (a *QuizDatabaseAdapter) Update(ctx context.Context, quiz *domain.Quiz) error {
	ex := GetExecutor(ctx, a.db)

	quiz.UpdatedAt = time.Now()
	query := `UPDATE quizzes SET
		level_id = :1,
		name = :2,
		description = :3,
		updated_at = :4
	WHERE id = :5`

	_, err := ex.ExecContext(ctx, query,
		quiz.LevelID,
		quiz.Name,
		util.StringToNullString(quiz.Description),
		quiz.UpdatedAt,
		quiz.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update quiz %d: %w", quiz.ID, err)
	}
	return nil
}

// Delete implements domain.QuizRepository. Quiz questions and their
// choices are removed first.
func (a *QuizDatabaseAdapter) Delete(ctx context.Context, id int64) error {
	ex := GetExecutor(ctx, a.db)

	query := `DELETE FROM quiz_choices WHERE quiz_question_id IN (
		SELECT id FROM quiz_questions WHERE quiz_id = :1
	)`
	if _, err := ex.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete choices of quiz %d: %w", id, err)
	}
	if _, err := ex.ExecContext(ctx, `DELETE FROM quiz_questions WHERE quiz_id = :1`, id); err != nil {
		return fmt.Errorf("failed to delete questions of quiz %d: %w", id, err)
	}
	if _, err := ex.ExecContext(ctx, `DELETE FROM quizzes WHERE id = :1`, id); err != nil {
		return fmt.Errorf("failed to delete quiz %d: %w", id, err)
	}
	return nil
}

// GetQuestion implements domain.QuizRepository
func (a *QuizDatabaseAdapter) GetQuestion(ctx context.Context, quizQuestionID int64) (*domain.QuizQuestion, error) {
	ex := GetExecutor(ctx, a.db)

	var modelQuestion models.QuizQuestion
	query := `SELECT ` + selectQuizQuestionColumns + ` FROM quiz_questions WHERE id = :1`
	err := ex.GetContext(ctx, &modelQuestion, query, quizQuestionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz question %d: %w", quizQuestionID, err)
	}

	question := toDomainQuizQuestion(&modelQuestion)
	if question.Choices, err = a.loadChoices(ctx, ex, question.ID); err != nil {
		return nil, err
	}
	return question, nil
}

// ListQuestions implements domain.QuizRepository. Questions come back in
// quiz order.
func (a *QuizDatabaseAdapter) ListQuestions(ctx context.Context, quizID int64) ([]*domain.QuizQuestion, error) {
	ex := GetExecutor(ctx, a.db)

	var modelQuestions []models.QuizQuestion
	query := `SELECT ` + selectQuizQuestionColumns + ` FROM quiz_questions WHERE quiz_id = :1 ORDER BY order_in_quiz`
	if err := ex.SelectContext(ctx, &modelQuestions, query, quizID); err != nil {
		return nil, fmt.Errorf("failed to list questions of quiz %d: %w", quizID, err)
	}

	questions := make([]*domain.QuizQuestion, 0, len(modelQuestions))
	for i := range modelQuestions {
		question := toDomainQuizQuestion(&modelQuestions[i])
		choices, err := a.loadChoices(ctx, ex, question.ID)
		if err != nil {
			return nil, err
		}
		question.Choices = choices
		questions = append(questions, question)
	}
	return questions, nil
}

func (a *QuizDatabaseAdapter) loadChoices(ctx context.Context, ex DBTX, quizQuestionID int64) ([]*domain.QuizChoice, error) {
	var modelChoices []models.QuizChoice
	query := `SELECT ` + selectQuizChoiceColumns + ` FROM quiz_choices WHERE quiz_question_id = :1 ORDER BY id`
	if err := ex.SelectContext(ctx, &modelChoices, query, quizQuestionID); err != nil {
		return nil, fmt.Errorf("failed to load choices for quiz question %d: %w", quizQuestionID, err)
	}

	choices := make([]*domain.QuizChoice, 0, len(modelChoices))
	for i := range modelChoices {
		choices = append(choices, toDomainQuizChoice(&modelChoices[i]))
	}
	return choices, nil
}

// CountQuestions implements domain.QuizRepository
func (a *QuizDatabaseAdapter) CountQuestions(ctx context.Context, quizID int64) (int, error) {
	ex := GetExecutor(ctx, a.db)

	var count int
	query := `SELECT COUNT(*) FROM quiz_questions WHERE quiz_id = :1`
	if err := ex.GetContext(ctx, &count, query, quizID); err != nil {
		return 0, fmt.Errorf("failed to count questions of quiz %d: %w", quizID, err)
	}
	return count, nil
}

// SaveQuestion implements domain.QuizRepository. The question and its
// choices are inserted together.
func (a *QuizDatabaseAdapter) SaveQuestion(ctx context.Context, question *domain.QuizQuestion) error {
	ex := GetExecutor(ctx, a.db)

	id, err := nextID(ctx, ex, "quiz_questions_seq")
	if err != nil {
		return err
	}
	now := time.Now()
	question.ID = id
	question.CreatedAt = now
	question.UpdatedAt = now

	query := `INSERT INTO quiz_questions (
		id, quiz_id, question_type, question_content,
		answer_type, correct_answer, order_in_quiz, created_at, updated_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7, :8, :9
	)`

	_, err = ex.ExecContext(ctx, query,
		question.ID,
		question.QuizID,
		string(question.QuestionType),
		util.StringToNullString(question.Content),
		string(question.AnswerType),
		util.StringToNullString(question.CorrectAnswer),
		question.OrderInQuiz,
		question.CreatedAt,
		question.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save quiz question: %w", err)
	}

	for _, choice := range question.Choices {
		choice.QuizQuestionID = question.ID
		if err := a.SaveChoice(ctx, choice); err != nil {
			return err
		}
	}
	return nil
}

// UpdateQuestion implements domain.QuizRepository
func (a *QuizDatabaseAdapter) UpdateQuestion(ctx context.Context, question *domain.QuizQuestion) error {
	ex := GetExecutor(ctx, a.db)

	question.UpdatedAt = time.Now()
	query := `UPDATE quiz_questions SET
		question_type = :1,
		question_content = :2,
		answer_type = :3,
		correct_answer = :4,
		order_in_quiz = :5,
		updated_at = :6
	WHERE id = :7`

	_, err := ex.ExecContext(ctx, query,
		string(question.QuestionType),
		util.StringToNullString(question.Content),
		string(question.AnswerType),
		util.StringToNullString(question.CorrectAnswer),
		question.OrderInQuiz,
		question.UpdatedAt,
		question.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update quiz question %d: %w", question.ID, err)
	}
	return nil
}

// DeleteQuestion implements domain.QuizRepository
func (a *QuizDatabaseAdapter) DeleteQuestion(ctx context.Context, quizQuestionID int64) error {
	ex := GetExecutor(ctx, a.db)

	if err := a.DeleteChoicesByQuestion(ctx, quizQuestionID); err != nil {
		return err
	}
	if _, err := ex.ExecContext(ctx, `DELETE FROM quiz_questions WHERE id = :1`, quizQuestionID); err != nil {
		return fmt.Errorf("failed to delete quiz question %d: %w", quizQuestionID, err)
	}
	return nil
}

// DeleteChoicesByQuestion implements domain.QuizRepository
func (a *QuizDatabaseAdapter) DeleteChoicesByQuestion(ctx context.Context, quizQuestionID int64) error {
	ex := GetExecutor(ctx, a.db)
	if _, err := ex.ExecContext(ctx, `DELETE FROM quiz_choices WHERE quiz_question_id = :1`, quizQuestionID); err != nil {
		return fmt.Errorf("failed to delete choices of quiz question %d: %w", quizQuestionID, err)
	}
	return nil
}

// SaveChoice implements domain.QuizRepository
func (a *QuizDatabaseAdapter) SaveChoice(ctx context.Context, choice *domain.QuizChoice) error {
	ex := GetExecutor(ctx, a.db)

	id, err := nextID(ctx, ex, "quiz_choices_seq")
	if err != nil {
		return err
	}
	now := time.Now()
	choice.ID = id
	choice.CreatedAt = now
	choice.UpdatedAt = now

	query := `INSERT INTO quiz_choices (
		id, quiz_question_id, choice_type, content, is_correct, created_at, updated_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7
	)`

	_, err = ex.ExecContext(ctx, query,
		choice.ID,
		choice.QuizQuestionID,
		string(choice.ChoiceType),
		choice.Content,
		boolToInt(choice.IsCorrect),
		choice.CreatedAt,
		choice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save quiz choice: %w", err)
	}
	return nil
}

func toDomainQuiz(m *models.Quiz) *domain.Quiz {
	return &domain.Quiz{
		ID:          m.ID,
		LevelID:     m.LevelID,
		Name:        m.Name,
		Description: m.Description.String,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toDomainQuizQuestion(m *models.QuizQuestion) *domain.QuizQuestion {
	return &domain.QuizQuestion{
		ID:            m.ID,
		QuizID:        m.QuizID,
		QuestionType:  domain.QuestionType(m.QuestionType),
		Content:       m.Content.String,
		AnswerType:    domain.AnswerType(m.AnswerType),
		CorrectAnswer: m.CorrectAnswer.String,
		OrderInQuiz:   m.OrderInQuiz,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toDomainQuizChoice(m *models.QuizChoice) *domain.QuizChoice {
	return &domain.QuizChoice{
		ID:             m.ID,
		QuizQuestionID: m.QuizQuestionID,
		ChoiceType:     domain.ChoiceType(m.ChoiceType),
		Content:        m.Content,
		IsCorrect:      m.IsCorrect != 0,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
