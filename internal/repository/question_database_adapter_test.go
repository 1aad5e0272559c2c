package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"linguazone/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func setupTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func questionRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "section_id", "question_type", "question_content", "answer_type", "correct_answer", "created_at", "updated_at"}).
		AddRow(int64(1), int64(10), "text", "Pick one", "multiple_choice", nil, now, now)
}

func choiceRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "question_id", "choice_type", "content", "is_correct", "created_at", "updated_at"}).
		AddRow(int64(100), int64(1), "text", "Hello", 1, now, now).
		AddRow(int64(101), int64(1), "text", "Goodbye", 0, now, now)
}

func TestQuestionGetByID(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuestionDatabaseAdapter(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM questions WHERE id = :1`).
		WithArgs(int64(1)).
		WillReturnRows(questionRows(now))
	mock.ExpectQuery(`SELECT (.+) FROM question_choices WHERE question_id = :1 ORDER BY id`).
		WithArgs(int64(1)).
		WillReturnRows(choiceRows(now))

	question, err := repo.GetByID(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), question.ID)
	assert.Equal(t, domain.AnswerTypeMultipleChoice, question.AnswerType)
	assert.Len(t, question.Choices, 2)
	assert.True(t, question.Choices[0].IsCorrect)
	assert.False(t, question.Choices[1].IsCorrect)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionGetByIDNotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuestionDatabaseAdapter(db)

	mock.ExpectQuery(`SELECT (.+) FROM questions WHERE id = :1`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	question, err := repo.GetByID(context.Background(), 99)

	assert.NoError(t, err)
	assert.Nil(t, question)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionSave(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuestionDatabaseAdapter(db)

	mock.ExpectQuery(`SELECT questions_seq.NEXTVAL FROM dual`).
		WillReturnRows(sqlmock.NewRows([]string{"NEXTVAL"}).AddRow(int64(42)))
	mock.ExpectExec(`INSERT INTO questions`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT question_choices_seq.NEXTVAL FROM dual`).
		WillReturnRows(sqlmock.NewRows([]string{"NEXTVAL"}).AddRow(int64(420)))
	mock.ExpectExec(`INSERT INTO question_choices`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	question := &domain.Question{
		SectionID:    10,
		QuestionType: domain.QuestionTypeText,
		Content:      "Pick one",
		AnswerType:   domain.AnswerTypeMultipleChoice,
		Choices: []*domain.QuestionChoice{
			{ChoiceType: domain.ChoiceTypeText, Content: "Hello", IsCorrect: true},
		},
	}

	err := repo.Save(context.Background(), question)

	assert.NoError(t, err)
	assert.Equal(t, int64(42), question.ID)
	assert.Equal(t, int64(420), question.Choices[0].ID)
	assert.Equal(t, int64(42), question.Choices[0].QuestionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionDelete(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuestionDatabaseAdapter(db)

	mock.ExpectExec(`DELETE FROM question_choices WHERE question_id = :1`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM questions WHERE id = :1`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), 1)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionGetChoiceScopedToQuestion(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuestionDatabaseAdapter(db)

	mock.ExpectQuery(`SELECT (.+) FROM question_choices WHERE id = :1 AND question_id = :2`).
		WithArgs(int64(100), int64(2)).
		WillReturnError(sql.ErrNoRows)

	choice, err := repo.GetChoice(context.Background(), 2, 100)

	assert.NoError(t, err)
	assert.Nil(t, choice)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransactionCommitsOnSuccess(t *testing.T) {
	db, mock := setupTestDB(t)
	tm := NewTransactionManagerAdapter(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM question_choices WHERE question_id = :1`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewQuestionDatabaseAdapter(db)
	err := tm.WithTransaction(context.Background(), func(ctx context.Context) error {
		return repo.DeleteChoicesByQuestion(ctx, 1)
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	db, mock := setupTestDB(t)
	tm := NewTransactionManagerAdapter(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	wantErr := errors.New("boom")
	err := tm.WithTransaction(context.Background(), func(ctx context.Context) error {
		return wantErr
	})

	assert.ErrorIs(t, err, wantErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
