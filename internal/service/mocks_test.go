package service

import (
	"context"
	"os"
	"testing"
	"time"

	"linguazone/internal/config"
	"linguazone/internal/domain"
	"linguazone/internal/logger"

	"github.com/stretchr/testify/mock"
)

// TestMain initializes the logger for all tests in this package.
func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Level: "info"}); err != nil {
		panic("Failed to initialize logger for tests: " + err.Error())
	}
	exitVal := m.Run()
	_ = logger.Sync()
	os.Exit(exitVal)
}

// fakeTxManager runs the callback directly so service logic can be
// tested without a database.
type fakeTxManager struct {
	failWith error
}

func (f *fakeTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if f.failWith != nil {
		return f.failWith
	}
	return fn(ctx)
}

// noopCache always misses, keeping cache behavior out of tests that do
// not care about it.
type noopCache struct{}

func (noopCache) Get(ctx context.Context, key string) (string, error) {
	return "", domain.ErrCacheMiss
}
func (noopCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	return nil
}
func (noopCache) Delete(ctx context.Context, key string) error { return nil }
func (noopCache) Ping(ctx context.Context) error               { return nil }

// recordingCache misses on reads like noopCache but remembers which
// keys were written.
type recordingCache struct {
	noopCache
	setKeys []string
}

func (c *recordingCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	c.setKeys = append(c.setKeys, key)
	return nil
}

// --- MockMediaStore ---

type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) Store(ctx context.Context, category string, upload *domain.Upload) (string, error) {
	args := m.Called(ctx, category, upload)
	return args.String(0), args.Error(1)
}

func (m *MockMediaStore) Remove(ctx context.Context, reference string) error {
	args := m.Called(ctx, reference)
	return args.Error(0)
}

// --- MockLevelRepository ---

type MockLevelRepository struct {
	mock.Mock
}

func (m *MockLevelRepository) GetByID(ctx context.Context, id int64) (*domain.Level, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Level), args.Error(1)
}

func (m *MockLevelRepository) List(ctx context.Context) ([]*domain.Level, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Level), args.Error(1)
}

func (m *MockLevelRepository) Save(ctx context.Context, level *domain.Level) error {
	args := m.Called(ctx, level)
	return args.Error(0)
}

func (m *MockLevelRepository) Update(ctx context.Context, level *domain.Level) error {
	args := m.Called(ctx, level)
	return args.Error(0)
}

func (m *MockLevelRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- MockSectionRepository ---

type MockSectionRepository struct {
	mock.Mock
}

func (m *MockSectionRepository) GetByID(ctx context.Context, id int64) (*domain.Section, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Section), args.Error(1)
}

func (m *MockSectionRepository) List(ctx context.Context) ([]*domain.Section, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Section), args.Error(1)
}

func (m *MockSectionRepository) ListByLevel(ctx context.Context, levelID int64) ([]*domain.Section, error) {
	args := m.Called(ctx, levelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Section), args.Error(1)
}

func (m *MockSectionRepository) Save(ctx context.Context, section *domain.Section) error {
	args := m.Called(ctx, section)
	return args.Error(0)
}

func (m *MockSectionRepository) Update(ctx context.Context, section *domain.Section) error {
	args := m.Called(ctx, section)
	return args.Error(0)
}

func (m *MockSectionRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- MockQuestionRepository ---

type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, id int64) (*domain.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) List(ctx context.Context) ([]*domain.Question, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) ListBySection(ctx context.Context, sectionID int64) ([]*domain.Question, error) {
	args := m.Called(ctx, sectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) Save(ctx context.Context, question *domain.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) Update(ctx context.Context, question *domain.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetChoice(ctx context.Context, questionID, choiceID int64) (*domain.QuestionChoice, error) {
	args := m.Called(ctx, questionID, choiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuestionChoice), args.Error(1)
}

func (m *MockQuestionRepository) SaveChoice(ctx context.Context, choice *domain.QuestionChoice) error {
	args := m.Called(ctx, choice)
	return args.Error(0)
}

func (m *MockQuestionRepository) UpdateChoice(ctx context.Context, choice *domain.QuestionChoice) error {
	args := m.Called(ctx, choice)
	return args.Error(0)
}

func (m *MockQuestionRepository) DeleteChoice(ctx context.Context, choiceID int64) error {
	args := m.Called(ctx, choiceID)
	return args.Error(0)
}

func (m *MockQuestionRepository) DeleteChoicesByQuestion(ctx context.Context, questionID int64) error {
	args := m.Called(ctx, questionID)
	return args.Error(0)
}

// --- MockQuizRepository ---

type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) GetByID(ctx context.Context, id int64) (*domain.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) GetByLevelID(ctx context.Context, levelID int64) (*domain.Quiz, error) {
	args := m.Called(ctx, levelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) List(ctx context.Context) ([]*domain.Quiz, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) Save(ctx context.Context, quiz *domain.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) Update(ctx context.Context, quiz *domain.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuizRepository) GetQuestion(ctx context.Context, quizQuestionID int64) (*domain.QuizQuestion, error) {
	args := m.Called(ctx, quizQuestionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuizQuestion), args.Error(1)
}

func (m *MockQuizRepository) ListQuestions(ctx context.Context, quizID int64) ([]*domain.QuizQuestion, error) {
	args := m.Called(ctx, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.QuizQuestion), args.Error(1)
}

func (m *MockQuizRepository) CountQuestions(ctx context.Context, quizID int64) (int, error) {
	args := m.Called(ctx, quizID)
	return args.Int(0), args.Error(1)
}

func (m *MockQuizRepository) SaveQuestion(ctx context.Context, question *domain.QuizQuestion) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuizRepository) UpdateQuestion(ctx context.Context, question *domain.QuizQuestion) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuizRepository) DeleteQuestion(ctx context.Context, quizQuestionID int64) error {
	args := m.Called(ctx, quizQuestionID)
	return args.Error(0)
}

func (m *MockQuizRepository) DeleteChoicesByQuestion(ctx context.Context, quizQuestionID int64) error {
	args := m.Called(ctx, quizQuestionID)
	return args.Error(0)
}

func (m *MockQuizRepository) SaveChoice(ctx context.Context, choice *domain.QuizChoice) error {
	args := m.Called(ctx, choice)
	return args.Error(0)
}
