package service

import (
	"context"
	"testing"

	"linguazone/internal/domain"
	"linguazone/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newContentServiceForTest(levelRepo *MockLevelRepository, sectionRepo *MockSectionRepository, questionRepo *MockQuestionRepository, quizRepo *MockQuizRepository) ContentService {
	return NewContentService(levelRepo, sectionRepo, questionRepo, quizRepo, &fakeTxManager{})
}

func TestLevelOperations(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a level", func(t *testing.T) {
		levelRepo := new(MockLevelRepository)
		svc := newContentServiceForTest(levelRepo, new(MockSectionRepository), new(MockQuestionRepository), new(MockQuizRepository))

		levelRepo.On("Save", ctx, mock.AnythingOfType("*domain.Level")).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Level).ID = 1
		}).Return(nil)

		resp, err := svc.CreateLevel(ctx, &dto.LevelRequest{Name: "Beginner"})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), resp.ID)
	})

	t.Run("rejects a level without a name", func(t *testing.T) {
		svc := newContentServiceForTest(new(MockLevelRepository), new(MockSectionRepository), new(MockQuestionRepository), new(MockQuizRepository))

		_, err := svc.CreateLevel(ctx, &dto.LevelRequest{Name: "  "})
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("rejects deleting a level that still has sections", func(t *testing.T) {
		levelRepo := new(MockLevelRepository)
		sectionRepo := new(MockSectionRepository)
		svc := newContentServiceForTest(levelRepo, sectionRepo, new(MockQuestionRepository), new(MockQuizRepository))

		levelRepo.On("GetByID", ctx, int64(1)).Return(&domain.Level{ID: 1, Name: "Beginner"}, nil)
		sectionRepo.On("ListByLevel", ctx, int64(1)).Return([]*domain.Section{{ID: 2, LevelID: 1, Name: "Greetings"}}, nil)

		err := svc.DeleteLevel(ctx, 1)
		assert.True(t, domain.IsValidation(err))
		levelRepo.AssertNotCalled(t, "Delete")
	})

	t.Run("rejects deleting a level that still has a quiz", func(t *testing.T) {
		levelRepo := new(MockLevelRepository)
		sectionRepo := new(MockSectionRepository)
		quizRepo := new(MockQuizRepository)
		svc := newContentServiceForTest(levelRepo, sectionRepo, new(MockQuestionRepository), quizRepo)

		levelRepo.On("GetByID", ctx, int64(1)).Return(&domain.Level{ID: 1, Name: "Beginner"}, nil)
		sectionRepo.On("ListByLevel", ctx, int64(1)).Return([]*domain.Section{}, nil)
		quizRepo.On("GetByLevelID", ctx, int64(1)).Return(&domain.Quiz{ID: 9, LevelID: 1, Name: "Checkpoint"}, nil)

		err := svc.DeleteLevel(ctx, 1)
		assert.True(t, domain.IsValidation(err))
		levelRepo.AssertNotCalled(t, "Delete")
	})

	t.Run("deletes an empty level", func(t *testing.T) {
		levelRepo := new(MockLevelRepository)
		sectionRepo := new(MockSectionRepository)
		quizRepo := new(MockQuizRepository)
		svc := newContentServiceForTest(levelRepo, sectionRepo, new(MockQuestionRepository), quizRepo)

		levelRepo.On("GetByID", ctx, int64(1)).Return(&domain.Level{ID: 1, Name: "Beginner"}, nil)
		sectionRepo.On("ListByLevel", ctx, int64(1)).Return([]*domain.Section{}, nil)
		quizRepo.On("GetByLevelID", ctx, int64(1)).Return(nil, nil)
		levelRepo.On("Delete", ctx, int64(1)).Return(nil)

		err := svc.DeleteLevel(ctx, 1)
		assert.NoError(t, err)
		levelRepo.AssertExpectations(t)
	})
}

func TestSectionOperations(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects a section on an unknown level", func(t *testing.T) {
		levelRepo := new(MockLevelRepository)
		sectionRepo := new(MockSectionRepository)
		svc := newContentServiceForTest(levelRepo, sectionRepo, new(MockQuestionRepository), new(MockQuizRepository))

		levelRepo.On("GetByID", ctx, int64(99)).Return(nil, nil)

		_, err := svc.CreateSection(ctx, &dto.SectionRequest{LevelID: 99, Name: "Greetings"})
		assert.True(t, domain.IsNotFound(err))
		sectionRepo.AssertNotCalled(t, "Save")
	})

	t.Run("rejects deleting a section that still has questions", func(t *testing.T) {
		sectionRepo := new(MockSectionRepository)
		questionRepo := new(MockQuestionRepository)
		svc := newContentServiceForTest(new(MockLevelRepository), sectionRepo, questionRepo, new(MockQuizRepository))

		sectionRepo.On("GetByID", ctx, int64(2)).Return(&domain.Section{ID: 2, LevelID: 1, Name: "Greetings"}, nil)
		questionRepo.On("ListBySection", ctx, int64(2)).Return([]*domain.Question{{ID: 3, SectionID: 2}}, nil)

		err := svc.DeleteSection(ctx, 2)
		assert.True(t, domain.IsValidation(err))
		sectionRepo.AssertNotCalled(t, "Delete")
	})

	t.Run("updates a section", func(t *testing.T) {
		sectionRepo := new(MockSectionRepository)
		svc := newContentServiceForTest(new(MockLevelRepository), sectionRepo, new(MockQuestionRepository), new(MockQuizRepository))

		sectionRepo.On("GetByID", ctx, int64(2)).Return(&domain.Section{ID: 2, LevelID: 1, Name: "Greetings"}, nil)
		sectionRepo.On("Update", ctx, mock.AnythingOfType("*domain.Section")).Return(nil)

		resp, err := svc.UpdateSection(ctx, 2, &dto.SectionRequest{Name: "Salutations", Description: "Basics"})
		assert.NoError(t, err)
		assert.Equal(t, "Salutations", resp.Name)
		assert.Equal(t, "Basics", resp.Description)
	})
}
