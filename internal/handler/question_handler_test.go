package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"testing"

	"linguazone/internal/config"
	"linguazone/internal/domain"
	"linguazone/internal/dto"
	"linguazone/internal/handler"
	"linguazone/internal/logger"
	"linguazone/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Level: "info"}); err != nil {
		panic("Failed to initialize logger for tests: " + err.Error())
	}
	exitVal := m.Run()
	_ = logger.Sync()
	os.Exit(exitVal)
}

// --- Manual Mocks ---

// MockQuestionService
type MockQuestionService struct {
	CreateQuestionFunc func(req *dto.CreateQuestionRequest, questionMedia *domain.Upload, choiceMedia map[string]*domain.Upload) (*dto.QuestionResponse, error)
	UpdateQuestionFunc func(id int64, req *dto.UpdateQuestionRequest, questionMedia *domain.Upload, choiceMedia map[string]*domain.Upload) (*dto.QuestionResponse, error)
	DeleteQuestionFunc func(id int64) error
	GetQuestionFunc    func(id int64) (*dto.QuestionResponse, error)
	ListQuestionsFunc  func() ([]*dto.QuestionResponse, error)
	ListBySectionFunc  func(sectionID int64) ([]*dto.QuestionResponse, error)
	AddChoicesFunc     func(questionID int64, req *dto.AddChoicesRequest, choiceMedia map[string]*domain.Upload) (*dto.QuestionResponse, error)
	UpdateChoiceFunc   func(questionID, choiceID int64, req *dto.UpdateChoiceRequest, media *domain.Upload) (*dto.QuestionResponse, error)
	DeleteChoiceFunc   func(questionID, choiceID int64) error
}

func (m *MockQuestionService) CreateQuestion(ctx context.Context, req *dto.CreateQuestionRequest, questionMedia *domain.Upload, choiceMedia map[string]*domain.Upload) (*dto.QuestionResponse, error) {
	if m.CreateQuestionFunc != nil {
		return m.CreateQuestionFunc(req, questionMedia, choiceMedia)
	}
	panic("MockQuestionService.CreateQuestionFunc not implemented")
}
func (m *MockQuestionService) UpdateQuestion(ctx context.Context, id int64, req *dto.UpdateQuestionRequest, questionMedia *domain.Upload, choiceMedia map[string]*domain.Upload) (*dto.QuestionResponse, error) {
	if m.UpdateQuestionFunc != nil {
		return m.UpdateQuestionFunc(id, req, questionMedia, choiceMedia)
	}
	panic("MockQuestionService.UpdateQuestionFunc not implemented")
}
func (m *MockQuestionService) DeleteQuestion(ctx context.Context, id int64) error {
	if m.DeleteQuestionFunc != nil {
		return m.DeleteQuestionFunc(id)
	}
	panic("MockQuestionService.DeleteQuestionFunc not implemented")
}
func (m *MockQuestionService) GetQuestion(ctx context.Context, id int64) (*dto.QuestionResponse, error) {
	if m.GetQuestionFunc != nil {
		return m.GetQuestionFunc(id)
	}
	panic("MockQuestionService.GetQuestionFunc not implemented")
}
func (m *MockQuestionService) ListQuestions(ctx context.Context) ([]*dto.QuestionResponse, error) {
	if m.ListQuestionsFunc != nil {
		return m.ListQuestionsFunc()
	}
	panic("MockQuestionService.ListQuestionsFunc not implemented")
}
func (m *MockQuestionService) ListQuestionsBySection(ctx context.Context, sectionID int64) ([]*dto.QuestionResponse, error) {
	if m.ListBySectionFunc != nil {
		return m.ListBySectionFunc(sectionID)
	}
	panic("MockQuestionService.ListBySectionFunc not implemented")
}
func (m *MockQuestionService) AddChoices(ctx context.Context, questionID int64, req *dto.AddChoicesRequest, choiceMedia map[string]*domain.Upload) (*dto.QuestionResponse, error) {
	if m.AddChoicesFunc != nil {
		return m.AddChoicesFunc(questionID, req, choiceMedia)
	}
	panic("MockQuestionService.AddChoicesFunc not implemented")
}
func (m *MockQuestionService) UpdateChoice(ctx context.Context, questionID, choiceID int64, req *dto.UpdateChoiceRequest, media *domain.Upload) (*dto.QuestionResponse, error) {
	if m.UpdateChoiceFunc != nil {
		return m.UpdateChoiceFunc(questionID, choiceID, req, media)
	}
	panic("MockQuestionService.UpdateChoiceFunc not implemented")
}
func (m *MockQuestionService) DeleteChoice(ctx context.Context, questionID, choiceID int64) error {
	if m.DeleteChoiceFunc != nil {
		return m.DeleteChoiceFunc(questionID, choiceID)
	}
	panic("MockQuestionService.DeleteChoiceFunc not implemented")
}

func newQuestionTestApp(svc *MockQuestionService) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
	})
	h := handler.NewQuestionHandler(svc)
	app.Post("/questions", h.CreateQuestion)
	app.Get("/questions/:id", h.GetQuestion)
	app.Delete("/questions/:id", h.DeleteQuestion)
	app.Delete("/questions/:id/choices/:choiceID", h.DeleteChoice)
	return app
}

func TestQuestionHandler_CreateQuestion(t *testing.T) {
	t.Run("JSON body", func(t *testing.T) {
		mockSvc := &MockQuestionService{}
		mockSvc.CreateQuestionFunc = func(req *dto.CreateQuestionRequest, questionMedia *domain.Upload, choiceMedia map[string]*domain.Upload) (*dto.QuestionResponse, error) {
			assert.Equal(t, int64(10), req.SectionID)
			assert.Equal(t, "multiple_choice", req.AnswerType)
			assert.Nil(t, questionMedia)
			assert.Len(t, req.Choices, 2)
			return &dto.QuestionResponse{ID: 1, SectionID: 10, AnswerType: "multiple_choice"}, nil
		}
		app := newQuestionTestApp(mockSvc)

		body, _ := json.Marshal(dto.CreateQuestionRequest{
			SectionID:       10,
			QuestionType:    "text",
			QuestionContent: "Pick the greeting",
			AnswerType:      "multiple_choice",
			Choices: []dto.ChoiceSpec{
				{Content: "Hello", IsCorrect: true},
				{Content: "Goodbye", IsCorrect: false},
			},
		})
		req := httptest.NewRequest("POST", "/questions", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

		var got dto.QuestionResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, int64(1), got.ID)
	})

	t.Run("multipart form with media", func(t *testing.T) {
		mockSvc := &MockQuestionService{}
		mockSvc.CreateQuestionFunc = func(req *dto.CreateQuestionRequest, questionMedia *domain.Upload, choiceMedia map[string]*domain.Upload) (*dto.QuestionResponse, error) {
			assert.Equal(t, int64(10), req.SectionID)
			assert.Equal(t, "image", req.QuestionType)
			require.NotNil(t, questionMedia)
			assert.Equal(t, "board.png", questionMedia.Filename)
			assert.Contains(t, choiceMedia, "choice_0")
			assert.Len(t, req.Choices, 1)
			assert.Equal(t, "choice_0", req.Choices[0].FileKey)
			return &dto.QuestionResponse{ID: 2, SectionID: 10}, nil
		}
		app := newQuestionTestApp(mockSvc)

		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		_ = w.WriteField("section_id", "10")
		_ = w.WriteField("question_type", "image")
		_ = w.WriteField("answer_type", "multiple_choice")
		_ = w.WriteField("choices", `[{"choice_type":"image","is_correct":true,"file_key":"choice_0"}]`)
		part, _ := w.CreateFormFile("question_content", "board.png")
		_, _ = io.WriteString(part, "png-bytes")
		choicePart, _ := w.CreateFormFile("choice_0", "option.png")
		_, _ = io.WriteString(choicePart, "png-bytes")
		_ = w.Close()

		req := httptest.NewRequest("POST", "/questions", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	})

	t.Run("service validation error maps to 400", func(t *testing.T) {
		mockSvc := &MockQuestionService{}
		mockSvc.CreateQuestionFunc = func(req *dto.CreateQuestionRequest, questionMedia *domain.Upload, choiceMedia map[string]*domain.Upload) (*dto.QuestionResponse, error) {
			return nil, domain.NewValidationError("a multiple_choice question needs at least one correct choice")
		}
		app := newQuestionTestApp(mockSvc)

		body, _ := json.Marshal(dto.CreateQuestionRequest{SectionID: 10, QuestionType: "text", AnswerType: "multiple_choice"})
		req := httptest.NewRequest("POST", "/questions", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		var errResp middleware.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
		assert.Equal(t, string(domain.CodeValidation), errResp.Code)
	})
}

func TestQuestionHandler_GetQuestion(t *testing.T) {
	t.Run("returns the question", func(t *testing.T) {
		mockSvc := &MockQuestionService{}
		mockSvc.GetQuestionFunc = func(id int64) (*dto.QuestionResponse, error) {
			assert.Equal(t, int64(7), id)
			return &dto.QuestionResponse{ID: 7}, nil
		}
		app := newQuestionTestApp(mockSvc)

		resp, err := app.Test(httptest.NewRequest("GET", "/questions/7", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("unknown id maps to 404", func(t *testing.T) {
		mockSvc := &MockQuestionService{}
		mockSvc.GetQuestionFunc = func(id int64) (*dto.QuestionResponse, error) {
			return nil, domain.NewNotFoundError("question not found")
		}
		app := newQuestionTestApp(mockSvc)

		resp, err := app.Test(httptest.NewRequest("GET", "/questions/99", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("non-numeric id maps to 400", func(t *testing.T) {
		app := newQuestionTestApp(&MockQuestionService{})

		resp, err := app.Test(httptest.NewRequest("GET", "/questions/abc", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestQuestionHandler_DeleteChoice(t *testing.T) {
	t.Run("last correct choice maps to 400", func(t *testing.T) {
		mockSvc := &MockQuestionService{}
		mockSvc.DeleteChoiceFunc = func(questionID, choiceID int64) error {
			assert.Equal(t, int64(1), questionID)
			assert.Equal(t, int64(100), choiceID)
			return domain.NewValidationError("cannot delete the only correct choice")
		}
		app := newQuestionTestApp(mockSvc)

		resp, err := app.Test(httptest.NewRequest("DELETE", "/questions/1/choices/100", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("deletes a removable choice", func(t *testing.T) {
		mockSvc := &MockQuestionService{}
		mockSvc.DeleteChoiceFunc = func(questionID, choiceID int64) error { return nil }
		app := newQuestionTestApp(mockSvc)

		resp, err := app.Test(httptest.NewRequest("DELETE", "/questions/1/choices/101", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}
