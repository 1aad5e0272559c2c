package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"linguazone/internal/domain"
	"linguazone/internal/dto"
	"linguazone/internal/handler"
	"linguazone/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockContentService
type MockContentService struct {
	CreateLevelFunc         func(req *dto.LevelRequest) (*dto.LevelResponse, error)
	GetLevelFunc            func(id int64) (*dto.LevelResponse, error)
	ListLevelsFunc          func() ([]*dto.LevelResponse, error)
	UpdateLevelFunc         func(id int64, req *dto.LevelRequest) (*dto.LevelResponse, error)
	DeleteLevelFunc         func(id int64) error
	CreateSectionFunc       func(req *dto.SectionRequest) (*dto.SectionResponse, error)
	GetSectionFunc          func(id int64) (*dto.SectionResponse, error)
	ListSectionsFunc        func() ([]*dto.SectionResponse, error)
	ListSectionsByLevelFunc func(levelID int64) ([]*dto.SectionResponse, error)
	UpdateSectionFunc       func(id int64, req *dto.SectionRequest) (*dto.SectionResponse, error)
	DeleteSectionFunc       func(id int64) error
}

func (m *MockContentService) CreateLevel(ctx context.Context, req *dto.LevelRequest) (*dto.LevelResponse, error) {
	if m.CreateLevelFunc != nil {
		return m.CreateLevelFunc(req)
	}
	panic("MockContentService.CreateLevelFunc not implemented")
}
func (m *MockContentService) GetLevel(ctx context.Context, id int64) (*dto.LevelResponse, error) {
	if m.GetLevelFunc != nil {
		return m.GetLevelFunc(id)
	}
	panic("MockContentService.GetLevelFunc not implemented")
}
func (m *MockContentService) ListLevels(ctx context.Context) ([]*dto.LevelResponse, error) {
	if m.ListLevelsFunc != nil {
		return m.ListLevelsFunc()
	}
	panic("MockContentService.ListLevelsFunc not implemented")
}
func (m *MockContentService) UpdateLevel(ctx context.Context, id int64, req *dto.LevelRequest) (*dto.LevelResponse, error) {
	if m.UpdateLevelFunc != nil {
		return m.UpdateLevelFunc(id, req)
	}
	panic("MockContentService.UpdateLevelFunc not implemented")
}
func (m *MockContentService) DeleteLevel(ctx context.Context, id int64) error {
	if m.DeleteLevelFunc != nil {
		return m.DeleteLevelFunc(id)
	}
	panic("MockContentService.DeleteLevelFunc not implemented")
}
func (m *MockContentService) CreateSection(ctx context.Context, req *dto.SectionRequest) (*dto.SectionResponse, error) {
	if m.CreateSectionFunc != nil {
		return m.CreateSectionFunc(req)
	}
	panic("MockContentService.CreateSectionFunc not implemented")
}
func (m *MockContentService) GetSection(ctx context.Context, id int64) (*dto.SectionResponse, error) {
	if m.GetSectionFunc != nil {
		return m.GetSectionFunc(id)
	}
	panic("MockContentService.GetSectionFunc not implemented")
}
func (m *MockContentService) ListSections(ctx context.Context) ([]*dto.SectionResponse, error) {
	if m.ListSectionsFunc != nil {
		return m.ListSectionsFunc()
	}
	panic("MockContentService.ListSectionsFunc not implemented")
}
func (m *MockContentService) ListSectionsByLevel(ctx context.Context, levelID int64) ([]*dto.SectionResponse, error) {
	if m.ListSectionsByLevelFunc != nil {
		return m.ListSectionsByLevelFunc(levelID)
	}
	panic("MockContentService.ListSectionsByLevelFunc not implemented")
}
func (m *MockContentService) UpdateSection(ctx context.Context, id int64, req *dto.SectionRequest) (*dto.SectionResponse, error) {
	if m.UpdateSectionFunc != nil {
		return m.UpdateSectionFunc(id, req)
	}
	panic("MockContentService.UpdateSectionFunc not implemented")
}
func (m *MockContentService) DeleteSection(ctx context.Context, id int64) error {
	if m.DeleteSectionFunc != nil {
		return m.DeleteSectionFunc(id)
	}
	panic("MockContentService.DeleteSectionFunc not implemented")
}

func newContentTestApp(svc *MockContentService) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
	})
	h := handler.NewContentHandler(svc)
	app.Post("/levels", h.CreateLevel)
	app.Delete("/levels/:id", h.DeleteLevel)
	app.Get("/sections", h.ListSections)
	return app
}

func TestContentHandler_CreateLevel(t *testing.T) {
	mockSvc := &MockContentService{}
	mockSvc.CreateLevelFunc = func(req *dto.LevelRequest) (*dto.LevelResponse, error) {
		assert.Equal(t, "Beginner", req.Name)
		return &dto.LevelResponse{ID: 1, Name: req.Name}, nil
	}
	app := newContentTestApp(mockSvc)

	body, _ := json.Marshal(dto.LevelRequest{Name: "Beginner", Description: "First steps"})
	req := httptest.NewRequest("POST", "/levels", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestContentHandler_DeleteLevel(t *testing.T) {
	mockSvc := &MockContentService{}
	mockSvc.DeleteLevelFunc = func(id int64) error {
		return domain.NewValidationError("level still has sections")
	}
	app := newContentTestApp(mockSvc)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/levels/1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestContentHandler_ListSections(t *testing.T) {
	t.Run("filters by level", func(t *testing.T) {
		mockSvc := &MockContentService{}
		mockSvc.ListSectionsByLevelFunc = func(levelID int64) ([]*dto.SectionResponse, error) {
			assert.Equal(t, int64(3), levelID)
			return []*dto.SectionResponse{{ID: 5, LevelID: 3, Name: "Greetings"}}, nil
		}
		app := newContentTestApp(mockSvc)

		resp, err := app.Test(httptest.NewRequest("GET", "/sections?level_id=3", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var sections []*dto.SectionResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&sections))
		require.Len(t, sections, 1)
		assert.Equal(t, "Greetings", sections[0].Name)
	})

	t.Run("rejects a non-numeric level filter", func(t *testing.T) {
		app := newContentTestApp(&MockContentService{})

		resp, err := app.Test(httptest.NewRequest("GET", "/sections?level_id=abc", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}
