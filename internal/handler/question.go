package handler

import (
	"encoding/json"
	"mime/multipart"
	"strconv"

	"linguazone/internal/domain"
	"linguazone/internal/dto"
	"linguazone/internal/service"

	"github.com/gofiber/fiber/v2"
)

// questionMediaPart is the multipart part name carrying question media.
const questionMediaPart = "question_content"

// choiceMediaPart is the multipart part name carrying replacement media
// on a single-choice update.
const choiceMediaPart = "media"

// QuestionHandler handles question-related HTTP requests
type QuestionHandler struct {
	service service.QuestionService
}

// NewQuestionHandler creates a new QuestionHandler instance
func NewQuestionHandler(service service.QuestionService) *QuestionHandler {
	return &QuestionHandler{service: service}
}

// CreateQuestion handles POST /api/questions. Media-bearing questions
// arrive as multipart forms; text-only questions may use plain JSON.
func (h *QuestionHandler) CreateQuestion(c *fiber.Ctx) error {
	var req dto.CreateQuestionRequest
	var questionMedia *domain.Upload
	uploads := map[string]*domain.Upload{}

	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return domain.NewValidationError("malformed multipart form")
		}
		if err := parseCreateQuestionForm(form, &req); err != nil {
			return err
		}
		uploads = formUploads(form)
		questionMedia = uploads[questionMediaPart]
	} else if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("malformed request body")
	}

	resp, err := h.service.CreateQuestion(c.Context(), &req, questionMedia, uploads)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetQuestion handles GET /api/questions/:id
func (h *QuestionHandler) GetQuestion(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	resp, err := h.service.GetQuestion(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListQuestions handles GET /api/questions. A section_id query narrows
// the listing to one section.
func (h *QuestionHandler) ListQuestions(c *fiber.Ctx) error {
	if sectionParam := c.Query("section_id"); sectionParam != "" {
		sectionID, err := strconv.ParseInt(sectionParam, 10, 64)
		if err != nil {
			return domain.NewValidationError("section_id must be an integer")
		}
		resp, err := h.service.ListQuestionsBySection(c.Context(), sectionID)
		if err != nil {
			return err
		}
		return c.JSON(resp)
	}

	resp, err := h.service.ListQuestions(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// UpdateQuestion handles PUT /api/questions/:id
func (h *QuestionHandler) UpdateQuestion(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateQuestionRequest
	var questionMedia *domain.Upload
	uploads := map[string]*domain.Upload{}

	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return domain.NewValidationError("malformed multipart form")
		}
		if err := parseUpdateQuestionForm(form, &req); err != nil {
			return err
		}
		uploads = formUploads(form)
		questionMedia = uploads[questionMediaPart]
	} else if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("malformed request body")
	}

	resp, err := h.service.UpdateQuestion(c.Context(), id, &req, questionMedia, uploads)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeleteQuestion handles DELETE /api/questions/:id
func (h *QuestionHandler) DeleteQuestion(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteQuestion(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "question deleted"})
}

// AddChoices handles POST /api/questions/:id/choices
func (h *QuestionHandler) AddChoices(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.AddChoicesRequest
	uploads := map[string]*domain.Upload{}

	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return domain.NewValidationError("malformed multipart form")
		}
		raw, ok := formValue(form, "choices")
		if !ok {
			return domain.NewValidationError("choices field is required")
		}
		if err := json.Unmarshal([]byte(raw), &req.Choices); err != nil {
			return domain.NewValidationError("choices must be a JSON array")
		}
		uploads = formUploads(form)
	} else if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("malformed request body")
	}

	resp, err := h.service.AddChoices(c.Context(), id, &req, uploads)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// UpdateChoice handles PUT /api/questions/:id/choices/:choiceID. A file
// part named "media" replaces the choice content.
func (h *QuestionHandler) UpdateChoice(c *fiber.Ctx) error {
	questionID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	choiceID, err := parseIDParam(c, "choiceID")
	if err != nil {
		return err
	}

	var req dto.UpdateChoiceRequest
	var media *domain.Upload

	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return domain.NewValidationError("malformed multipart form")
		}
		if v, ok := formValue(form, "content"); ok {
			req.Content = &v
		}
		if v, ok := formValue(form, "is_correct"); ok {
			req.IsCorrect = v
		}
		if v, ok := formValue(form, "choice_type"); ok {
			req.ChoiceType = &v
		}
		if upload, ok := formUploads(form)[choiceMediaPart]; ok {
			media = upload
		}
	} else if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("malformed request body")
	}

	resp, err := h.service.UpdateChoice(c.Context(), questionID, choiceID, &req, media)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeleteChoice handles DELETE /api/questions/:id/choices/:choiceID
func (h *QuestionHandler) DeleteChoice(c *fiber.Ctx) error {
	questionID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	choiceID, err := parseIDParam(c, "choiceID")
	if err != nil {
		return err
	}
	if err := h.service.DeleteChoice(c.Context(), questionID, choiceID); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "choice deleted"})
}

// parseIDParam reads a positive integer path parameter.
func parseIDParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id < 1 {
		return 0, domain.NewValidationError(name + " must be a positive integer")
	}
	return id, nil
}

func parseCreateQuestionForm(form *multipart.Form, req *dto.CreateQuestionRequest) error {
	if v, ok := formValue(form, "section_id"); ok {
		sectionID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return domain.NewValidationError("section_id must be an integer")
		}
		req.SectionID = sectionID
	}
	req.QuestionType, _ = formValue(form, "question_type")
	req.AnswerType, _ = formValue(form, "answer_type")
	req.CorrectAnswer, _ = formValue(form, "correct_answer")
	req.QuestionContent, _ = formValue(form, questionMediaPart)

	if raw, ok := formValue(form, "choices"); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Choices); err != nil {
			return domain.NewValidationError("choices must be a JSON array")
		}
	}
	return nil
}

func parseUpdateQuestionForm(form *multipart.Form, req *dto.UpdateQuestionRequest) error {
	if v, ok := formValue(form, "section_id"); ok {
		sectionID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return domain.NewValidationError("section_id must be an integer")
		}
		req.SectionID = &sectionID
	}
	if v, ok := formValue(form, "question_type"); ok {
		req.QuestionType = &v
	}
	if v, ok := formValue(form, "answer_type"); ok {
		req.AnswerType = &v
	}
	if v, ok := formValue(form, "correct_answer"); ok {
		req.CorrectAnswer = &v
	}
	if v, ok := formValue(form, questionMediaPart); ok {
		req.QuestionContent = &v
	}
	if raw, ok := formValue(form, "choices"); ok {
		var choices []dto.ChoiceSpec
		if err := json.Unmarshal([]byte(raw), &choices); err != nil {
			return domain.NewValidationError("choices must be a JSON array")
		}
		req.Choices = &choices
	}
	return nil
}
