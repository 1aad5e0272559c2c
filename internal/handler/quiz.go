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

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service service.QuizService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{service: service}
}

// CreateQuiz handles POST /api/quizzes
func (h *QuizHandler) CreateQuiz(c *fiber.Ctx) error {
	var req dto.CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("malformed request body")
	}
	resp, err := h.service.CreateQuiz(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetQuiz handles GET /api/quizzes/:id
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	resp, err := h.service.GetQuiz(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetQuizByLevel handles GET /api/quizzes/by-level/:levelID
func (h *QuizHandler) GetQuizByLevel(c *fiber.Ctx) error {
	levelID, err := parseIDParam(c, "levelID")
	if err != nil {
		return err
	}
	resp, err := h.service.GetQuizByLevel(c.Context(), levelID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListQuizzes handles GET /api/quizzes
func (h *QuizHandler) ListQuizzes(c *fiber.Ctx) error {
	resp, err := h.service.ListQuizzes(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// UpdateQuiz handles PUT /api/quizzes/:id
func (h *QuizHandler) UpdateQuiz(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("malformed request body")
	}
	resp, err := h.service.UpdateQuiz(c.Context(), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeleteQuiz handles DELETE /api/quizzes/:id
func (h *QuizHandler) DeleteQuiz(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteQuiz(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "quiz deleted"})
}

// AddQuizQuestion handles POST /api/quizzes/:id/questions
func (h *QuizHandler) AddQuizQuestion(c *fiber.Ctx) error {
	quizID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var spec dto.QuizQuestionSpec
	uploads := map[string]*domain.Upload{}

	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return domain.NewValidationError("malformed multipart form")
		}
		if err := parseQuizQuestionForm(form, &spec); err != nil {
			return err
		}
		uploads = formUploads(form)
	} else if err := c.BodyParser(&spec); err != nil {
		return domain.NewValidationError("malformed request body")
	}

	resp, err := h.service.AddQuizQuestion(c.Context(), quizID, &spec, uploads)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ReplaceQuizQuestions handles PUT /api/quizzes/:id/questions. The
// "questions" field carries the full replacement set as a JSON array;
// media files ride alongside as named parts.
func (h *QuizHandler) ReplaceQuizQuestions(c *fiber.Ctx) error {
	quizID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.ReplaceQuizQuestionsRequest
	uploads := map[string]*domain.Upload{}

	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return domain.NewValidationError("malformed multipart form")
		}
		raw, ok := formValue(form, "questions")
		if !ok {
			return domain.NewValidationError("questions field is required")
		}
		if err := json.Unmarshal([]byte(raw), &req.Questions); err != nil {
			return domain.NewValidationError("questions must be a JSON array")
		}
		uploads = formUploads(form)
	} else if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("malformed request body")
	}

	resp, err := h.service.ReplaceQuizQuestions(c.Context(), quizID, &req, uploads)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// UpdateQuizQuestion handles PUT /api/quizzes/questions/:id
func (h *QuizHandler) UpdateQuizQuestion(c *fiber.Ctx) error {
	quizQuestionID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateQuizQuestionRequest
	var questionMedia *domain.Upload
	uploads := map[string]*domain.Upload{}

	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return domain.NewValidationError("malformed multipart form")
		}
		if err := parseUpdateQuizQuestionForm(form, &req); err != nil {
			return err
		}
		uploads = formUploads(form)
		questionMedia = uploads[questionMediaPart]
	} else if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("malformed request body")
	}

	resp, err := h.service.UpdateQuizQuestion(c.Context(), quizQuestionID, &req, questionMedia, uploads)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeleteQuizQuestion handles DELETE /api/quizzes/questions/:id
func (h *QuizHandler) DeleteQuizQuestion(c *fiber.Ctx) error {
	quizQuestionID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteQuizQuestion(c.Context(), quizQuestionID); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "quiz question deleted"})
}

func parseQuizQuestionForm(form *multipart.Form, spec *dto.QuizQuestionSpec) error {
	spec.QuestionType, _ = formValue(form, "question_type")
	spec.AnswerType, _ = formValue(form, "answer_type")
	spec.CorrectAnswer, _ = formValue(form, "correct_answer")
	spec.QuestionContent, _ = formValue(form, questionMediaPart)
	spec.FileKey, _ = formValue(form, "file_key")

	if v, ok := formValue(form, "order_in_quiz"); ok && v != "" {
		order, err := strconv.Atoi(v)
		if err != nil {
			return domain.NewValidationError("order_in_quiz must be an integer")
		}
		spec.OrderInQuiz = &order
	}
	if raw, ok := formValue(form, "choices"); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &spec.Choices); err != nil {
			return domain.NewValidationError("choices must be a JSON array")
		}
	}

	// Media quiz questions usually ship their file under the part named
	// by file_key; default to the question_content part when unset.
	if spec.FileKey == "" && len(form.File[questionMediaPart]) > 0 {
		spec.FileKey = questionMediaPart
	}
	return nil
}

func parseUpdateQuizQuestionForm(form *multipart.Form, req *dto.UpdateQuizQuestionRequest) error {
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
	if v, ok := formValue(form, "order_in_quiz"); ok && v != "" {
		order, err := strconv.Atoi(v)
		if err != nil {
			return domain.NewValidationError("order_in_quiz must be an integer")
		}
		req.OrderInQuiz = &order
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
