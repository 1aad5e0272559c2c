package dto

import (
	"time"

	"linguazone/internal/domain"
)

// CreateQuizRequest carries quiz create fields.
type CreateQuizRequest struct {
	LevelID     int64  `json:"level_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateQuizRequest carries a partial quiz update.
type UpdateQuizRequest struct {
	LevelID     *int64  `json:"level_id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// QuizQuestionSpec is one quiz question supplied on create or bulk
// replace. FileKey names the multipart part holding question media for
// image/audio question types. A nil OrderInQuiz defaults to the current
// question count plus one.
type QuizQuestionSpec struct {
	QuestionType    string       `json:"question_type"`
	QuestionContent string       `json:"question_content"`
	AnswerType      string       `json:"answer_type"`
	CorrectAnswer   string       `json:"correct_answer"`
	OrderInQuiz     *int         `json:"order_in_quiz"`
	FileKey         string       `json:"file_key"`
	Choices         []ChoiceSpec `json:"choices"`
}

// UpdateQuizQuestionRequest carries a partial quiz-question update.
type UpdateQuizQuestionRequest struct {
	QuestionType    *string       `json:"question_type"`
	QuestionContent *string       `json:"question_content"`
	AnswerType      *string       `json:"answer_type"`
	CorrectAnswer   *string       `json:"correct_answer"`
	OrderInQuiz     *int          `json:"order_in_quiz"`
	Choices         *[]ChoiceSpec `json:"choices"`
}

// ReplaceQuizQuestionsRequest replaces every question of a quiz.
type ReplaceQuizQuestionsRequest struct {
	Questions []QuizQuestionSpec `json:"questions"`
}

// QuizChoiceResponse is a quiz choice in the API response.
type QuizChoiceResponse struct {
	ID             int64     `json:"id"`
	QuizQuestionID int64     `json:"quiz_question_id"`
	ChoiceType     string    `json:"choice_type"`
	Content        string    `json:"content"`
	IsCorrect      bool      `json:"is_correct"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// QuizQuestionResponse is a quiz question with its choices.
type QuizQuestionResponse struct {
	ID              int64                `json:"id"`
	QuizID          int64                `json:"quiz_id"`
	QuestionType    string               `json:"question_type"`
	QuestionContent string               `json:"question_content"`
	AnswerType      string               `json:"answer_type"`
	CorrectAnswer   string               `json:"correct_answer,omitempty"`
	OrderInQuiz     int                  `json:"order_in_quiz"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
	Choices         []QuizChoiceResponse `json:"choices"`
}

// QuizResponse is the full quiz graph in the API response.
type QuizResponse struct {
	ID            int64                  `json:"id"`
	LevelID       int64                  `json:"level_id"`
	Name          string                 `json:"name"`
	Description   string                 `json:"description,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
	QuizQuestions []QuizQuestionResponse `json:"quiz_questions"`
}

func NewQuizChoiceResponse(c *domain.QuizChoice) QuizChoiceResponse {
	return QuizChoiceResponse{
		ID:             c.ID,
		QuizQuestionID: c.QuizQuestionID,
		ChoiceType:     string(c.ChoiceType),
		Content:        c.Content,
		IsCorrect:      c.IsCorrect,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func NewQuizQuestionResponse(q *domain.QuizQuestion) *QuizQuestionResponse {
	choices := make([]QuizChoiceResponse, 0, len(q.Choices))
	for _, c := range q.Choices {
		choices = append(choices, NewQuizChoiceResponse(c))
	}
	return &QuizQuestionResponse{
		ID:              q.ID,
		QuizID:          q.QuizID,
		QuestionType:    string(q.QuestionType),
		QuestionContent: q.Content,
		AnswerType:      string(q.AnswerType),
		CorrectAnswer:   q.CorrectAnswer,
		OrderInQuiz:     q.OrderInQuiz,
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
		Choices:         choices,
	}
}

func NewQuizResponse(q *domain.Quiz) *QuizResponse {
	questions := make([]QuizQuestionResponse, 0, len(q.Questions))
	for _, question := range q.Questions {
		questions = append(questions, *NewQuizQuestionResponse(question))
	}
	return &QuizResponse{
		ID:            q.ID,
		LevelID:       q.LevelID,
		Name:          q.Name,
		Description:   q.Description,
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
		QuizQuestions: questions,
	}
}
