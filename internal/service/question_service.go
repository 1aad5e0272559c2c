package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"linguazone/internal/cache"
	"linguazone/internal/domain"
	"linguazone/internal/dto"
	"linguazone/internal/logger"

	"go.uber.org/zap"
)

const questionCacheTTL = 10 * time.Minute

// QuestionService defines the interface for question management. Media
// uploads arrive from the HTTP layer keyed by the multipart part name a
// choice spec refers to via its file_key.
type QuestionService interface {
	CreateQuestion(ctx context.Context, req *dto.CreateQuestionRequest, questionMedia *domain.Upload, choiceMedia map[string]*domain.Upload) (*dto.QuestionResponse, error)
	UpdateQuestion(ctx context.Context, id int64, req *dto.UpdateQuestionRequest, questionMedia *domain.Upload, choiceMedia map[string]*domain.Upload) (*dto.QuestionResponse, error)
	DeleteQuestion(ctx context.Context, id int64) error
	GetQuestion(ctx context.Context, id int64) (*dto.QuestionResponse, error)
	ListQuestions(ctx context.Context) ([]*dto.QuestionResponse, error)
	ListQuestionsBySection(ctx context.Context, sectionID int64) ([]*dto.QuestionResponse, error)

	AddChoices(ctx context.Context, questionID int64, req *dto.AddChoicesRequest, choiceMedia map[string]*domain.Upload) (*dto.QuestionResponse, error)
	UpdateChoice(ctx context.Context, questionID, choiceID int64, req *dto.UpdateChoiceRequest, media *domain.Upload) (*dto.QuestionResponse, error)
	DeleteChoice(ctx context.Context, questionID, choiceID int64) error
}

// questionService implements QuestionService
type questionService struct {
	questionRepo domain.QuestionRepository
	sectionRepo  domain.SectionRepository
	txManager    domain.TransactionManager
	mediaStore   domain.MediaStore
	cache        domain.Cache
}

// NewQuestionService creates a new instance of questionService
func NewQuestionService(
	questionRepo domain.QuestionRepository,
	sectionRepo domain.SectionRepository,
	txManager domain.TransactionManager,
	mediaStore domain.MediaStore,
	cache domain.Cache,
) QuestionService {
	return &questionService{
		questionRepo: questionRepo,
		sectionRepo:  sectionRepo,
		txManager:    txManager,
		mediaStore:   mediaStore,
		cache:        cache,
	}
}

// pendingChoice is a validated choice spec waiting for its media upload
// and database insert.
type pendingChoice struct {
	choiceType domain.ChoiceType
	content    string
	isCorrect  bool
	upload     *domain.Upload
}

// buildPendingChoices validates a choice set against its uploads. Every
// media choice must name an upload through file_key; every text choice
// must carry content. Database writes happen only after the whole set
// passes.
func buildPendingChoices(specs []dto.ChoiceSpec, uploads map[string]*domain.Upload) ([]*pendingChoice, error) {
	pending := make([]*pendingChoice, 0, len(specs))
	for i, spec := range specs {
		choiceType, err := domain.ParseChoiceType(spec.ChoiceType)
		if err != nil {
			return nil, err
		}
		isCorrect, err := domain.ParseCorrectFlag(spec.IsCorrect)
		if err != nil {
			return nil, err
		}

		p := &pendingChoice{choiceType: choiceType, isCorrect: isCorrect}
		if choiceType.HasMediaContent() {
			if spec.FileKey == "" {
				return nil, domain.NewValidationError("choice " + strconv.Itoa(i+1) + ": media choices require a file_key")
			}
			upload, ok := uploads[spec.FileKey]
			if !ok || upload == nil {
				return nil, domain.NewValidationError("choice " + strconv.Itoa(i+1) + ": no uploaded file named " + strconv.Quote(spec.FileKey))
			}
			p.upload = upload
		} else {
			if strings.TrimSpace(spec.Content) == "" {
				return nil, domain.NewValidationError("choice " + strconv.Itoa(i+1) + ": content is required for text choices")
			}
			p.content = spec.Content
		}
		pending = append(pending, p)
	}
	return pending, nil
}

func hasCorrectPending(pending []*pendingChoice) bool {
	for _, p := range pending {
		if p.isCorrect {
			return true
		}
	}
	return false
}

// storePendingChoices uploads the media of each pending choice and
// records the stored references for rollback.
func (s *questionService) storePendingChoices(ctx context.Context, pending []*pendingChoice, stored *[]string) error {
	for _, p := range pending {
		if p.upload == nil {
			continue
		}
		ref, err := s.mediaStore.Store(ctx, domain.MediaCategoryChoices, p.upload)
		if err != nil {
			return domain.NewInternalError("failed to store choice media", err)
		}
		p.content = ref
		*stored = append(*stored, ref)
	}
	return nil
}

// removeRefs deletes stored media objects, best effort. It is used both
// to undo uploads after a failed transaction and to drop references
// replaced by a successful one.
func (s *questionService) removeRefs(ctx context.Context, refs []string) {
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		if err := s.mediaStore.Remove(ctx, ref); err != nil {
			logger.Get().Warn("failed to remove media object",
				zap.String("reference", ref),
				zap.Error(err))
		}
	}
}

// mediaRefs collects every media reference owned by a question: its own
// content when the question type is image/audio, plus each media choice.
func mediaRefs(q *domain.Question) []string {
	var refs []string
	if q.QuestionType.HasMediaContent() && q.Content != "" {
		refs = append(refs, q.Content)
	}
	for _, c := range q.Choices {
		if c.ChoiceType.HasMediaContent() && c.Content != "" {
			refs = append(refs, c.Content)
		}
	}
	return refs
}

// CreateQuestion implements QuestionService
func (s *questionService) CreateQuestion(ctx context.Context, req *dto.CreateQuestionRequest, questionMedia *domain.Upload, choiceMedia map[string]*domain.Upload) (*dto.QuestionResponse, error) {
	questionType, err := domain.ParseQuestionType(req.QuestionType)
	if err != nil {
		return nil, err
	}
	answerType, err := domain.ParseAnswerType(req.AnswerType)
	if err != nil {
		return nil, err
	}

	section, err := s.sectionRepo.GetByID(ctx, req.SectionID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load section", err)
	}
	if section == nil {
		return nil, domain.NewNotFoundError("section " + strconv.FormatInt(req.SectionID, 10) + " not found")
	}

	if questionType.HasMediaContent() {
		if questionMedia == nil {
			return nil, domain.NewValidationError("a media file is required for " + string(questionType) + " questions")
		}
	} else if strings.TrimSpace(req.QuestionContent) == "" {
		return nil, domain.NewValidationError("question_content is required for text questions")
	}

	var pending []*pendingChoice
	switch {
	case answerType == domain.AnswerTypeMultipleChoice:
		if len(req.Choices) == 0 {
			return nil, domain.NewValidationError("multiple_choice questions require at least one choice")
		}
		if pending, err = buildPendingChoices(req.Choices, choiceMedia); err != nil {
			return nil, err
		}
		if !hasCorrectPending(pending) {
			return nil, domain.NewValidationError("multiple_choice questions require at least one correct choice")
		}
	case len(req.Choices) > 0:
		return nil, domain.NewValidationError("choices are only allowed for multiple_choice questions")
	case answerType == domain.AnswerTypeFillInBlank && strings.TrimSpace(req.CorrectAnswer) == "":
		return nil, domain.NewValidationError("correct_answer is required for fill_in_blank questions")
	}

	// The literal answer only makes sense for fill_in_blank; multiple
	// choice questions carry correctness on their choices instead.
	correctAnswer := req.CorrectAnswer
	if answerType != domain.AnswerTypeFillInBlank {
		correctAnswer = ""
	}

	// Validation is done; uploads happen before the transaction so a
	// storage failure never leaves half a question behind.
	var stored []string
	content := req.QuestionContent
	if questionType.HasMediaContent() {
		ref, err := s.mediaStore.Store(ctx, domain.MediaCategoryQuestions, questionMedia)
		if err != nil {
			return nil, domain.NewInternalError("failed to store question media", err)
		}
		content = ref
		stored = append(stored, ref)
	}
	if err := s.storePendingChoices(ctx, pending, &stored); err != nil {
		s.removeRefs(ctx, stored)
		return nil, err
	}

	question := &domain.Question{
		SectionID:     req.SectionID,
		QuestionType:  questionType,
		Content:       content,
		AnswerType:    answerType,
		CorrectAnswer: correctAnswer,
	}
	for _, p := range pending {
		question.Choices = append(question.Choices, &domain.QuestionChoice{
			ChoiceType: p.choiceType,
			Content:    p.content,
			IsCorrect:  p.isCorrect,
		})
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.questionRepo.Save(txCtx, question)
	})
	if err != nil {
		s.removeRefs(ctx, stored)
		return nil, domain.NewPersistenceError("failed to save question", err)
	}

	s.invalidateQuestionCaches(ctx, question.ID, question.SectionID)
	return dto.NewQuestionResponse(question), nil
}

// UpdateQuestion implements QuestionService. Omitted fields keep their
// current values; a supplied choices array replaces the whole set.
func (s *questionService) UpdateQuestion(ctx context.Context, id int64, req *dto.UpdateQuestionRequest, questionMedia *domain.Upload, choiceMedia map[string]*domain.Upload) (*dto.QuestionResponse, error) {
	question, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load question", err)
	}
	if question == nil {
		return nil, domain.NewNotFoundError("question " + strconv.FormatInt(id, 10) + " not found")
	}
	oldSectionID := question.SectionID
	oldType := question.QuestionType
	oldAnswerType := question.AnswerType

	if req.SectionID != nil {
		section, err := s.sectionRepo.GetByID(ctx, *req.SectionID)
		if err != nil {
			return nil, domain.NewPersistenceError("failed to load section", err)
		}
		if section == nil {
			return nil, domain.NewNotFoundError("section " + strconv.FormatInt(*req.SectionID, 10) + " not found")
		}
		question.SectionID = *req.SectionID
	}

	if req.QuestionType != nil {
		questionType, err := domain.ParseQuestionType(*req.QuestionType)
		if err != nil {
			return nil, err
		}
		question.QuestionType = questionType
	}
	if req.AnswerType != nil {
		answerType, err := domain.ParseAnswerType(*req.AnswerType)
		if err != nil {
			return nil, err
		}
		question.AnswerType = answerType
	}
	if req.CorrectAnswer != nil {
		question.CorrectAnswer = *req.CorrectAnswer
	}
	switch question.AnswerType {
	case domain.AnswerTypeFillInBlank:
		if strings.TrimSpace(question.CorrectAnswer) == "" {
			return nil, domain.NewValidationError("correct_answer is required for fill_in_blank questions")
		}
	case domain.AnswerTypeImageVideo:
		question.CorrectAnswer = ""
	}

	// Content resolution. A new upload always wins; otherwise an explicit
	// question_content is applied, and type transitions are checked so a
	// media question never ends up holding plain text or vice versa.
	var oldRefs, stored []string
	if questionMedia != nil {
		if !question.QuestionType.HasMediaContent() {
			return nil, domain.NewValidationError("a media file was supplied for a text question")
		}
		ref, err := s.mediaStore.Store(ctx, domain.MediaCategoryQuestions, questionMedia)
		if err != nil {
			return nil, domain.NewInternalError("failed to store question media", err)
		}
		if oldType.HasMediaContent() && question.Content != "" {
			oldRefs = append(oldRefs, question.Content)
		}
		question.Content = ref
		stored = append(stored, ref)
	} else {
		typeChanged := question.QuestionType != oldType
		switch {
		case typeChanged && question.QuestionType.HasMediaContent():
			return nil, domain.NewValidationError("a media file is required when changing to a " + string(question.QuestionType) + " question")
		case typeChanged && !question.QuestionType.HasMediaContent():
			if req.QuestionContent == nil || strings.TrimSpace(*req.QuestionContent) == "" {
				return nil, domain.NewValidationError("question_content is required when changing to a text question")
			}
			if oldType.HasMediaContent() && question.Content != "" {
				oldRefs = append(oldRefs, question.Content)
			}
			question.Content = *req.QuestionContent
		case req.QuestionContent != nil:
			if !question.QuestionType.HasMediaContent() && strings.TrimSpace(*req.QuestionContent) == "" {
				return nil, domain.NewValidationError("question_content cannot be empty for text questions")
			}
			// An explicit question_content on a media question releases the
			// stored object, whether it clears or replaces the reference.
			if question.QuestionType.HasMediaContent() && question.Content != "" && question.Content != *req.QuestionContent {
				oldRefs = append(oldRefs, question.Content)
			}
			question.Content = *req.QuestionContent
		}
	}

	// Answer type transitions and choice replacement.
	replaceChoices := false
	var pending []*pendingChoice
	switch {
	case question.AnswerType == domain.AnswerTypeMultipleChoice:
		if oldAnswerType != domain.AnswerTypeMultipleChoice && req.Choices == nil {
			s.removeRefs(ctx, stored)
			return nil, domain.NewValidationError("choices are required when changing to a multiple_choice question")
		}
		if req.Choices != nil {
			if len(*req.Choices) == 0 {
				s.removeRefs(ctx, stored)
				return nil, domain.NewValidationError("multiple_choice questions require at least one choice")
			}
			pending, err = buildPendingChoices(*req.Choices, choiceMedia)
			if err != nil {
				s.removeRefs(ctx, stored)
				return nil, err
			}
			if !hasCorrectPending(pending) {
				s.removeRefs(ctx, stored)
				return nil, domain.NewValidationError("multiple_choice questions require at least one correct choice")
			}
			replaceChoices = true
		}
	case req.Choices != nil && len(*req.Choices) > 0:
		s.removeRefs(ctx, stored)
		return nil, domain.NewValidationError("choices are only allowed for multiple_choice questions")
	case oldAnswerType == domain.AnswerTypeMultipleChoice:
		// Leaving multiple_choice drops the now meaningless choice set.
		replaceChoices = true
	}

	if replaceChoices {
		for _, c := range question.Choices {
			if c.ChoiceType.HasMediaContent() && c.Content != "" {
				oldRefs = append(oldRefs, c.Content)
			}
		}
		if err := s.storePendingChoices(ctx, pending, &stored); err != nil {
			s.removeRefs(ctx, stored)
			return nil, err
		}
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.questionRepo.Update(txCtx, question); err != nil {
			return err
		}
		if !replaceChoices {
			return nil
		}
		if err := s.questionRepo.DeleteChoicesByQuestion(txCtx, question.ID); err != nil {
			return err
		}
		question.Choices = question.Choices[:0]
		for _, p := range pending {
			choice := &domain.QuestionChoice{
				QuestionID: question.ID,
				ChoiceType: p.choiceType,
				Content:    p.content,
				IsCorrect:  p.isCorrect,
			}
			if err := s.questionRepo.SaveChoice(txCtx, choice); err != nil {
				return err
			}
			question.Choices = append(question.Choices, choice)
		}
		return nil
	})
	if err != nil {
		s.removeRefs(ctx, stored)
		return nil, domain.NewPersistenceError("failed to update question", err)
	}

	s.removeRefs(ctx, oldRefs)
	s.invalidateQuestionCaches(ctx, question.ID, oldSectionID, question.SectionID)
	return dto.NewQuestionResponse(question), nil
}

// DeleteQuestion implements QuestionService. Media objects are removed
// only after the database delete commits.
func (s *questionService) DeleteQuestion(ctx context.Context, id int64) error {
	question, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		return domain.NewPersistenceError("failed to load question", err)
	}
	if question == nil {
		return domain.NewNotFoundError("question " + strconv.FormatInt(id, 10) + " not found")
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.questionRepo.Delete(txCtx, id)
	})
	if err != nil {
		return domain.NewPersistenceError("failed to delete question", err)
	}

	s.removeRefs(ctx, mediaRefs(question))
	s.invalidateQuestionCaches(ctx, id, question.SectionID)
	return nil
}

// AddChoices implements QuestionService. Appending choices can never
// break the correct-choice invariant, so only the specs themselves are
// validated.
func (s *questionService) AddChoices(ctx context.Context, questionID int64, req *dto.AddChoicesRequest, choiceMedia map[string]*domain.Upload) (*dto.QuestionResponse, error) {
	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load question", err)
	}
	if question == nil {
		return nil, domain.NewValidationError("question " + strconv.FormatInt(questionID, 10) + " does not exist")
	}
	if question.AnswerType != domain.AnswerTypeMultipleChoice {
		return nil, domain.NewValidationError("choices are only allowed for multiple_choice questions")
	}
	if len(req.Choices) == 0 {
		return nil, domain.NewValidationError("at least one choice is required")
	}

	pending, err := buildPendingChoices(req.Choices, choiceMedia)
	if err != nil {
		return nil, err
	}

	var stored []string
	if err := s.storePendingChoices(ctx, pending, &stored); err != nil {
		s.removeRefs(ctx, stored)
		return nil, err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, p := range pending {
			choice := &domain.QuestionChoice{
				QuestionID: questionID,
				ChoiceType: p.choiceType,
				Content:    p.content,
				IsCorrect:  p.isCorrect,
			}
			if err := s.questionRepo.SaveChoice(txCtx, choice); err != nil {
				return err
			}
			question.Choices = append(question.Choices, choice)
		}
		return nil
	})
	if err != nil {
		s.removeRefs(ctx, stored)
		return nil, domain.NewPersistenceError("failed to add choices", err)
	}

	s.invalidateQuestionCaches(ctx, questionID, question.SectionID)
	return dto.NewQuestionResponse(question), nil
}

// UpdateChoice implements QuestionService. A media upload replaces the
// choice content and retypes the choice from the upload's MIME category.
func (s *questionService) UpdateChoice(ctx context.Context, questionID, choiceID int64, req *dto.UpdateChoiceRequest, media *domain.Upload) (*dto.QuestionResponse, error) {
	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load question", err)
	}
	if question == nil {
		return nil, domain.NewNotFoundError("question " + strconv.FormatInt(questionID, 10) + " not found")
	}
	choice := question.ChoiceByID(choiceID)
	if choice == nil {
		return nil, domain.NewNotFoundError("choice " + strconv.FormatInt(choiceID, 10) + " not found on question " + strconv.FormatInt(questionID, 10))
	}

	if req.IsCorrect != nil {
		isCorrect, err := domain.ParseCorrectFlag(req.IsCorrect)
		if err != nil {
			return nil, err
		}
		if question.AnswerType == domain.AnswerTypeMultipleChoice &&
			choice.IsCorrect && !isCorrect && question.CorrectChoiceCount(choiceID) == 0 {
			return nil, domain.NewValidationError("a multiple_choice question must keep at least one correct choice")
		}
		choice.IsCorrect = isCorrect
	}

	var oldRefs, stored []string
	switch {
	case media != nil:
		ref, err := s.mediaStore.Store(ctx, domain.MediaCategoryChoices, media)
		if err != nil {
			return nil, domain.NewInternalError("failed to store choice media", err)
		}
		if choice.ChoiceType.HasMediaContent() && choice.Content != "" {
			oldRefs = append(oldRefs, choice.Content)
		}
		choice.ChoiceType = domain.ChoiceTypeForUpload(media)
		choice.Content = ref
		stored = append(stored, ref)
	default:
		if req.ChoiceType != nil {
			choiceType, err := domain.ParseChoiceType(*req.ChoiceType)
			if err != nil {
				return nil, err
			}
			// Any change into a media type, including image to audio,
			// needs a fresh upload; the old reference cannot be reused.
			if choiceType.HasMediaContent() && choiceType != choice.ChoiceType {
				return nil, domain.NewValidationError("a media file is required when changing to a " + string(choiceType) + " choice")
			}
			if !choiceType.HasMediaContent() && choice.ChoiceType.HasMediaContent() {
				if req.Content == nil || strings.TrimSpace(*req.Content) == "" {
					return nil, domain.NewValidationError("content is required when changing to a text choice")
				}
				oldRefs = append(oldRefs, choice.Content)
			}
			choice.ChoiceType = choiceType
		}
		if req.Content != nil {
			if !choice.ChoiceType.HasMediaContent() && strings.TrimSpace(*req.Content) == "" {
				return nil, domain.NewValidationError("content cannot be empty for text choices")
			}
			choice.Content = *req.Content
		}
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.questionRepo.UpdateChoice(txCtx, choice)
	})
	if err != nil {
		s.removeRefs(ctx, stored)
		return nil, domain.NewPersistenceError("failed to update choice", err)
	}

	s.removeRefs(ctx, oldRefs)
	s.invalidateQuestionCaches(ctx, questionID, question.SectionID)
	return dto.NewQuestionResponse(question), nil
}

// DeleteChoice implements QuestionService. Deleting the last correct
// choice of a multiple_choice question is rejected.
func (s *questionService) DeleteChoice(ctx context.Context, questionID, choiceID int64) error {
	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return domain.NewPersistenceError("failed to load question", err)
	}
	if question == nil {
		return domain.NewNotFoundError("question " + strconv.FormatInt(questionID, 10) + " not found")
	}
	choice := question.ChoiceByID(choiceID)
	if choice == nil {
		return domain.NewValidationError("choice " + strconv.FormatInt(choiceID, 10) + " does not belong to question " + strconv.FormatInt(questionID, 10))
	}

	if question.AnswerType == domain.AnswerTypeMultipleChoice &&
		choice.IsCorrect && question.CorrectChoiceCount(choiceID) == 0 {
		return domain.NewValidationError("cannot delete the only correct choice of a multiple_choice question")
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.questionRepo.DeleteChoice(txCtx, choiceID)
	})
	if err != nil {
		return domain.NewPersistenceError("failed to delete choice", err)
	}

	if choice.ChoiceType.HasMediaContent() && choice.Content != "" {
		s.removeRefs(ctx, []string{choice.Content})
	}
	s.invalidateQuestionCaches(ctx, questionID, question.SectionID)
	return nil
}

// GetQuestion implements QuestionService
func (s *questionService) GetQuestion(ctx context.Context, id int64) (*dto.QuestionResponse, error) {
	key := cache.GenerateCacheKey("question", "detail", strconv.FormatInt(id, 10))
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var resp dto.QuestionResponse
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			return &resp, nil
		}
		logger.Get().Warn("discarding unreadable cached question", zap.String("key", key))
	} else if err != domain.ErrCacheMiss {
		logger.Get().Warn("question cache read failed", zap.String("key", key), zap.Error(err))
	}

	question, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load question", err)
	}
	if question == nil {
		return nil, domain.NewNotFoundError("question " + strconv.FormatInt(id, 10) + " not found")
	}

	resp := dto.NewQuestionResponse(question)
	if payload, err := json.Marshal(resp); err == nil {
		if err := s.cache.Set(ctx, key, string(payload), questionCacheTTL); err != nil {
			logger.Get().Warn("question cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return resp, nil
}

// ListQuestions implements QuestionService
func (s *questionService) ListQuestions(ctx context.Context) ([]*dto.QuestionResponse, error) {
	questions, err := s.questionRepo.List(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to list questions", err)
	}
	return toQuestionResponses(questions), nil
}

// ListQuestionsBySection implements QuestionService
func (s *questionService) ListQuestionsBySection(ctx context.Context, sectionID int64) ([]*dto.QuestionResponse, error) {
	section, err := s.sectionRepo.GetByID(ctx, sectionID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load section", err)
	}
	if section == nil {
		return nil, domain.NewNotFoundError("section " + strconv.FormatInt(sectionID, 10) + " not found")
	}

	questions, err := s.questionRepo.ListBySection(ctx, sectionID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to list questions", err)
	}
	return toQuestionResponses(questions), nil
}

func toQuestionResponses(questions []*domain.Question) []*dto.QuestionResponse {
	responses := make([]*dto.QuestionResponse, 0, len(questions))
	for _, q := range questions {
		responses = append(responses, dto.NewQuestionResponse(q))
	}
	return responses
}

func (s *questionService) invalidateQuestionCaches(ctx context.Context, questionID int64, sectionIDs ...int64) {
	keys := []string{cache.GenerateCacheKey("question", "detail", strconv.FormatInt(questionID, 10))}
	for _, sectionID := range sectionIDs {
		keys = append(keys, cache.GenerateCacheKey("question", "list", "section", strconv.FormatInt(sectionID, 10)))
	}
	for _, key := range keys {
		if err := s.cache.Delete(ctx, key); err != nil {
			logger.Get().Warn("question cache invalidation failed", zap.String("key", key), zap.Error(err))
		}
	}
}
