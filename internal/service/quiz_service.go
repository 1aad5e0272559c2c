package service

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"linguazone/internal/cache"
	"linguazone/internal/domain"
	"linguazone/internal/dto"
	"linguazone/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const quizCacheTTL = 10 * time.Minute

// uploadConcurrency caps parallel media store calls during bulk
// quiz question replacement.
const uploadConcurrency = 4

// QuizService defines the interface for quiz management. Each level owns
// at most one quiz; quiz questions carry an explicit position unique
// within their quiz.
type QuizService interface {
	CreateQuiz(ctx context.Context, req *dto.CreateQuizRequest) (*dto.QuizResponse, error)
	GetQuiz(ctx context.Context, id int64) (*dto.QuizResponse, error)
	GetQuizByLevel(ctx context.Context, levelID int64) (*dto.QuizResponse, error)
	ListQuizzes(ctx context.Context) ([]*dto.QuizResponse, error)
	UpdateQuiz(ctx context.Context, id int64, req *dto.UpdateQuizRequest) (*dto.QuizResponse, error)
	DeleteQuiz(ctx context.Context, id int64) error

	AddQuizQuestion(ctx context.Context, quizID int64, spec *dto.QuizQuestionSpec, media map[string]*domain.Upload) (*dto.QuizQuestionResponse, error)
	UpdateQuizQuestion(ctx context.Context, quizQuestionID int64, req *dto.UpdateQuizQuestionRequest, questionMedia *domain.Upload, choiceMedia map[string]*domain.Upload) (*dto.QuizQuestionResponse, error)
	DeleteQuizQuestion(ctx context.Context, quizQuestionID int64) error
	ReplaceQuizQuestions(ctx context.Context, quizID int64, req *dto.ReplaceQuizQuestionsRequest, media map[string]*domain.Upload) (*dto.QuizResponse, error)
}

// quizService implements QuizService
type quizService struct {
	quizRepo   domain.QuizRepository
	levelRepo  domain.LevelRepository
	txManager  domain.TransactionManager
	mediaStore domain.MediaStore
	cache      domain.Cache
}

// NewQuizService creates a new instance of quizService
func NewQuizService(
	quizRepo domain.QuizRepository,
	levelRepo domain.LevelRepository,
	txManager domain.TransactionManager,
	mediaStore domain.MediaStore,
	cache domain.Cache,
) QuizService {
	return &quizService{
		quizRepo:   quizRepo,
		levelRepo:  levelRepo,
		txManager:  txManager,
		mediaStore: mediaStore,
		cache:      cache,
	}
}

// pendingQuizQuestion is a validated quiz question spec waiting for its
// media uploads and database insert.
type pendingQuizQuestion struct {
	questionType  domain.QuestionType
	content       string
	answerType    domain.AnswerType
	correctAnswer string
	order         int
	upload        *domain.Upload
	choices       []*pendingChoice
}

// buildPendingQuizQuestion validates one spec against its uploads.
// defaultOrder is used when the spec leaves order_in_quiz unset.
func buildPendingQuizQuestion(spec *dto.QuizQuestionSpec, uploads map[string]*domain.Upload, defaultOrder int) (*pendingQuizQuestion, error) {
	questionType, err := domain.ParseQuestionType(spec.QuestionType)
	if err != nil {
		return nil, err
	}
	answerType, err := domain.ParseAnswerType(spec.AnswerType)
	if err != nil {
		return nil, err
	}

	p := &pendingQuizQuestion{
		questionType:  questionType,
		answerType:    answerType,
		correctAnswer: spec.CorrectAnswer,
		order:         defaultOrder,
	}
	if spec.OrderInQuiz != nil {
		if *spec.OrderInQuiz < 1 {
			return nil, domain.NewValidationError("order_in_quiz must be positive")
		}
		p.order = *spec.OrderInQuiz
	}

	if questionType.HasMediaContent() {
		if spec.FileKey == "" {
			return nil, domain.NewValidationError(string(questionType) + " quiz questions require a file_key")
		}
		upload, ok := uploads[spec.FileKey]
		if !ok || upload == nil {
			return nil, domain.NewValidationError("no uploaded file named " + strconv.Quote(spec.FileKey))
		}
		p.upload = upload
	} else {
		if strings.TrimSpace(spec.QuestionContent) == "" {
			return nil, domain.NewValidationError("question_content is required for text quiz questions")
		}
		p.content = spec.QuestionContent
	}

	switch {
	case answerType == domain.AnswerTypeMultipleChoice:
		if len(spec.Choices) == 0 {
			return nil, domain.NewValidationError("multiple_choice quiz questions require at least one choice")
		}
		if p.choices, err = buildPendingChoices(spec.Choices, uploads); err != nil {
			return nil, err
		}
		if !hasCorrectPending(p.choices) {
			return nil, domain.NewValidationError("multiple_choice quiz questions require at least one correct choice")
		}
	case len(spec.Choices) > 0:
		return nil, domain.NewValidationError("choices are only allowed for multiple_choice questions")
	case answerType == domain.AnswerTypeFillInBlank && strings.TrimSpace(spec.CorrectAnswer) == "":
		return nil, domain.NewValidationError("correct_answer is required for fill_in_blank questions")
	}
	if answerType != domain.AnswerTypeFillInBlank {
		p.correctAnswer = ""
	}
	return p, nil
}

// store uploads the media of a pending quiz question and its choices,
// writing the stored references into the pending state.
func (p *pendingQuizQuestion) store(ctx context.Context, mediaStore domain.MediaStore) error {
	if p.upload != nil {
		ref, err := mediaStore.Store(ctx, domain.MediaCategoryQuizQuestions, p.upload)
		if err != nil {
			return domain.NewInternalError("failed to store quiz question media", err)
		}
		p.content = ref
	}
	for _, c := range p.choices {
		if c.upload == nil {
			continue
		}
		ref, err := mediaStore.Store(ctx, domain.MediaCategoryQuizChoices, c.upload)
		if err != nil {
			return domain.NewInternalError("failed to store quiz choice media", err)
		}
		c.content = ref
	}
	return nil
}

// storedRefs returns the references already written for this pending
// question, for cleanup after a failure.
func (p *pendingQuizQuestion) storedRefs() []string {
	var refs []string
	if p.upload != nil && p.content != "" {
		refs = append(refs, p.content)
	}
	for _, c := range p.choices {
		if c.upload != nil && c.content != "" {
			refs = append(refs, c.content)
		}
	}
	return refs
}

func (p *pendingQuizQuestion) toDomain(quizID int64) *domain.QuizQuestion {
	question := &domain.QuizQuestion{
		QuizID:        quizID,
		QuestionType:  p.questionType,
		Content:       p.content,
		AnswerType:    p.answerType,
		CorrectAnswer: p.correctAnswer,
		OrderInQuiz:   p.order,
	}
	for _, c := range p.choices {
		question.Choices = append(question.Choices, &domain.QuizChoice{
			ChoiceType: c.choiceType,
			Content:    c.content,
			IsCorrect:  c.isCorrect,
		})
	}
	return question
}

// quizQuestionMediaRefs collects every media reference owned by a quiz
// question.
func quizQuestionMediaRefs(q *domain.QuizQuestion) []string {
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

func (s *quizService) removeRefs(ctx context.Context, refs []string) {
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

// CreateQuiz implements QuizService. A level can hold only one quiz.
func (s *quizService) CreateQuiz(ctx context.Context, req *dto.CreateQuizRequest) (*dto.QuizResponse, error) {
	quiz := domain.NewQuiz(req.LevelID, req.Name, req.Description)
	if err := quiz.Validate(); err != nil {
		return nil, err
	}

	level, err := s.levelRepo.GetByID(ctx, req.LevelID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load level", err)
	}
	if level == nil {
		return nil, domain.NewNotFoundError("level " + strconv.FormatInt(req.LevelID, 10) + " not found")
	}

	existing, err := s.quizRepo.GetByLevelID(ctx, req.LevelID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to check level quiz", err)
	}
	if existing != nil {
		return nil, domain.NewValidationError("level " + strconv.FormatInt(req.LevelID, 10) + " already has a quiz")
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.quizRepo.Save(txCtx, quiz)
	})
	if err != nil {
		return nil, domain.NewPersistenceError("failed to save quiz", err)
	}

	s.invalidateQuizCaches(ctx, quiz.ID, quiz.LevelID)
	return dto.NewQuizResponse(quiz), nil
}

// GetQuiz implements QuizService
func (s *quizService) GetQuiz(ctx context.Context, id int64) (*dto.QuizResponse, error) {
	key := cache.GenerateCacheKey("quiz", "detail", strconv.FormatInt(id, 10))
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var resp dto.QuizResponse
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			return &resp, nil
		}
		logger.Get().Warn("discarding unreadable cached quiz", zap.String("key", key))
	} else if err != domain.ErrCacheMiss {
		logger.Get().Warn("quiz cache read failed", zap.String("key", key), zap.Error(err))
	}

	quiz, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewNotFoundError("quiz " + strconv.FormatInt(id, 10) + " not found")
	}

	resp := dto.NewQuizResponse(quiz)
	if payload, err := json.Marshal(resp); err == nil {
		if err := s.cache.Set(ctx, key, string(payload), quizCacheTTL); err != nil {
			logger.Get().Warn("quiz cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return resp, nil
}

// GetQuizByLevel implements QuizService
func (s *quizService) GetQuizByLevel(ctx context.Context, levelID int64) (*dto.QuizResponse, error) {
	key := cache.GenerateCacheKey("quiz", "level", strconv.FormatInt(levelID, 10))
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var resp dto.QuizResponse
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			return &resp, nil
		}
		logger.Get().Warn("discarding unreadable cached quiz", zap.String("key", key))
	} else if err != domain.ErrCacheMiss {
		logger.Get().Warn("quiz cache read failed", zap.String("key", key), zap.Error(err))
	}

	quiz, err := s.quizRepo.GetByLevelID(ctx, levelID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewNotFoundError("level " + strconv.FormatInt(levelID, 10) + " has no quiz")
	}

	resp := dto.NewQuizResponse(quiz)
	if payload, err := json.Marshal(resp); err == nil {
		if err := s.cache.Set(ctx, key, string(payload), quizCacheTTL); err != nil {
			logger.Get().Warn("quiz cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return resp, nil
}

// ListQuizzes implements QuizService
func (s *quizService) ListQuizzes(ctx context.Context) ([]*dto.QuizResponse, error) {
	quizzes, err := s.quizRepo.List(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to list quizzes", err)
	}
	responses := make([]*dto.QuizResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		responses = append(responses, dto.NewQuizResponse(quiz))
	}
	return responses, nil
}

// UpdateQuiz implements QuizService. Moving a quiz to another level is
// rejected when that level already has one.
func (s *quizService) UpdateQuiz(ctx context.Context, id int64, req *dto.UpdateQuizRequest) (*dto.QuizResponse, error) {
	quiz, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewNotFoundError("quiz " + strconv.FormatInt(id, 10) + " not found")
	}
	oldLevelID := quiz.LevelID

	if req.LevelID != nil && *req.LevelID != quiz.LevelID {
		level, err := s.levelRepo.GetByID(ctx, *req.LevelID)
		if err != nil {
			return nil, domain.NewPersistenceError("failed to load level", err)
		}
		if level == nil {
			return nil, domain.NewNotFoundError("level " + strconv.FormatInt(*req.LevelID, 10) + " not found")
		}
		existing, err := s.quizRepo.GetByLevelID(ctx, *req.LevelID)
		if err != nil {
			return nil, domain.NewPersistenceError("failed to check level quiz", err)
		}
		if existing != nil {
			return nil, domain.NewValidationError("level " + strconv.FormatInt(*req.LevelID, 10) + " already has a quiz")
		}
		quiz.LevelID = *req.LevelID
	}
	if req.Name != nil {
		quiz.Name = *req.Name
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if err := quiz.Validate(); err != nil {
		return nil, err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.quizRepo.Update(txCtx, quiz)
	})
	if err != nil {
		return nil, domain.NewPersistenceError("failed to update quiz", err)
	}

	s.invalidateQuizCaches(ctx, quiz.ID, oldLevelID, quiz.LevelID)
	return dto.NewQuizResponse(quiz), nil
}

// DeleteQuiz implements QuizService. Media objects of every quiz
// question are removed after the delete commits.
func (s *quizService) DeleteQuiz(ctx context.Context, id int64) error {
	quiz, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		return domain.NewPersistenceError("failed to load quiz", err)
	}
	if quiz == nil {
		return domain.NewNotFoundError("quiz " + strconv.FormatInt(id, 10) + " not found")
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.quizRepo.Delete(txCtx, id)
	})
	if err != nil {
		return domain.NewPersistenceError("failed to delete quiz", err)
	}

	var refs []string
	for _, question := range quiz.Questions {
		refs = append(refs, quizQuestionMediaRefs(question)...)
	}
	s.removeRefs(ctx, refs)
	s.invalidateQuizCaches(ctx, id, quiz.LevelID)
	return nil
}

// AddQuizQuestion implements QuizService. An unset order_in_quiz
// defaults to the current question count plus one.
func (s *quizService) AddQuizQuestion(ctx context.Context, quizID int64, spec *dto.QuizQuestionSpec, media map[string]*domain.Upload) (*dto.QuizQuestionResponse, error) {
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewNotFoundError("quiz " + strconv.FormatInt(quizID, 10) + " not found")
	}

	defaultOrder := 0
	if spec.OrderInQuiz == nil {
		count, err := s.quizRepo.CountQuestions(ctx, quizID)
		if err != nil {
			return nil, domain.NewPersistenceError("failed to count quiz questions", err)
		}
		defaultOrder = count + 1
	}
	pending, err := buildPendingQuizQuestion(spec, media, defaultOrder)
	if err != nil {
		return nil, err
	}
	for _, existing := range quiz.Questions {
		if existing.OrderInQuiz == pending.order {
			return nil, domain.NewValidationError("order_in_quiz " + strconv.Itoa(pending.order) + " is already taken")
		}
	}

	if err := pending.store(ctx, s.mediaStore); err != nil {
		s.removeRefs(ctx, pending.storedRefs())
		return nil, err
	}

	question := pending.toDomain(quizID)
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.quizRepo.SaveQuestion(txCtx, question)
	})
	if err != nil {
		s.removeRefs(ctx, pending.storedRefs())
		return nil, domain.NewPersistenceError("failed to save quiz question", err)
	}

	s.invalidateQuizCaches(ctx, quizID, quiz.LevelID)
	return dto.NewQuizQuestionResponse(question), nil
}

// UpdateQuizQuestion implements QuizService. Omitted fields keep their
// current values; a supplied choices array replaces the whole set.
func (s *quizService) UpdateQuizQuestion(ctx context.Context, quizQuestionID int64, req *dto.UpdateQuizQuestionRequest, questionMedia *domain.Upload, choiceMedia map[string]*domain.Upload) (*dto.QuizQuestionResponse, error) {
	question, err := s.quizRepo.GetQuestion(ctx, quizQuestionID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load quiz question", err)
	}
	if question == nil {
		return nil, domain.NewNotFoundError("quiz question " + strconv.FormatInt(quizQuestionID, 10) + " not found")
	}
	oldType := question.QuestionType
	oldAnswerType := question.AnswerType

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
	if req.OrderInQuiz != nil && *req.OrderInQuiz != question.OrderInQuiz {
		if *req.OrderInQuiz < 1 {
			return nil, domain.NewValidationError("order_in_quiz must be positive")
		}
		siblings, err := s.quizRepo.ListQuestions(ctx, question.QuizID)
		if err != nil {
			return nil, domain.NewPersistenceError("failed to list quiz questions", err)
		}
		for _, sibling := range siblings {
			if sibling.ID != question.ID && sibling.OrderInQuiz == *req.OrderInQuiz {
				return nil, domain.NewValidationError("order_in_quiz " + strconv.Itoa(*req.OrderInQuiz) + " is already taken")
			}
		}
		question.OrderInQuiz = *req.OrderInQuiz
	}

	var oldRefs, stored []string
	if questionMedia != nil {
		if !question.QuestionType.HasMediaContent() {
			return nil, domain.NewValidationError("a media file was supplied for a text question")
		}
		ref, err := s.mediaStore.Store(ctx, domain.MediaCategoryQuizQuestions, questionMedia)
		if err != nil {
			return nil, domain.NewInternalError("failed to store quiz question media", err)
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
				return nil, domain.NewValidationError("multiple_choice quiz questions require at least one choice")
			}
			pending, err = buildPendingChoices(*req.Choices, choiceMedia)
			if err != nil {
				s.removeRefs(ctx, stored)
				return nil, err
			}
			if !hasCorrectPending(pending) {
				s.removeRefs(ctx, stored)
				return nil, domain.NewValidationError("multiple_choice quiz questions require at least one correct choice")
			}
			replaceChoices = true
		}
	case req.Choices != nil && len(*req.Choices) > 0:
		s.removeRefs(ctx, stored)
		return nil, domain.NewValidationError("choices are only allowed for multiple_choice questions")
	case oldAnswerType == domain.AnswerTypeMultipleChoice:
		replaceChoices = true
	}

	if replaceChoices {
		for _, c := range question.Choices {
			if c.ChoiceType.HasMediaContent() && c.Content != "" {
				oldRefs = append(oldRefs, c.Content)
			}
		}
		for _, p := range pending {
			if p.upload == nil {
				continue
			}
			ref, err := s.mediaStore.Store(ctx, domain.MediaCategoryQuizChoices, p.upload)
			if err != nil {
				s.removeRefs(ctx, stored)
				return nil, domain.NewInternalError("failed to store quiz choice media", err)
			}
			p.content = ref
			stored = append(stored, ref)
		}
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.quizRepo.UpdateQuestion(txCtx, question); err != nil {
			return err
		}
		if !replaceChoices {
			return nil
		}
		if err := s.quizRepo.DeleteChoicesByQuestion(txCtx, question.ID); err != nil {
			return err
		}
		question.Choices = question.Choices[:0]
		for _, p := range pending {
			choice := &domain.QuizChoice{
				QuizQuestionID: question.ID,
				ChoiceType:     p.choiceType,
				Content:        p.content,
				IsCorrect:      p.isCorrect,
			}
			if err := s.quizRepo.SaveChoice(txCtx, choice); err != nil {
				return err
			}
			question.Choices = append(question.Choices, choice)
		}
		return nil
	})
	if err != nil {
		s.removeRefs(ctx, stored)
		return nil, domain.NewPersistenceError("failed to update quiz question", err)
	}

	s.removeRefs(ctx, oldRefs)
	s.invalidateQuizQuestionCaches(ctx, question.QuizID)
	return dto.NewQuizQuestionResponse(question), nil
}

// DeleteQuizQuestion implements QuizService
func (s *quizService) DeleteQuizQuestion(ctx context.Context, quizQuestionID int64) error {
	question, err := s.quizRepo.GetQuestion(ctx, quizQuestionID)
	if err != nil {
		return domain.NewPersistenceError("failed to load quiz question", err)
	}
	if question == nil {
		return domain.NewNotFoundError("quiz question " + strconv.FormatInt(quizQuestionID, 10) + " not found")
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.quizRepo.DeleteQuestion(txCtx, quizQuestionID)
	})
	if err != nil {
		return domain.NewPersistenceError("failed to delete quiz question", err)
	}

	s.removeRefs(ctx, quizQuestionMediaRefs(question))
	s.invalidateQuizQuestionCaches(ctx, question.QuizID)
	return nil
}

// ReplaceQuizQuestions implements QuizService. The incoming set is
// validated as a whole, its media is uploaded in parallel, and the old
// question set is swapped out inside one transaction. Old media objects
// are removed only after the swap commits.
func (s *quizService) ReplaceQuizQuestions(ctx context.Context, quizID int64, req *dto.ReplaceQuizQuestionsRequest, media map[string]*domain.Upload) (*dto.QuizResponse, error) {
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewNotFoundError("quiz " + strconv.FormatInt(quizID, 10) + " not found")
	}

	pendings := make([]*pendingQuizQuestion, 0, len(req.Questions))
	seenOrders := make(map[int]bool, len(req.Questions))
	for i := range req.Questions {
		pending, err := buildPendingQuizQuestion(&req.Questions[i], media, i+1)
		if err != nil {
			return nil, err
		}
		if seenOrders[pending.order] {
			return nil, domain.NewValidationError("order_in_quiz " + strconv.Itoa(pending.order) + " is used more than once")
		}
		seenOrders[pending.order] = true
		pendings = append(pendings, pending)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadConcurrency)
	for _, pending := range pendings {
		pending := pending
		g.Go(func() error {
			return pending.store(gctx, s.mediaStore)
		})
	}
	if err := g.Wait(); err != nil {
		for _, pending := range pendings {
			s.removeRefs(ctx, pending.storedRefs())
		}
		return nil, err
	}

	var oldRefs []string
	for _, question := range quiz.Questions {
		oldRefs = append(oldRefs, quizQuestionMediaRefs(question)...)
	}

	questions := make([]*domain.QuizQuestion, 0, len(pendings))
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, existing := range quiz.Questions {
			if err := s.quizRepo.DeleteQuestion(txCtx, existing.ID); err != nil {
				return err
			}
		}
		for _, pending := range pendings {
			question := pending.toDomain(quizID)
			if err := s.quizRepo.SaveQuestion(txCtx, question); err != nil {
				return err
			}
			questions = append(questions, question)
		}
		return nil
	})
	if err != nil {
		for _, pending := range pendings {
			s.removeRefs(ctx, pending.storedRefs())
		}
		return nil, domain.NewPersistenceError("failed to replace quiz questions", err)
	}

	s.removeRefs(ctx, oldRefs)
	s.invalidateQuizCaches(ctx, quizID, quiz.LevelID)

	sort.Slice(questions, func(i, j int) bool {
		return questions[i].OrderInQuiz < questions[j].OrderInQuiz
	})
	quiz.Questions = questions
	return dto.NewQuizResponse(quiz), nil
}

func (s *quizService) invalidateQuizCaches(ctx context.Context, quizID int64, levelIDs ...int64) {
	keys := []string{cache.GenerateCacheKey("quiz", "detail", strconv.FormatInt(quizID, 10))}
	for _, levelID := range levelIDs {
		keys = append(keys, cache.GenerateCacheKey("quiz", "level", strconv.FormatInt(levelID, 10)))
	}
	for _, key := range keys {
		if err := s.cache.Delete(ctx, key); err != nil {
			logger.Get().Warn("quiz cache invalidation failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// invalidateQuizQuestionCaches drops the detail cache of the owning quiz
// when only its level is unknown at the call site.
func (s *quizService) invalidateQuizQuestionCaches(ctx context.Context, quizID int64) {
	key := cache.GenerateCacheKey("quiz", "detail", strconv.FormatInt(quizID, 10))
	if err := s.cache.Delete(ctx, key); err != nil {
		logger.Get().Warn("quiz cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}
