package service

import (
	"context"
	"strconv"

	"linguazone/internal/domain"
	"linguazone/internal/dto"
)

// ContentService defines the interface for the level/section hierarchy.
type ContentService interface {
	CreateLevel(ctx context.Context, req *dto.LevelRequest) (*dto.LevelResponse, error)
	GetLevel(ctx context.Context, id int64) (*dto.LevelResponse, error)
	ListLevels(ctx context.Context) ([]*dto.LevelResponse, error)
	UpdateLevel(ctx context.Context, id int64, req *dto.LevelRequest) (*dto.LevelResponse, error)
	DeleteLevel(ctx context.Context, id int64) error

	CreateSection(ctx context.Context, req *dto.SectionRequest) (*dto.SectionResponse, error)
	GetSection(ctx context.Context, id int64) (*dto.SectionResponse, error)
	ListSections(ctx context.Context) ([]*dto.SectionResponse, error)
	ListSectionsByLevel(ctx context.Context, levelID int64) ([]*dto.SectionResponse, error)
	UpdateSection(ctx context.Context, id int64, req *dto.SectionRequest) (*dto.SectionResponse, error)
	DeleteSection(ctx context.Context, id int64) error
}

// contentService implements ContentService
type contentService struct {
	levelRepo    domain.LevelRepository
	sectionRepo  domain.SectionRepository
	questionRepo domain.QuestionRepository
	quizRepo     domain.QuizRepository
	txManager    domain.TransactionManager
}

// NewContentService creates a new instance of contentService
func NewContentService(
	levelRepo domain.LevelRepository,
	sectionRepo domain.SectionRepository,
	questionRepo domain.QuestionRepository,
	quizRepo domain.QuizRepository,
	txManager domain.TransactionManager,
) ContentService {
	return &contentService{
		levelRepo:    levelRepo,
		sectionRepo:  sectionRepo,
		questionRepo: questionRepo,
		quizRepo:     quizRepo,
		txManager:    txManager,
	}
}

// CreateLevel implements ContentService
func (s *contentService) CreateLevel(ctx context.Context, req *dto.LevelRequest) (*dto.LevelResponse, error) {
	level := domain.NewLevel(req.Name, req.Description)
	if err := level.Validate(); err != nil {
		return nil, err
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.levelRepo.Save(txCtx, level)
	})
	if err != nil {
		return nil, domain.NewPersistenceError("failed to save level", err)
	}
	return dto.NewLevelResponse(level), nil
}

// GetLevel implements ContentService
func (s *contentService) GetLevel(ctx context.Context, id int64) (*dto.LevelResponse, error) {
	level, err := s.levelRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load level", err)
	}
	if level == nil {
		return nil, domain.NewNotFoundError("level " + strconv.FormatInt(id, 10) + " not found")
	}
	return dto.NewLevelResponse(level), nil
}

// ListLevels implements ContentService
func (s *contentService) ListLevels(ctx context.Context) ([]*dto.LevelResponse, error) {
	levels, err := s.levelRepo.List(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to list levels", err)
	}
	responses := make([]*dto.LevelResponse, 0, len(levels))
	for _, level := range levels {
		responses = append(responses, dto.NewLevelResponse(level))
	}
	return responses, nil
}

// UpdateLevel implements ContentService
func (s *contentService) UpdateLevel(ctx context.Context, id int64, req *dto.LevelRequest) (*dto.LevelResponse, error) {
	level, err := s.levelRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load level", err)
	}
	if level == nil {
		return nil, domain.NewNotFoundError("level " + strconv.FormatInt(id, 10) + " not found")
	}

	level.Name = req.Name
	level.Description = req.Description
	if err := level.Validate(); err != nil {
		return nil, err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.levelRepo.Update(txCtx, level)
	})
	if err != nil {
		return nil, domain.NewPersistenceError("failed to update level", err)
	}
	return dto.NewLevelResponse(level), nil
}

// DeleteLevel implements ContentService. A level with sections or a quiz
// cannot be deleted; the children go first.
func (s *contentService) DeleteLevel(ctx context.Context, id int64) error {
	level, err := s.levelRepo.GetByID(ctx, id)
	if err != nil {
		return domain.NewPersistenceError("failed to load level", err)
	}
	if level == nil {
		return domain.NewNotFoundError("level " + strconv.FormatInt(id, 10) + " not found")
	}

	sections, err := s.sectionRepo.ListByLevel(ctx, id)
	if err != nil {
		return domain.NewPersistenceError("failed to list sections", err)
	}
	if len(sections) > 0 {
		return domain.NewValidationError("level " + strconv.FormatInt(id, 10) + " still has sections")
	}
	quiz, err := s.quizRepo.GetByLevelID(ctx, id)
	if err != nil {
		return domain.NewPersistenceError("failed to check level quiz", err)
	}
	if quiz != nil {
		return domain.NewValidationError("level " + strconv.FormatInt(id, 10) + " still has a quiz")
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.levelRepo.Delete(txCtx, id)
	})
	if err != nil {
		return domain.NewPersistenceError("failed to delete level", err)
	}
	return nil
}

// CreateSection implements ContentService
func (s *contentService) CreateSection(ctx context.Context, req *dto.SectionRequest) (*dto.SectionResponse, error) {
	section := domain.NewSection(req.LevelID, req.Name, req.Description)
	if err := section.Validate(); err != nil {
		return nil, err
	}

	level, err := s.levelRepo.GetByID(ctx, req.LevelID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load level", err)
	}
	if level == nil {
		return nil, domain.NewNotFoundError("level " + strconv.FormatInt(req.LevelID, 10) + " not found")
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.sectionRepo.Save(txCtx, section)
	})
	if err != nil {
		return nil, domain.NewPersistenceError("failed to save section", err)
	}
	return dto.NewSectionResponse(section), nil
}

// GetSection implements ContentService
func (s *contentService) GetSection(ctx context.Context, id int64) (*dto.SectionResponse, error) {
	section, err := s.sectionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load section", err)
	}
	if section == nil {
		return nil, domain.NewNotFoundError("section " + strconv.FormatInt(id, 10) + " not found")
	}
	return dto.NewSectionResponse(section), nil
}

// ListSections implements ContentService
func (s *contentService) ListSections(ctx context.Context) ([]*dto.SectionResponse, error) {
	sections, err := s.sectionRepo.List(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to list sections", err)
	}
	return toSectionResponses(sections), nil
}

// ListSectionsByLevel implements ContentService
func (s *contentService) ListSectionsByLevel(ctx context.Context, levelID int64) ([]*dto.SectionResponse, error) {
	level, err := s.levelRepo.GetByID(ctx, levelID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load level", err)
	}
	if level == nil {
		return nil, domain.NewNotFoundError("level " + strconv.FormatInt(levelID, 10) + " not found")
	}

	sections, err := s.sectionRepo.ListByLevel(ctx, levelID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to list sections", err)
	}
	return toSectionResponses(sections), nil
}

// UpdateSection implements ContentService
func (s *contentService) UpdateSection(ctx context.Context, id int64, req *dto.SectionRequest) (*dto.SectionResponse, error) {
	section, err := s.sectionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load section", err)
	}
	if section == nil {
		return nil, domain.NewNotFoundError("section " + strconv.FormatInt(id, 10) + " not found")
	}

	if req.LevelID != 0 && req.LevelID != section.LevelID {
		level, err := s.levelRepo.GetByID(ctx, req.LevelID)
		if err != nil {
			return nil, domain.NewPersistenceError("failed to load level", err)
		}
		if level == nil {
			return nil, domain.NewNotFoundError("level " + strconv.FormatInt(req.LevelID, 10) + " not found")
		}
		section.LevelID = req.LevelID
	}
	if req.Name != "" {
		section.Name = req.Name
	}
	section.Description = req.Description
	if err := section.Validate(); err != nil {
		return nil, err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.sectionRepo.Update(txCtx, section)
	})
	if err != nil {
		return nil, domain.NewPersistenceError("failed to update section", err)
	}
	return dto.NewSectionResponse(section), nil
}

// DeleteSection implements ContentService. A section with questions
// cannot be deleted.
func (s *contentService) DeleteSection(ctx context.Context, id int64) error {
	section, err := s.sectionRepo.GetByID(ctx, id)
	if err != nil {
		return domain.NewPersistenceError("failed to load section", err)
	}
	if section == nil {
		return domain.NewNotFoundError("section " + strconv.FormatInt(id, 10) + " not found")
	}

	questions, err := s.questionRepo.ListBySection(ctx, id)
	if err != nil {
		return domain.NewPersistenceError("failed to list questions", err)
	}
	if len(questions) > 0 {
		return domain.NewValidationError("section " + strconv.FormatInt(id, 10) + " still has questions")
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.sectionRepo.Delete(txCtx, id)
	})
	if err != nil {
		return domain.NewPersistenceError("failed to delete section", err)
	}
	return nil
}

func toSectionResponses(sections []*domain.Section) []*dto.SectionResponse {
	responses := make([]*dto.SectionResponse, 0, len(sections))
	for _, section := range sections {
		responses = append(responses, dto.NewSectionResponse(section))
	}
	return responses
}
