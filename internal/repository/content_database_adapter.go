package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"linguazone/internal/domain"
	"linguazone/internal/repository/models"
	"linguazone/internal/util"

	"github.com/jmoiron/sqlx"
)

// LevelDatabaseAdapter implements domain.LevelRepository using sqlx.
type LevelDatabaseAdapter struct {
	db *sqlx.DB
}

func NewLevelDatabaseAdapter(db *sqlx.DB) domain.LevelRepository {
	return &LevelDatabaseAdapter{db: db}
}

const selectLevelColumns = `
	id "id",
	name "name",
	description "description",
	created_at "created_at",
	updated_at "updated_at"`

func (a *LevelDatabaseAdapter) GetByID(ctx context.Context, id int64) (*domain.Level, error) {
	ex := GetExecutor(ctx, a.db)

	var modelLevel models.Level
	query := `SELECT ` + selectLevelColumns + ` FROM levels WHERE id = :1`
	err := ex.GetContext(ctx, &modelLevel, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get level %d: %w", id, err)
	}
	return toDomainLevel(&modelLevel), nil
}

func (a *LevelDatabaseAdapter) List(ctx context.Context) ([]*domain.Level, error) {
	ex := GetExecutor(ctx, a.db)

	var modelLevels []models.Level
	query := `SELECT ` + selectLevelColumns + ` FROM levels ORDER BY id`
	if err := ex.SelectContext(ctx, &modelLevels, query); err != nil {
		return nil, fmt.Errorf("failed to list levels: %w", err)
	}

	levels := make([]*domain.Level, 0, len(modelLevels))
	for i := range modelLevels {
		levels = append(levels, toDomainLevel(&modelLevels[i]))
	}
	return levels, nil
}

func (a *LevelDatabaseAdapter) Save(ctx context.Context, level *domain.Level) error {
	ex := GetExecutor(ctx, a.db)

	id, err := nextID(ctx, ex, "levels_seq")
	if err != nil {
		return err
	}
	now := time.Now()
	level.ID = id
	level.CreatedAt = now
	level.UpdatedAt = now

	query := `INSERT INTO levels (id, name, description, created_at, updated_at)
		VALUES (:1, :2, :3, :4, :5)`
	_, err = ex.ExecContext(ctx, query,
		level.ID, level.Name, util.StringToNullString(level.Description),
		level.CreatedAt, level.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save level: %w", err)
	}
	return nil
}

func (a *LevelDatabaseAdapter) Update(ctx context.Context, level *domain.Level) error {
	ex := GetExecutor(ctx, a.db)

	level.UpdatedAt = time.Now()
	query := `UPDATE levels SET name = :1, description = :2, updated_at = :3 WHERE id = :4`
	_, err := ex.ExecContext(ctx, query,
		level.Name, util.StringToNullString(level.Description), level.UpdatedAt, level.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update level %d: %w", level.ID, err)
	}
	return nil
}

func (a *LevelDatabaseAdapter) Delete(ctx context.Context, id int64) error {
	ex := GetExecutor(ctx, a.db)
	if _, err := ex.ExecContext(ctx, `DELETE FROM levels WHERE id = :1`, id); err != nil {
		return fmt.Errorf("failed to delete level %d: %w", id, err)
	}
	return nil
}

// SectionDatabaseAdapter implements domain.SectionRepository using sqlx.
type SectionDatabaseAdapter struct {
	db *sqlx.DB
}

func NewSectionDatabaseAdapter(db *sqlx.DB) domain.SectionRepository {
	return &SectionDatabaseAdapter{db: db}
}

const selectSectionColumns = `
	id "id",
	level_id "level_id",
	name "name",
	description "description",
	created_at "created_at",
	updated_at "updated_at"`

func (a *SectionDatabaseAdapter) GetByID(ctx context.Context, id int64) (*domain.Section, error) {
	ex := GetExecutor(ctx, a.db)

	var modelSection models.Section
	query := `SELECT ` + selectSectionColumns + ` FROM sections WHERE id = :1`
	err := ex.GetContext(ctx, &modelSection, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get section %d: %w", id, err)
	}
	return toDomainSection(&modelSection), nil
}

func (a *SectionDatabaseAdapter) List(ctx context.Context) ([]*domain.Section, error) {
	return a.list(ctx, `SELECT `+selectSectionColumns+` FROM sections ORDER BY id`)
}

func (a *SectionDatabaseAdapter) ListByLevel(ctx context.Context, levelID int64) ([]*domain.Section, error) {
	return a.list(ctx, `SELECT `+selectSectionColumns+` FROM sections WHERE level_id = :1 ORDER BY id`, levelID)
}

func (a *SectionDatabaseAdapter) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Section, error) {
	ex := GetExecutor(ctx, a.db)

	var modelSections []models.Section
	if err := ex.SelectContext(ctx, &modelSections, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}

	sections := make([]*domain.Section, 0, len(modelSections))
	for i := range modelSections {
		sections = append(sections, toDomainSection(&modelSections[i]))
	}
	return sections, nil
}

func (a *SectionDatabaseAdapter) Save(ctx context.Context, section *domain.Section) error {
	ex := GetExecutor(ctx, a.db)

	id, err := nextID(ctx, ex, "sections_seq")
	if err != nil {
		return err
	}
	now := time.Now()
	section.ID = id
	section.CreatedAt = now
	section.UpdatedAt = now

	query := `INSERT INTO sections (id, level_id, name, description, created_at, updated_at)
		VALUES (:1, :2, :3, :4, :5, :6)`
	_, err = ex.ExecContext(ctx, query,
		section.ID, section.LevelID, section.Name,
		util.StringToNullString(section.Description),
		section.CreatedAt, section.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save section: %w", err)
	}
	return nil
}

func (a *SectionDatabaseAdapter) Update(ctx context.Context, section *domain.Section) error {
	ex := GetExecutor(ctx, a.db)

	section.UpdatedAt = time.Now()
	query := `UPDATE sections SET level_id = :1, name = :2, description = :3, updated_at = :4 WHERE id = :5`
	_, err := ex.ExecContext(ctx, query,
		section.LevelID, section.Name,
		util.StringToNullString(section.Description),
		section.UpdatedAt, section.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update section %d: %w", section.ID, err)
	}
	return nil
}

func (a *SectionDatabaseAdapter) Delete(ctx context.Context, id int64) error {
	ex := GetExecutor(ctx, a.db)
	if _, err := ex.ExecContext(ctx, `DELETE FROM sections WHERE id = :1`, id); err != nil {
		return fmt.Errorf("failed to delete section %d: %w", id, err)
	}
	return nil
}

func toDomainLevel(m *models.Level) *domain.Level {
	return &domain.Level{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description.String,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toDomainSection(m *models.Section) *domain.Section {
	return &domain.Section{
		ID:          m.ID,
		LevelID:     m.LevelID,
		Name:        m.Name,
		Description: m.Description.String,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
