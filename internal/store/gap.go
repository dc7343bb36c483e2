package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	api "github.com/cloudpivot/migration-planner/api/v1alpha1"
	"github.com/cloudpivot/migration-planner/internal/store/model"
)

type Gap interface {
	List(ctx context.Context, projectID uuid.UUID) ([]api.Gap, error)
	ReplaceForProject(ctx context.Context, projectID uuid.UUID, gaps []api.Gap) ([]api.Gap, error)
	Resolve(ctx context.Context, projectID uuid.UUID, gapID uint, resolution string) error
	DeleteForProject(ctx context.Context, projectID uuid.UUID) error
	InitialMigration() error
}

type GapStore struct {
	db *gorm.DB
}

var _ Gap = (*GapStore)(nil)

func NewGap(db *gorm.DB) Gap {
	return &GapStore{db: db}
}

func (s *GapStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.Gap{})
}

func (s *GapStore) List(ctx context.Context, projectID uuid.UUID) ([]api.Gap, error) {
	var gaps model.GapList
	result := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("severity").Order("type").Order("resource_name").
		Find(&gaps)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	return gaps.ToApiResource(), nil
}

func (s *GapStore) ReplaceForProject(ctx context.Context, projectID uuid.UUID, gaps []api.Gap) ([]api.Gap, error) {
	models := make(model.GapList, 0, len(gaps))
	for i := range gaps {
		models = append(models, *model.NewGapFromApiResource(projectID, &gaps[i]))
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("project_id = ?", projectID).Delete(&model.Gap{}).Error; err != nil {
			return err
		}
		if len(models) == 0 {
			return nil
		}
		return tx.Create(&models).Error
	})
	if err != nil {
		return nil, translateError(err)
	}
	return models.ToApiResource(), nil
}

func (s *GapStore) Resolve(ctx context.Context, projectID uuid.UUID, gapID uint, resolution string) error {
	result := s.db.WithContext(ctx).Model(&model.Gap{}).
		Where("id = ? AND project_id = ?", gapID, projectID).
		Updates(map[string]any{"resolved": true, "resolution": resolution})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *GapStore) DeleteForProject(ctx context.Context, projectID uuid.UUID) error {
	result := s.db.WithContext(ctx).Unscoped().Where("project_id = ?", projectID).Delete(&model.Gap{})
	return translateError(result.Error)
}
