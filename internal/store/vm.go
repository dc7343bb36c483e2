package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	api "github.com/cloudpivot/migration-planner/api/v1alpha1"
	"github.com/cloudpivot/migration-planner/internal/store/model"
)

type VM interface {
	List(ctx context.Context, projectID uuid.UUID) (api.VMList, error)
	Get(ctx context.Context, id uuid.UUID) (*api.VM, error)
	ReplaceForProject(ctx context.Context, projectID uuid.UUID, vms api.VMList) (api.VMList, error)
	UpdateBatch(ctx context.Context, projectID uuid.UUID, vms api.VMList) error
	SetModeOverride(ctx context.Context, id uuid.UUID, mode *api.MigrationMode) (*api.VM, error)
	SetExcluded(ctx context.Context, id uuid.UUID, excluded bool, reason string) (*api.VM, error)
	DeleteForProject(ctx context.Context, projectID uuid.UUID) error
	InitialMigration() error
}

type VMStore struct {
	db *gorm.DB
}

var _ VM = (*VMStore)(nil)

func NewVM(db *gorm.DB) VM {
	return &VMStore{db: db}
}

func (s *VMStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.VM{})
}

func (s *VMStore) List(ctx context.Context, projectID uuid.UUID) (api.VMList, error) {
	var vms model.VMList
	result := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("tenant").Order("name").
		Find(&vms)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	return vms.ToApiResource(), nil
}

func (s *VMStore) Get(ctx context.Context, id uuid.UUID) (*api.VM, error) {
	vm := model.VM{ID: id}
	result := s.db.WithContext(ctx).First(&vm)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	resource := vm.ToApiResource()
	return &resource, nil
}

// ReplaceForProject swaps the full VM set of a project in one transaction,
// as a fresh inventory upload invalidates everything derived from the old one.
func (s *VMStore) ReplaceForProject(ctx context.Context, projectID uuid.UUID, vms api.VMList) (api.VMList, error) {
	models := make(model.VMList, 0, len(vms))
	for i := range vms {
		m := model.NewVMFromApiResource(&vms[i])
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
		m.ProjectID = projectID
		models = append(models, *m)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("project_id = ?", projectID).Delete(&model.VM{}).Error; err != nil {
			return err
		}
		if len(models) == 0 {
			return nil
		}
		return tx.CreateInBatches(&models, 500).Error
	})
	if err != nil {
		return nil, translateError(err)
	}
	return models.ToApiResource(), nil
}

// UpdateBatch persists recomputed assessment and schedule fields. VMs are
// matched by ID; rows missing from the batch are left untouched.
func (s *VMStore) UpdateBatch(ctx context.Context, projectID uuid.UUID, vms api.VMList) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range vms {
			m := model.NewVMFromApiResource(&vms[i])
			m.ProjectID = projectID
			if err := tx.Model(&model.VM{}).
				Where("id = ? AND project_id = ?", m.ID, projectID).
				Select("risk_score", "risk_category", "migration_mode",
					"excluded", "exclude_reason", "priority", "status",
					"phase1_hours", "cutover_hours", "schedule_day").
				Updates(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return translateError(err)
}

func (s *VMStore) SetModeOverride(ctx context.Context, id uuid.UUID, mode *api.MigrationMode) (*api.VM, error) {
	var value *string
	if mode != nil {
		v := string(*mode)
		value = &v
	}
	result := s.db.WithContext(ctx).Model(&model.VM{ID: id}).Update("manual_mode_override", value)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return s.Get(ctx, id)
}

func (s *VMStore) SetExcluded(ctx context.Context, id uuid.UUID, excluded bool, reason string) (*api.VM, error) {
	result := s.db.WithContext(ctx).Model(&model.VM{ID: id}).
		Updates(map[string]any{"excluded": excluded, "exclude_reason": reason})
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return s.Get(ctx, id)
}

func (s *VMStore) DeleteForProject(ctx context.Context, projectID uuid.UUID) error {
	result := s.db.WithContext(ctx).Unscoped().Where("project_id = ?", projectID).Delete(&model.VM{})
	return translateError(result.Error)
}
