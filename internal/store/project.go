package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	api "github.com/cloudpivot/migration-planner/api/v1alpha1"
	"github.com/cloudpivot/migration-planner/internal/store/model"
)

type Project interface {
	List(ctx context.Context) (api.ProjectList, error)
	Create(ctx context.Context, project api.Project) (*api.Project, error)
	Get(ctx context.Context, id uuid.UUID) (*api.Project, error)
	Update(ctx context.Context, project api.Project) (*api.Project, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status api.ProjectStatus) (*api.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
	InitialMigration() error
}

type ProjectStore struct {
	db *gorm.DB
}

var _ Project = (*ProjectStore)(nil)

func NewProject(db *gorm.DB) Project {
	return &ProjectStore{db: db}
}

func (s *ProjectStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.Project{})
}

func (s *ProjectStore) List(ctx context.Context) (api.ProjectList, error) {
	var projects model.ProjectList
	result := s.db.WithContext(ctx).Model(&projects).Order("name").Find(&projects)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	return projects.ToApiResource(), nil
}

func (s *ProjectStore) Create(ctx context.Context, project api.Project) (*api.Project, error) {
	m := model.NewProjectFromApiResource(&project)
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	result := s.db.WithContext(ctx).Create(m)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	created := m.ToApiResource()
	return &created, nil
}

func (s *ProjectStore) Get(ctx context.Context, id uuid.UUID) (*api.Project, error) {
	project := model.NewProjectFromId(id)
	result := s.db.WithContext(ctx).First(project)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	resource := project.ToApiResource()
	return &resource, nil
}

func (s *ProjectStore) Update(ctx context.Context, project api.Project) (*api.Project, error) {
	m := model.NewProjectFromApiResource(&project)
	result := s.db.WithContext(ctx).Model(m).Clauses(clause.Returning{}).Updates(m)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	updated := m.ToApiResource()
	return &updated, nil
}

func (s *ProjectStore) UpdateStatus(ctx context.Context, id uuid.UUID, status api.ProjectStatus) (*api.Project, error) {
	project := model.NewProjectFromId(id)
	result := s.db.WithContext(ctx).Model(project).Clauses(clause.Returning{}).Update("status", string(status))
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	updated := project.ToApiResource()
	return &updated, nil
}

func (s *ProjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	project := model.NewProjectFromId(id)
	result := s.db.WithContext(ctx).Unscoped().Delete(project)
	if result.Error != nil {
		return translateError(result.Error)
	}
	return nil
}
