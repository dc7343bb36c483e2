package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	api "github.com/cloudpivot/migration-planner/api/v1alpha1"
	"github.com/cloudpivot/migration-planner/internal/inventory"
	"github.com/cloudpivot/migration-planner/internal/store"
)

type ProjectService struct {
	store store.Store
}

func NewProjectService(store store.Store) *ProjectService {
	return &ProjectService{store: store}
}

// applyProjectDefaults fills in planning parameters a caller left zero.
// Defaults match a conservative engagement: one business week of working
// days, a four hour cutover window and the balanced overcommit preset.
func applyProjectDefaults(project *api.Project) {
	if project.Topology == "" {
		project.Topology = api.TopologyLocal
	}
	if project.DailyChangeRatePct == 0 {
		project.DailyChangeRatePct = 5
	}
	if project.WorkingHoursPerDay == 0 {
		project.WorkingHoursPerDay = 8
	}
	if project.WorkingDaysPerWeek == 0 {
		project.WorkingDaysPerWeek = 5
	}
	if project.WarmCutoverWindowH == 0 {
		project.WarmCutoverWindowH = 4
	}
	if project.DowntimeBudgetH == 0 {
		project.DowntimeBudgetH = 4
	}
	if project.WarmDiskCeilingGB == 0 {
		project.WarmDiskCeilingGB = 2048
	}
	if project.OvercommitProfile == "" {
		project.OvercommitProfile = "balanced"
	}
}

func (s *ProjectService) CreateProject(ctx context.Context, project api.Project) (*api.Project, error) {
	if project.Name == "" {
		return nil, NewErrInvalidRequest("project name is required")
	}
	applyProjectDefaults(&project)
	project.ID = uuid.New()
	project.Status = api.ProjectStatusCreated

	created, err := s.store.Project().Create(ctx, project)
	if err != nil {
		return nil, err
	}
	zap.S().Named("project_service").Infow("project created", "id", created.ID, "name", created.Name)
	return created, nil
}

func (s *ProjectService) ListProjects(ctx context.Context) (api.ProjectList, error) {
	return s.store.Project().List(ctx)
}

func (s *ProjectService) GetProject(ctx context.Context, id uuid.UUID) (*api.Project, error) {
	project, err := s.store.Project().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrProjectNotFound(id)
		}
		return nil, err
	}
	return project, nil
}

// UpdateProject replaces the planning parameters of a project. Approved and
// archived projects are frozen; their parameters can no longer change.
func (s *ProjectService) UpdateProject(ctx context.Context, id uuid.UUID, update api.Project) (*api.Project, error) {
	current, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Locked() {
		return nil, NewErrProjectStateConflict(id, string(current.Status), "update")
	}

	update.ID = id
	update.Status = current.Status
	if update.Name == "" {
		update.Name = current.Name
	}
	applyProjectDefaults(&update)

	return s.store.Project().Update(ctx, update)
}

func (s *ProjectService) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProject(ctx, id); err != nil {
		return err
	}
	if err := s.store.VM().DeleteForProject(ctx, id); err != nil {
		return err
	}
	if err := s.store.Gap().DeleteForProject(ctx, id); err != nil {
		return err
	}
	return s.store.Project().Delete(ctx, id)
}

// ApproveProject freezes an assessed plan. Only assessed projects can be
// approved: approval asserts the operator reviewed the current assessment.
func (s *ProjectService) ApproveProject(ctx context.Context, id uuid.UUID) (*api.Project, error) {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if project.Status != api.ProjectStatusAssessed {
		return nil, NewErrProjectStateConflict(id, string(project.Status), "approve")
	}
	return s.store.Project().UpdateStatus(ctx, id, api.ProjectStatusApproved)
}

func (s *ProjectService) ArchiveProject(ctx context.Context, id uuid.UUID) (*api.Project, error) {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if project.Status == api.ProjectStatusArchived {
		return project, nil
	}
	return s.store.Project().UpdateStatus(ctx, id, api.ProjectStatusArchived)
}

// UploadInventory ingests an RVTools-style xlsx export: parse, normalize,
// classify, then atomically replace the project's VM set. A re-upload
// discards every previously derived value, so the project drops back to
// populated and must be assessed again.
func (s *ProjectService) UploadInventory(ctx context.Context, id uuid.UUID, content []byte) (api.VMList, error) {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if project.Locked() {
		return nil, NewErrProjectStateConflict(id, string(project.Status), "inventory upload")
	}

	if !inventory.IsExcelFile(content) {
		return nil, NewErrInventoryFileCorrupted("not a valid xlsx workbook")
	}

	rows, err := inventory.ParseWorkbook(content)
	if err != nil {
		return nil, NewErrInventoryFileCorrupted(err.Error())
	}

	vms := inventory.Normalize(rows)
	if len(vms) == 0 {
		return nil, NewErrInventoryFileCorrupted("no VM rows found")
	}
	vms = inventory.Classify(vms, inventory.ClassifierConfig{
		ExcludePatterns: project.ExcludePatterns,
	})
	for i := range vms {
		vms[i].ProjectID = id
		vms[i].Status = api.VMStatusNotStarted
	}

	stored, err := s.store.VM().ReplaceForProject(ctx, id, vms)
	if err != nil {
		return nil, err
	}
	if err := s.store.Gap().DeleteForProject(ctx, id); err != nil {
		return nil, err
	}
	if _, err := s.store.Project().UpdateStatus(ctx, id, api.ProjectStatusPopulated); err != nil {
		return nil, err
	}

	zap.S().Named("project_service").Infow("inventory uploaded",
		"project", id, "vms", len(stored), "sheet", rows.Sheet)
	return stored, nil
}

func (s *ProjectService) ListVMs(ctx context.Context, id uuid.UUID) (api.VMList, error) {
	if _, err := s.GetProject(ctx, id); err != nil {
		return nil, err
	}
	return s.store.VM().List(ctx, id)
}

// SetVMModeOverride pins or clears the manual migration mode of one VM.
func (s *ProjectService) SetVMModeOverride(ctx context.Context, projectID, vmID uuid.UUID, mode *api.MigrationMode) (*api.VM, error) {
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.Locked() {
		return nil, NewErrProjectStateConflict(projectID, string(project.Status), "mode override")
	}
	if mode != nil {
		switch *mode {
		case api.MigrationModeWarm, api.MigrationModeWarmRisky, api.MigrationModeColdRequired:
		default:
			return nil, NewErrInvalidRequest(fmt.Sprintf("unknown migration mode %q", *mode))
		}
	}

	vm, err := s.store.VM().SetModeOverride(ctx, vmID, mode)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrVMNotFound(vmID)
		}
		return nil, err
	}
	return vm, nil
}

// SetVMExcluded toggles a VM in or out of planning scope.
func (s *ProjectService) SetVMExcluded(ctx context.Context, projectID, vmID uuid.UUID, excluded bool, reason string) (*api.VM, error) {
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.Locked() {
		return nil, NewErrProjectStateConflict(projectID, string(project.Status), "exclusion change")
	}

	vm, err := s.store.VM().SetExcluded(ctx, vmID, excluded, reason)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrVMNotFound(vmID)
		}
		return nil, err
	}
	return vm, nil
}
