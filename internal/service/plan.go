package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	api "github.com/cloudpivot/migration-planner/api/v1alpha1"
	"github.com/cloudpivot/migration-planner/internal/inventory"
	"github.com/cloudpivot/migration-planner/internal/planning"
	"github.com/cloudpivot/migration-planner/internal/store"
)

type PlanService struct {
	store store.Store
}

func NewPlanService(store store.Store) *PlanService {
	return &PlanService{store: store}
}

func (s *PlanService) projectWithVMs(ctx context.Context, id uuid.UUID) (*api.Project, api.VMList, error) {
	project, err := s.store.Project().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, nil, NewErrProjectNotFound(id)
		}
		return nil, nil, err
	}
	vms, err := s.store.VM().List(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if len(vms) == 0 {
		return nil, nil, NewErrProjectHasNoInventory(id)
	}
	applyAutoExclusions(project, vms)
	return project, vms, nil
}

// applyAutoExclusions re-evaluates the project's tenant exclude patterns
// against the stored VM set, so pattern edits made after upload hold for
// every aggregate. Operator-set exclusions carry their own reason and are
// left alone.
func applyAutoExclusions(project *api.Project, vms api.VMList) {
	for i := range vms {
		vm := &vms[i]
		switch {
		case inventory.MatchesExcludePattern(vm.Tenant, project.ExcludePatterns):
			if !vm.Excluded {
				vm.Excluded = true
				vm.ExcludeReason = inventory.AutoExcludeReason
			}
		case vm.Excluded && vm.ExcludeReason == inventory.AutoExcludeReason:
			vm.Excluded = false
			vm.ExcludeReason = ""
		}
	}
}

// Assess recomputes risk, mode and time estimates for every VM of the
// project and persists the result. Safe to call repeatedly: the pass is
// idempotent over unchanged inputs.
func (s *PlanService) Assess(ctx context.Context, id uuid.UUID) (*planning.AssessmentResult, error) {
	project, vms, err := s.projectWithVMs(ctx, id)
	if err != nil {
		return nil, err
	}
	if project.Locked() {
		return nil, NewErrProjectStateConflict(id, string(project.Status), "assess")
	}

	result := planning.Assess(project, vms)

	if err := s.store.VM().UpdateBatch(ctx, id, result.VMs); err != nil {
		return nil, err
	}
	if _, err := s.store.Project().UpdateStatus(ctx, id, api.ProjectStatusAssessed); err != nil {
		return nil, err
	}

	zap.S().Named("plan_service").Infow("assessment complete",
		"project", id, "vms", len(result.VMs),
		"bottleneck", result.Bandwidth.Bottleneck, "mbps", result.Bandwidth.BottleneckMbps)
	return &result, nil
}

// ResetAssessment clears all derived per-VM fields and returns the project
// to the populated state. Operator input (exclusions, manual overrides)
// survives the reset.
func (s *PlanService) ResetAssessment(ctx context.Context, id uuid.UUID) error {
	project, vms, err := s.projectWithVMs(ctx, id)
	if err != nil {
		return err
	}
	if project.Locked() {
		return NewErrProjectStateConflict(id, string(project.Status), "reset assessment")
	}

	for i := range vms {
		vms[i].RiskScore = 0
		vms[i].RiskCategory = ""
		vms[i].MigrationMode = ""
		vms[i].Phase1Hours = 0
		vms[i].CutoverHours = 0
		vms[i].ScheduleDay = 0
		vms[i].Status = api.VMStatusNotStarted
	}
	if err := s.store.VM().UpdateBatch(ctx, id, vms); err != nil {
		return err
	}
	if _, err := s.store.Project().UpdateStatus(ctx, id, api.ProjectStatusPopulated); err != nil {
		return err
	}

	zap.S().Named("plan_service").Infow("assessment reset", "project", id, "vms", len(vms))
	return nil
}

// Bandwidth returns the current four-stage pipeline model. Derived on the
// fly from project parameters; nothing is persisted.
func (s *PlanService) Bandwidth(ctx context.Context, id uuid.UUID) (*api.BandwidthModel, error) {
	project, err := s.store.Project().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrProjectNotFound(id)
		}
		return nil, err
	}
	model := planning.ComputeBandwidth(project)
	return &model, nil
}

// TenantPlans aggregates the assessed VM set per tenant. Priorities default
// to zero; callers supply a map to rank tenants for scheduling.
func (s *PlanService) TenantPlans(ctx context.Context, id uuid.UUID, priorities map[string]int) ([]api.TenantPlan, error) {
	_, vms, err := s.projectWithVMs(ctx, id)
	if err != nil {
		return nil, err
	}
	return planning.BuildTenantPlans(vms, priorities), nil
}

// GenerateSchedule builds the day-by-day execution plan and writes each VM's
// assigned day back to the store. A zero slot override uses the agent fleet
// capacity (agent_count x concurrent_vms_per_agent).
func (s *PlanService) GenerateSchedule(ctx context.Context, id uuid.UUID, priorities map[string]int, slotOverride int) (*api.Schedule, error) {
	project, vms, err := s.projectWithVMs(ctx, id)
	if err != nil {
		return nil, err
	}
	if project.Locked() {
		return nil, NewErrProjectStateConflict(id, string(project.Status), "generate schedule")
	}

	slots := slotOverride
	if slots <= 0 {
		slots = project.Agents.AgentCount * project.Agents.ConcurrentVMsPerAgent
	}

	schedule, placements, err := planning.BuildSchedule(planning.ScheduleInput{
		VMs:              vms,
		TenantPriorities: priorities,
		DailySlots:       slots,
	})
	if err != nil {
		// Both failure modes indicate a misconfigured project, not a
		// server fault.
		if errors.Is(err, planning.ErrEmptyVMSet) || errors.Is(err, planning.ErrZeroCapacity) {
			return nil, NewErrInvalidRequest(err.Error())
		}
		return nil, err
	}

	for _, p := range placements {
		vms[p.VMIndex].ScheduleDay = p.Day
		vms[p.VMIndex].Status = api.VMStatusAssigned
	}
	if err := s.store.VM().UpdateBatch(ctx, id, vms); err != nil {
		return nil, err
	}

	zap.S().Named("plan_service").Infow("schedule generated",
		"project", id, "days", schedule.EstimatedDays, "slots", schedule.DailySlots)
	return schedule, nil
}

// ResetSchedule unassigns every scheduled VM. Assessment results are kept;
// the project stays assessed.
func (s *PlanService) ResetSchedule(ctx context.Context, id uuid.UUID) error {
	project, vms, err := s.projectWithVMs(ctx, id)
	if err != nil {
		return err
	}
	if project.Locked() {
		return NewErrProjectStateConflict(id, string(project.Status), "reset schedule")
	}

	for i := range vms {
		vms[i].ScheduleDay = 0
		if vms[i].Status == api.VMStatusAssigned {
			vms[i].Status = api.VMStatusNotStarted
		}
	}
	if err := s.store.VM().UpdateBatch(ctx, id, vms); err != nil {
		return err
	}

	zap.S().Named("plan_service").Infow("schedule reset", "project", id)
	return nil
}

// Quotas computes per-tenant effective quota under the project's overcommit
// profile.
func (s *PlanService) Quotas(ctx context.Context, id uuid.UUID, priorities map[string]int) ([]api.QuotaRequirement, error) {
	project, vms, err := s.projectWithVMs(ctx, id)
	if err != nil {
		return nil, err
	}
	plans := planning.BuildTenantPlans(vms, priorities)
	profile := planning.LookupOvercommitProfile(project.OvercommitProfile)
	return planning.ComputeQuotas(plans, profile), nil
}

// NodeSizing derives the HA-aware target node count for a candidate node
// hardware shape.
func (s *PlanService) NodeSizing(ctx context.Context, id uuid.UUID, profile *api.NodeProfile, policy planning.RedundancyPolicy) (*api.NodeSizing, error) {
	quotas, err := s.Quotas(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	sizing, err := planning.ComputeNodeSizing(quotas, profile, policy)
	if err != nil {
		if errors.Is(err, planning.ErrNoNodeProfile) {
			return nil, NewErrInvalidRequest(err.Error())
		}
		return nil, err
	}
	return sizing, nil
}

// RunGapAnalysis compares the VM set against a target platform snapshot and
// replaces the project's stored gap list with the result. A nil snapshot
// clears the list: without target inventory nothing can be determined.
func (s *PlanService) RunGapAnalysis(ctx context.Context, id uuid.UUID, snapshot *api.TargetSnapshot) ([]api.Gap, error) {
	project, vms, err := s.projectWithVMs(ctx, id)
	if err != nil {
		return nil, err
	}
	if project.Locked() {
		return nil, NewErrProjectStateConflict(id, string(project.Status), "run gap analysis")
	}

	gaps := planning.AnalyzeGaps(vms, snapshot)
	stored, err := s.store.Gap().ReplaceForProject(ctx, id, gaps)
	if err != nil {
		return nil, err
	}

	zap.S().Named("plan_service").Infow("gap analysis complete", "project", id, "gaps", len(stored))
	return stored, nil
}

func (s *PlanService) ListGaps(ctx context.Context, id uuid.UUID) ([]api.Gap, error) {
	if _, err := s.store.Project().Get(ctx, id); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrProjectNotFound(id)
		}
		return nil, err
	}
	return s.store.Gap().List(ctx, id)
}

// ResolveGap marks one gap resolved with an operator-supplied note.
func (s *PlanService) ResolveGap(ctx context.Context, id uuid.UUID, gapID uint, resolution string) error {
	if _, err := s.store.Project().Get(ctx, id); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return NewErrProjectNotFound(id)
		}
		return err
	}
	if err := s.store.Gap().Resolve(ctx, id, gapID, resolution); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return NewErrGapNotFound(id, gapID)
		}
		return err
	}
	return nil
}
