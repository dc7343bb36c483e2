package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	api "github.com/cloudpivot/migration-planner/api/v1alpha1"
	"github.com/cloudpivot/migration-planner/internal/planning"
	"github.com/cloudpivot/migration-planner/internal/service/report"
	"github.com/cloudpivot/migration-planner/internal/service/report/csv"
	"github.com/cloudpivot/migration-planner/internal/service/report/types"
	"github.com/cloudpivot/migration-planner/internal/service/report/xlsx"
	"github.com/cloudpivot/migration-planner/internal/store"
)

type ReportService struct {
	store     store.Store
	processor *report.PlanProcessor
	renderers map[types.ReportFormat]types.Renderer
}

func NewReportService(store store.Store) *ReportService {
	renderers := make(map[types.ReportFormat]types.Renderer)
	for _, r := range []types.Renderer{csv.NewRenderer(), xlsx.NewRenderer()} {
		renderers[r.SupportedFormat()] = r
	}
	return &ReportService{
		store:     store,
		processor: report.NewPlanProcessor(),
		renderers: renderers,
	}
}

// ContentType returns the MIME type for a report format.
func ContentType(format types.ReportFormat) string {
	switch format {
	case types.ReportFormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv"
	}
}

// Generate renders the current plan state of a project in the requested
// format. Reads only; the report reflects whatever was last assessed.
func (s *ReportService) Generate(ctx context.Context, id uuid.UUID, format types.ReportFormat) ([]byte, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, NewErrInvalidRequest(fmt.Sprintf("unsupported report format %q", format))
	}

	project, err := s.store.Project().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrProjectNotFound(id)
		}
		return nil, err
	}
	vms, err := s.store.VM().List(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(vms) == 0 {
		return nil, NewErrProjectHasNoInventory(id)
	}
	applyAutoExclusions(project, vms)
	gaps, err := s.store.Gap().List(ctx, id)
	if err != nil {
		return nil, err
	}

	bandwidth := planning.ComputeBandwidth(project)
	plans := planning.BuildTenantPlans(vms, nil)
	schedule := scheduleFromVMs(vms, project)

	data := s.processor.Process(project, vms, bandwidth, plans, schedule, gaps)
	return renderer.Render(data)
}

// scheduleFromVMs reconstructs the day view from persisted per-VM day
// assignments. Returns nil when no VM has been scheduled yet.
func scheduleFromVMs(vms api.VMList, project *api.Project) *api.Schedule {
	byDay := make(map[int]*api.ScheduleDay)
	maxDay := 0
	for i := range vms {
		vm := &vms[i]
		if !vm.InScope() || vm.ScheduleDay == 0 {
			continue
		}
		day, ok := byDay[vm.ScheduleDay]
		if !ok {
			day = &api.ScheduleDay{Day: vm.ScheduleDay}
			byDay[vm.ScheduleDay] = day
		}
		day.VMNames = append(day.VMNames, vm.Name)
		day.Hours += vm.TotalHours()
		if vm.ScheduleDay > maxDay {
			maxDay = vm.ScheduleDay
		}
	}
	if len(byDay) == 0 {
		return nil
	}

	schedule := &api.Schedule{
		EstimatedDays: maxDay,
		DailySlots:    project.Agents.AgentCount * project.Agents.ConcurrentVMsPerAgent,
	}
	for d := 1; d <= maxDay; d++ {
		if day, ok := byDay[d]; ok {
			schedule.Days = append(schedule.Days, *day)
		}
	}
	return schedule
}
