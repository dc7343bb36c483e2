package report

import (
	"time"

	api "github.com/cloudpivot/migration-planner/api/v1alpha1"
	"github.com/cloudpivot/migration-planner/internal/service/report/types"
)

type PlanProcessor struct{}

func NewPlanProcessor() *PlanProcessor {
	return &PlanProcessor{}
}

// Process assembles the full report payload from the project's assessed
// state. Schedule and gaps are optional: a report before scheduling simply
// omits those sections.
func (p *PlanProcessor) Process(project *api.Project, vms api.VMList, bandwidth api.BandwidthModel,
	plans []api.TenantPlan, schedule *api.Schedule, gaps []api.Gap) *types.ReportData {

	return &types.ReportData{
		Project:     project,
		VMs:         vms,
		Bandwidth:   bandwidth,
		TenantPlans: plans,
		Schedule:    schedule,
		Gaps:        gaps,
		Summary:     p.summarize(vms, schedule),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

func (p *PlanProcessor) summarize(vms api.VMList, schedule *api.Schedule) types.SummaryMetrics {
	var summary types.SummaryMetrics
	summary.TotalVMs = len(vms)

	for i := range vms {
		vm := &vms[i]
		if !vm.InScope() {
			summary.ExcludedVMs++
			continue
		}
		summary.InScopeVMs++
		summary.TotalDiskGB += vm.DiskGB
		summary.TotalVCPU += vm.VCPU
		summary.TotalRamMB += vm.RamMB
		summary.TotalHours += vm.TotalHours()

		switch vm.EffectiveMode() {
		case api.MigrationModeWarm:
			summary.Modes.Warm++
		case api.MigrationModeWarmRisky:
			summary.Modes.WarmRisky++
		case api.MigrationModeColdRequired:
			summary.Modes.Cold++
		}

		switch vm.RiskCategory {
		case api.RiskCategoryGreen:
			summary.Risks.Green++
		case api.RiskCategoryYellow:
			summary.Risks.Yellow++
		case api.RiskCategoryRed:
			summary.Risks.Red++
		}
	}

	if schedule != nil {
		summary.EstimatedDays = schedule.EstimatedDays
	}
	return summary
}
