package planning

import (
	api "github.com/cloudpivot/migration-planner/api/v1alpha1"
)

// ModePolicy carries the project parameters feeding the mode decision.
type ModePolicy struct {
	WarmDiskCeilingGB  float64
	DailyChangeRatePct float64
	CutoverWindowHours float64
	DowntimeBudgetHours float64
	BottleneckMbps     float64
}

// ClassifyMode decides warm / warm_risky / cold_required for one VM.
//
// The checks run in a fixed order and earlier checks win:
//  1. a manual override skips everything else,
//  2. RED risk or an unsupported OS family forces cold_required,
//  3. a disk above the warm-feasibility ceiling, or a projected delta sync
//     that exceeds the downtime budget, downgrades to warm_risky,
//  4. otherwise warm.
//
// Reordering these checks changes outcomes for borderline VMs.
func ClassifyMode(vm *api.VM, policy ModePolicy) api.MigrationMode {
	if vm.ManualModeOverride != nil {
		return *vm.ManualModeOverride
	}

	if vm.RiskCategory == api.RiskCategoryRed || osUnsupported(vm.OSFamily) {
		return api.MigrationModeColdRequired
	}

	if policy.WarmDiskCeilingGB > 0 && vm.DiskGB > policy.WarmDiskCeilingGB {
		return api.MigrationModeWarmRisky
	}
	if deltaExceedsBudget(vm.DiskGB, policy) {
		return api.MigrationModeWarmRisky
	}

	return api.MigrationModeWarm
}

func osUnsupported(family api.OSFamily) bool {
	return family == api.OSFamilyOther || family == api.OSFamilyUnknown
}

// deltaExceedsBudget projects the daily change rate into a delta-sync time
// and checks it against the acceptable downtime. The tighter of the cutover
// window and the downtime budget applies when both are configured.
func deltaExceedsBudget(diskGB float64, policy ModePolicy) bool {
	if policy.BottleneckMbps <= 0 {
		return false
	}
	budget := policy.DowntimeBudgetHours
	if policy.CutoverWindowHours > 0 && (budget <= 0 || policy.CutoverWindowHours < budget) {
		budget = policy.CutoverWindowHours
	}
	if budget <= 0 {
		return false
	}
	deltaGB := diskGB * policy.DailyChangeRatePct / 100.0
	deltaHours := deltaGB * 8.0 / policy.BottleneckMbps
	return deltaHours > budget
}
