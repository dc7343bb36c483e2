package planning

import (
	api "github.com/cloudpivot/migration-planner/api/v1alpha1"
)

// AssessmentResult bundles the outputs of one assessment pass.
type AssessmentResult struct {
	VMs       api.VMList
	Bandwidth api.BandwidthModel
}

// Assess runs the full per-VM assessment: risk scoring, mode classification
// and time estimation, over the current bandwidth model.
//
// Excluded VMs keep their raw attributes but receive no mode or estimate.
// A VM with a manual mode override skips mode classification but is still
// scored for reporting. The input slice is not mutated.
func Assess(project *api.Project, vms api.VMList) AssessmentResult {
	bandwidth := ComputeBandwidth(project)
	rules := EffectiveRiskRules(project.RiskRules)
	policy := ModePolicy{
		WarmDiskCeilingGB:   project.WarmDiskCeilingGB,
		DailyChangeRatePct:  project.DailyChangeRatePct,
		CutoverWindowHours:  project.WarmCutoverWindowH,
		DowntimeBudgetHours: project.DowntimeBudgetH,
		BottleneckMbps:      bandwidth.BottleneckMbps,
	}

	assessed := make(api.VMList, len(vms))
	copy(assessed, vms)

	for i := range assessed {
		vm := &assessed[i]

		vm.RiskScore = ScoreRisk(vm, rules)
		vm.RiskCategory = CategorizeRisk(vm.RiskScore, rules)

		if !vm.InScope() {
			vm.MigrationMode = ""
			vm.Phase1Hours = 0
			vm.CutoverHours = 0
			continue
		}

		vm.MigrationMode = ClassifyMode(vm, policy)

		est := EstimateVM(vm, bandwidth.BottleneckMbps, project.DailyChangeRatePct)
		vm.Phase1Hours = est.Phase1Hours
		vm.CutoverHours = est.CutoverHours
	}

	return AssessmentResult{VMs: assessed, Bandwidth: bandwidth}
}
