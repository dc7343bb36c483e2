package planning

import (
	"strings"

	api "github.com/cloudpivot/migration-planner/api/v1alpha1"
)

// DefaultRiskRules are the scoring weights and thresholds used when a project
// carries no overrides.
var DefaultRiskRules = api.RiskRules{
	UnsupportedOSWeight:  30,
	PoweredOffWeight:     15,
	OversizedDiskWeight:  25,
	NoSnapshotWeight:     10,
	UnknownNetworkWeight: 20,
	DiskCeilingGB:        2048,
	YellowThreshold:      40,
	RedThreshold:         70,
}

// EffectiveRiskRules merges project overrides over the defaults. Zero-valued
// weights in the override are treated as "use default" so partial overrides
// stay safe.
func EffectiveRiskRules(override *api.RiskRules) api.RiskRules {
	rules := DefaultRiskRules
	if override == nil {
		return rules
	}
	if override.UnsupportedOSWeight > 0 {
		rules.UnsupportedOSWeight = override.UnsupportedOSWeight
	}
	if override.PoweredOffWeight > 0 {
		rules.PoweredOffWeight = override.PoweredOffWeight
	}
	if override.OversizedDiskWeight > 0 {
		rules.OversizedDiskWeight = override.OversizedDiskWeight
	}
	if override.NoSnapshotWeight > 0 {
		rules.NoSnapshotWeight = override.NoSnapshotWeight
	}
	if override.UnknownNetworkWeight > 0 {
		rules.UnknownNetworkWeight = override.UnknownNetworkWeight
	}
	if override.DiskCeilingGB > 0 {
		rules.DiskCeilingGB = override.DiskCeilingGB
	}
	if override.YellowThreshold > 0 {
		rules.YellowThreshold = override.YellowThreshold
	}
	if override.RedThreshold > 0 {
		rules.RedThreshold = override.RedThreshold
	}
	return rules
}

// ScoreRisk computes the weighted risk score of one VM, clamped to [0,100].
// Scoring is pure: the same inputs and rules always yield the same score.
func ScoreRisk(vm *api.VM, rules api.RiskRules) float64 {
	var score float64

	if vm.OSFamily == api.OSFamilyUnknown || vm.OSFamily == api.OSFamilyOther {
		score += rules.UnsupportedOSWeight
	}
	if isPoweredOff(vm.PowerState) {
		score += rules.PoweredOffWeight
	}
	if rules.DiskCeilingGB > 0 && vm.DiskGB > rules.DiskCeilingGB {
		score += rules.OversizedDiskWeight
	}
	if !vm.HasSnapshot {
		score += rules.NoSnapshotWeight
	}
	if vm.NetworkType == api.NetworkTypeUnknown {
		score += rules.UnknownNetworkWeight
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// CategorizeRisk maps a score onto GREEN/YELLOW/RED using the configured
// thresholds.
func CategorizeRisk(score float64, rules api.RiskRules) api.RiskCategory {
	switch {
	case score >= rules.RedThreshold:
		return api.RiskCategoryRed
	case score >= rules.YellowThreshold:
		return api.RiskCategoryYellow
	default:
		return api.RiskCategoryGreen
	}
}

func isPoweredOff(powerState string) bool {
	s := strings.ToLower(strings.TrimSpace(powerState))
	return strings.Contains(s, "off") || strings.Contains(s, "suspend")
}
