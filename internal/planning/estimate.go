package planning

import (
	"math"

	api "github.com/cloudpivot/migration-planner/api/v1alpha1"
)

// Estimate is the per-VM transfer time breakdown in hours. For cold VMs the
// whole duration is downtime; for warm VMs only the cutover is.
type Estimate struct {
	Phase1Hours  float64
	CutoverHours float64
}

// TotalHours returns the full transfer time at full precision.
func (e Estimate) TotalHours() float64 {
	return e.Phase1Hours + e.CutoverHours
}

// EstimateVM converts disk size and the bottleneck throughput into a duration.
//
// Cold VMs get a single downtime window covering the full copy. Warm VMs get
// an initial full copy (no downtime) plus a delta cutover sized by the daily
// change rate. Hours are carried at full precision; rounding happens only at
// display time.
func EstimateVM(vm *api.VM, bottleneckMbps, dailyChangeRatePct float64) Estimate {
	if bottleneckMbps <= 0 || vm.DiskGB <= 0 {
		return Estimate{}
	}

	fullCopyHours := vm.DiskGB * 8.0 / bottleneckMbps

	switch vm.EffectiveMode() {
	case api.MigrationModeColdRequired:
		return Estimate{CutoverHours: fullCopyHours}
	default:
		deltaGB := vm.DiskGB * dailyChangeRatePct / 100.0
		return Estimate{
			Phase1Hours:  fullCopyHours,
			CutoverHours: deltaGB * 8.0 / bottleneckMbps,
		}
	}
}

// RoundHours rounds a duration for display to two decimal places.
func RoundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
