package planning

import (
	"errors"
	"sort"

	api "github.com/cloudpivot/migration-planner/api/v1alpha1"
)

var (
	// ErrEmptyVMSet signals a schedule request with nothing to schedule.
	ErrEmptyVMSet = errors.New("no in-scope VMs to schedule")
	// ErrZeroCapacity signals a misconfigured agent fleet.
	ErrZeroCapacity = errors.New("daily slot capacity is zero")
)

// ScheduleInput bundles everything the day scheduler consumes.
type ScheduleInput struct {
	VMs              api.VMList
	TenantPriorities map[string]int
	// DailySlots is agent_count x concurrent_vms_per_agent, or a cohort
	// override when set.
	DailySlots int
}

// Placement records which day a VM was assigned to. VMIndex refers to the
// position in the input VM list, so callers can write the day back even when
// VM names collide.
type Placement struct {
	VMIndex int
	Day     int
}

// BuildSchedule orders the in-scope VMs and greedily bin-packs them into
// days bounded by the daily slot capacity.
//
// Ordering: tenant migration priority ascending, then per-VM priority
// ascending, then disk size descending so the largest VMs front-load risk.
// The ordering is part of the contract: day numbers downstream depend on it.
//
// A VM whose estimated duration exceeds one working day still occupies a
// single starting day; it holds its slot across that day's hours rather than
// spanning calendar days. Day hours therefore accumulate the full per-VM
// estimates of the VMs starting that day.
func BuildSchedule(input ScheduleInput) (*api.Schedule, []Placement, error) {
	inScope := make([]int, 0, len(input.VMs))
	for i := range input.VMs {
		if input.VMs[i].InScope() {
			inScope = append(inScope, i)
		}
	}

	if len(inScope) == 0 {
		return nil, nil, ErrEmptyVMSet
	}
	if input.DailySlots <= 0 {
		return nil, nil, ErrZeroCapacity
	}

	sort.SliceStable(inScope, func(i, j int) bool {
		a, b := &input.VMs[inScope[i]], &input.VMs[inScope[j]]
		pa, pb := input.TenantPriorities[a.Tenant], input.TenantPriorities[b.Tenant]
		if pa != pb {
			return pa < pb
		}
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return a.DiskGB > b.DiskGB
	})

	schedule := &api.Schedule{DailySlots: input.DailySlots}
	placements := make([]Placement, 0, len(inScope))

	var day *api.ScheduleDay
	for _, idx := range inScope {
		vm := &input.VMs[idx]
		if day == nil || len(day.VMNames) >= input.DailySlots {
			schedule.Days = append(schedule.Days, api.ScheduleDay{Day: len(schedule.Days) + 1})
			day = &schedule.Days[len(schedule.Days)-1]
		}
		day.VMNames = append(day.VMNames, vm.Name)
		day.Hours += vm.TotalHours()
		placements = append(placements, Placement{VMIndex: idx, Day: day.Day})
	}

	schedule.EstimatedDays = len(schedule.Days)
	return schedule, placements, nil
}
