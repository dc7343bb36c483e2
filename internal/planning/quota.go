package planning

import (
	"errors"
	"math"

	api "github.com/cloudpivot/migration-planner/api/v1alpha1"
)

// ErrNoNodeProfile signals a node sizing request without a target shape.
var ErrNoNodeProfile = errors.New("no node profile provided")

// OvercommitProfiles are the named presets. Disk is never overcommitted,
// so profiles carry CPU and RAM ratios only.
var OvercommitProfiles = map[string]api.OvercommitProfile{
	"conservative": {Name: "conservative", CPURatio: 1.0, RAMRatio: 1.0},
	"balanced":     {Name: "balanced", CPURatio: 4.0, RAMRatio: 1.5},
	"aggressive":   {Name: "aggressive", CPURatio: 8.0, RAMRatio: 2.0},
}

// LookupOvercommitProfile resolves a profile name, defaulting to balanced.
func LookupOvercommitProfile(name string) api.OvercommitProfile {
	if profile, ok := OvercommitProfiles[name]; ok {
		return profile
	}
	return OvercommitProfiles["balanced"]
}

// ComputeQuotas divides the per-tenant totals by the overcommit ratios to
// produce the effective quota each tenant needs on the target platform.
// Disk passes through 1:1. Excluded tenants need no quota and are skipped.
func ComputeQuotas(plans []api.TenantPlan, profile api.OvercommitProfile) []api.QuotaRequirement {
	quotas := make([]api.QuotaRequirement, 0, len(plans))
	for _, plan := range plans {
		if plan.Excluded {
			continue
		}
		quotas = append(quotas, api.QuotaRequirement{
			Tenant:         plan.Tenant,
			EffectiveVCPU:  float64(plan.TotalVCPU) / profile.CPURatio,
			EffectiveRamMB: float64(plan.TotalRamMB) / profile.RAMRatio,
			DiskGB:         plan.TotalDiskGB,
			Profile:        profile.Name,
		})
	}
	return quotas
}

// RedundancyPolicy is the HA headroom policy for node sizing.
type RedundancyPolicy int

const (
	RedundancyNPlus1 RedundancyPolicy = 1
	RedundancyNPlus2 RedundancyPolicy = 2
)

// ComputeNodeSizing derives the HA-aware target node count from the total
// effective quota requirement and a node hardware shape.
//
// Base count is ceil(requirement / capacity) per resource dimension, plus the
// redundancy count. The HA headroom invariant then applies: removing any
// single node from the recommendation must leave enough capacity for the
// total requirement. The count is incremented until the invariant holds.
func ComputeNodeSizing(quotas []api.QuotaRequirement, profile *api.NodeProfile, policy RedundancyPolicy) (*api.NodeSizing, error) {
	if profile == nil || profile.VCPU <= 0 || profile.RamMB <= 0 {
		return nil, ErrNoNodeProfile
	}

	var totalVCPU, totalRamMB, totalDiskGB float64
	for _, q := range quotas {
		totalVCPU += q.EffectiveVCPU
		totalRamMB += q.EffectiveRamMB
		totalDiskGB += q.DiskGB
	}

	required := nodesFor(totalVCPU, float64(profile.VCPU))
	if n := nodesFor(totalRamMB, float64(profile.RamMB)); n > required {
		required = n
	}
	if profile.DiskGB > 0 {
		if n := nodesFor(totalDiskGB, profile.DiskGB); n > required {
			required = n
		}
	}
	if required < 1 {
		required = 1
	}

	total := required + int(policy)
	for !haHeadroomHolds(total, profile, totalVCPU, totalRamMB, totalDiskGB) {
		total++
	}

	return &api.NodeSizing{
		RequiredNodes:  required,
		RedundantNodes: total - required,
		TotalNodes:     total,
		TotalVCPU:      totalVCPU,
		TotalRamMB:     totalRamMB,
		TotalDiskGB:    totalDiskGB,
		Profile:        profile.Name,
	}, nil
}

func nodesFor(requirement, capacity float64) int {
	if capacity <= 0 {
		return 0
	}
	return int(math.Ceil(requirement / capacity))
}

// haHeadroomHolds checks that N-1 nodes still cover the total requirement.
func haHeadroomHolds(total int, profile *api.NodeProfile, vcpu, ramMB, diskGB float64) bool {
	remaining := float64(total - 1)
	if remaining*float64(profile.VCPU) < vcpu {
		return false
	}
	if remaining*float64(profile.RamMB) < ramMB {
		return false
	}
	if profile.DiskGB > 0 && remaining*profile.DiskGB < diskGB {
		return false
	}
	return true
}
