package planning

import (
	"sort"

	api "github.com/cloudpivot/migration-planner/api/v1alpha1"
)

// BuildTenantPlans aggregates the in-scope VM list per tenant. Excluded VMs
// never contribute; a tenant whose every VM is excluded still appears in the
// list, flagged Excluded with zero aggregates, so scoping stays visible.
// Output is sorted by tenant name for deterministic reports.
func BuildTenantPlans(vms api.VMList, priorities map[string]int) []api.TenantPlan {
	byTenant := make(map[string]*api.TenantPlan)

	for i := range vms {
		vm := &vms[i]
		if !vm.InScope() {
			continue
		}

		plan, ok := byTenant[vm.Tenant]
		if !ok {
			plan = &api.TenantPlan{
				Tenant:   vm.Tenant,
				Priority: priorities[vm.Tenant],
			}
			byTenant[vm.Tenant] = plan
		}

		plan.VMCount++
		plan.TotalVCPU += vm.VCPU
		plan.TotalRamMB += vm.RamMB
		plan.TotalDiskGB += vm.DiskGB
		plan.TotalHours += vm.TotalHours()

		switch vm.EffectiveMode() {
		case api.MigrationModeWarm:
			plan.WarmCount++
		case api.MigrationModeWarmRisky:
			plan.WarmRiskyCount++
		case api.MigrationModeColdRequired:
			plan.ColdCount++
		}
	}

	for i := range vms {
		vm := &vms[i]
		if vm.InScope() {
			continue
		}
		if _, ok := byTenant[vm.Tenant]; !ok {
			byTenant[vm.Tenant] = &api.TenantPlan{
				Tenant:   vm.Tenant,
				Priority: priorities[vm.Tenant],
				Excluded: true,
			}
		}
	}

	plans := make([]api.TenantPlan, 0, len(byTenant))
	for _, plan := range byTenant {
		plans = append(plans, *plan)
	}
	sort.Slice(plans, func(i, j int) bool {
		return plans[i].Tenant < plans[j].Tenant
	})
	return plans
}

// TenantPriorities derives the tenant priority map from the plans list.
func TenantPriorities(plans []api.TenantPlan) map[string]int {
	priorities := make(map[string]int, len(plans))
	for _, p := range plans {
		priorities[p.Tenant] = p.Priority
	}
	return priorities
}
