package planning

import (
	"fmt"
	"slices"
	"sort"

	api "github.com/cloudpivot/migration-planner/api/v1alpha1"
)

// FlavorName derives the implied flavor shape of a VM, normalized to the
// target platform's naming.
func FlavorName(vm *api.VM) string {
	ramGB := (vm.RamMB + 1023) / 1024
	return fmt.Sprintf("c%d-m%d", vm.VCPU, ramGB)
}

// ImageName derives the referenced OS image from the classified OS family
// and version.
func ImageName(vm *api.VM) string {
	if vm.OSVersion != "" {
		return fmt.Sprintf("%s-%s", vm.OSFamily, vm.OSVersion)
	}
	return string(vm.OSFamily)
}

// AnalyzeGaps diffs the resources the in-scope VMs require — implied flavors,
// referenced networks and images, tenant target mappings — against the target
// platform snapshot.
//
// Missing flavors and images are warnings (resolvable in minutes); missing
// networks and unmapped tenants are critical because they block the affected
// VMs. A nil snapshot means the target inventory could not be determined:
// no gaps are emitted rather than guessed. Output is sorted by type then
// resource name so repeated runs are byte-for-byte identical.
func AnalyzeGaps(vms api.VMList, snapshot *api.TargetSnapshot) []api.Gap {
	if snapshot == nil {
		return nil
	}

	gaps := []api.Gap{}
	seenFlavors := map[string]bool{}
	seenNetworks := map[string]bool{}
	seenImages := map[string]bool{}
	seenTenants := map[string]bool{}

	for i := range vms {
		vm := &vms[i]
		if !vm.InScope() {
			continue
		}

		if flavor := FlavorName(vm); !seenFlavors[flavor] {
			seenFlavors[flavor] = true
			if !slices.Contains(snapshot.Flavors, flavor) {
				gaps = append(gaps, api.Gap{
					Type:         api.GapTypeMissingFlavor,
					Severity:     api.GapSeverityWarning,
					ResourceName: flavor,
					Resolution:   fmt.Sprintf("create flavor %s (%d vCPU, %d MB RAM)", flavor, vm.VCPU, vm.RamMB),
				})
			}
		}

		if vm.NetworkName != "" && !seenNetworks[vm.NetworkName] {
			seenNetworks[vm.NetworkName] = true
			if !slices.Contains(snapshot.Networks, vm.NetworkName) {
				gaps = append(gaps, api.Gap{
					Type:         api.GapTypeMissingNetwork,
					Severity:     api.GapSeverityCritical,
					ResourceName: vm.NetworkName,
					Resolution:   fmt.Sprintf("provision network %s (VLAN %d) on the target platform", vm.NetworkName, vm.VlanID),
				})
			}
		}

		if image := ImageName(vm); !seenImages[image] {
			seenImages[image] = true
			if !slices.Contains(snapshot.Images, image) {
				gaps = append(gaps, api.Gap{
					Type:         api.GapTypeMissingImage,
					Severity:     api.GapSeverityWarning,
					ResourceName: image,
					Resolution:   fmt.Sprintf("upload image %s to the target image store", image),
				})
			}
		}

		if !seenTenants[vm.Tenant] {
			seenTenants[vm.Tenant] = true
			if _, mapped := snapshot.TenantMappings[vm.Tenant]; !mapped {
				gaps = append(gaps, api.Gap{
					Type:         api.GapTypeUnmappedTenant,
					Severity:     api.GapSeverityCritical,
					ResourceName: vm.Tenant,
					Tenant:       vm.Tenant,
					Resolution:   fmt.Sprintf("map tenant %s to a target domain/project", vm.Tenant),
				})
			}
		}
	}

	sort.Slice(gaps, func(i, j int) bool {
		if gaps[i].Type != gaps[j].Type {
			return gaps[i].Type < gaps[j].Type
		}
		return gaps[i].ResourceName < gaps[j].ResourceName
	})
	return gaps
}
