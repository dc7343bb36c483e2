package inventory

import (
	api "github.com/cloudpivot/migration-planner/api/v1alpha1"
)

// Canonical field names the normalizer extracts from a raw row.
const (
	fieldName       = "name"
	fieldTenant     = "tenant"
	fieldVCPU       = "vcpu"
	fieldRamMB      = "ram_mb"
	fieldDiskGB     = "disk_gb"
	fieldDiskMiB    = "disk_mib"
	fieldInUseGB    = "in_use_gb"
	fieldInUseMiB   = "in_use_mib"
	fieldGuestOS    = "guest_os"
	fieldPowerState = "power_state"
	fieldNetwork    = "network"
	fieldIPAddress  = "ip_address"
	fieldNicCount   = "nic_count"
	fieldSnapshot   = "snapshot"
	fieldFolder     = "folder"
	fieldCluster    = "cluster"
	fieldOrgVDC     = "org_vdc"
)

type fieldAlias struct {
	canonical string
	aliases   []string
}

// aliasTable maps known header variants to canonical fields. Ordered,
// first-match-wins per field; matching is case- and whitespace-insensitive.
var aliasTable = []fieldAlias{
	{fieldName, []string{"vm", "vm name", "name", "virtual machine", "server name"}},
	{fieldTenant, []string{"tenant", "tenant name", "customer", "organization"}},
	{fieldVCPU, []string{"cpus", "vcpu", "vcpus", "cpu count", "num cpu"}},
	{fieldRamMB, []string{"memory", "memory mb", "ram mb", "ram", "memory size mb"}},
	{fieldDiskGB, []string{"provisioned gb", "disk gb", "total disk gb", "capacity gb", "storage gb"}},
	{fieldDiskMiB, []string{"provisioned mib", "capacity mib", "provisioned mb"}},
	{fieldInUseGB, []string{"in use gb", "used gb", "used disk gb"}},
	{fieldInUseMiB, []string{"in use mib", "in use mb", "used mib"}},
	{fieldGuestOS, []string{"os according to the configuration file", "os according to the vmware tools", "guest os", "os", "operating system"}},
	{fieldPowerState, []string{"powerstate", "power state", "power", "state"}},
	{fieldNetwork, []string{"network #1", "network", "network name", "portgroup", "port group"}},
	{fieldIPAddress, []string{"primary ip address", "ip address", "ip"}},
	{fieldNicCount, []string{"nics", "nic count", "num nics", "network adapters"}},
	{fieldSnapshot, []string{"snapshot", "snapshots", "has snapshot"}},
	{fieldFolder, []string{"folder", "folder path", "vm folder"}},
	{fieldCluster, []string{"cluster", "cluster name", "host cluster"}},
	{fieldOrgVDC, []string{"org vdc", "orgvdc", "vdc", "virtual datacenter"}},
}

// resolveColumns maps each canonical field to its column index, taking the
// first alias present in the header. Fields with no matching column are absent.
func resolveColumns(header []string) map[string]int {
	colMap := buildColumnMap(header)
	resolved := make(map[string]int, len(aliasTable))
	for _, fa := range aliasTable {
		for _, alias := range fa.aliases {
			if idx, ok := colMap[normalizeHeader(alias)]; ok {
				resolved[fa.canonical] = idx
				break
			}
		}
	}
	return resolved
}

// Normalize converts raw rows into structured VM records, one per input row.
// Missing columns yield zero values and unparseable numerics are coerced to
// zero; rows are never dropped, so totals stay reconcilable against the
// source row count. Each record carries its source row index.
func Normalize(rows *Rows) api.VMList {
	cols := resolveColumns(rows.Header)

	vms := make(api.VMList, 0, len(rows.Data))
	for i, row := range rows.Data {
		vm := api.VM{
			SourceRow:   i,
			Name:        getColumnValue(row, cols, fieldName),
			Tenant:      getColumnValue(row, cols, fieldTenant),
			VCPU:        parseIntOrZero(getColumnValue(row, cols, fieldVCPU)),
			RamMB:       parseIntOrZero(getColumnValue(row, cols, fieldRamMB)),
			GuestOS:     getColumnValue(row, cols, fieldGuestOS),
			PowerState:  getColumnValue(row, cols, fieldPowerState),
			NetworkName: getColumnValue(row, cols, fieldNetwork),
			IPAddress:   getColumnValue(row, cols, fieldIPAddress),
			NicCount:    parseIntOrZero(getColumnValue(row, cols, fieldNicCount)),
			HasSnapshot: parseBooleanValue(getColumnValue(row, cols, fieldSnapshot)),
			Folder:      getColumnValue(row, cols, fieldFolder),
			Cluster:     getColumnValue(row, cols, fieldCluster),
			OrgVDC:      getColumnValue(row, cols, fieldOrgVDC),
			Status:      api.VMStatusNotStarted,
		}

		vm.DiskGB = diskGB(row, cols, fieldDiskGB, fieldDiskMiB)
		vm.InUseDiskGB = diskGB(row, cols, fieldInUseGB, fieldInUseMiB)

		vms = append(vms, vm)
	}

	return vms
}

// diskGB prefers a GB column and falls back to a MiB column converted to GB.
func diskGB(row []string, cols map[string]int, gbField, mibField string) float64 {
	if v := getColumnValue(row, cols, gbField); v != "" {
		return parseFloatOrZero(v)
	}
	if v := getColumnValue(row, cols, mibField); v != "" {
		return parseFloatOrZero(v) / 1024.0
	}
	return 0
}
