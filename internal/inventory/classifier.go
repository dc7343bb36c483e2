package inventory

import (
	"path"
	"regexp"
	"strings"

	api "github.com/cloudpivot/migration-planner/api/v1alpha1"
)

type osRule struct {
	keyword string
	family  api.OSFamily
}

// osFamilyRules are evaluated in order against the lowercased guest OS string;
// first match wins.
var osFamilyRules = []osRule{
	{"windows", api.OSFamilyWindows},
	{"microsoft", api.OSFamilyWindows},
	{"red hat", api.OSFamilyLinux},
	{"rhel", api.OSFamilyLinux},
	{"centos", api.OSFamilyLinux},
	{"ubuntu", api.OSFamilyLinux},
	{"debian", api.OSFamilyLinux},
	{"suse", api.OSFamilyLinux},
	{"sles", api.OSFamilyLinux},
	{"fedora", api.OSFamilyLinux},
	{"oracle linux", api.OSFamilyLinux},
	{"rocky", api.OSFamilyLinux},
	{"alma", api.OSFamilyLinux},
	{"linux", api.OSFamilyLinux},
	{"freebsd", api.OSFamilyOther},
	{"solaris", api.OSFamilyOther},
	{"other", api.OSFamilyOther},
}

type networkRule struct {
	keyword string
	netType api.NetworkType
}

var networkTypeRules = []networkRule{
	{"mgmt", api.NetworkTypeManagement},
	{"management", api.NetworkTypeManagement},
	{"storage", api.NetworkTypeStorage},
	{"iscsi", api.NetworkTypeStorage},
	{"nfs", api.NetworkTypeStorage},
	{"vmotion", api.NetworkTypeVMotion},
	{"vmk", api.NetworkTypeVMotion},
	{"prod", api.NetworkTypeProduction},
	{"app", api.NetworkTypeProduction},
	{"web", api.NetworkTypeProduction},
	{"db", api.NetworkTypeProduction},
}

var (
	osVersionRegex  = regexp.MustCompile(`\b(\d+(?:\.\d+)*)\b`)
	vlanSuffixRegex = regexp.MustCompile(`(?:vlan[_\- ]?)?(\d{1,4})$`)
)

// TenantRule buckets VMs into a tenant when its pattern matches one of the
// VM's folder, cluster or OrgVDC names.
type TenantRule struct {
	Pattern string
	Tenant  string
}

// ClassifierConfig is the read-only rule set passed into each classification
// run. A zero value is valid: everything falls back to sentinel categories.
type ClassifierConfig struct {
	TenantRules     []TenantRule
	ExcludePatterns []string
}

// ClassifyOS matches the free-text guest OS string into a coarse family.
// Unknown when no rule matches.
func ClassifyOS(guestOS string) api.OSFamily {
	s := strings.ToLower(guestOS)
	if s == "" {
		return api.OSFamilyUnknown
	}
	for _, rule := range osFamilyRules {
		if strings.Contains(s, rule.keyword) {
			return rule.family
		}
	}
	return api.OSFamilyUnknown
}

// ExtractOSVersion best-effort parses a version token from the guest OS
// string. Returns empty rather than guessing when ambiguous.
func ExtractOSVersion(guestOS string) string {
	match := osVersionRegex.FindStringSubmatch(guestOS)
	if match == nil {
		return ""
	}
	return match[1]
}

// ClassifyNetwork types the network by keyword to support network-mapping
// gap analysis.
func ClassifyNetwork(networkName string) api.NetworkType {
	s := strings.ToLower(networkName)
	if s == "" {
		return api.NetworkTypeUnknown
	}
	for _, rule := range networkTypeRules {
		if strings.Contains(s, rule.keyword) {
			return rule.netType
		}
	}
	return api.NetworkTypeUnknown
}

// ExtractVlanID pulls a VLAN ID from a numeric suffix on the network name.
// Returns 0 when no suffix is present.
func ExtractVlanID(networkName string) int {
	match := vlanSuffixRegex.FindStringSubmatch(strings.TrimSpace(networkName))
	if match == nil {
		return 0
	}
	return parseIntOrZero(match[1])
}

// AssignTenant buckets the VM to a tenant. An explicit tenant column wins,
// then the configured folder/cluster/OrgVDC rules, then the sentinel tenant.
func AssignTenant(vm *api.VM, rules []TenantRule) string {
	if vm.Tenant != "" {
		return vm.Tenant
	}
	for _, rule := range rules {
		pattern := strings.ToLower(rule.Pattern)
		for _, candidate := range []string{vm.Folder, vm.Cluster, vm.OrgVDC} {
			if candidate == "" {
				continue
			}
			if strings.Contains(strings.ToLower(candidate), pattern) {
				return rule.Tenant
			}
		}
	}
	return api.UnassignedTenant
}

// AutoExcludeReason marks exclusions produced by tenant pattern matching,
// as opposed to operator-set ones. Pattern re-evaluation only touches VMs
// carrying this reason.
const AutoExcludeReason = "tenant matches auto-exclude pattern"

// MatchesExcludePattern reports whether the tenant name matches one of the
// auto-exclude patterns. Patterns are tried as globs first, then as
// case-insensitive substrings.
func MatchesExcludePattern(tenant string, patterns []string) bool {
	lower := strings.ToLower(tenant)
	for _, p := range patterns {
		if matched, err := path.Match(strings.ToLower(p), lower); err == nil && matched {
			return true
		}
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// Classify derives OS, network and tenant attributes on every VM in place,
// then applies tenant auto-exclude patterns. It never fails: unclassifiable
// values resolve to sentinel categories.
func Classify(vms api.VMList, cfg ClassifierConfig) api.VMList {
	for i := range vms {
		vm := &vms[i]
		vm.OSFamily = ClassifyOS(vm.GuestOS)
		vm.OSVersion = ExtractOSVersion(vm.GuestOS)
		vm.NetworkType = ClassifyNetwork(vm.NetworkName)
		vm.VlanID = ExtractVlanID(vm.NetworkName)
		vm.Tenant = AssignTenant(vm, cfg.TenantRules)

		if MatchesExcludePattern(vm.Tenant, cfg.ExcludePatterns) {
			vm.Excluded = true
			vm.ExcludeReason = AutoExcludeReason
		}
	}
	return vms
}
