package v1alpha1

import "github.com/google/uuid"

type OSFamily string

const (
	OSFamilyWindows OSFamily = "windows"
	OSFamilyLinux   OSFamily = "linux"
	OSFamilyOther   OSFamily = "other"
	OSFamilyUnknown OSFamily = "unknown"
)

type NetworkType string

const (
	NetworkTypeManagement NetworkType = "management"
	NetworkTypeStorage    NetworkType = "storage"
	NetworkTypeVMotion    NetworkType = "vmotion"
	NetworkTypeProduction NetworkType = "production"
	NetworkTypeUnknown    NetworkType = "unknown"
)

type RiskCategory string

const (
	RiskCategoryGreen  RiskCategory = "GREEN"
	RiskCategoryYellow RiskCategory = "YELLOW"
	RiskCategoryRed    RiskCategory = "RED"
)

type MigrationMode string

const (
	MigrationModeWarm         MigrationMode = "warm"
	MigrationModeWarmRisky    MigrationMode = "warm_risky"
	MigrationModeColdRequired MigrationMode = "cold_required"
)

type VMStatus string

const (
	VMStatusNotStarted VMStatus = "not_started"
	VMStatusAssigned   VMStatus = "assigned"
	VMStatusInProgress VMStatus = "in_progress"
	VMStatusMigrated   VMStatus = "migrated"
	VMStatusFailed     VMStatus = "failed"
	VMStatusSkipped    VMStatus = "skipped"
)

// UnassignedTenant is the sentinel tenant for VMs no heuristic matched.
const UnassignedTenant = "unassigned"

// VM is one normalized inventory row plus its derived assessment fields.
type VM struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"projectId"`
	SourceRow int       `json:"sourceRow"`

	Name        string `json:"name"`
	Tenant      string `json:"tenant"`
	VCPU        int    `json:"vcpu"`
	RamMB       int    `json:"ramMb"`
	DiskGB      float64 `json:"diskGb"`
	InUseDiskGB float64 `json:"inUseDiskGb"`
	GuestOS     string `json:"guestOs"`
	PowerState  string `json:"powerState"`
	NetworkName string `json:"networkName"`
	IPAddress   string `json:"ipAddress,omitempty"`
	NicCount    int    `json:"nicCount"`
	HasSnapshot bool   `json:"hasSnapshot"`
	Folder      string `json:"folder,omitempty"`
	Cluster     string `json:"cluster,omitempty"`
	OrgVDC      string `json:"orgVdc,omitempty"`

	OSFamily    OSFamily    `json:"osFamily"`
	OSVersion   string      `json:"osVersion,omitempty"`
	NetworkType NetworkType `json:"networkType"`
	VlanID      int         `json:"vlanId,omitempty"`

	RiskScore          float64        `json:"riskScore"`
	RiskCategory       RiskCategory   `json:"riskCategory,omitempty"`
	MigrationMode      MigrationMode  `json:"migrationMode,omitempty"`
	ManualModeOverride *MigrationMode `json:"manualModeOverride,omitempty"`
	Excluded           bool           `json:"excluded"`
	ExcludeReason      string         `json:"excludeReason,omitempty"`
	Priority           int            `json:"priority"`
	Status             VMStatus       `json:"status"`

	Phase1Hours  float64 `json:"phase1Hours"`
	CutoverHours float64 `json:"cutoverHours"`
	ScheduleDay  int     `json:"scheduleDay,omitempty"`
}

type VMList []VM

// InScope reports whether the VM participates in planning aggregates.
func (v *VM) InScope() bool {
	return !v.Excluded
}

// EffectiveMode returns the manual override when set, else the computed mode.
func (v *VM) EffectiveMode() MigrationMode {
	if v.ManualModeOverride != nil {
		return *v.ManualModeOverride
	}
	return v.MigrationMode
}

// TotalHours is the full estimated transfer time for the VM.
func (v *VM) TotalHours() float64 {
	return v.Phase1Hours + v.CutoverHours
}
