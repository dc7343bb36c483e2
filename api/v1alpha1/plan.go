package v1alpha1

// BandwidthStage names one stage of the transfer pipeline.
type BandwidthStage string

const (
	StageSourceNic     BandwidthStage = "source_nic"
	StageTransportLink BandwidthStage = "transport_link"
	StageAgentIngest   BandwidthStage = "agent_ingest"
	StageStorageWrite  BandwidthStage = "storage_write"
)

// BandwidthModel holds the four effective throughputs and the bottleneck.
// It is recomputed from project parameters on demand, never persisted.
type BandwidthModel struct {
	SourceNicMbps     float64        `json:"sourceNicMbps"`
	TransportLinkMbps float64        `json:"transportLinkMbps"`
	AgentIngestMbps   float64        `json:"agentIngestMbps"`
	StorageWriteMbps  float64        `json:"storageWriteMbps"`
	Bottleneck        BandwidthStage `json:"bottleneck"`
	BottleneckMbps    float64        `json:"bottleneckMbps"`
}

// TenantPlan aggregates the in-scope VMs of one tenant.
type TenantPlan struct {
	Tenant       string  `json:"tenant"`
	Priority     int     `json:"priority"`
	Excluded     bool    `json:"excluded"`
	VMCount      int     `json:"vmCount"`
	TotalVCPU    int     `json:"totalVcpu"`
	TotalRamMB   int     `json:"totalRamMb"`
	TotalDiskGB  float64 `json:"totalDiskGb"`
	WarmCount    int     `json:"warmCount"`
	WarmRiskyCount int   `json:"warmRiskyCount"`
	ColdCount    int     `json:"coldCount"`
	TotalHours   float64 `json:"totalHours"`
}

// ScheduleDay is one day of the execution plan.
type ScheduleDay struct {
	Day     int      `json:"day"`
	VMNames []string `json:"vmNames"`
	Hours   float64  `json:"hours"`
}

// Schedule is the derived day-by-day plan. Fully replaceable output.
type Schedule struct {
	Days          []ScheduleDay `json:"days"`
	EstimatedDays int           `json:"estimatedDays"`
	DailySlots    int           `json:"dailySlots"`
}

// OvercommitProfile maps a named preset to resource ratios.
// Disk is never overcommitted.
type OvercommitProfile struct {
	Name     string  `json:"name"`
	CPURatio float64 `json:"cpuRatio"`
	RAMRatio float64 `json:"ramRatio"`
}

// QuotaRequirement is the effective per-tenant quota after overcommit.
type QuotaRequirement struct {
	Tenant          string  `json:"tenant"`
	EffectiveVCPU   float64 `json:"effectiveVcpu"`
	EffectiveRamMB  float64 `json:"effectiveRamMb"`
	DiskGB          float64 `json:"diskGb"`
	Profile         string  `json:"profile"`
}

// NodeProfile is a candidate target-node hardware shape.
type NodeProfile struct {
	Name       string  `json:"name"`
	VCPU       int     `json:"vcpu"`
	RamMB      int     `json:"ramMb"`
	DiskGB     float64 `json:"diskGb"`
}

// NodeInventory records currently available target capacity.
type NodeInventory struct {
	NodeCount int         `json:"nodeCount"`
	Profile   NodeProfile `json:"profile"`
}

// NodeSizing is the derived node count recommendation.
type NodeSizing struct {
	RequiredNodes   int     `json:"requiredNodes"`
	RedundantNodes  int     `json:"redundantNodes"`
	TotalNodes      int     `json:"totalNodes"`
	TotalVCPU       float64 `json:"totalVcpu"`
	TotalRamMB      float64 `json:"totalRamMb"`
	TotalDiskGB     float64 `json:"totalDiskGb"`
	Profile         string  `json:"profile"`
}

type GapType string

const (
	GapTypeMissingFlavor  GapType = "missing_flavor"
	GapTypeMissingNetwork GapType = "missing_network"
	GapTypeMissingImage   GapType = "missing_image"
	GapTypeUnmappedTenant GapType = "unmapped_tenant"
)

type GapSeverity string

const (
	GapSeverityCritical GapSeverity = "critical"
	GapSeverityWarning  GapSeverity = "warning"
	GapSeverityInfo     GapSeverity = "info"
)

// Gap is a mismatch between required and available target resources.
// Only the Resolved flag is operator-mutable.
type Gap struct {
	Id           uint        `json:"id,omitempty"`
	Type         GapType     `json:"type"`
	Severity     GapSeverity `json:"severity"`
	ResourceName string      `json:"resourceName"`
	Tenant       string      `json:"tenant,omitempty"`
	Resolution   string      `json:"resolution,omitempty"`
	Resolved     bool        `json:"resolved"`
}

// TargetSnapshot is a point-in-time view of the target platform inventory.
type TargetSnapshot struct {
	Flavors        []string          `json:"flavors"`
	Networks       []string          `json:"networks"`
	Images         []string          `json:"images"`
	TenantMappings map[string]string `json:"tenantMappings"`
}
