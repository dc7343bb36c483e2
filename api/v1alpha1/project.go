package v1alpha1

import (
	"time"

	"github.com/google/uuid"
)

type Topology string

const (
	TopologyLocal             Topology = "local"
	TopologyCrossSiteDedicated Topology = "cross_site_dedicated"
	TopologyCrossSiteInternet  Topology = "cross_site_internet"
)

type ProjectStatus string

const (
	ProjectStatusCreated  ProjectStatus = "created"
	ProjectStatusPopulated ProjectStatus = "populated"
	ProjectStatusAssessed ProjectStatus = "assessed"
	ProjectStatusApproved ProjectStatus = "approved"
	ProjectStatusArchived ProjectStatus = "archived"
)

// BandwidthParams holds the nominal capacities and usable-percentage derates
// of the transfer pipeline. Speeds are in Mbps, percentages in [0,100].
type BandwidthParams struct {
	SourceNicSpeedMbps    float64 `json:"sourceNicSpeedMbps"`
	SourceUsablePct       float64 `json:"sourceUsablePct"`
	LinkSpeedMbps         float64 `json:"linkSpeedMbps"`
	LinkUsablePct         float64 `json:"linkUsablePct"`
	SourceUploadMbps      float64 `json:"sourceUploadMbps,omitempty"`
	DestDownloadMbps      float64 `json:"destDownloadMbps,omitempty"`
	RoundTripMs           float64 `json:"roundTripMs,omitempty"`
	TargetStorageWriteMbps float64 `json:"targetStorageWriteMbps"`
}

// AgentProfile describes the migration-agent fleet.
type AgentProfile struct {
	AgentCount          int     `json:"agentCount"`
	ConcurrentVMsPerAgent int     `json:"concurrentVmsPerAgent"`
	PerSlotThroughputMbps float64 `json:"perSlotThroughputMbps"`
	NicSpeedMbps        float64 `json:"nicSpeedMbps"`
	NicUsablePct        float64 `json:"nicUsablePct"`
	SlotVCPU            int     `json:"slotVcpu"`
	SlotRamMB           int     `json:"slotRamMb"`
	DiskBufferFactor    float64 `json:"diskBufferFactor"`
}

// Project is a migration engagement over one uploaded inventory.
type Project struct {
	ID                 uuid.UUID       `json:"id"`
	Name               string          `json:"name"`
	Status             ProjectStatus   `json:"status"`
	Topology           Topology        `json:"topology"`
	Bandwidth          BandwidthParams `json:"bandwidth"`
	Agents             AgentProfile    `json:"agents"`
	DailyChangeRatePct float64         `json:"dailyChangeRatePct"`
	WorkingHoursPerDay float64         `json:"workingHoursPerDay"`
	WorkingDaysPerWeek int             `json:"workingDaysPerWeek"`
	WarmCutoverWindowH float64         `json:"warmCutoverWindowHours"`
	DowntimeBudgetH    float64         `json:"downtimeBudgetHours"`
	WarmDiskCeilingGB  float64         `json:"warmDiskCeilingGb"`
	OvercommitProfile  string          `json:"overcommitProfile"`
	RiskRules          *RiskRules      `json:"riskRules,omitempty"`
	ExcludePatterns    []string        `json:"excludePatterns,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// RiskRules are the per-project overridable scoring weights and thresholds.
type RiskRules struct {
	UnsupportedOSWeight   float64 `json:"unsupportedOsWeight"`
	PoweredOffWeight      float64 `json:"poweredOffWeight"`
	OversizedDiskWeight   float64 `json:"oversizedDiskWeight"`
	NoSnapshotWeight      float64 `json:"noSnapshotWeight"`
	UnknownNetworkWeight  float64 `json:"unknownNetworkWeight"`
	DiskCeilingGB         float64 `json:"diskCeilingGb"`
	YellowThreshold       float64 `json:"yellowThreshold"`
	RedThreshold          float64 `json:"redThreshold"`
}

type ProjectList []Project

// Locked reports whether the project no longer accepts planning mutations.
// Approval freezes the plan; archival keeps it frozen.
func (p *Project) Locked() bool {
	return p.Status == ProjectStatusApproved || p.Status == ProjectStatusArchived
}
