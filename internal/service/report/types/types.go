package types

import (
	api "github.com/cloudpivot/migration-planner/api/v1alpha1"
)

type ReportFormat string

const (
	ReportFormatCSV  ReportFormat = "csv"
	ReportFormatXLSX ReportFormat = "xlsx"
)

// ModeCounts breaks the in-scope VM set down by effective migration mode.
type ModeCounts struct {
	Warm      int
	WarmRisky int
	Cold      int
}

// RiskCounts breaks the scored VM set down by category.
type RiskCounts struct {
	Green  int
	Yellow int
	Red    int
}

// SummaryMetrics are the headline numbers of the plan report.
type SummaryMetrics struct {
	TotalVMs      int
	InScopeVMs    int
	ExcludedVMs   int
	TotalDiskGB   float64
	TotalVCPU     int
	TotalRamMB    int
	TotalHours    float64
	Modes         ModeCounts
	Risks         RiskCounts
	EstimatedDays int
}

// ReportData is everything a format renderer needs to produce a plan report.
type ReportData struct {
	Project     *api.Project
	VMs         api.VMList
	Bandwidth   api.BandwidthModel
	TenantPlans []api.TenantPlan
	Schedule    *api.Schedule
	Gaps        []api.Gap
	Summary     SummaryMetrics
	GeneratedAt string
}

// Renderer turns ReportData into one output format.
type Renderer interface {
	SupportedFormat() ReportFormat
	Render(data *ReportData) ([]byte, error)
}
