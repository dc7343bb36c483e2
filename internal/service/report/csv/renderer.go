package csv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/cloudpivot/migration-planner/internal/service/report/types"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) SupportedFormat() types.ReportFormat {
	return types.ReportFormatCSV
}

func (r *Renderer) Render(data *types.ReportData) ([]byte, error) {
	var rows [][]string

	rows = append(rows, []string{"MIGRATION PLAN REPORT"})
	rows = append(rows, []string{fmt.Sprintf("Project: %s", data.Project.Name)})
	rows = append(rows, []string{fmt.Sprintf("Generated: %s", data.GeneratedAt)})
	rows = append(rows, []string{""})

	rows = r.addSummary(rows, data)
	rows = r.addBandwidth(rows, data)
	rows = r.addTenantPlans(rows, data)
	rows = r.addVMs(rows, data)
	rows = r.addSchedule(rows, data)
	rows = r.addGaps(rows, data)

	return r.encode(rows)
}

func (r *Renderer) addSummary(rows [][]string, data *types.ReportData) [][]string {
	s := data.Summary
	rows = append(rows, []string{"SUMMARY"})
	rows = append(rows, []string{"Metric", "Value"})
	rows = append(rows, []string{"Total VMs", strconv.Itoa(s.TotalVMs)})
	rows = append(rows, []string{"In Scope", strconv.Itoa(s.InScopeVMs)})
	rows = append(rows, []string{"Excluded", strconv.Itoa(s.ExcludedVMs)})
	rows = append(rows, []string{"Total Disk (GB)", formatFloat(s.TotalDiskGB)})
	rows = append(rows, []string{"Total vCPU", strconv.Itoa(s.TotalVCPU)})
	rows = append(rows, []string{"Total RAM (MB)", strconv.Itoa(s.TotalRamMB)})
	rows = append(rows, []string{"Estimated Transfer (hours)", formatFloat(s.TotalHours)})
	rows = append(rows, []string{"Warm", strconv.Itoa(s.Modes.Warm)})
	rows = append(rows, []string{"Warm (risky)", strconv.Itoa(s.Modes.WarmRisky)})
	rows = append(rows, []string{"Cold required", strconv.Itoa(s.Modes.Cold)})
	rows = append(rows, []string{"Risk GREEN", strconv.Itoa(s.Risks.Green)})
	rows = append(rows, []string{"Risk YELLOW", strconv.Itoa(s.Risks.Yellow)})
	rows = append(rows, []string{"Risk RED", strconv.Itoa(s.Risks.Red)})
	if s.EstimatedDays > 0 {
		rows = append(rows, []string{"Estimated Days", strconv.Itoa(s.EstimatedDays)})
	}
	rows = append(rows, []string{""})
	return rows
}

func (r *Renderer) addBandwidth(rows [][]string, data *types.ReportData) [][]string {
	b := data.Bandwidth
	rows = append(rows, []string{"BANDWIDTH PIPELINE"})
	rows = append(rows, []string{"Stage", "Effective Mbps"})
	rows = append(rows, []string{"Source NIC", formatFloat(b.SourceNicMbps)})
	rows = append(rows, []string{"Transport Link", formatFloat(b.TransportLinkMbps)})
	rows = append(rows, []string{"Agent Ingest", formatFloat(b.AgentIngestMbps)})
	rows = append(rows, []string{"Storage Write", formatFloat(b.StorageWriteMbps)})
	rows = append(rows, []string{"Bottleneck", fmt.Sprintf("%s (%s Mbps)", b.Bottleneck, formatFloat(b.BottleneckMbps))})
	rows = append(rows, []string{""})
	return rows
}

func (r *Renderer) addTenantPlans(rows [][]string, data *types.ReportData) [][]string {
	if len(data.TenantPlans) == 0 {
		return rows
	}
	rows = append(rows, []string{"TENANT PLANS"})
	rows = append(rows, []string{"Tenant", "Priority", "VMs", "vCPU", "RAM (MB)", "Disk (GB)", "Warm", "Warm Risky", "Cold", "Hours", "Excluded"})
	for _, p := range data.TenantPlans {
		rows = append(rows, []string{
			p.Tenant,
			strconv.Itoa(p.Priority),
			strconv.Itoa(p.VMCount),
			strconv.Itoa(p.TotalVCPU),
			strconv.Itoa(p.TotalRamMB),
			formatFloat(p.TotalDiskGB),
			strconv.Itoa(p.WarmCount),
			strconv.Itoa(p.WarmRiskyCount),
			strconv.Itoa(p.ColdCount),
			formatFloat(p.TotalHours),
			strconv.FormatBool(p.Excluded),
		})
	}
	rows = append(rows, []string{""})
	return rows
}

func (r *Renderer) addVMs(rows [][]string, data *types.ReportData) [][]string {
	rows = append(rows, []string{"VIRTUAL MACHINES"})
	rows = append(rows, []string{"Name", "Tenant", "OS Family", "Disk (GB)", "Risk", "Category", "Mode", "Phase1 (h)", "Cutover (h)", "Day", "Excluded"})
	for i := range data.VMs {
		vm := &data.VMs[i]
		mode := string(vm.EffectiveMode())
		rows = append(rows, []string{
			vm.Name,
			vm.Tenant,
			string(vm.OSFamily),
			formatFloat(vm.DiskGB),
			formatFloat(vm.RiskScore),
			string(vm.RiskCategory),
			mode,
			formatFloat(vm.Phase1Hours),
			formatFloat(vm.CutoverHours),
			strconv.Itoa(vm.ScheduleDay),
			strconv.FormatBool(vm.Excluded),
		})
	}
	rows = append(rows, []string{""})
	return rows
}

func (r *Renderer) addSchedule(rows [][]string, data *types.ReportData) [][]string {
	if data.Schedule == nil {
		return rows
	}
	rows = append(rows, []string{"SCHEDULE"})
	rows = append(rows, []string{"Day", "VMs", "Hours"})
	for _, day := range data.Schedule.Days {
		rows = append(rows, []string{
			strconv.Itoa(day.Day),
			strings.Join(day.VMNames, "; "),
			formatFloat(day.Hours),
		})
	}
	rows = append(rows, []string{""})
	return rows
}

func (r *Renderer) addGaps(rows [][]string, data *types.ReportData) [][]string {
	if len(data.Gaps) == 0 {
		return rows
	}
	rows = append(rows, []string{"TARGET PLATFORM GAPS"})
	rows = append(rows, []string{"Type", "Severity", "Resource", "Tenant", "Resolved"})
	for _, g := range data.Gaps {
		rows = append(rows, []string{
			string(g.Type),
			string(g.Severity),
			g.ResourceName,
			g.Tenant,
			strconv.FormatBool(g.Resolved),
		})
	}
	rows = append(rows, []string{""})
	return rows
}

func (r *Renderer) encode(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV data: %w", err)
	}
	return buf.Bytes(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
