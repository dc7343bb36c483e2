package xlsx

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/cloudpivot/migration-planner/internal/service/report/types"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) SupportedFormat() types.ReportFormat {
	return types.ReportFormatXLSX
}

// Render produces a workbook with one sheet per report section. Sheets are
// written even when empty so the workbook shape is stable across projects.
func (r *Renderer) Render(data *types.ReportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := r.writeSummary(f, data); err != nil {
		return nil, err
	}
	if err := r.writeVMs(f, data); err != nil {
		return nil, err
	}
	if err := r.writeTenants(f, data); err != nil {
		return nil, err
	}
	if err := r.writeSchedule(f, data); err != nil {
		return nil, err
	}
	if err := r.writeGaps(f, data); err != nil {
		return nil, err
	}

	// The default sheet excelize creates is replaced by Summary.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) writeSummary(f *excelize.File, data *types.ReportData) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	s := data.Summary
	b := data.Bandwidth
	rows := [][]any{
		{"Project", data.Project.Name},
		{"Generated", data.GeneratedAt},
		{},
		{"Metric", "Value"},
		{"Total VMs", s.TotalVMs},
		{"In Scope", s.InScopeVMs},
		{"Excluded", s.ExcludedVMs},
		{"Total Disk (GB)", s.TotalDiskGB},
		{"Total vCPU", s.TotalVCPU},
		{"Total RAM (MB)", s.TotalRamMB},
		{"Estimated Transfer (hours)", s.TotalHours},
		{"Warm", s.Modes.Warm},
		{"Warm (risky)", s.Modes.WarmRisky},
		{"Cold required", s.Modes.Cold},
		{"Risk GREEN", s.Risks.Green},
		{"Risk YELLOW", s.Risks.Yellow},
		{"Risk RED", s.Risks.Red},
		{},
		{"Stage", "Effective Mbps"},
		{"Source NIC", b.SourceNicMbps},
		{"Transport Link", b.TransportLinkMbps},
		{"Agent Ingest", b.AgentIngestMbps},
		{"Storage Write", b.StorageWriteMbps},
		{"Bottleneck", fmt.Sprintf("%s (%.2f Mbps)", b.Bottleneck, b.BottleneckMbps)},
	}
	return writeRows(f, sheet, rows)
}

func (r *Renderer) writeVMs(f *excelize.File, data *types.ReportData) error {
	const sheet = "VMs"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][]any{
		{"Name", "Tenant", "OS Family", "OS Version", "Disk (GB)", "vCPU", "RAM (MB)",
			"Risk Score", "Risk Category", "Mode", "Phase1 (h)", "Cutover (h)", "Day", "Excluded"},
	}
	for i := range data.VMs {
		vm := &data.VMs[i]
		rows = append(rows, []any{
			vm.Name, vm.Tenant, string(vm.OSFamily), vm.OSVersion, vm.DiskGB, vm.VCPU, vm.RamMB,
			vm.RiskScore, string(vm.RiskCategory), string(vm.EffectiveMode()),
			vm.Phase1Hours, vm.CutoverHours, vm.ScheduleDay, vm.Excluded,
		})
	}
	return writeRows(f, sheet, rows)
}

func (r *Renderer) writeTenants(f *excelize.File, data *types.ReportData) error {
	const sheet = "Tenants"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][]any{
		{"Tenant", "Priority", "VMs", "vCPU", "RAM (MB)", "Disk (GB)", "Warm", "Warm Risky", "Cold", "Hours", "Excluded"},
	}
	for _, p := range data.TenantPlans {
		rows = append(rows, []any{
			p.Tenant, p.Priority, p.VMCount, p.TotalVCPU, p.TotalRamMB, p.TotalDiskGB,
			p.WarmCount, p.WarmRiskyCount, p.ColdCount, p.TotalHours, p.Excluded,
		})
	}
	return writeRows(f, sheet, rows)
}

func (r *Renderer) writeSchedule(f *excelize.File, data *types.ReportData) error {
	const sheet = "Schedule"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][]any{{"Day", "VM", "Hours"}}
	if data.Schedule != nil {
		for _, day := range data.Schedule.Days {
			for _, name := range day.VMNames {
				rows = append(rows, []any{day.Day, name, day.Hours})
			}
		}
	}
	return writeRows(f, sheet, rows)
}

func (r *Renderer) writeGaps(f *excelize.File, data *types.ReportData) error {
	const sheet = "Gaps"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][]any{{"Type", "Severity", "Resource", "Tenant", "Resolved", "Resolution"}}
	for _, g := range data.Gaps {
		rows = append(rows, []any{
			string(g.Type), string(g.Severity), g.ResourceName, g.Tenant, g.Resolved, g.Resolution,
		})
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
