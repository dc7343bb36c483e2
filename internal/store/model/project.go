package model

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"

	api "github.com/cloudpivot/migration-planner/api/v1alpha1"
)

type Project struct {
	gorm.Model
	ID       uuid.UUID `gorm:"primaryKey;"`
	Name     string    `gorm:"uniqueIndex;not null"`
	Status   string    `gorm:"not null;type:VARCHAR(50)"`
	Topology string    `gorm:"not null;type:VARCHAR(50)"`

	Bandwidth *JSONField[api.BandwidthParams] `gorm:"type:jsonb"`
	Agents    *JSONField[api.AgentProfile]    `gorm:"type:jsonb"`
	RiskRules *JSONField[*api.RiskRules]      `gorm:"type:jsonb"`

	DailyChangeRatePct float64
	WorkingHoursPerDay float64
	WorkingDaysPerWeek int
	WarmCutoverWindowH float64
	DowntimeBudgetH    float64
	WarmDiskCeilingGB  float64
	OvercommitProfile  string `gorm:"type:VARCHAR(50)"`

	ExcludePatterns *JSONField[[]string] `gorm:"type:jsonb"`

	VMs  []VM  `gorm:"constraint:OnDelete:CASCADE;"`
	Gaps []Gap `gorm:"constraint:OnDelete:CASCADE;"`
}

type ProjectList []Project

func (p Project) String() string {
	val, _ := json.Marshal(p)
	return string(val)
}

func NewProjectFromApiResource(resource *api.Project) *Project {
	return &Project{
		ID:                 resource.ID,
		Name:               resource.Name,
		Status:             string(resource.Status),
		Topology:           string(resource.Topology),
		Bandwidth:          MakeJSONField(resource.Bandwidth),
		Agents:             MakeJSONField(resource.Agents),
		RiskRules:          MakeJSONField(resource.RiskRules),
		DailyChangeRatePct: resource.DailyChangeRatePct,
		WorkingHoursPerDay: resource.WorkingHoursPerDay,
		WorkingDaysPerWeek: resource.WorkingDaysPerWeek,
		WarmCutoverWindowH: resource.WarmCutoverWindowH,
		DowntimeBudgetH:    resource.DowntimeBudgetH,
		WarmDiskCeilingGB:  resource.WarmDiskCeilingGB,
		OvercommitProfile:  resource.OvercommitProfile,
		ExcludePatterns:    MakeJSONField(resource.ExcludePatterns),
	}
}

func NewProjectFromId(id uuid.UUID) *Project {
	return &Project{ID: id}
}

func (p *Project) ToApiResource() api.Project {
	resource := api.Project{
		ID:                 p.ID,
		Name:               p.Name,
		Status:             api.StringToProjectStatus(p.Status),
		Topology:           api.Topology(p.Topology),
		DailyChangeRatePct: p.DailyChangeRatePct,
		WorkingHoursPerDay: p.WorkingHoursPerDay,
		WorkingDaysPerWeek: p.WorkingDaysPerWeek,
		WarmCutoverWindowH: p.WarmCutoverWindowH,
		DowntimeBudgetH:    p.DowntimeBudgetH,
		WarmDiskCeilingGB:  p.WarmDiskCeilingGB,
		OvercommitProfile:  p.OvercommitProfile,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
	if p.Bandwidth != nil {
		resource.Bandwidth = p.Bandwidth.Data
	}
	if p.Agents != nil {
		resource.Agents = p.Agents.Data
	}
	if p.RiskRules != nil {
		resource.RiskRules = p.RiskRules.Data
	}
	if p.ExcludePatterns != nil {
		resource.ExcludePatterns = p.ExcludePatterns.Data
	}
	return resource
}

func (pl ProjectList) ToApiResource() api.ProjectList {
	projects := make(api.ProjectList, 0, len(pl))
	for i := range pl {
		projects = append(projects, pl[i].ToApiResource())
	}
	return projects
}
