package model

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"

	api "github.com/cloudpivot/migration-planner/api/v1alpha1"
)

type Gap struct {
	gorm.Model
	ProjectID    uuid.UUID `gorm:"not null;index"`
	Type         string    `gorm:"not null;type:VARCHAR(50)"`
	Severity     string    `gorm:"not null;type:VARCHAR(20)"`
	ResourceName string    `gorm:"not null"`
	Tenant       string
	Resolution   string
	Resolved     bool
}

type GapList []Gap

func (g Gap) String() string {
	val, _ := json.Marshal(g)
	return string(val)
}

func NewGapFromApiResource(projectID uuid.UUID, resource *api.Gap) *Gap {
	return &Gap{
		ProjectID:    projectID,
		Type:         string(resource.Type),
		Severity:     string(resource.Severity),
		ResourceName: resource.ResourceName,
		Tenant:       resource.Tenant,
		Resolution:   resource.Resolution,
		Resolved:     resource.Resolved,
	}
}

func (g *Gap) ToApiResource() api.Gap {
	return api.Gap{
		Id:           g.ID,
		Type:         api.GapType(g.Type),
		Severity:     api.GapSeverity(g.Severity),
		ResourceName: g.ResourceName,
		Tenant:       g.Tenant,
		Resolution:   g.Resolution,
		Resolved:     g.Resolved,
	}
}

func (gl GapList) ToApiResource() []api.Gap {
	gaps := make([]api.Gap, 0, len(gl))
	for i := range gl {
		gaps = append(gaps, gl[i].ToApiResource())
	}
	return gaps
}
