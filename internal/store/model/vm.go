package model

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"

	api "github.com/cloudpivot/migration-planner/api/v1alpha1"
)

type VM struct {
	gorm.Model
	ID        uuid.UUID `gorm:"primaryKey;"`
	ProjectID uuid.UUID `gorm:"not null;index"`
	SourceRow int

	Name        string `gorm:"not null"`
	Tenant      string `gorm:"index"`
	VCPU        int
	RamMB       int
	DiskGB      float64
	InUseDiskGB float64
	GuestOS     string
	PowerState  string
	NetworkName string
	IPAddress   string
	NicCount    int
	HasSnapshot bool
	Folder      string
	Cluster     string
	OrgVDC      string

	OSFamily    string `gorm:"type:VARCHAR(50)"`
	OSVersion   string `gorm:"type:VARCHAR(50)"`
	NetworkType string `gorm:"type:VARCHAR(50)"`
	VlanID      int

	RiskScore          float64
	RiskCategory       string  `gorm:"type:VARCHAR(20)"`
	MigrationMode      string  `gorm:"type:VARCHAR(50)"`
	ManualModeOverride *string `gorm:"type:VARCHAR(50)"`
	Excluded           bool
	ExcludeReason      string
	Priority           int
	Status             string `gorm:"type:VARCHAR(50)"`

	Phase1Hours  float64
	CutoverHours float64
	ScheduleDay  int
}

type VMList []VM

func (v VM) String() string {
	val, _ := json.Marshal(v)
	return string(val)
}

func NewVMFromApiResource(resource *api.VM) *VM {
	vm := &VM{
		ID:           resource.ID,
		ProjectID:    resource.ProjectID,
		SourceRow:    resource.SourceRow,
		Name:         resource.Name,
		Tenant:       resource.Tenant,
		VCPU:         resource.VCPU,
		RamMB:        resource.RamMB,
		DiskGB:       resource.DiskGB,
		InUseDiskGB:  resource.InUseDiskGB,
		GuestOS:      resource.GuestOS,
		PowerState:   resource.PowerState,
		NetworkName:  resource.NetworkName,
		IPAddress:    resource.IPAddress,
		NicCount:     resource.NicCount,
		HasSnapshot:  resource.HasSnapshot,
		Folder:       resource.Folder,
		Cluster:      resource.Cluster,
		OrgVDC:       resource.OrgVDC,
		OSFamily:     string(resource.OSFamily),
		OSVersion:    resource.OSVersion,
		NetworkType:  string(resource.NetworkType),
		VlanID:       resource.VlanID,
		RiskScore:    resource.RiskScore,
		RiskCategory: string(resource.RiskCategory),
		MigrationMode: string(resource.MigrationMode),
		Excluded:     resource.Excluded,
		ExcludeReason: resource.ExcludeReason,
		Priority:     resource.Priority,
		Status:       string(resource.Status),
		Phase1Hours:  resource.Phase1Hours,
		CutoverHours: resource.CutoverHours,
		ScheduleDay:  resource.ScheduleDay,
	}
	if resource.ManualModeOverride != nil {
		override := string(*resource.ManualModeOverride)
		vm.ManualModeOverride = &override
	}
	return vm
}

func (v *VM) ToApiResource() api.VM {
	vm := api.VM{
		ID:            v.ID,
		ProjectID:     v.ProjectID,
		SourceRow:     v.SourceRow,
		Name:          v.Name,
		Tenant:        v.Tenant,
		VCPU:          v.VCPU,
		RamMB:         v.RamMB,
		DiskGB:        v.DiskGB,
		InUseDiskGB:   v.InUseDiskGB,
		GuestOS:       v.GuestOS,
		PowerState:    v.PowerState,
		NetworkName:   v.NetworkName,
		IPAddress:     v.IPAddress,
		NicCount:      v.NicCount,
		HasSnapshot:   v.HasSnapshot,
		Folder:        v.Folder,
		Cluster:       v.Cluster,
		OrgVDC:        v.OrgVDC,
		OSFamily:      api.OSFamily(v.OSFamily),
		OSVersion:     v.OSVersion,
		NetworkType:   api.NetworkType(v.NetworkType),
		VlanID:        v.VlanID,
		RiskScore:     v.RiskScore,
		RiskCategory:  api.RiskCategory(v.RiskCategory),
		MigrationMode: api.MigrationMode(v.MigrationMode),
		Excluded:      v.Excluded,
		ExcludeReason: v.ExcludeReason,
		Priority:      v.Priority,
		Status:        api.StringToVMStatus(v.Status),
		Phase1Hours:   v.Phase1Hours,
		CutoverHours:  v.CutoverHours,
		ScheduleDay:   v.ScheduleDay,
	}
	if v.ManualModeOverride != nil {
		override := api.StringToMigrationMode(*v.ManualModeOverride)
		vm.ManualModeOverride = &override
	}
	return vm
}

func (vl VMList) ToApiResource() api.VMList {
	vms := make(api.VMList, 0, len(vl))
	for i := range vl {
		vms = append(vms, vl[i].ToApiResource())
	}
	return vms
}
