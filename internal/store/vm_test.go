package store_test

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	api "github.com/cloudpivot/migration-planner/api/v1alpha1"
	"github.com/cloudpivot/migration-planner/internal/config"
	"github.com/cloudpivot/migration-planner/internal/store"
)

var _ = Describe("vm store", Ordered, func() {
	var (
		s         store.Store
		gormdb    *gorm.DB
		projectID uuid.UUID
	)

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(BeNil())
	})

	BeforeEach(func() {
		projectID = uuid.New()
		tx := gormdb.Exec(fmt.Sprintf(insertProjectStm, projectID.String(), "vm-tests"))
		Expect(tx.Error).To(BeNil())
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM vms;")
		gormdb.Exec("DELETE FROM projects;")
	})

	AfterAll(func() {
		s.Close()
	})

	newVM := func(name, tenant string, diskGB float64) api.VM {
		return api.VM{
			Name:        name,
			Tenant:      tenant,
			VCPU:        4,
			RamMB:       8192,
			DiskGB:      diskGB,
			GuestOS:     "Ubuntu Linux (64-bit)",
			PowerState:  "poweredOn",
			NetworkName: "prod-vlan100",
			OSFamily:    api.OSFamilyLinux,
			NetworkType: api.NetworkTypeProduction,
			Status:      api.VMStatusNotStarted,
		}
	}

	Context("replace", func() {
		It("stores the uploaded VM set", func() {
			vms, err := s.VM().ReplaceForProject(context.TODO(), projectID, api.VMList{
				newVM("web-01", "acme", 100),
				newVM("db-01", "acme", 500),
			})
			Expect(err).To(BeNil())
			Expect(vms).To(HaveLen(2))
			for _, vm := range vms {
				Expect(vm.ID).ToNot(Equal(uuid.Nil))
				Expect(vm.ProjectID).To(Equal(projectID))
			}
		})

		It("discards the previous VM set on re-upload", func() {
			_, err := s.VM().ReplaceForProject(context.TODO(), projectID, api.VMList{
				newVM("old-01", "acme", 100),
				newVM("old-02", "acme", 100),
				newVM("old-03", "acme", 100),
			})
			Expect(err).To(BeNil())

			vms, err := s.VM().ReplaceForProject(context.TODO(), projectID, api.VMList{
				newVM("new-01", "acme", 50),
			})
			Expect(err).To(BeNil())
			Expect(vms).To(HaveLen(1))

			count := 0
			err = gormdb.Raw("SELECT COUNT(*) FROM vms WHERE project_id = ?;", projectID.String()).Scan(&count).Error
			Expect(err).To(BeNil())
			Expect(count).To(Equal(1))
		})

		It("does not touch VMs of other projects", func() {
			otherID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertProjectStm, otherID.String(), "other"))
			Expect(tx.Error).To(BeNil())
			_, err := s.VM().ReplaceForProject(context.TODO(), otherID, api.VMList{newVM("other-01", "beta", 10)})
			Expect(err).To(BeNil())

			_, err = s.VM().ReplaceForProject(context.TODO(), projectID, api.VMList{newVM("mine-01", "acme", 10)})
			Expect(err).To(BeNil())

			other, err := s.VM().List(context.TODO(), otherID)
			Expect(err).To(BeNil())
			Expect(other).To(HaveLen(1))
		})
	})

	Context("list", func() {
		It("orders by tenant then name", func() {
			_, err := s.VM().ReplaceForProject(context.TODO(), projectID, api.VMList{
				newVM("zeta", "beta", 10),
				newVM("alpha", "beta", 10),
				newVM("omega", "acme", 10),
			})
			Expect(err).To(BeNil())

			vms, err := s.VM().List(context.TODO(), projectID)
			Expect(err).To(BeNil())
			Expect(vms).To(HaveLen(3))
			Expect(vms[0].Name).To(Equal("omega"))
			Expect(vms[1].Name).To(Equal("alpha"))
			Expect(vms[2].Name).To(Equal("zeta"))
		})
	})

	Context("update batch", func() {
		It("persists assessment fields", func() {
			stored, err := s.VM().ReplaceForProject(context.TODO(), projectID, api.VMList{
				newVM("web-01", "acme", 100),
			})
			Expect(err).To(BeNil())

			stored[0].RiskScore = 35
			stored[0].RiskCategory = api.RiskCategoryGreen
			stored[0].MigrationMode = api.MigrationModeWarm
			stored[0].Phase1Hours = 1.6
			stored[0].CutoverHours = 0.08
			stored[0].ScheduleDay = 2
			Expect(s.VM().UpdateBatch(context.TODO(), projectID, stored)).To(BeNil())

			vms, err := s.VM().List(context.TODO(), projectID)
			Expect(err).To(BeNil())
			Expect(vms[0].RiskScore).To(Equal(35.0))
			Expect(vms[0].MigrationMode).To(Equal(api.MigrationModeWarm))
			Expect(vms[0].Phase1Hours).To(Equal(1.6))
			Expect(vms[0].ScheduleDay).To(Equal(2))
		})
	})

	Context("mode override", func() {
		It("sets and clears the manual override", func() {
			stored, err := s.VM().ReplaceForProject(context.TODO(), projectID, api.VMList{
				newVM("web-01", "acme", 100),
			})
			Expect(err).To(BeNil())

			mode := api.MigrationModeColdRequired
			vm, err := s.VM().SetModeOverride(context.TODO(), stored[0].ID, &mode)
			Expect(err).To(BeNil())
			Expect(vm.ManualModeOverride).ToNot(BeNil())
			Expect(*vm.ManualModeOverride).To(Equal(api.MigrationModeColdRequired))

			vm, err = s.VM().SetModeOverride(context.TODO(), stored[0].ID, nil)
			Expect(err).To(BeNil())
			Expect(vm.ManualModeOverride).To(BeNil())
		})

		It("returns ErrRecordNotFound for an unknown vm", func() {
			mode := api.MigrationModeWarm
			_, err := s.VM().SetModeOverride(context.TODO(), uuid.New(), &mode)
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})

	Context("exclusion", func() {
		It("toggles a VM out of scope with a reason", func() {
			stored, err := s.VM().ReplaceForProject(context.TODO(), projectID, api.VMList{
				newVM("web-01", "acme", 100),
			})
			Expect(err).To(BeNil())

			vm, err := s.VM().SetExcluded(context.TODO(), stored[0].ID, true, "decommissioned")
			Expect(err).To(BeNil())
			Expect(vm.Excluded).To(BeTrue())
			Expect(vm.ExcludeReason).To(Equal("decommissioned"))
		})
	})
})
