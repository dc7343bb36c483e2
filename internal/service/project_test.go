package service_test

import (
	"bytes"
	"context"
	"errors"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	api "github.com/cloudpivot/migration-planner/api/v1alpha1"
	"github.com/cloudpivot/migration-planner/internal/config"
	"github.com/cloudpivot/migration-planner/internal/service"
	"github.com/cloudpivot/migration-planner/internal/store"
)

// buildInventory produces an RVTools-style xlsx export with a vInfo sheet.
func buildInventory(rows [][]any) []byte {
	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet("vInfo")
	Expect(err).To(BeNil())
	Expect(f.DeleteSheet("Sheet1")).To(BeNil())

	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			Expect(err).To(BeNil())
			Expect(f.SetCellValue("vInfo", cell, value)).To(BeNil())
		}
	}

	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	Expect(err).To(BeNil())
	return buf.Bytes()
}

var inventoryHeader = []any{
	"VM", "CPUs", "Memory", "Provisioned MiB", "In Use MiB", "OS according to the configuration file",
	"Powerstate", "Network #1", "Folder",
}

var _ = Describe("project service", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		srv    *service.ProjectService
	)

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(BeNil())

		srv = service.NewProjectService(s)
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM vms;")
		gormdb.Exec("DELETE FROM gaps;")
		gormdb.Exec("DELETE FROM projects;")
	})

	AfterAll(func() {
		s.Close()
	})

	Context("create", func() {
		It("creates a project with defaults applied", func() {
			project, err := srv.CreateProject(context.TODO(), api.Project{Name: "dc-exit"})
			Expect(err).To(BeNil())
			Expect(project.Status).To(Equal(api.ProjectStatusCreated))
			Expect(project.Topology).To(Equal(api.TopologyLocal))
			Expect(project.DailyChangeRatePct).To(Equal(5.0))
			Expect(project.WorkingHoursPerDay).To(Equal(8.0))
			Expect(project.OvercommitProfile).To(Equal("balanced"))
			Expect(project.WarmDiskCeilingGB).To(Equal(2048.0))
		})

		It("rejects a project without a name", func() {
			_, err := srv.CreateProject(context.TODO(), api.Project{})
			var invalid *service.ErrInvalidRequest
			Expect(errors.As(err, &invalid)).To(BeTrue())
		})

		It("keeps caller-supplied parameters", func() {
			project, err := srv.CreateProject(context.TODO(), api.Project{
				Name:               "tuned",
				DailyChangeRatePct: 12,
				OvercommitProfile:  "aggressive",
			})
			Expect(err).To(BeNil())
			Expect(project.DailyChangeRatePct).To(Equal(12.0))
			Expect(project.OvercommitProfile).To(Equal("aggressive"))
		})
	})

	Context("get", func() {
		It("returns a typed not-found error", func() {
			_, err := srv.GetProject(context.TODO(), uuid.New())
			var notFound *service.ErrResourceNotFound
			Expect(errors.As(err, &notFound)).To(BeTrue())
		})
	})

	Context("lifecycle", func() {
		It("refuses to approve a project that was never assessed", func() {
			project, err := srv.CreateProject(context.TODO(), api.Project{Name: "too-early"})
			Expect(err).To(BeNil())

			_, err = srv.ApproveProject(context.TODO(), project.ID)
			var conflict *service.ErrProjectStateConflict
			Expect(errors.As(err, &conflict)).To(BeTrue())
		})

		It("approves an assessed project and freezes updates", func() {
			project, err := srv.CreateProject(context.TODO(), api.Project{Name: "ready"})
			Expect(err).To(BeNil())
			_, err = s.Project().UpdateStatus(context.TODO(), project.ID, api.ProjectStatusAssessed)
			Expect(err).To(BeNil())

			approved, err := srv.ApproveProject(context.TODO(), project.ID)
			Expect(err).To(BeNil())
			Expect(approved.Status).To(Equal(api.ProjectStatusApproved))

			_, err = srv.UpdateProject(context.TODO(), project.ID, api.Project{Name: "renamed"})
			var conflict *service.ErrProjectStateConflict
			Expect(errors.As(err, &conflict)).To(BeTrue())
		})

		It("archives a project from any state", func() {
			project, err := srv.CreateProject(context.TODO(), api.Project{Name: "done"})
			Expect(err).To(BeNil())

			archived, err := srv.ArchiveProject(context.TODO(), project.ID)
			Expect(err).To(BeNil())
			Expect(archived.Status).To(Equal(api.ProjectStatusArchived))
		})
	})

	Context("inventory upload", func() {
		It("parses, classifies and stores the VM set", func() {
			project, err := srv.CreateProject(context.TODO(), api.Project{Name: "upload"})
			Expect(err).To(BeNil())

			content := buildInventory([][]any{
				inventoryHeader,
				{"web-01", 4, 8192, 102400, 51200, "Ubuntu Linux (64-bit)", "poweredOn", "prod-vlan100", "/acme/web"},
				{"win-01", 8, 16384, 204800, 102400, "Microsoft Windows Server 2019 (64-bit)", "poweredOff", "mgmt-net", "/acme/infra"},
			})

			vms, err := srv.UploadInventory(context.TODO(), project.ID, content)
			Expect(err).To(BeNil())
			Expect(vms).To(HaveLen(2))
			Expect(vms[0].OSFamily).To(Equal(api.OSFamilyLinux))
			Expect(vms[0].DiskGB).To(Equal(100.0))
			Expect(vms[1].OSFamily).To(Equal(api.OSFamilyWindows))

			got, err := srv.GetProject(context.TODO(), project.ID)
			Expect(err).To(BeNil())
			Expect(got.Status).To(Equal(api.ProjectStatusPopulated))
		})

		It("rejects content that is not an xlsx workbook", func() {
			project, err := srv.CreateProject(context.TODO(), api.Project{Name: "garbage"})
			Expect(err).To(BeNil())

			_, err = srv.UploadInventory(context.TODO(), project.ID, []byte("not a workbook"))
			var corrupted *service.ErrFileCorrupted
			Expect(errors.As(err, &corrupted)).To(BeTrue())
		})

		It("replaces the VM set on re-upload", func() {
			project, err := srv.CreateProject(context.TODO(), api.Project{Name: "reupload"})
			Expect(err).To(BeNil())

			first := buildInventory([][]any{
				inventoryHeader,
				{"old-01", 2, 4096, 51200, 25600, "CentOS 7 (64-bit)", "poweredOn", "prod", "/acme"},
				{"old-02", 2, 4096, 51200, 25600, "CentOS 7 (64-bit)", "poweredOn", "prod", "/acme"},
			})
			_, err = srv.UploadInventory(context.TODO(), project.ID, first)
			Expect(err).To(BeNil())

			second := buildInventory([][]any{
				inventoryHeader,
				{"new-01", 4, 8192, 102400, 51200, "Ubuntu Linux (64-bit)", "poweredOn", "prod", "/acme"},
			})
			vms, err := srv.UploadInventory(context.TODO(), project.ID, second)
			Expect(err).To(BeNil())
			Expect(vms).To(HaveLen(1))
			Expect(vms[0].Name).To(Equal("new-01"))
		})
	})

	Context("vm overrides", func() {
		It("pins a migration mode on one VM", func() {
			project, err := srv.CreateProject(context.TODO(), api.Project{Name: "override"})
			Expect(err).To(BeNil())

			content := buildInventory([][]any{
				inventoryHeader,
				{"web-01", 4, 8192, 102400, 51200, "Ubuntu Linux (64-bit)", "poweredOn", "prod", "/acme"},
			})
			vms, err := srv.UploadInventory(context.TODO(), project.ID, content)
			Expect(err).To(BeNil())

			mode := api.MigrationModeColdRequired
			vm, err := srv.SetVMModeOverride(context.TODO(), project.ID, vms[0].ID, &mode)
			Expect(err).To(BeNil())
			Expect(vm.EffectiveMode()).To(Equal(api.MigrationModeColdRequired))
		})

		It("rejects an unknown mode", func() {
			project, err := srv.CreateProject(context.TODO(), api.Project{Name: "bad-mode"})
			Expect(err).To(BeNil())

			bogus := api.MigrationMode("teleport")
			_, err = srv.SetVMModeOverride(context.TODO(), project.ID, uuid.New(), &bogus)
			var invalid *service.ErrInvalidRequest
			Expect(errors.As(err, &invalid)).To(BeTrue())
		})
	})
})
