package service_test

import (
	"context"
	"errors"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	api "github.com/cloudpivot/migration-planner/api/v1alpha1"
	"github.com/cloudpivot/migration-planner/internal/config"
	"github.com/cloudpivot/migration-planner/internal/planning"
	"github.com/cloudpivot/migration-planner/internal/service"
	"github.com/cloudpivot/migration-planner/internal/store"
)

var _ = Describe("plan service", Ordered, func() {
	var (
		s          store.Store
		gormdb     *gorm.DB
		projectSrv *service.ProjectService
		planSrv    *service.PlanService
	)

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(BeNil())

		projectSrv = service.NewProjectService(s)
		planSrv = service.NewPlanService(s)
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM vms;")
		gormdb.Exec("DELETE FROM gaps;")
		gormdb.Exec("DELETE FROM projects;")
	})

	AfterAll(func() {
		s.Close()
	})

	// newAssessableProject creates a populated project whose pipeline
	// bottlenecks on storage write at 500 Mbps.
	newAssessableProject := func(name string) *api.Project {
		project, err := projectSrv.CreateProject(context.TODO(), api.Project{
			Name: name,
			Bandwidth: api.BandwidthParams{
				SourceNicSpeedMbps:     10000,
				SourceUsablePct:        40,
				LinkSpeedMbps:          1000,
				LinkUsablePct:          60,
				TargetStorageWriteMbps: 500,
			},
			Agents: api.AgentProfile{
				AgentCount:            2,
				ConcurrentVMsPerAgent: 5,
				PerSlotThroughputMbps: 500,
				NicSpeedMbps:          10000,
				NicUsablePct:          80,
			},
		})
		Expect(err).To(BeNil())

		content := buildInventory([][]any{
			inventoryHeader,
			{"web-01", 4, 8192, 102400, 51200, "Ubuntu Linux (64-bit)", "poweredOn", "prod-vlan100", "/acme/web"},
			{"db-01", 8, 32768, 512000, 256000, "Microsoft Windows Server 2019 (64-bit)", "poweredOn", "prod-vlan100", "/acme/db"},
			{"legacy-01", 2, 4096, 51200, 25600, "Unknown", "poweredOff", "", "/acme/old"},
		})
		_, err = projectSrv.UploadInventory(context.TODO(), project.ID, content)
		Expect(err).To(BeNil())
		return project
	}

	Context("assess", func() {
		It("scores, classifies and estimates every VM", func() {
			project := newAssessableProject("assess")

			result, err := planSrv.Assess(context.TODO(), project.ID)
			Expect(err).To(BeNil())
			Expect(result.Bandwidth.Bottleneck).To(Equal(api.StageStorageWrite))
			Expect(result.Bandwidth.BottleneckMbps).To(Equal(500.0))

			vms, err := s.VM().List(context.TODO(), project.ID)
			Expect(err).To(BeNil())
			Expect(vms).To(HaveLen(3))

			byName := map[string]*api.VM{}
			for i := range vms {
				byName[vms[i].Name] = &vms[i]
			}

			// 100 GB at 500 Mbps: phase1 = 100*8/500 = 1.6h,
			// cutover = (100*0.05)*8/500 = 0.08h.
			web := byName["web-01"]
			Expect(web.MigrationMode).To(Equal(api.MigrationModeWarm))
			Expect(web.Phase1Hours).To(BeNumerically("~", 1.6, 0.001))
			Expect(web.CutoverHours).To(BeNumerically("~", 0.08, 0.001))

			// Unknown OS plus powered off pushes legacy-01 to cold.
			legacy := byName["legacy-01"]
			Expect(legacy.MigrationMode).To(Equal(api.MigrationModeColdRequired))

			got, err := projectSrv.GetProject(context.TODO(), project.ID)
			Expect(err).To(BeNil())
			Expect(got.Status).To(Equal(api.ProjectStatusAssessed))
		})

		It("is idempotent over unchanged inputs", func() {
			project := newAssessableProject("assess-twice")

			first, err := planSrv.Assess(context.TODO(), project.ID)
			Expect(err).To(BeNil())
			second, err := planSrv.Assess(context.TODO(), project.ID)
			Expect(err).To(BeNil())

			Expect(second.Bandwidth).To(Equal(first.Bandwidth))
			for i := range first.VMs {
				Expect(second.VMs[i].RiskScore).To(Equal(first.VMs[i].RiskScore))
				Expect(second.VMs[i].MigrationMode).To(Equal(first.VMs[i].MigrationMode))
			}
		})

		It("fails on a project with no inventory", func() {
			project, err := projectSrv.CreateProject(context.TODO(), api.Project{Name: "empty"})
			Expect(err).To(BeNil())

			_, err = planSrv.Assess(context.TODO(), project.ID)
			var noInventory *service.ErrProjectHasNoInventory
			Expect(errors.As(err, &noInventory)).To(BeTrue())
		})

		It("reset clears derived fields and returns the project to populated", func() {
			project := newAssessableProject("assess-reset")
			_, err := planSrv.Assess(context.TODO(), project.ID)
			Expect(err).To(BeNil())

			Expect(planSrv.ResetAssessment(context.TODO(), project.ID)).To(BeNil())

			reloaded, err := projectSrv.GetProject(context.TODO(), project.ID)
			Expect(err).To(BeNil())
			Expect(reloaded.Status).To(Equal(api.ProjectStatusPopulated))

			vms, err := s.VM().List(context.TODO(), project.ID)
			Expect(err).To(BeNil())
			for i := range vms {
				Expect(vms[i].RiskScore).To(BeZero())
				Expect(vms[i].MigrationMode).To(BeEmpty())
				Expect(vms[i].Phase1Hours).To(BeZero())
				Expect(vms[i].ScheduleDay).To(BeZero())
			}
		})
	})

	Context("schedule", func() {
		It("assigns every in-scope VM a day and persists it", func() {
			project := newAssessableProject("schedule")
			_, err := planSrv.Assess(context.TODO(), project.ID)
			Expect(err).To(BeNil())

			schedule, err := planSrv.GenerateSchedule(context.TODO(), project.ID, nil, 2)
			Expect(err).To(BeNil())
			Expect(schedule.DailySlots).To(Equal(2))
			Expect(schedule.EstimatedDays).To(Equal(2))

			vms, err := s.VM().List(context.TODO(), project.ID)
			Expect(err).To(BeNil())
			for i := range vms {
				Expect(vms[i].ScheduleDay).To(BeNumerically(">", 0))
				Expect(vms[i].Status).To(Equal(api.VMStatusAssigned))
			}
		})

		It("uses the agent fleet capacity when no override is given", func() {
			project := newAssessableProject("schedule-default")
			_, err := planSrv.Assess(context.TODO(), project.ID)
			Expect(err).To(BeNil())

			schedule, err := planSrv.GenerateSchedule(context.TODO(), project.ID, nil, 0)
			Expect(err).To(BeNil())
			Expect(schedule.DailySlots).To(Equal(10))
			Expect(schedule.EstimatedDays).To(Equal(1))
		})

		It("is refused on an approved project", func() {
			project := newAssessableProject("schedule-approved")
			_, err := planSrv.Assess(context.TODO(), project.ID)
			Expect(err).To(BeNil())
			_, err = projectSrv.ApproveProject(context.TODO(), project.ID)
			Expect(err).To(BeNil())

			_, err = planSrv.GenerateSchedule(context.TODO(), project.ID, nil, 2)
			var conflict *service.ErrProjectStateConflict
			Expect(errors.As(err, &conflict)).To(BeTrue())

			vms, err := s.VM().List(context.TODO(), project.ID)
			Expect(err).To(BeNil())
			for i := range vms {
				Expect(vms[i].ScheduleDay).To(BeZero())
			}
		})

		It("rejects a fully excluded VM set as a configuration error", func() {
			project := newAssessableProject("schedule-all-excluded")
			update := *project
			update.ExcludePatterns = []string{"acme"}
			_, err := projectSrv.UpdateProject(context.TODO(), project.ID, update)
			Expect(err).To(BeNil())

			_, err = planSrv.GenerateSchedule(context.TODO(), project.ID, nil, 2)
			var invalid *service.ErrInvalidRequest
			Expect(errors.As(err, &invalid)).To(BeTrue())
		})

		It("reset unassigns VMs but keeps the assessment", func() {
			project := newAssessableProject("schedule-reset")
			_, err := planSrv.Assess(context.TODO(), project.ID)
			Expect(err).To(BeNil())
			_, err = planSrv.GenerateSchedule(context.TODO(), project.ID, nil, 2)
			Expect(err).To(BeNil())

			Expect(planSrv.ResetSchedule(context.TODO(), project.ID)).To(BeNil())

			reloaded, err := projectSrv.GetProject(context.TODO(), project.ID)
			Expect(err).To(BeNil())
			Expect(reloaded.Status).To(Equal(api.ProjectStatusAssessed))

			vms, err := s.VM().List(context.TODO(), project.ID)
			Expect(err).To(BeNil())
			for i := range vms {
				Expect(vms[i].ScheduleDay).To(BeZero())
				Expect(vms[i].Status).To(Equal(api.VMStatusNotStarted))
				Expect(vms[i].RiskScore).To(BeNumerically(">=", 0))
				Expect(vms[i].MigrationMode).ToNot(BeEmpty())
			}
		})
	})

	Context("quotas and node sizing", func() {
		It("applies the overcommit profile per tenant", func() {
			project := newAssessableProject("quotas")
			_, err := planSrv.Assess(context.TODO(), project.ID)
			Expect(err).To(BeNil())

			quotas, err := planSrv.Quotas(context.TODO(), project.ID, nil)
			Expect(err).To(BeNil())
			Expect(quotas).To(HaveLen(1))
			// balanced: 14 vCPU / 4 = 3.5, 45056 MB / 1.5.
			Expect(quotas[0].Profile).To(Equal("balanced"))
			Expect(quotas[0].EffectiveVCPU).To(BeNumerically("~", 3.5, 0.001))
			Expect(quotas[0].DiskGB).To(BeNumerically("~", 650, 0.001))
		})

		It("derives an HA-aware node count", func() {
			project := newAssessableProject("sizing")
			_, err := planSrv.Assess(context.TODO(), project.ID)
			Expect(err).To(BeNil())

			sizing, err := planSrv.NodeSizing(context.TODO(), project.ID, &api.NodeProfile{
				Name:   "m5-large",
				VCPU:   16,
				RamMB:  65536,
				DiskGB: 2000,
			}, planning.RedundancyNPlus1)
			Expect(err).To(BeNil())
			Expect(sizing.TotalNodes).To(Equal(sizing.RequiredNodes + sizing.RedundantNodes))
			Expect(sizing.RedundantNodes).To(BeNumerically(">=", 1))
		})

		It("rejects a missing node profile", func() {
			project := newAssessableProject("sizing-bad")
			_, err := planSrv.Assess(context.TODO(), project.ID)
			Expect(err).To(BeNil())

			_, err = planSrv.NodeSizing(context.TODO(), project.ID, nil, planning.RedundancyNPlus1)
			var invalid *service.ErrInvalidRequest
			Expect(errors.As(err, &invalid)).To(BeTrue())
		})
	})

	Context("gap analysis", func() {
		It("stores gaps against a sparse snapshot", func() {
			project := newAssessableProject("gaps")
			_, err := planSrv.Assess(context.TODO(), project.ID)
			Expect(err).To(BeNil())

			gaps, err := planSrv.RunGapAnalysis(context.TODO(), project.ID, &api.TargetSnapshot{
				Flavors:  []string{},
				Networks: []string{"prod-vlan100"},
				Images:   []string{},
			})
			Expect(err).To(BeNil())
			Expect(gaps).ToNot(BeEmpty())

			stored, err := planSrv.ListGaps(context.TODO(), project.ID)
			Expect(err).To(BeNil())
			Expect(stored).To(HaveLen(len(gaps)))
		})

		It("clears gaps when no snapshot is supplied", func() {
			project := newAssessableProject("gaps-clear")
			_, err := planSrv.Assess(context.TODO(), project.ID)
			Expect(err).To(BeNil())

			_, err = planSrv.RunGapAnalysis(context.TODO(), project.ID, &api.TargetSnapshot{})
			Expect(err).To(BeNil())

			gaps, err := planSrv.RunGapAnalysis(context.TODO(), project.ID, nil)
			Expect(err).To(BeNil())
			Expect(gaps).To(BeEmpty())
		})

		It("is refused on an approved project", func() {
			project := newAssessableProject("gaps-approved")
			stored, err := planSrv.RunGapAnalysis(context.TODO(), project.ID, &api.TargetSnapshot{})
			Expect(err).To(BeNil())
			Expect(stored).ToNot(BeEmpty())

			_, err = planSrv.Assess(context.TODO(), project.ID)
			Expect(err).To(BeNil())
			_, err = projectSrv.ApproveProject(context.TODO(), project.ID)
			Expect(err).To(BeNil())

			_, err = planSrv.RunGapAnalysis(context.TODO(), project.ID, nil)
			var conflict *service.ErrProjectStateConflict
			Expect(errors.As(err, &conflict)).To(BeTrue())

			// The stored gap list survives the refused run.
			gaps, err := planSrv.ListGaps(context.TODO(), project.ID)
			Expect(err).To(BeNil())
			Expect(gaps).To(HaveLen(len(stored)))
		})

		It("resolves a stored gap", func() {
			project := newAssessableProject("gaps-resolve")
			_, err := planSrv.Assess(context.TODO(), project.ID)
			Expect(err).To(BeNil())

			gaps, err := planSrv.RunGapAnalysis(context.TODO(), project.ID, &api.TargetSnapshot{})
			Expect(err).To(BeNil())
			Expect(gaps).ToNot(BeEmpty())

			Expect(planSrv.ResolveGap(context.TODO(), project.ID, gaps[0].Id, "flavor created")).To(BeNil())

			stored, err := planSrv.ListGaps(context.TODO(), project.ID)
			Expect(err).To(BeNil())
			resolved := 0
			for _, g := range stored {
				if g.Resolved {
					resolved++
				}
			}
			Expect(resolved).To(Equal(1))
		})
	})

	Context("tenant auto-exclusion", func() {
		It("re-applies patterns edited after upload to every aggregate", func() {
			project := newAssessableProject("exclude-late")

			update := *project
			update.ExcludePatterns = []string{"acme"}
			_, err := projectSrv.UpdateProject(context.TODO(), project.ID, update)
			Expect(err).To(BeNil())

			plans, err := planSrv.TenantPlans(context.TODO(), project.ID, nil)
			Expect(err).To(BeNil())
			Expect(plans).To(HaveLen(1))
			Expect(plans[0].Tenant).To(Equal("acme"))
			Expect(plans[0].Excluded).To(BeTrue())
			Expect(plans[0].VMCount).To(BeZero())

			quotas, err := planSrv.Quotas(context.TODO(), project.ID, nil)
			Expect(err).To(BeNil())
			Expect(quotas).To(BeEmpty())
		})

		It("persists re-evaluated exclusions on assess and lifts them when patterns go", func() {
			project := newAssessableProject("exclude-lifecycle")

			update := *project
			update.ExcludePatterns = []string{"acme"}
			_, err := projectSrv.UpdateProject(context.TODO(), project.ID, update)
			Expect(err).To(BeNil())

			_, err = planSrv.Assess(context.TODO(), project.ID)
			Expect(err).To(BeNil())

			vms, err := s.VM().List(context.TODO(), project.ID)
			Expect(err).To(BeNil())
			for i := range vms {
				Expect(vms[i].Excluded).To(BeTrue())
			}

			update.ExcludePatterns = nil
			_, err = projectSrv.UpdateProject(context.TODO(), project.ID, update)
			Expect(err).To(BeNil())

			_, err = planSrv.Assess(context.TODO(), project.ID)
			Expect(err).To(BeNil())

			vms, err = s.VM().List(context.TODO(), project.ID)
			Expect(err).To(BeNil())
			for i := range vms {
				Expect(vms[i].Excluded).To(BeFalse())
			}
		})
	})

	Context("bandwidth", func() {
		It("reports the pipeline for an unpopulated project", func() {
			project, err := projectSrv.CreateProject(context.TODO(), api.Project{
				Name: "bw-only",
				Bandwidth: api.BandwidthParams{
					SourceNicSpeedMbps:     10000,
					SourceUsablePct:        40,
					LinkSpeedMbps:          1000,
					LinkUsablePct:          60,
					TargetStorageWriteMbps: 500,
				},
				Agents: api.AgentProfile{
					AgentCount:            2,
					ConcurrentVMsPerAgent: 5,
					PerSlotThroughputMbps: 500,
					NicSpeedMbps:          10000,
					NicUsablePct:          80,
				},
			})
			Expect(err).To(BeNil())

			model, err := planSrv.Bandwidth(context.TODO(), project.ID)
			Expect(err).To(BeNil())
			Expect(model.Bottleneck).To(Equal(api.StageStorageWrite))
			Expect(model.BottleneckMbps).To(Equal(500.0))
		})

		It("returns a typed not-found error", func() {
			_, err := planSrv.Bandwidth(context.TODO(), uuid.New())
			var notFound *service.ErrResourceNotFound
			Expect(errors.As(err, &notFound)).To(BeTrue())
		})
	})
})
