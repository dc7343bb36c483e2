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

const (
	insertProjectStm = "INSERT INTO projects (id, name, status, topology) VALUES ('%s', '%s', 'created', 'local');"
)

var _ = Describe("project store", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
	)

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(BeNil())
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM projects;")
	})

	Context("list", func() {
		It("lists all projects ordered by name", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertProjectStm, uuid.NewString(), "zeta"))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertProjectStm, uuid.NewString(), "alpha"))
			Expect(tx.Error).To(BeNil())

			projects, err := s.Project().List(context.TODO())
			Expect(err).To(BeNil())
			Expect(projects).To(HaveLen(2))
			Expect(projects[0].Name).To(Equal("alpha"))
			Expect(projects[1].Name).To(Equal("zeta"))
		})

		It("returns an empty list when no projects exist", func() {
			projects, err := s.Project().List(context.TODO())
			Expect(err).To(BeNil())
			Expect(projects).To(BeEmpty())
		})
	})

	Context("create", func() {
		It("persists a project with its planning parameters", func() {
			created, err := s.Project().Create(context.TODO(), api.Project{
				Name:     "dc-exit",
				Status:   api.ProjectStatusCreated,
				Topology: api.TopologyCrossSiteDedicated,
				Bandwidth: api.BandwidthParams{
					SourceNicSpeedMbps:     10000,
					SourceUsablePct:        40,
					LinkSpeedMbps:          1000,
					LinkUsablePct:          60,
					TargetStorageWriteMbps: 500,
				},
				DailyChangeRatePct: 5,
				WorkingHoursPerDay: 8,
				OvercommitProfile:  "balanced",
			})
			Expect(err).To(BeNil())
			Expect(created.ID).ToNot(Equal(uuid.Nil))

			got, err := s.Project().Get(context.TODO(), created.ID)
			Expect(err).To(BeNil())
			Expect(got.Name).To(Equal("dc-exit"))
			Expect(got.Topology).To(Equal(api.TopologyCrossSiteDedicated))
			Expect(got.Bandwidth.TargetStorageWriteMbps).To(Equal(500.0))
			Expect(got.OvercommitProfile).To(Equal("balanced"))
		})

		It("round-trips risk rule overrides through the jsonb column", func() {
			created, err := s.Project().Create(context.TODO(), api.Project{
				Name:   "with-rules",
				Status: api.ProjectStatusCreated,
				RiskRules: &api.RiskRules{
					UnsupportedOSWeight: 50,
					DiskCeilingGB:       4096,
					RedThreshold:        80,
				},
			})
			Expect(err).To(BeNil())

			got, err := s.Project().Get(context.TODO(), created.ID)
			Expect(err).To(BeNil())
			Expect(got.RiskRules).ToNot(BeNil())
			Expect(got.RiskRules.UnsupportedOSWeight).To(Equal(50.0))
			Expect(got.RiskRules.DiskCeilingGB).To(Equal(4096.0))
		})
	})

	Context("get", func() {
		It("returns ErrRecordNotFound for an unknown id", func() {
			_, err := s.Project().Get(context.TODO(), uuid.New())
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})

	Context("status", func() {
		It("updates the project status", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertProjectStm, id.String(), "project-1"))
			Expect(tx.Error).To(BeNil())

			updated, err := s.Project().UpdateStatus(context.TODO(), id, api.ProjectStatusAssessed)
			Expect(err).To(BeNil())
			Expect(updated.Status).To(Equal(api.ProjectStatusAssessed))

			status := ""
			err = gormdb.Raw("SELECT status FROM projects WHERE id = ?;", id.String()).Scan(&status).Error
			Expect(err).To(BeNil())
			Expect(status).To(Equal("assessed"))
		})
	})

	Context("delete", func() {
		It("removes the project row", func() {
			id := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertProjectStm, id.String(), "doomed"))
			Expect(tx.Error).To(BeNil())

			Expect(s.Project().Delete(context.TODO(), id)).To(BeNil())

			count := 0
			err := gormdb.Raw("SELECT COUNT(*) FROM projects;").Scan(&count).Error
			Expect(err).To(BeNil())
			Expect(count).To(Equal(0))
		})
	})
})
