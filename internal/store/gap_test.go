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

var _ = Describe("gap store", Ordered, func() {
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
		tx := gormdb.Exec(fmt.Sprintf(insertProjectStm, projectID.String(), "gap-tests"))
		Expect(tx.Error).To(BeNil())
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM gaps;")
		gormdb.Exec("DELETE FROM projects;")
	})

	AfterAll(func() {
		s.Close()
	})

	Context("replace", func() {
		It("stores the gap analysis output", func() {
			gaps, err := s.Gap().ReplaceForProject(context.TODO(), projectID, []api.Gap{
				{Type: api.GapTypeMissingFlavor, Severity: api.GapSeverityWarning, ResourceName: "c4-m8"},
				{Type: api.GapTypeMissingNetwork, Severity: api.GapSeverityCritical, ResourceName: "prod-vlan100"},
			})
			Expect(err).To(BeNil())
			Expect(gaps).To(HaveLen(2))
			for _, g := range gaps {
				Expect(g.Id).ToNot(BeZero())
			}
		})

		It("replaces a previous analysis entirely", func() {
			_, err := s.Gap().ReplaceForProject(context.TODO(), projectID, []api.Gap{
				{Type: api.GapTypeMissingFlavor, Severity: api.GapSeverityWarning, ResourceName: "c2-m4"},
			})
			Expect(err).To(BeNil())

			gaps, err := s.Gap().ReplaceForProject(context.TODO(), projectID, nil)
			Expect(err).To(BeNil())
			Expect(gaps).To(BeEmpty())

			count := 0
			err = gormdb.Raw("SELECT COUNT(*) FROM gaps;").Scan(&count).Error
			Expect(err).To(BeNil())
			Expect(count).To(Equal(0))
		})
	})

	Context("resolve", func() {
		It("marks a gap resolved with a note", func() {
			gaps, err := s.Gap().ReplaceForProject(context.TODO(), projectID, []api.Gap{
				{Type: api.GapTypeUnmappedTenant, Severity: api.GapSeverityCritical, ResourceName: "unassigned"},
			})
			Expect(err).To(BeNil())

			err = s.Gap().Resolve(context.TODO(), projectID, gaps[0].Id, "mapped to shared tenant")
			Expect(err).To(BeNil())

			stored, err := s.Gap().List(context.TODO(), projectID)
			Expect(err).To(BeNil())
			Expect(stored[0].Resolved).To(BeTrue())
			Expect(stored[0].Resolution).To(Equal("mapped to shared tenant"))
		})

		It("returns ErrRecordNotFound for an unknown gap", func() {
			err := s.Gap().Resolve(context.TODO(), projectID, 9999, "nope")
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})
})
