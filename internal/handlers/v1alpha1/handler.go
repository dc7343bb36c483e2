package v1alpha1

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/cloudpivot/migration-planner/internal/service"
)

type Handler struct {
	projectSrv *service.ProjectService
	planSrv    *service.PlanService
	reportSrv  *service.ReportService
}

func NewHandler(projectSrv *service.ProjectService, planSrv *service.PlanService, reportSrv *service.ReportService) *Handler {
	return &Handler{
		projectSrv: projectSrv,
		planSrv:    planSrv,
		reportSrv:  reportSrv,
	}
}

func (h *Handler) Routes(router chi.Router) {
	router.Route("/projects", func(r chi.Router) {
		r.Get("/", h.ListProjects)
		r.Post("/", h.CreateProject)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetProject)
			r.Put("/", h.UpdateProject)
			r.Delete("/", h.DeleteProject)
			r.Post("/approve", h.ApproveProject)
			r.Post("/archive", h.ArchiveProject)
			r.Put("/inventory", h.UploadInventory)

			r.Get("/vms", h.ListVMs)
			r.Put("/vms/{vmId}/override", h.SetVMModeOverride)
			r.Delete("/vms/{vmId}/override", h.ClearVMModeOverride)
			r.Put("/vms/{vmId}/exclude", h.SetVMExcluded)

			r.Post("/assess", h.Assess)
			r.Delete("/assess", h.ResetAssessment)
			r.Get("/bandwidth", h.GetBandwidth)
			r.Get("/tenants", h.ListTenantPlans)
			r.Post("/schedule", h.GenerateSchedule)
			r.Delete("/schedule", h.ResetSchedule)
			r.Get("/quotas", h.ListQuotas)
			r.Post("/node-sizing", h.ComputeNodeSizing)

			r.Get("/gaps", h.ListGaps)
			r.Post("/gaps", h.RunGapAnalysis)
			r.Post("/gaps/{gapId}/resolve", h.ResolveGap)

			r.Get("/report", h.GetReport)
		})
	})
}

type ErrorReply struct {
	Message string `json:"message"`
}

func (e ErrorReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// renderServiceError maps typed service errors onto HTTP status codes.
func renderServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFound      *service.ErrResourceNotFound
		gapNotFound   *service.ErrGapNotFound
		corrupted     *service.ErrFileCorrupted
		stateConflict *service.ErrProjectStateConflict
		noInventory   *service.ErrProjectHasNoInventory
		invalid       *service.ErrInvalidRequest
	)
	switch {
	case errors.As(err, &notFound), errors.As(err, &gapNotFound):
		render.Status(r, http.StatusNotFound)
	case errors.As(err, &corrupted), errors.As(err, &invalid):
		render.Status(r, http.StatusBadRequest)
	case errors.As(err, &stateConflict):
		render.Status(r, http.StatusConflict)
	case errors.As(err, &noInventory):
		render.Status(r, http.StatusPreconditionFailed)
	default:
		render.Status(r, http.StatusInternalServerError)
	}
	_ = render.Render(w, r, ErrorReply{Message: err.Error()})
}

func projectID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

func renderBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusBadRequest)
	_ = render.Render(w, r, ErrorReply{Message: message})
}
