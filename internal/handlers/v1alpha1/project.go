package v1alpha1

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	api "github.com/cloudpivot/migration-planner/api/v1alpha1"
	"github.com/cloudpivot/migration-planner/internal/handlers/validator"
)

// maxInventorySize bounds an uploaded workbook at 64 MiB.
const maxInventorySize = 64 << 20

// ProjectForm is the caller-supplied subset of project fields.
type ProjectForm struct {
	Name               string               `json:"name" validate:"required,project_name"`
	Topology           string               `json:"topology" validate:"topology"`
	Bandwidth          api.BandwidthParams  `json:"bandwidth"`
	Agents             api.AgentProfile     `json:"agents"`
	DailyChangeRatePct float64              `json:"dailyChangeRatePct" validate:"gte=0,lte=100"`
	WorkingHoursPerDay float64              `json:"workingHoursPerDay" validate:"gte=0,lte=24"`
	WorkingDaysPerWeek int                  `json:"workingDaysPerWeek" validate:"gte=0,lte=7"`
	WarmCutoverWindowH float64              `json:"warmCutoverWindowHours" validate:"gte=0"`
	DowntimeBudgetH    float64              `json:"downtimeBudgetHours" validate:"gte=0"`
	WarmDiskCeilingGB  float64              `json:"warmDiskCeilingGb" validate:"gte=0"`
	OvercommitProfile  string               `json:"overcommitProfile" validate:"overcommit_profile"`
	RiskRules          *api.RiskRules       `json:"riskRules,omitempty"`
	ExcludePatterns    []string             `json:"excludePatterns,omitempty"`
}

func (f *ProjectForm) toApi() api.Project {
	return api.Project{
		Name:               f.Name,
		Topology:           api.Topology(f.Topology),
		Bandwidth:          f.Bandwidth,
		Agents:             f.Agents,
		DailyChangeRatePct: f.DailyChangeRatePct,
		WorkingHoursPerDay: f.WorkingHoursPerDay,
		WorkingDaysPerWeek: f.WorkingDaysPerWeek,
		WarmCutoverWindowH: f.WarmCutoverWindowH,
		DowntimeBudgetH:    f.DowntimeBudgetH,
		WarmDiskCeilingGB:  f.WarmDiskCeilingGB,
		OvercommitProfile:  f.OvercommitProfile,
		RiskRules:          f.RiskRules,
		ExcludePatterns:    f.ExcludePatterns,
	}
}

func decodeProjectForm(r *http.Request) (*ProjectForm, error) {
	var form ProjectForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		return nil, err
	}
	v := validator.NewValidator()
	v.Register(validator.NewProjectValidationRules()...)
	if err := v.Struct(form); err != nil {
		return nil, err
	}
	return &form, nil
}

func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectSrv.ListProjects(r.Context())
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, projects)
}

func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	form, err := decodeProjectForm(r)
	if err != nil {
		renderBadRequest(w, r, err.Error())
		return
	}

	project, err := h.projectSrv.CreateProject(r.Context(), form.toApi())
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, project)
}

func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		renderBadRequest(w, r, "invalid project id")
		return
	}
	project, err := h.projectSrv.GetProject(r.Context(), id)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, project)
}

func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		renderBadRequest(w, r, "invalid project id")
		return
	}
	form, err := decodeProjectForm(r)
	if err != nil {
		renderBadRequest(w, r, err.Error())
		return
	}

	project, err := h.projectSrv.UpdateProject(r.Context(), id, form.toApi())
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, project)
}

func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		renderBadRequest(w, r, "invalid project id")
		return
	}
	if err := h.projectSrv.DeleteProject(r.Context(), id); err != nil {
		renderServiceError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

func (h *Handler) ApproveProject(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		renderBadRequest(w, r, "invalid project id")
		return
	}
	project, err := h.projectSrv.ApproveProject(r.Context(), id)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, project)
}

func (h *Handler) ArchiveProject(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		renderBadRequest(w, r, "invalid project id")
		return
	}
	project, err := h.projectSrv.ArchiveProject(r.Context(), id)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, project)
}

func (h *Handler) UploadInventory(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		renderBadRequest(w, r, "invalid project id")
		return
	}

	content, err := io.ReadAll(io.LimitReader(r.Body, maxInventorySize))
	if err != nil {
		renderBadRequest(w, r, "failed to read request body")
		return
	}

	vms, err := h.projectSrv.UploadInventory(r.Context(), id, content)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, vms)
}

func (h *Handler) ListVMs(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		renderBadRequest(w, r, "invalid project id")
		return
	}
	vms, err := h.projectSrv.ListVMs(r.Context(), id)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, vms)
}

// VMOverrideForm pins a migration mode on one VM.
type VMOverrideForm struct {
	Mode string `json:"mode" validate:"migration_mode"`
}

func (h *Handler) SetVMModeOverride(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		renderBadRequest(w, r, "invalid project id")
		return
	}
	vmID, err := uuid.Parse(chi.URLParam(r, "vmId"))
	if err != nil {
		renderBadRequest(w, r, "invalid vm id")
		return
	}

	var form VMOverrideForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		renderBadRequest(w, r, err.Error())
		return
	}
	v := validator.NewValidator()
	v.Register(validator.NewVMValidationRules()...)
	if err := v.Struct(form); err != nil {
		renderBadRequest(w, r, err.Error())
		return
	}

	mode := api.MigrationMode(form.Mode)
	vm, err := h.projectSrv.SetVMModeOverride(r.Context(), id, vmID, &mode)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, vm)
}

func (h *Handler) ClearVMModeOverride(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		renderBadRequest(w, r, "invalid project id")
		return
	}
	vmID, err := uuid.Parse(chi.URLParam(r, "vmId"))
	if err != nil {
		renderBadRequest(w, r, "invalid vm id")
		return
	}

	vm, err := h.projectSrv.SetVMModeOverride(r.Context(), id, vmID, nil)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, vm)
}

// VMExcludeForm toggles a VM in or out of planning scope.
type VMExcludeForm struct {
	Excluded bool   `json:"excluded"`
	Reason   string `json:"reason,omitempty"`
}

func (h *Handler) SetVMExcluded(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		renderBadRequest(w, r, "invalid project id")
		return
	}
	vmID, err := uuid.Parse(chi.URLParam(r, "vmId"))
	if err != nil {
		renderBadRequest(w, r, "invalid vm id")
		return
	}

	var form VMExcludeForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		renderBadRequest(w, r, err.Error())
		return
	}

	vm, err := h.projectSrv.SetVMExcluded(r.Context(), id, vmID, form.Excluded, form.Reason)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, vm)
}
