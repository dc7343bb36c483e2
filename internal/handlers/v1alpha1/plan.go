package v1alpha1

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	api "github.com/cloudpivot/migration-planner/api/v1alpha1"
	"github.com/cloudpivot/migration-planner/internal/planning"
)

func (h *Handler) Assess(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		renderBadRequest(w, r, "invalid project id")
		return
	}
	result, err := h.planSrv.Assess(r.Context(), id)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{
		"vms":       result.VMs,
		"bandwidth": result.Bandwidth,
	})
}

func (h *Handler) ResetAssessment(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		renderBadRequest(w, r, "invalid project id")
		return
	}
	if err := h.planSrv.ResetAssessment(r.Context(), id); err != nil {
		renderServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetBandwidth(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		renderBadRequest(w, r, "invalid project id")
		return
	}
	model, err := h.planSrv.Bandwidth(r.Context(), id)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, model)
}

func (h *Handler) ListTenantPlans(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		renderBadRequest(w, r, "invalid project id")
		return
	}
	plans, err := h.planSrv.TenantPlans(r.Context(), id, nil)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, plans)
}

// ScheduleForm carries optional scheduling knobs: tenant ranking and a
// slot-per-day override.
type ScheduleForm struct {
	TenantPriorities map[string]int `json:"tenantPriorities,omitempty"`
	DailySlots       int            `json:"dailySlots,omitempty"`
}

func (h *Handler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		renderBadRequest(w, r, "invalid project id")
		return
	}

	var form ScheduleForm
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			renderBadRequest(w, r, err.Error())
			return
		}
	}

	schedule, err := h.planSrv.GenerateSchedule(r.Context(), id, form.TenantPriorities, form.DailySlots)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, schedule)
}

func (h *Handler) ResetSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		renderBadRequest(w, r, "invalid project id")
		return
	}
	if err := h.planSrv.ResetSchedule(r.Context(), id); err != nil {
		renderServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListQuotas(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		renderBadRequest(w, r, "invalid project id")
		return
	}
	quotas, err := h.planSrv.Quotas(r.Context(), id, nil)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, quotas)
}

// NodeSizingForm supplies the candidate node shape and redundancy policy.
type NodeSizingForm struct {
	Profile    api.NodeProfile `json:"profile"`
	Redundancy int             `json:"redundancy" validate:"gte=1,lte=2"`
}

func (h *Handler) ComputeNodeSizing(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		renderBadRequest(w, r, "invalid project id")
		return
	}

	var form NodeSizingForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		renderBadRequest(w, r, err.Error())
		return
	}
	policy := planning.RedundancyNPlus1
	if form.Redundancy == 2 {
		policy = planning.RedundancyNPlus2
	}

	sizing, err := h.planSrv.NodeSizing(r.Context(), id, &form.Profile, policy)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, sizing)
}

func (h *Handler) ListGaps(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		renderBadRequest(w, r, "invalid project id")
		return
	}
	gaps, err := h.planSrv.ListGaps(r.Context(), id)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, gaps)
}

// GapAnalysisForm carries the target platform snapshot to compare against.
// A null snapshot clears the stored gap list.
type GapAnalysisForm struct {
	Snapshot *api.TargetSnapshot `json:"snapshot"`
}

func (h *Handler) RunGapAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		renderBadRequest(w, r, "invalid project id")
		return
	}

	var form GapAnalysisForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		renderBadRequest(w, r, err.Error())
		return
	}

	gaps, err := h.planSrv.RunGapAnalysis(r.Context(), id, form.Snapshot)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, gaps)
}

// GapResolveForm records the operator note attached to a resolved gap.
type GapResolveForm struct {
	Resolution string `json:"resolution"`
}

func (h *Handler) ResolveGap(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		renderBadRequest(w, r, "invalid project id")
		return
	}
	gapID, err := strconv.ParseUint(chi.URLParam(r, "gapId"), 10, 32)
	if err != nil {
		renderBadRequest(w, r, "invalid gap id")
		return
	}

	var form GapResolveForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		renderBadRequest(w, r, err.Error())
		return
	}

	if err := h.planSrv.ResolveGap(r.Context(), id, uint(gapID), form.Resolution); err != nil {
		renderServiceError(w, r, err)
		return
	}
	render.NoContent(w, r)
}
