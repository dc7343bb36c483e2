package v1alpha1

import (
	"fmt"
	"net/http"

	"github.com/cloudpivot/migration-planner/internal/service"
	"github.com/cloudpivot/migration-planner/internal/service/report/types"
)

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		renderBadRequest(w, r, "invalid project id")
		return
	}

	format := types.ReportFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = types.ReportFormatCSV
	}

	content, err := h.reportSrv.Generate(r.Context(), id, format)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", service.ContentType(format))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=migration-plan-%s.%s", id, format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}
