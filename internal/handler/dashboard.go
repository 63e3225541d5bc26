package handler

import (
	"net/http"

	"ordertrack/internal/service"
)

func DashboardHandler(dashSvc *service.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := dashSvc.Get(r.Context(), listParams(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

func WeeklyWorkloadHandler(workloadSvc *service.WorkloadService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wl, err := workloadSvc.Weekly(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, wl)
	}
}
