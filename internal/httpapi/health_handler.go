package httpapi

import (
	"net/http"

	"seomaster/internal/utils"
)

type healthResponse struct {
	Status     string `json:"status"`
	Database   string `json:"database,omitempty"`
	QueueDepth *int   `json:"queue_depth,omitempty"`
}

func (d *Dependencies) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}

	if d.CallWorker != nil {
		if depth, err := d.CallWorker.QueueLength(r.Context()); err == nil {
			resp.QueueDepth = &depth
		}
	}

	if d.DB != nil {
		if err := d.DB.Health(r.Context()); err != nil {
			resp.Database = "unreachable"
			utils.RespondWithJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
		resp.Database = "ok"
	}

	utils.RespondWithJSON(w, http.StatusOK, resp)
}
