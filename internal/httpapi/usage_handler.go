package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"seomaster/internal/utils"
)

func (d *Dependencies) handleUsage(w http.ResponseWriter, r *http.Request) {
	snapshot, err := d.Meter.Snapshot(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, snapshot)
}

func (d *Dependencies) handleUsageReset(w http.ResponseWriter, r *http.Request) {
	if err := d.Meter.Reset(r.Context()); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	snapshot, err := d.Meter.Snapshot(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, snapshot)
}

// handleUsageStream pushes a server-sent event with the new snapshot every
// time the meter moves, so dashboards track quota without polling.
func (d *Dependencies) handleUsageStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondWithError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	updates, cancel := d.MeterEvents.Subscribe()
	defer cancel()

	// Send the current state first so the client does not start blank.
	if snapshot, err := d.Meter.Snapshot(r.Context()); err == nil {
		data, _ := json.Marshal(snapshot)
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case snapshot, open := <-updates:
			if !open {
				return
			}
			data, err := json.Marshal(snapshot)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}
