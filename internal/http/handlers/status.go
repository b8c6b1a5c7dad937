package handlers

import (
	"net/http"
)

// Status reports the current batch's progress and per-style results.
func (a *App) Status(w http.ResponseWriter, r *http.Request) {
	view, ok := a.Tracker.Snapshot()
	if !ok {
		a.json(w, http.StatusOK, map[string]string{"state": "idle"})
		return
	}
	a.json(w, http.StatusOK, view)
}
