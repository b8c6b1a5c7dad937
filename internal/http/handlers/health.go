package handlers

import (
	"net/http"
)

// Health is the liveness probe; it says nothing about batch progress.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
