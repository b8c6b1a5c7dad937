// Package handlers exposes the worker's observability surface: liveness and
// the progress of the current concept batch.
package handlers

import (
	"encoding/json"
	"net/http"

	"pipeline/internal/infra"
)

type App struct {
	Tracker *Tracker
	Log     infra.Logger
}

func NewApp(tracker *Tracker, log infra.Logger) *App {
	return &App{Tracker: tracker, Log: log}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
