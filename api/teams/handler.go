package teams

import (
	"encoding/json"
	"net/http"

	"github.com/kilianp07/rescue/core/model"
	"github.com/kilianp07/rescue/core/registry"
)

// NewStatusHandler returns an HTTP handler exposing team positions via GET /api/teams.
// The optional "state" parameter keeps teams that are at the depot ("base"),
// away from it ("deployed") or busy ("busy"); "location" keeps teams in one area.
func NewStatusHandler(reg *registry.Registry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		state := r.URL.Query().Get("state")
		keep, ok := stateFilters[state]
		if !ok {
			http.Error(w, "unknown state "+state, http.StatusBadRequest)
			return
		}
		location := r.URL.Query().Get("location")
		out := []model.TeamSnapshot{}
		for t := range reg.Teams() {
			if keep(t) && (location == "" || t.Location == location) {
				out = append(out, t)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(out); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

var stateFilters = map[string]func(model.TeamSnapshot) bool{
	"":         func(model.TeamSnapshot) bool { return true },
	"base":     func(t model.TeamSnapshot) bool { return t.Location == model.Base },
	"deployed": func(t model.TeamSnapshot) bool { return t.Location != model.Base },
	"busy":     func(t model.TeamSnapshot) bool { return t.Busy },
}
