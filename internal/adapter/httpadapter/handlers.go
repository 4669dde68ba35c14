package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/couchcryptid/salary-map/internal/app"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

// maxCommandBytes bounds a command request body.
const maxCommandBytes = 4 << 10

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var cmd app.Command
	dec := json.NewDecoder(io.LimitReader(r.Body, maxCommandBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cmd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid command: "+err.Error())
		return
	}

	vm, err := s.store.Dispatch(r.Context(), cmd)
	if errors.Is(err, app.ErrUnknownCommand) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("dispatch failed", "kind", cmd.Kind, "error", err)
		writeError(w, http.StatusInternalServerError, "dispatch failed")
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, vm)
}

func (s *Server) handleTableRow(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	row, ok := s.store.TableRow(name)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown university: "+name)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, row)
}

func (s *Server) handleMarkers(w http.ResponseWriter, r *http.Request) {
	zoom := s.opts.DefaultZoom
	if raw := r.URL.Query().Get("zoom"); raw != "" {
		z, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "zoom must be an integer")
			return
		}
		zoom = z
	}
	sharedobs.WriteJSON(w, http.StatusOK, s.mapView.Layer(zoom))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}
