package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/plant-core/internal/audit"
	"github.com/nerrad567/plant-core/internal/plant"
)

// handleListPlants returns every plant ordered by id.
func (s *Server) handleListPlants(w http.ResponseWriter, r *http.Request) {
	plants, err := s.plants.List(r.Context())
	if err != nil {
		s.logger.Error("failed to list plants", "error", err)
		writeInternalError(w, "failed to list plants")
		return
	}
	writeJSON(w, http.StatusOK, plants)
}

// handleGetPlant returns a single plant by id.
func (s *Server) handleGetPlant(w http.ResponseWriter, r *http.Request) {
	id, ok := plantID(w, r)
	if !ok {
		return
	}

	p, err := s.plants.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, plant.ErrPlantNotFound) {
			if s.cfg.NotFoundAsNull {
				w.WriteHeader(http.StatusOK)
				return
			}
			writeNotFound(w, "plant not found")
			return
		}
		s.logger.Error("failed to get plant", "id", id, "error", err)
		writeInternalError(w, "failed to get plant")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// handleCreatePlant stores a new plant. Any id in the body is ignored.
func (s *Server) handleCreatePlant(w http.ResponseWriter, r *http.Request) {
	var p plant.Plant
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeBadRequest(w, "invalid JSON: "+err.Error())
		return
	}
	p.ID = 0

	if err := s.plants.Create(r.Context(), &p); err != nil {
		s.logger.Error("failed to create plant", "error", err)
		writeInternalError(w, "failed to create plant")
		return
	}

	s.afterMutation(r, audit.ActionCreate, &p)
	writeJSON(w, http.StatusCreated, p)
}

// handleUpdatePlant merges the non-null fields of the body into an existing
// plant and saves the result. An unknown id is never created.
func (s *Server) handleUpdatePlant(w http.ResponseWriter, r *http.Request) {
	id, ok := plantID(w, r)
	if !ok {
		return
	}

	var patch plant.Plant
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeBadRequest(w, "invalid JSON: "+err.Error())
		return
	}

	existing, err := s.plants.GetByID(r.Context(), id)
	if err != nil {
		s.writeLookupError(w, id, err)
		return
	}

	existing.Apply(patch)
	if err := s.plants.Save(r.Context(), existing); err != nil {
		s.logger.Error("failed to save plant", "id", id, "error", err)
		writeInternalError(w, "failed to update plant")
		return
	}

	s.afterMutation(r, audit.ActionUpdate, existing)
	writeJSON(w, http.StatusOK, existing)
}

// handleDeletePlant removes a plant and returns its state before deletion.
func (s *Server) handleDeletePlant(w http.ResponseWriter, r *http.Request) {
	id, ok := plantID(w, r)
	if !ok {
		return
	}

	existing, err := s.plants.GetByID(r.Context(), id)
	if err != nil {
		s.writeLookupError(w, id, err)
		return
	}

	if err := s.plants.Delete(r.Context(), id); err != nil {
		// A concurrent delete may have won between the read and here.
		s.writeLookupError(w, id, err)
		return
	}

	s.afterMutation(r, audit.ActionDelete, existing)
	writeJSON(w, http.StatusOK, existing)
}

// handleSearchPlants runs one of the fixed plant filters.
//
// Query parameters (both optional):
//   - hasFruit: true or false
//   - maxQuantity: integer, exclusive upper bound on quantity
//
// With neither parameter the result is an empty array.
func (s *Server) handleSearchPlants(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var hasFruit *bool
	if v := q.Get("hasFruit"); v != "" {
		b, err := parseFlag(v)
		if err != nil {
			writeBadRequest(w, err.Error())
			return
		}
		hasFruit = &b
	}

	var maxQuantity *int
	if v := q.Get("maxQuantity"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeBadRequest(w, "maxQuantity must be an integer")
			return
		}
		maxQuantity = &n
	}

	query, ok := plant.SelectQuery(hasFruit, maxQuantity)
	if !ok {
		writeJSON(w, http.StatusOK, []plant.Plant{})
		return
	}

	plants, err := s.plants.Find(r.Context(), query)
	if err != nil {
		s.logger.Error("failed to search plants", "query", query.Kind.String(), "error", err)
		writeInternalError(w, "failed to search plants")
		return
	}
	writeJSON(w, http.StatusOK, plants)
}

// parseFlag reads a boolean query value. It accepts true/false, yes/no,
// on/off and 1/0 in any letter case.
func parseFlag(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("hasFruit must be true or false, got %q", v)
}

// writeLookupError answers a failed lookup on an existing-plant route.
// Unknown ids answer 404, or 200 with null when NotFoundAsNull is set.
func (s *Server) writeLookupError(w http.ResponseWriter, id int64, err error) {
	if errors.Is(err, plant.ErrPlantNotFound) {
		if s.cfg.NotFoundAsNull {
			writeNull(w)
			return
		}
		writeNotFound(w, "plant not found")
		return
	}
	s.logger.Error("plant lookup failed", "id", id, "error", err)
	writeInternalError(w, "failed to load plant")
}

// plantID parses the {id} path parameter, writing a 400 when it is not an integer.
func plantID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeBadRequest(w, "plant id must be an integer")
		return 0, false
	}
	return id, true
}
