package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/excelra/asset-scout/pkg/asset"
)

// maxBodyBytes bounds create and update bodies.
const maxBodyBytes = 1 << 20

// filterQueryParam carries a textual filter; explicit parameters override it.
const filterQueryParam = "filterQuery"

func (s *Server) listAssets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params, err := asset.FilterFromValues(q)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	base, err := asset.ParseFilterQuery(q.Get(filterQueryParam))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	view, err := s.service.ListView(r.Context(), base.Merge(params))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	pp := ParsePaginationParams(r)
	page, next := PaginateSlice(view, pp)
	writeJSON(w, http.StatusOK, PaginatedResult[asset.Asset]{
		Items:         page,
		Size:          len(view),
		PageSize:      len(page),
		NextPageToken: next,
	})
}

func (s *Server) createAsset(w http.ResponseWriter, r *http.Request) {
	p, err := decodePayload(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.service.Create(r.Context(), p)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	created, err := s.service.ReadOne(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("%s/assets/%d", BasePath, id))
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) getAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	a, err := s.service.ReadOne(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) updateAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	p, err := decodePayload(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.service.Update(r.Context(), id, p); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	updated, err := s.service.ReadOne(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := s.service.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getVocabulary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Vocabulary())
}

func (s *Server) seed(w http.ResponseWriter, r *http.Request) {
	n, err := s.service.SeedIfEmpty(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"inserted": n})
}

// writeServiceError maps service errors onto status codes. Storage failures
// are logged and reported without detail.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *asset.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, asset.ErrNotFound):
		writeError(w, http.StatusNotFound, "Asset not found.")
	default:
		s.logger.Error("storage failure", "error", err, "method", r.Method, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal storage error")
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid asset id %q", raw))
		return 0, false
	}
	return id, true
}

// decodePayload reads a create or update body. Form posts are mapped the way
// the browser form submits them; anything else is decoded as JSON.
func decodePayload(w http.ResponseWriter, r *http.Request) (asset.Payload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return asset.Payload{}, fmt.Errorf("invalid form body: %w", err)
		}
		return asset.PayloadFromForm(r.PostForm), nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return asset.Payload{}, fmt.Errorf("invalid form body: %w", err)
		}
		return asset.PayloadFromForm(r.PostForm), nil
	}

	var p asset.Payload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		return asset.Payload{}, fmt.Errorf("invalid JSON body: %w", err)
	}
	return p, nil
}
