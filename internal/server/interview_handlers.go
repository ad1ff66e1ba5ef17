package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/wolfeidau/interviewnotes/internal/interview"
	"github.com/wolfeidau/interviewnotes/internal/models"
	"github.com/wolfeidau/interviewnotes/internal/store"
)

func (s *Server) handleListInterviews(w http.ResponseWriter, r *http.Request) {
	req, err := pageRequestFromQuery(r.URL.Query())
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}

	page, err := s.interviews.ListAll(r.Context(), req)
	if err != nil {
		if errors.Is(err, store.ErrInvalidPageRequest) || errors.Is(err, store.ErrUnsupportedSortField) {
			writeErr(w, http.StatusBadRequest, "", err.Error())
			return
		}
		writeInternal(w, r, err)
		return
	}

	view, err := s.interviews.DescribePage(r.Context(), page)
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleGetInterview(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	found, ok, err := s.interviews.GetByID(r.Context(), id)
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	if !ok {
		writeErr(w, http.StatusNotFound, "", "interview not found")
		return
	}

	s.writeInterview(w, r, http.StatusOK, found)
}

func (s *Server) handleCreateInterview(w http.ResponseWriter, r *http.Request) {
	var req interview.CreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}

	created, err := s.interviews.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, interview.ErrInvalidInterview) {
			writeErr(w, http.StatusBadRequest, "", err.Error())
			return
		}
		writeInternal(w, r, err)
		return
	}

	s.writeInterview(w, r, http.StatusCreated, created)
}

func (s *Server) handleUpdateInterview(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req interview.UpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}

	updated, ok, err := s.interviews.Update(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, interview.ErrInvalidInterview) {
			writeErr(w, http.StatusBadRequest, "", err.Error())
			return
		}
		writeInternal(w, r, err)
		return
	}
	if !ok {
		writeErr(w, http.StatusNotFound, "", "interview not found")
		return
	}

	s.writeInterview(w, r, http.StatusOK, updated)
}

func (s *Server) handleDeleteInterview(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	deleted, err := s.interviews.Delete(r.Context(), id)
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	if !deleted {
		writeErr(w, http.StatusNotFound, "", "interview not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListByCandidate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "candidateID")
	if !ok {
		return
	}

	found, err := s.interviews.ListByCandidate(r.Context(), id)
	s.writeInterviews(w, r, found, err)
}

func (s *Server) handleListByInterviewer(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "interviewerID")
	if !ok {
		return
	}

	found, err := s.interviews.ListByInterviewer(r.Context(), id)
	s.writeInterviews(w, r, found, err)
}

func (s *Server) handleListByStatus(w http.ResponseWriter, r *http.Request) {
	status, ok := textParam(w, r, "status")
	if !ok {
		return
	}

	found, err := s.interviews.ListByStatus(r.Context(), status)
	s.writeInterviews(w, r, found, err)
}

func (s *Server) handleListByPosition(w http.ResponseWriter, r *http.Request) {
	position, ok := textParam(w, r, "position")
	if !ok {
		return
	}

	found, err := s.interviews.ListByPosition(r.Context(), position)
	s.writeInterviews(w, r, found, err)
}

func (s *Server) writeInterview(w http.ResponseWriter, r *http.Request, code int, iv *models.Interview) {
	views, err := s.interviews.Describe(r.Context(), []*models.Interview{iv})
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	writeJSON(w, code, views[0])
}

func (s *Server) writeInterviews(w http.ResponseWriter, r *http.Request, interviews []*models.Interview, err error) {
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	views, err := s.interviews.Describe(r.Context(), interviews)
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, views)
}

// pageRequestFromQuery reads page, size, sortBy and sortDir from the query string.
func pageRequestFromQuery(q url.Values) (store.PageRequest, error) {
	page, err := intQuery(q, "page", 0)
	if err != nil {
		return store.PageRequest{}, err
	}
	size, err := intQuery(q, "size", store.DefaultPageSize)
	if err != nil {
		return store.PageRequest{}, err
	}

	sortDir := q.Get("sortDir")
	if sortDir != "" && sortDir != "asc" && sortDir != "desc" {
		return store.PageRequest{}, fmt.Errorf("sortDir must be asc or desc")
	}

	return store.NewPageRequest(page, size, q.Get("sortBy"), sortDir)
}

func intQuery(q url.Values, name string, fallback int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return v, nil
}

func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		writeErr(w, http.StatusBadRequest, "", fmt.Sprintf("%s must be a positive integer", name))
		return 0, false
	}
	return id, true
}

func textParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v, err := url.PathUnescape(chi.URLParam(r, name))
	if err != nil || v == "" {
		writeErr(w, http.StatusBadRequest, "", fmt.Sprintf("invalid %s", name))
		return "", false
	}
	return v, true
}
