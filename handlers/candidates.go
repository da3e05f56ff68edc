// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/dayanithi400/ethervote-sentinel/election"
	"github.com/dayanithi400/ethervote-sentinel/images"
	"github.com/dayanithi400/ethervote-sentinel/middleware"
	"github.com/dayanithi400/ethervote-sentinel/models"
)

// maxCandidateBody leaves room for the form fields next to the image
const maxCandidateBody = images.MaxSize + 1<<20

type CandidateHandler struct {
	svc *election.Service
}

func NewCandidateHandler(svc *election.Service) *CandidateHandler {
	return &CandidateHandler{svc: svc}
}

// AddCandidate handles POST /candidates. Accepts JSON, or multipart form
// fields with an optional "image" file.
func (h *CandidateHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCandidateBody)

	var req models.AddCandidateRequest
	var image []byte

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxCandidateBody); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid multipart form")
			return
		}
		req = models.AddCandidateRequest{
			Name:         r.FormValue("name"),
			Party:        r.FormValue("party"),
			PartyLeader:  r.FormValue("party_leader"),
			District:     r.FormValue("district"),
			Constituency: r.FormValue("constituency"),
			Symbol:       r.FormValue("symbol"),
		}

		file, _, err := r.FormFile("image")
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid image upload")
			return
		default:
			defer file.Close()
			image, err = io.ReadAll(io.LimitReader(file, images.MaxSize+1))
			if err != nil {
				middleware.ErrorResponse(w, http.StatusBadRequest, "Failed to read image")
				return
			}
		}
	} else if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	candidate, err := h.svc.AddCandidate(r.Context(), req, image)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, candidate)
}

// ListCandidates handles GET /candidates?district=&constituency=
func (h *CandidateHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	filter := models.CandidateFilter{
		District:     r.URL.Query().Get("district"),
		Constituency: r.URL.Query().Get("constituency"),
	}

	candidates, err := h.svc.ListCandidates(r.Context(), filter)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CandidateListResponse{
		Candidates: candidates,
	})
}

// GetCandidate handles GET /candidates/{id}
func (h *CandidateHandler) GetCandidate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate id is required")
		return
	}

	candidate, err := h.svc.GetCandidate(r.Context(), id)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, candidate)
}

// ListDistricts handles GET /districts
func (h *CandidateHandler) ListDistricts(w http.ResponseWriter, r *http.Request) {
	districts, err := h.svc.ListDistricts(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.DistrictListResponse{
		Districts: districts,
	})
}
