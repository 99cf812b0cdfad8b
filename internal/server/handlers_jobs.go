package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jonathan/web3-jobboard/internal/ranking"
	"github.com/jonathan/web3-jobboard/internal/search"
	"github.com/jonathan/web3-jobboard/internal/server/middleware"
	"github.com/jonathan/web3-jobboard/internal/types"
)

// maxInteractionBody caps the interaction request body
const maxInteractionBody = 4 << 10

// RecommendedJob is a job posting annotated with its recommendation score.
type RecommendedJob struct {
	types.JobPosting
	RecommendationScore   int      `json:"recommendationScore"`
	RecommendationReasons []string `json:"recommendationReasons"`
}

// RecommendedResponse is the body of GET /jobs/recommended.
// Total counts every candidate above the score threshold, not just this page.
type RecommendedResponse struct {
	Recommendations []RecommendedJob `json:"recommendations"`
	Total           int              `json:"total"`
}

// handleListJobs searches jobs with the request's filters and pagination
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	q := search.Build(r.URL.Query(), s.cfg.Endpoints.Jobs.SearchDefaults(), s.now())

	page, err := s.exec.FetchPage(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, page)
}

// handleGetJob retrieves a job posting by its ID
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		s.writeError(w, r, &ErrValidation{Field: "id", Message: "is required"})
		return
	}

	job, err := s.jobs.GetJob(r.Context(), id)
	if err != nil {
		s.writeError(w, r, &search.StoreError{Op: "get", Err: err})
		return
	}
	if job == nil {
		s.writeError(w, r, &ErrNotFound{Resource: "job", ID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

// handleRecommendedJobs scores the newest matching jobs against the caller's profile.
func (s *Server) handleRecommendedJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.writeError(w, r, &ErrUnauthorized{Reason: err.Error()})
		return
	}

	now := s.now()
	q := search.Build(r.URL.Query(), s.cfg.Endpoints.Recommended.SearchDefaults(), now)

	profile, err := s.profiles.GetUserProfile(ctx, userID)
	if err != nil {
		s.writeError(w, r, &search.StoreError{Op: "get profile", Err: err})
		return
	}
	if profile == nil {
		profile = &types.UserProfile{UserID: userID}
	}

	candidates, err := s.exec.Candidates(ctx, q.Filter, q.Order, s.cfg.Recommend.CandidatePool)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var history []types.JobPosting
	if ids := profile.HistoryJobIDs(); len(ids) > 0 {
		history, err = s.jobs.GetJobsByIDs(ctx, ids)
		if err != nil {
			s.writeError(w, r, &search.StoreError{Op: "get history", Err: err})
			return
		}
	}

	recs := ranking.Recommend(candidates, profile, history, now, s.cfg.Recommend.MinScore)

	resp := RecommendedResponse{Recommendations: []RecommendedJob{}, Total: len(recs)}
	if q.Offset < len(recs) {
		end := min(q.Offset+q.Limit, len(recs))
		for _, rec := range recs[q.Offset:end] {
			resp.Recommendations = append(resp.Recommendations, RecommendedJob{
				JobPosting:            rec.Job,
				RecommendationScore:   rec.Result.Score,
				RecommendationReasons: rec.Result.Reasons,
			})
		}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleRecordInteraction appends a saved or applied entry to the caller's history
func (s *Server) handleRecordInteraction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.writeError(w, r, &ErrUnauthorized{Reason: err.Error()})
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		s.writeError(w, r, &ErrValidation{Field: "id", Message: "is required"})
		return
	}

	var req types.InteractionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxInteractionBody)).Decode(&req); err != nil {
		s.writeError(w, r, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, validationError(err))
		return
	}

	job, err := s.jobs.GetJob(ctx, id)
	if err != nil {
		s.writeError(w, r, &search.StoreError{Op: "get", Err: err})
		return
	}
	if job == nil {
		s.writeError(w, r, &ErrNotFound{Resource: "job", ID: id})
		return
	}

	if err := s.profiles.RecordInteraction(ctx, userID, id, req.Type); err != nil {
		var storeErr *search.StoreError
		if !errors.As(err, &storeErr) {
			err = &search.StoreError{Op: "record interaction", Err: err}
		}
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, types.HistoryEntry{
		JobID:     id,
		Type:      req.Type,
		CreatedAt: s.now().UTC(),
	})
}
