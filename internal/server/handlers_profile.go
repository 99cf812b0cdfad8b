package server

import (
	"net/http"

	"github.com/jonathan/web3-jobboard/internal/search"
	"github.com/jonathan/web3-jobboard/internal/server/middleware"
	"github.com/jonathan/web3-jobboard/internal/types"
)

// handleGetProfile returns the caller's profile. A caller without a stored
// profile gets an empty one rather than 404, matching how recommendations treat them.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.writeError(w, r, &ErrUnauthorized{Reason: err.Error()})
		return
	}

	profile, err := s.profiles.GetUserProfile(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, &search.StoreError{Op: "get profile", Err: err})
		return
	}
	if profile == nil {
		profile = &types.UserProfile{
			UserID:             userID,
			Skills:             []string{},
			PreferredRoles:     []string{},
			PreferredLocations: []string{},
		}
	}
	s.jsonResponse(w, http.StatusOK, profile)
}
