package server

import (
	"net/http"

	"github.com/jonathan/web3-jobboard/internal/search"
)

// handleFilters returns the distinct values for the filter controls
func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	opts, err := s.filters.FilterOptions(r.Context())
	if err != nil {
		s.writeError(w, r, &search.StoreError{Op: "filter options", Err: err})
		return
	}
	s.jsonResponse(w, http.StatusOK, opts)
}
