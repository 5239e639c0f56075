package web

import (
	"net/http"

	"github.com/JonMunkholm/nacebel/internal/dataset"
)

// handleHealth reports the dataset cache without triggering a load. It
// answers 503 until a snapshot has been published.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.cache.Status()

	status := http.StatusOK
	if st.State != dataset.StateReady {
		status = http.StatusServiceUnavailable
	}
	writeJSONStatus(w, status, st)
}
