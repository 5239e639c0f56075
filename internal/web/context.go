package web

import (
	"net"
	"net/http"
)

// remoteIP is the client address with any port removed. TrustedRealIP has
// already replaced RemoteAddr when the request came through a trusted proxy.
func remoteIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// setLoadHeader tags the response with the ID of the dataset load that served it.
func (s *Server) setLoadHeader(w http.ResponseWriter) {
	if snap := s.cache.Current(); snap != nil {
		w.Header().Set("X-Dataset-Load", snap.LoadID.String())
	}
}
