package backend

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gitkarasune/Sketch-MQ/proto"
)

func (s *Server) route() {
	s.r = mux.NewRouter().StrictSlash(true)

	s.r.Path("/").Methods("OPTIONS").HandlerFunc(s.handleProbe)
	s.r.Path("/metrics").Handler(promhttp.Handler())
	s.r.HandleFunc("/ws", s.handleSocket)

	if s.staticPath != "" {
		s.r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.staticPath)))
	}
}

func (s *Server) handleProbe(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// handleSocket upgrades the connection and runs its session to
// completion. Identity comes from the handshake query parameters,
// established upstream; a missing uid is rejected before any session
// or room state exists.
func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	identity, err := handshakeIdentity(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer conn.Close()

	session := newSession(context.Background(), conn, s.b, identity, s.sessionCfg)
	session.serve()
}

func handshakeIdentity(r *http.Request) (*memIdentity, error) {
	q := r.URL.Query()

	uid := q.Get("uid")
	if uid == "" {
		return nil, proto.ErrAuthRequired
	}

	name, err := proto.NormalizeName(q.Get("name"))
	if err != nil {
		name = uid
	}

	return newMemIdentity(proto.UserID(uid), name, q.Get("avatar")), nil
}
