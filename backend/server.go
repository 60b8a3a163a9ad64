package backend

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/gitkarasune/Sketch-MQ/proto"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type Server struct {
	r          *mux.Router
	b          proto.Backend
	sessionCfg SessionConfig
	staticPath string
}

func NewServer(b proto.Backend, cfg *ServerConfig) *Server {
	s := &Server{
		b:          b,
		sessionCfg: cfg.Session,
		staticPath: cfg.HTTP.Static,
	}
	s.route()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.r.ServeHTTP(w, r)
}
