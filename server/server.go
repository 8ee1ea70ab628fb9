// Package server exposes diagram sessions over WebSocket and HTTP.
//
// Each WebSocket connection gets its own [Session]: an isolated model,
// command stack and dispatcher. Clients speak the JSON action protocol;
// the server pushes model updates back and suppresses pushes whose
// blake3 digest matches what the client already has. The handshake
// response carries the session id in the X-Session-Id header, which the
// client uses to address the SVG export routes.
//
// # Endpoints
//
//	GET /diagram              WebSocket upgrade, one session per connection
//	GET /export/{id}.svg      current model as SVG, blake3 ETag
//	GET /export/{id}.svgz     the same, gzip-compressed
package server

import (
	"bytes"
	"context"
	"encoding/hex"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"lukechampine.com/blake3"

	sprotty "github.com/tortmayr/sprotty-1"
	"github.com/tortmayr/sprotty-1/measure"
	"github.com/tortmayr/sprotty-1/svg"
)

func logger() *slog.Logger {
	return sprotty.Logger()
}

// Server accepts diagram clients and serves SVG exports of their
// sessions.
type Server struct {
	cfg      Config
	upgrader websocket.Upgrader
	model    func() *sprotty.Element
	meas     measure.Measurer
	renderer *svg.Renderer

	mu       sync.RWMutex
	sessions map[string]*Session
}

// Option configures a Server.
type Option func(*Server)

// WithModel sets the builder for the initial model of new sessions. The
// builder is invoked once per session; returning nil starts the session
// on an empty placeholder model. Without a builder every session starts
// empty and waits for the client's set-model action.
func WithModel(build func() *sprotty.Element) Option {
	return func(s *Server) {
		if build != nil {
			s.model = build
		}
	}
}

// WithMeasurer installs the text measurer used for the label bounds
// pass. The pass runs when a session starts on a built model and after
// every model-replacing action. Without a measurer no bounds pass runs
// and labels keep the sizes the client sent.
func WithMeasurer(m measure.Measurer) Option {
	return func(s *Server) { s.meas = m }
}

// WithRenderer replaces the SVG renderer used by the export routes.
func WithRenderer(r *svg.Renderer) Option {
	return func(s *Server) {
		if r != nil {
			s.renderer = r
		}
	}
}

// New creates a Server with the given configuration.
func New(cfg Config, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		model:    func() *sprotty.Element { return nil },
		renderer: svg.NewRenderer(),
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}
	return s
}

// Handler returns the HTTP handler with the WebSocket endpoint and the
// export routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /diagram", s.handleDiagram)
	mux.HandleFunc("GET /export/{file}", s.handleExport)
	return mux
}

// ListenAndServe starts the HTTP server and blocks until ctx is
// canceled or the listener fails. On cancellation it drops all sessions
// and shuts the HTTP server down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpSrv := &http.Server{Addr: s.cfg.Listen, Handler: s.Handler()}
	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()
	logger().Info("server listening", "addr", s.cfg.Listen)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.closeSessions()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// checkOrigin authorizes WebSocket upgrades. Browser requests from the
// server's own host are always allowed; cross-origin requests must match
// one of the configured origins, and a configured "*" allows any.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	conn, err := s.upgrader.Upgrade(w, r, http.Header{"X-Session-Id": {id}})
	if err != nil {
		// Upgrade has already written the HTTP error response.
		logger().Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	root, err := s.buildModel()
	if err != nil {
		logger().Warn("initial model rejected, starting empty", "session", id, "error", err)
		root = nil
	}
	session := newSession(id, conn, s.cfg, root, s.meas)
	s.addSession(session)
	logger().Info("session opened", "session", id, "remote", r.RemoteAddr)

	if root != nil && s.meas != nil {
		session.measureBounds()
	}

	session.serve()

	s.removeSession(id)
	session.stack.Close()
	session.close()
	logger().Info("session closed", "session", id)
}

func (s *Server) buildModel() (*sprotty.Root, error) {
	el := s.model()
	if el == nil {
		return nil, nil
	}
	return sprotty.NewRoot(el)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id, compressed, ok := splitExportName(r.PathValue("file"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	session := s.session(id)
	if session == nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	el := session.Model()
	if el == nil {
		http.Error(w, "session closed", http.StatusGone)
		return
	}
	root, err := sprotty.NewRoot(el)
	if err != nil {
		logger().Warn("export failed", "session", id, "error", err)
		http.Error(w, "model unavailable", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if compressed {
		err = s.renderer.RenderCompressed(&buf, root)
	} else {
		err = s.renderer.Render(&buf, root)
	}
	if err != nil {
		logger().Warn("export failed", "session", id, "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	sum := blake3.Sum256(buf.Bytes())
	etag := `"` + hex.EncodeToString(sum[:]) + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if compressed {
		w.Header().Set("Content-Encoding", "gzip")
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger().Debug("export write failed", "session", id, "error", err)
	}
}

// splitExportName splits an export path element like "abc.svg" or
// "abc.svgz" into the session id and the compression flag.
func splitExportName(file string) (id string, compressed, ok bool) {
	if id, ok = strings.CutSuffix(file, ".svgz"); ok {
		return id, true, id != ""
	}
	if id, ok = strings.CutSuffix(file, ".svg"); ok {
		return id, false, id != ""
	}
	return "", false, false
}

func (s *Server) addSession(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID()] = session
}

func (s *Server) removeSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// session returns the live session with the given id, or nil.
func (s *Server) session(id string) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[id]
}

// closeSessions drops every connection; the per-connection handlers
// unwind and close the stacks.
func (s *Server) closeSessions() {
	s.mu.RLock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	s.mu.RUnlock()
	for _, session := range sessions {
		session.close()
	}
}
