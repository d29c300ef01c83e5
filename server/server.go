// Package server hosts the watch page for embed sources and relays the
// iframe's events to the playback session.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/cinewatch/cinewatch/embed"
	"github.com/cinewatch/cinewatch/log"
	"github.com/cinewatch/cinewatch/metrics"
	"github.com/cinewatch/cinewatch/playback"
	"github.com/cinewatch/cinewatch/source"
	"github.com/cinewatch/cinewatch/title"
	"github.com/cinewatch/cinewatch/watch"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	errRelayClosed  = errors.New("frame closed")
	errUnknownMount = errors.New("unknown mount")
	errUntrusted    = errors.New("message from untrusted origin")
	errUnknownEvent = errors.New("unknown event type")
	errNoWatchFlow  = errors.New("this server does not open titles")
)

const maxEventBodySize = 64 << 10

// Options configure a Server.
type Options struct {
	Addr string

	// Watch opens titles requested through /watch. Nil disables the route.
	Watch *watch.Service

	Width      int
	Height     int
	ShieldEdge int

	// Domains are the embed mirrors whose messages are accepted.
	Domains []string
}

// Mount is one watch page.
type Mount struct {
	ID    string
	Title string

	relay *Relay

	// owned mounts were opened by the server and close with their page.
	owned bool

	mu       sync.Mutex
	playback *watch.Playback
}

// Frame returns the frame to pass to the embed adapter.
func (m *Mount) Frame() embed.Frame {
	return m.relay
}

// Bind attaches the running session shown on the page.
func (m *Mount) Bind(p *watch.Playback) {
	m.mu.Lock()
	m.playback = p
	m.mu.Unlock()
}

func (m *Mount) session() *watch.Playback {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playback
}

// Server serves watch pages.
type Server struct {
	opts     Options
	detector embed.HeuristicDetector
	router   chi.Router
	http     *http.Server
	listener net.Listener

	mu     sync.Mutex
	mounts map[string]*Mount

	logger *logrus.Entry
}

// New returns a server with its routes registered. Call Listen and Serve to start it.
func New(opts Options) *Server {
	s := &Server{
		opts:     opts,
		detector: embed.HeuristicDetector{Domains: opts.Domains},
		mounts:   make(map[string]*Mount),
		logger:   log.For("server"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, s.logRequests, middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/watch/{kind}/{id}", s.handleWatch)
	r.Get("/watch/{kind}/{id}/{season}/{episode}", s.handleWatch)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/mounts/{mount}", func(r chi.Router) {
		r.Get("/", s.handlePage)
		r.Get("/frame", s.handleFrame)
		r.Get("/state", s.handleState)
		r.Post("/events", s.handleEvent)
		r.Post("/close", s.handleClose)
	})

	s.router = r
	s.http = &http.Server{Handler: r, ReadHeaderTimeout: 10 * time.Second}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Listen binds the configured address.
func (s *Server) Listen() (net.Addr, error) {
	l, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", s.opts.Addr, err)
	}
	s.listener = l
	return l.Addr(), nil
}

// Serve serves until Shutdown. It returns nil after a clean shutdown.
func (s *Server) Serve() error {
	if s.listener == nil {
		if _, err := s.Listen(); err != nil {
			return err
		}
	}
	s.logger.WithField("addr", s.listener.Addr().String()).Info("serving watch pages")

	if err := s.http.Serve(s.listener); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown closes every mount and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	mounts := make([]*Mount, 0, len(s.mounts))
	for _, m := range s.mounts {
		mounts = append(mounts, m)
	}
	s.mounts = make(map[string]*Mount)
	s.mu.Unlock()

	for _, m := range mounts {
		s.close(ctx, m)
	}
	return s.http.Shutdown(ctx)
}

// URL returns the absolute address of path on the bound listener.
func (s *Server) URL(path string) string {
	host := s.opts.Addr
	if s.listener != nil {
		host = s.listener.Addr().String()
	}
	return "http://" + host + path
}

// Register creates a mount for a page titled name.
func (s *Server) Register(name string) *Mount {
	return s.register(name, false)
}

func (s *Server) register(name string, owned bool) *Mount {
	m := &Mount{ID: uuid.NewString(), Title: name, relay: &Relay{}, owned: owned}

	s.mu.Lock()
	s.mounts[m.ID] = m
	s.mu.Unlock()
	return m
}

// MountPath returns the page path of m.
func MountPath(m *Mount) string {
	return "/mounts/" + m.ID
}

func (s *Server) lookup(r *http.Request) (*Mount, error) {
	id := chi.URLParam(r, "mount")
	if _, err := uuid.Parse(id); err != nil {
		return nil, errUnknownMount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.mounts[id]
	if !ok {
		return nil, errUnknownMount
	}
	return m, nil
}

func (s *Server) close(ctx context.Context, m *Mount) {
	if p := m.session(); p != nil {
		if err := p.Close(ctx); err != nil {
			s.logger.WithError(err).WithField("mount", m.ID).Warn("close session")
		}
	}
	_ = m.relay.Close()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"duration": time.Since(start).String(),
			"request":  middleware.GetReqID(r.Context()),
		}).Debug("request")
	})
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <title>cinewatch</title>
    <style>
        body { background: #1e1e2e; color: #cdd6f4; font-family: sans-serif; padding: 2rem; }
        a { color: #cba6f7; }
        code { color: #f9e2af; }
    </style>
</head>
<body>
    <h1>cinewatch</h1>
    <p>Open <code>/watch/movie/{id}</code> or <code>/watch/tv/{id}/{season}/{episode}</code> with a TMDB id.</p>
    {{- if .}}
    <h2>Playing</h2>
    <ul>
    {{- range .}}
        <li><a href="/mounts/{{.ID}}">{{.Title}}</a></li>
    {{- end}}
    </ul>
    {{- end}}
</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	mounts := make([]*Mount, 0, len(s.mounts))
	for _, m := range s.mounts {
		mounts = append(mounts, m)
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, mounts); err != nil {
		s.logger.WithError(err).Error("render index")
	}
}

// handleWatch resolves the title in the path and redirects to its page.
// Malformed routes go back to the index.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	ref, err := title.FromParams(
		chi.URLParam(r, "kind"),
		chi.URLParam(r, "id"),
		chi.URLParam(r, "season"),
		chi.URLParam(r, "episode"),
	)
	if err != nil {
		s.logger.WithError(err).WithField("path", r.URL.Path).Debug("malformed watch route")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if s.opts.Watch == nil {
		http.Error(w, errNoWatchFlow.Error(), http.StatusNotFound)
		return
	}

	src, detail, err := s.opts.Watch.Resolve(r.Context(), ref)
	if err != nil {
		s.logger.WithError(err).Warn("resolve")
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	name := ref.String()
	if detail != nil && detail.Title != "" {
		name = detail.Title
	}

	m := s.register(name, true)
	p, err := s.opts.Watch.Start(r.Context(), src, m.Frame(), nil)
	if p == nil {
		s.remove(m)
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		// the page shows the failure
		s.logger.WithError(err).WithField("mount", m.ID).Warn("mount")
	}

	m.Bind(p)
	http.Redirect(w, r, MountPath(m), http.StatusSeeOther)
}

func (s *Server) remove(m *Mount) {
	s.mu.Lock()
	delete(s.mounts, m.ID)
	s.mu.Unlock()
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	m, err := s.lookup(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	page := embed.Page{
		Title:   m.Title,
		MountID: m.ID,
		Width:   s.opts.Width,
		Height:  s.opts.Height,
		Shield:  embed.Shield(s.opts.Width, s.opts.Height, s.opts.ShieldEdge),
		Origins: s.opts.Domains,
	}

	if p := m.session(); p != nil {
		src, err := p.Source(r.Context())
		if err == nil && src != nil && src.Tag() != source.TagEmbed {
			page.Notice = fmt.Sprintf("%s is playing in the native player.", m.Title)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := embed.RenderPage(w, page); err != nil {
		s.logger.WithError(err).Error("render page")
	}
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	m, err := s.lookup(r)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}

	st := m.relay.state()
	if p := m.session(); p != nil {
		if ps, _, err := p.Snapshot(r.Context()); err == nil && ps.Err != nil {
			st.Failed, st.Error = true, ps.Err.Error()
		}
	}
	writeJSON(w, http.StatusOK, st)
}

// stateResponse is the JSON form of the overlay state.
type stateResponse struct {
	playback.State
	Error    string            `json:"error,omitempty"`
	Controls playback.Controls `json:"controls"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	m, err := s.lookup(r)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}

	p := m.session()
	if p == nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "not started"})
		return
	}

	st, controls, err := p.Snapshot(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}

	resp := stateResponse{State: st, Controls: controls}
	if st.Err != nil {
		resp.Error = st.Err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// event is posted by the page.
type event struct {
	Type    string `json:"type"`
	Attempt int    `json:"attempt"`
	Title   string `json:"title"`
	Origin  string `json:"origin"`
	Payload string `json:"payload"`
	On      bool   `json:"on"`
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	m, err := s.lookup(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	var ev event
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBodySize)).Decode(&ev); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if ev.Type == "fullscreen" {
		m.relay.fullscreenChanged(ev.On)
	}

	sink := m.relay.sinkFor(ev.Attempt)
	if sink == nil {
		// stale attempt
		w.WriteHeader(http.StatusAccepted)
		return
	}

	switch ev.Type {
	case "load":
		sink.Loaded(ev.Title)
	case "message":
		if !s.detector.Trusted(ev.Origin) {
			http.Error(w, errUntrusted.Error(), http.StatusForbidden)
			return
		}
		sink.Message(ev.Origin, []byte(ev.Payload))
	case "fullscreen":
		sink.Fullscreen(ev.On)
	default:
		http.Error(w, fmt.Sprintf("%s: %q", errUnknownEvent, ev.Type), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	m, err := s.lookup(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if m.owned {
		s.remove(m)
		s.close(r.Context(), m)
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
