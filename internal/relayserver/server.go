// Package relayserver is the reference relay: an in-memory directory,
// message mailbox and group store behind the HTTP API the client package
// speaks. It stores only envelope material and public metadata and is
// intended for development and tests rather than production durability.
package relayserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shadowtalk/internal/domain"
)

// DefaultPollTimeout is how long an event long-poll is held open before
// the server answers with an empty list.
const DefaultPollTimeout = 25 * time.Second

// Server owns the relay state and its HTTP handlers.
type Server struct {
	log         *slog.Logger
	state       *state
	metrics     *metrics
	pollTimeout time.Duration
	registry    *prometheus.Registry
}

// Option adjusts a Server at construction time.
type Option func(*Server)

// WithPollTimeout overrides how long event polls are parked.
func WithPollTimeout(d time.Duration) Option {
	return func(s *Server) { s.pollTimeout = d }
}

// New returns a relay server. A nil logger falls back to slog.Default().
func New(log *slog.Logger, opts ...Option) *Server {
	if log == nil {
		log = slog.Default()
	}
	reg := prometheus.NewRegistry()
	s := &Server{
		log:         log,
		state:       newState(),
		metrics:     newMetrics(reg),
		pollTimeout: DefaultPollTimeout,
		registry:    reg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the full route table, including /metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /users/register", s.handle("register", s.register))
	mux.HandleFunc("GET /users/lookup/{username}", s.handle("lookup", s.lookup))
	mux.HandleFunc("DELETE /users/{username}", s.handle("delete_account", s.deleteAccount))

	mux.HandleFunc("POST /chat/send", s.handle("direct_send", s.directSend))
	mux.HandleFunc("GET /chat/inbox/{username}", s.handle("inbox", s.inbox))

	mux.HandleFunc("POST /chat/groups/create", s.handle("group_create", s.groupCreate))
	mux.HandleFunc("GET /chat/groups", s.handle("group_list", s.groupList))
	mux.HandleFunc("GET /chat/groups/{id}/share/{username}", s.handle("group_share", s.groupShare))
	mux.HandleFunc("POST /chat/groups/{id}/send", s.handle("group_send", s.groupSend))
	mux.HandleFunc("GET /chat/groups/{id}/messages", s.handle("group_messages", s.groupMessages))
	mux.HandleFunc("POST /chat/groups/{id}/rotate", s.handle("group_rotate", s.groupRotate))

	mux.HandleFunc("GET /events/{username}", s.handle("events", s.events))

	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return mux
}

// handle wraps a route with request logging and the per-route counter.
func (s *Server) handle(route string, fn func(http.ResponseWriter, *http.Request) int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := fn(w, r)
		s.metrics.requests.WithLabelValues(route, statusClass(status)).Inc()
		s.log.Debug("request", "route", route, "status", status)
	}
}

func statusClass(code int) string {
	switch code / 100 {
	case 2:
		return "2xx"
	case 4:
		return "4xx"
	default:
		return "5xx"
	}
}

// ---------- directory ----------

type registerRequest struct {
	Username  domain.Username  `json:"username"`
	PublicKey domain.PublicKey `json:"public_key"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) int {
	var req registerRequest
	if !decode(w, r, &req) {
		return http.StatusBadRequest
	}
	if req.Username == "" {
		http.Error(w, "username required", http.StatusBadRequest)
		return http.StatusBadRequest
	}
	s.state.register(req.Username, req.PublicKey)
	s.log.Info("registered", "username", req.Username)
	w.WriteHeader(http.StatusOK)
	return http.StatusOK
}

type lookupResponse struct {
	Username  domain.Username  `json:"username"`
	PublicKey domain.PublicKey `json:"public_key"`
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) int {
	username := domain.Username(r.PathValue("username"))
	pub, ok := s.state.lookup(username)
	if !ok {
		http.Error(w, "no such user", http.StatusNotFound)
		return http.StatusNotFound
	}
	return writeJSON(w, lookupResponse{Username: username, PublicKey: pub})
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) int {
	username := domain.Username(r.PathValue("username"))
	s.state.deleteAccount(username)
	s.log.Info("account deleted", "username", username)
	w.WriteHeader(http.StatusOK)
	return http.StatusOK
}

// ---------- direct messages ----------

type directSendRequest struct {
	Sender    domain.Username      `json:"sender"`
	Recipient domain.Username      `json:"recipient"`
	Message   domain.DirectMessage `json:"message"`
}

func (s *Server) directSend(w http.ResponseWriter, r *http.Request) int {
	var req directSendRequest
	if !decode(w, r, &req) {
		return http.StatusBadRequest
	}
	if !s.state.enqueueDirect(req.Sender, req.Recipient, req.Message) {
		http.Error(w, "no such recipient", http.StatusNotFound)
		return http.StatusNotFound
	}
	s.metrics.directs.Inc()
	w.WriteHeader(http.StatusOK)
	return http.StatusOK
}

func (s *Server) inbox(w http.ResponseWriter, r *http.Request) int {
	username := domain.Username(r.PathValue("username"))
	msgs := s.state.drainInbox(username)
	return writeJSON(w, msgs)
}

// ---------- groups ----------

type createGroupRequest struct {
	Creator      domain.Username        `json:"creator"`
	Name         string                 `json:"name"`
	Members      []domain.Username      `json:"members"`
	Distribution domain.KeyDistribution `json:"distribution"`
}

func (s *Server) groupCreate(w http.ResponseWriter, r *http.Request) int {
	var req createGroupRequest
	if !decode(w, r, &req) {
		return http.StatusBadRequest
	}
	if req.Creator == "" || len(req.Distribution) == 0 {
		http.Error(w, "creator and distribution required", http.StatusBadRequest)
		return http.StatusBadRequest
	}
	g := s.state.createGroup(req.Creator, req.Name, req.Members, req.Distribution)
	s.log.Info("group created", "id", g.ID, "creator", req.Creator, "members", len(g.Members))
	return writeJSON(w, g)
}

func (s *Server) groupList(w http.ResponseWriter, r *http.Request) int {
	member := domain.Username(r.URL.Query().Get("member"))
	groups := s.state.listGroups(member)
	if groups == nil {
		groups = []domain.Group{}
	}
	return writeJSON(w, groups)
}

func (s *Server) groupShare(w http.ResponseWriter, r *http.Request) int {
	id := domain.GroupID(r.PathValue("id"))
	username := domain.Username(r.PathValue("username"))
	share, ok := s.state.groupShare(id, username)
	if !ok {
		http.Error(w, "no share for member", http.StatusNotFound)
		return http.StatusNotFound
	}
	return writeJSON(w, share)
}

type groupSendRequest struct {
	Sender   domain.Username `json:"sender"`
	Envelope domain.Envelope `json:"envelope"`
}

func (s *Server) groupSend(w http.ResponseWriter, r *http.Request) int {
	id := domain.GroupID(r.PathValue("id"))
	var req groupSendRequest
	if !decode(w, r, &req) {
		return http.StatusBadRequest
	}
	if !s.state.appendGroupMessage(id, req.Sender, req.Envelope) {
		http.Error(w, "no such group", http.StatusNotFound)
		return http.StatusNotFound
	}
	s.metrics.groupMsgs.Inc()
	w.WriteHeader(http.StatusOK)
	return http.StatusOK
}

func (s *Server) groupMessages(w http.ResponseWriter, r *http.Request) int {
	id := domain.GroupID(r.PathValue("id"))
	msgs, ok := s.state.groupMessages(id)
	if !ok {
		http.Error(w, "no such group", http.StatusNotFound)
		return http.StatusNotFound
	}
	return writeJSON(w, msgs)
}

type rotateRequest struct {
	Rotator      domain.Username        `json:"rotator"`
	Distribution domain.KeyDistribution `json:"distribution"`
}

func (s *Server) groupRotate(w http.ResponseWriter, r *http.Request) int {
	id := domain.GroupID(r.PathValue("id"))
	var req rotateRequest
	if !decode(w, r, &req) {
		return http.StatusBadRequest
	}
	if len(req.Distribution) == 0 {
		http.Error(w, "distribution required", http.StatusBadRequest)
		return http.StatusBadRequest
	}
	if !s.state.rotateDistribution(id, req.Rotator, req.Distribution) {
		http.Error(w, "no such group", http.StatusNotFound)
		return http.StatusNotFound
	}
	s.metrics.rotations.Inc()
	s.log.Info("group rotated", "id", id, "rotator", req.Rotator, "members", len(req.Distribution))
	w.WriteHeader(http.StatusOK)
	return http.StatusOK
}

// ---------- events ----------

// events answers immediately when signals are pending, otherwise parks
// the request until one arrives or the poll timeout elapses.
func (s *Server) events(w http.ResponseWriter, r *http.Request) int {
	username := domain.Username(r.PathValue("username"))

	evs, wake := s.state.takeEvents(username)
	if wake != nil {
		s.metrics.waiting.Inc()
		select {
		case <-wake:
			evs, _ = s.state.takeEvents(username)
		case <-time.After(s.pollTimeout):
		case <-r.Context().Done():
			// Still answer with a valid body so a racing client parses
			// an empty poll instead of a decode error.
			s.metrics.waiting.Dec()
			return writeJSON(w, []domain.Event{})
		}
		s.metrics.waiting.Dec()
	}
	if evs == nil {
		evs = []domain.Event{}
	}
	return writeJSON(w, evs)
}

// ---------- helpers ----------

func decode(w http.ResponseWriter, r *http.Request, out any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		http.Error(w, "bad request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) int {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return http.StatusInternalServerError
	}
	return http.StatusOK
}
