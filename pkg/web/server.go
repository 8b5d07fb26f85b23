package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ritzau/notegraph/pkg/analysis"
	"github.com/ritzau/notegraph/pkg/cycles"
	"github.com/ritzau/notegraph/pkg/graph"
	"github.com/ritzau/notegraph/pkg/logging"
	"github.com/ritzau/notegraph/pkg/pubsub"
	"github.com/ritzau/notegraph/pkg/view"
)

// DefaultMaxNodes is the node limit used when Options.MaxNodes is not set
const DefaultMaxNodes = 5000

// Source provides the latest scan result the handlers derive views from
type Source interface {
	State() *analysis.State
}

// Options configures the web server
type Options struct {
	MaxNodes int                      // Views with more nodes are reported as too large
	Defaults view.LocalFilterSettings // Used for query parameters that are not given
}

// Server represents the web server
type Server struct {
	router    *mux.Router
	source    Source
	publisher *pubsub.SSEPublisher
	opts      Options
}

// NewServer creates a new web server
func NewServer(opts Options) *Server {
	if opts.MaxNodes <= 0 {
		opts.MaxNodes = DefaultMaxNodes
	}
	if opts.Defaults.Depth == 0 && opts.Defaults.LinkType == "" {
		opts.Defaults = view.DefaultLocalFilterSettings()
	}

	ssePublisher := pubsub.NewSSEPublisher()

	// vault_status: buffer last 10 events, replay only last event to new subscribers
	ssePublisher.ConfigureTopic(pubsub.TopicVaultStatus, pubsub.TopicConfig{
		BufferSize: 10,
		ReplayAll:  false, // Only send current state
	})

	// graph: buffer last 5 events, replay only last event
	ssePublisher.ConfigureTopic(pubsub.TopicGraph, pubsub.TopicConfig{
		BufferSize: 5,
		ReplayAll:  false, // Only send current state
	})

	s := &Server{
		router:    mux.NewRouter(),
		publisher: ssePublisher,
		opts:      opts,
	}
	s.setupRoutes()
	return s
}

// SetSource sets where the handlers read the base graph from
func (s *Server) SetSource(source Source) {
	s.source = source
}

// Publisher returns the publisher that feeds the subscription endpoints
func (s *Server) Publisher() *pubsub.SSEPublisher {
	return s.publisher
}

// Handler returns the HTTP handler of the server, including request logging
func (s *Server) Handler() http.Handler {
	return logging.RequestIDMiddleware(s.router)
}

func (s *Server) setupRoutes() {
	// SSE subscription endpoints
	s.router.HandleFunc("/api/subscribe/{topic}", s.handleSubscribe).Methods("GET")

	// API routes - more specific routes must come first
	s.router.HandleFunc("/api/graph/local", s.handleLocalGraph).Methods("GET")
	s.router.HandleFunc("/api/graph", s.handleGraph).Methods("GET")
	s.router.HandleFunc("/api/node", s.handleNode).Methods("GET")
	s.router.HandleFunc("/api/path", s.handlePath).Methods("GET")
	s.router.HandleFunc("/api/cycles", s.handleCycles).Methods("GET")
	s.router.HandleFunc("/api/search", s.handleSearch).Methods("GET")
	s.router.HandleFunc("/api/status", s.handleStatus).Methods("GET")

	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	topic := mux.Vars(r)["topic"]
	if topic != pubsub.TopicVaultStatus && topic != pubsub.TopicGraph {
		http.Error(w, fmt.Sprintf("Unknown topic: %s", topic), http.StatusNotFound)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*") // CORS support

	// Send initial comment to establish connection (Safari compatibility)
	fmt.Fprintf(w, ": connected\n\n")
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	sub, err := s.publisher.Subscribe(r.Context(), topic)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer sub.Close()

	// Stream events
	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := pubsub.WriteSSE(w, event); err != nil {
				logging.WarnContext(r.Context(), "error writing SSE event", "topic", topic, "error", err)
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}
		}
	}
}

// currentState returns the latest scan result, or writes 503 if there is none yet
func (s *Server) currentState(w http.ResponseWriter) *analysis.State {
	var state *analysis.State
	if s.source != nil {
		state = s.source.State()
	}
	if state == nil {
		http.Error(w, "Vault not scanned yet", http.StatusServiceUnavailable)
	}
	return state
}

// viewParams are the query parameters shared by the graph endpoints
type viewParams struct {
	local  view.LocalFilterSettings
	dag    view.DagOrientation
	groups []view.Group
}

func (s *Server) parseViewParams(r *http.Request) (viewParams, error) {
	q := r.URL.Query()
	params := viewParams{local: s.opts.Defaults, dag: view.DagNone}

	params.local.SearchQuery = strings.TrimSpace(q.Get("q"))

	var err error
	if params.local.ShowOrphans, err = boolParam(q.Get("showOrphans"), params.local.ShowOrphans); err != nil {
		return params, fmt.Errorf("showOrphans: %w", err)
	}
	if params.local.ShowAttachments, err = boolParam(q.Get("showAttachments"), params.local.ShowAttachments); err != nil {
		return params, fmt.Errorf("showAttachments: %w", err)
	}
	if params.dag, err = view.ParseDagOrientation(q.Get("dag")); err != nil {
		return params, err
	}

	if v := q.Get("depth"); v != "" {
		depth, err := strconv.Atoi(v)
		if err != nil {
			return params, fmt.Errorf("depth: %w", err)
		}
		params.local.Depth = depth
	}
	if v := q.Get("linkType"); v != "" {
		linkType, err := graph.ParseLinkType(v)
		if err != nil {
			return params, err
		}
		params.local.LinkType = linkType
	}
	if err := params.local.Validate(); err != nil {
		return params, err
	}

	for _, raw := range q["group"] {
		group, err := parseGroup(raw)
		if err != nil {
			return params, err
		}
		params.groups = append(params.groups, group)
	}

	return params, nil
}

func boolParam(v string, fallback bool) (bool, error) {
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseBool(v)
}

// parseGroup parses "query|color". The color follows the last separator so
// queries may contain "|".
func parseGroup(raw string) (view.Group, error) {
	i := strings.LastIndex(raw, "|")
	if i < 0 {
		return view.Group{}, fmt.Errorf("group %q: expected query|color", raw)
	}
	color := strings.TrimSpace(raw[i+1:])
	if color == "" {
		return view.Group{}, fmt.Errorf("group %q: missing color", raw)
	}
	return view.Group{Query: raw[:i], Color: color}, nil
}

// respondGraph applies the node limit, colors and layout mode to a derived graph
func (s *Server) respondGraph(w http.ResponseWriter, state *analysis.State, derived *graph.Graph, params viewParams, center string) {
	kind := "global"
	if center != "" {
		kind = "local"
	}
	viewsServed.WithLabelValues(kind).Inc()
	viewNodes.Observe(float64(derived.NodeCount()))

	limited, tooLarge := view.ApplyNodeLimit(derived, s.opts.MaxNodes)
	if tooLarge {
		viewsTruncated.Inc()
	}
	orientation, downgraded := view.ResolveDagOrientation(limited, params.dag)
	colors := view.GroupColors(limited, params.groups, state.Engine)

	graphData := buildGraphData(limited, colors)
	graphData.Center = center
	graphData.TooLarge = tooLarge
	graphData.Acyclic = limited.IsAcyclic()
	graphData.DagOrientation = orientation
	graphData.DagDowngraded = downgraded
	graphData.Version = state.Version

	writeJSON(w, graphData)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	params, err := s.parseViewParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	state := s.currentState(w)
	if state == nil {
		return
	}

	settings := params.local.FilterSettings
	result := view.RunSearch(state.Engine, settings.SearchQuery)
	derived := view.Global(state.Graph, settings, result)

	logging.DebugContext(r.Context(), "derived global graph",
		"nodes", derived.NodeCount(),
		"links", derived.LinkCount(),
		"query", settings.SearchQuery)

	s.respondGraph(w, state, derived, params, "")
}

func (s *Server) handleLocalGraph(w http.ResponseWriter, r *http.Request) {
	center := r.URL.Query().Get("path")
	if center == "" {
		http.Error(w, "path required", http.StatusBadRequest)
		return
	}

	params, err := s.parseViewParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	state := s.currentState(w)
	if state == nil {
		return
	}

	if state.Graph.NodeByPath(center) == nil {
		http.Error(w, fmt.Sprintf("Note not found: %s", center), http.StatusNotFound)
		return
	}

	result := view.RunSearch(state.Engine, params.local.SearchQuery)
	derived := view.Local(state.Graph, center, params.local, result)

	logging.DebugContext(r.Context(), "derived local graph",
		"center", center,
		"depth", params.local.Depth,
		"linkType", params.local.LinkType,
		"nodes", derived.NodeCount())

	s.respondGraph(w, state, derived, params, center)
}

func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	p := r.URL.Query().Get("path")
	if p == "" {
		http.Error(w, "path required", http.StatusBadRequest)
		return
	}

	state := s.currentState(w)
	if state == nil {
		return
	}

	node := state.Graph.NodeByPath(p)
	if node == nil {
		http.Error(w, fmt.Sprintf("Note not found: %s", p), http.StatusNotFound)
		return
	}

	detail := NodeDetail{
		Node:       toGraphNode(node, ""),
		Tags:       []string{},
		Aliases:    []string{},
		Neighbors:  make([]string, 0, len(node.Neighbors())),
		Links:      make([]GraphLink, 0),
		Unresolved: []string{},
	}
	if note := state.Snapshot.Notes[p]; note != nil {
		detail.Title = note.Title
		if note.Tags != nil {
			detail.Tags = note.Tags
		}
		if note.Aliases != nil {
			detail.Aliases = note.Aliases
		}
	}
	if detail.Title == "" {
		detail.Title = displayName(p)
	}
	if unresolved := state.Snapshot.Unresolved[p]; unresolved != nil {
		detail.Unresolved = unresolved
	}
	for _, neighbor := range node.Neighbors() {
		detail.Neighbors = append(detail.Neighbors, neighbor.Path)
	}
	for _, link := range state.Graph.LinksWithNode(node.ID) {
		detail.Links = append(detail.Links, toGraphLink(link))
	}

	writeJSON(w, detail)
}

func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		http.Error(w, "from and to required", http.StatusBadRequest)
		return
	}

	state := s.currentState(w)
	if state == nil {
		return
	}

	for _, p := range []string{from, to} {
		if state.Graph.NodeByPath(p) == nil {
			http.Error(w, fmt.Sprintf("Note not found: %s", p), http.StatusNotFound)
			return
		}
	}

	nodes := state.Graph.ShortestPath(from, to)
	writeJSON(w, buildPathData(state.Graph, from, to, nodes))
}

func (s *Server) handleCycles(w http.ResponseWriter, r *http.Request) {
	state := s.currentState(w)
	if state == nil {
		return
	}

	writeJSON(w, map[string]any{
		"acyclic": state.Graph.IsAcyclic(),
		"forest":  state.Graph.IsForest(),
		"cycles":  cycles.FindNoteCycles(state.Graph, state.Snapshot.Resolved),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	state := s.currentState(w)
	if state == nil {
		return
	}

	paths := []string{}
	if query != "" {
		paths = state.Engine.Search(query)
	}

	writeJSON(w, map[string]any{
		"query": query,
		"paths": paths,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if event, ok := s.publisher.LastEvent(pubsub.TopicVaultStatus); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(event.Data)
		return
	}
	writeJSON(w, pubsub.VaultStatus{State: pubsub.EventScanning, Message: "Waiting for first scan"})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn("error encoding response", "error", err)
	}
}

// Start serves the API on the specified port until ctx is cancelled
func (s *Server) Start(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.publisher.Close() // Ends open SSE streams
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Warn("error shutting down web server", "error", err)
		}
	}()

	logging.Info("starting web server", "url", fmt.Sprintf("http://localhost%s", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
