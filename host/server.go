package host

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/cloudx-io/lotauction/engine"
	"github.com/cloudx-io/lotauction/hostapi"
	"github.com/cloudx-io/lotauction/treemap"
)

// Server exposes the auction engine over HTTP: JSON command and query
// endpoints plus a websocket stream of CBOR state frames.
type Server struct {
	engine   *engine.Engine
	addr     string
	layout   treemap.Options
	hub      *streamHub
	upgrader websocket.Upgrader
}

// NewServer wires a server around a constructed engine. The engine's
// lifecycle (Start/Stop) belongs to the caller.
func NewServer(eng *engine.Engine, cfg *Config) *Server {
	return &Server{
		engine: eng,
		addr:   cfg.ListenAddr,
		layout: cfg.LayoutOptions(),
		hub:    newStreamHub(),
		upgrader: websocket.Upgrader{
			// The host serves a local simulation UI; any origin may connect.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Routes builds the HTTP router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/catalog", s.handleCatalog)
	r.Get("/account", s.handleAccount)
	r.Get("/time", s.handleTimeRemaining)
	r.Get("/layout", s.handleLayout)
	r.Get("/ws", s.handleStream)

	r.Post("/account/{accountID}/select", s.handleSelectAccount)
	r.Post("/lots/{lotID}/bid", s.handlePlaceBid)
	r.Delete("/lots/{lotID}/bid", s.handleRemoveBid)

	return r
}

// Run serves until ctx is cancelled, broadcasting state frames on every
// engine phase change and once per second for countdown refresh.
func (s *Server) Run(ctx context.Context) error {
	go s.hub.run(ctx)
	go s.broadcastLoop(ctx)

	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Infof("auction host listening on %s", s.addr)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) broadcastLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-s.engine.Events():
			log.Debugf("round %d entered phase %s", event.Generation, event.Phase)
			s.broadcastState()
		case <-ticker.C:
			s.broadcastState()
		}
	}
}

func (s *Server) broadcastState() {
	if s.hub.clientCount() == 0 {
		return
	}
	frame, err := hostapi.EncodeStateUpdate(s.stateUpdate())
	if err != nil {
		log.Errorf("encode state frame: %v", err)
		return
	}
	s.hub.send(frame)
}

func (s *Server) stateUpdate() hostapi.StateUpdate {
	catalog := hostapi.CatalogViewOf(s.engine.Catalog(""))
	return hostapi.StateUpdate{
		Phase:       catalog.Phase,
		Generation:  catalog.Generation,
		RemainingMS: s.engine.TimeRemaining().Milliseconds(),
		Catalog:     catalog,
		Account:     hostapi.AccountViewOf(s.engine.Account()),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	view := hostapi.CatalogViewOf(s.engine.Catalog(r.URL.Query().Get("account")))
	if r.URL.Query().Get("sort") == "price" {
		view.Lots = view.SortedByPrice()
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	if accountID := r.URL.Query().Get("account"); accountID != "" {
		snapshot, err := s.engine.AccountFor(accountID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, hostapi.AccountViewOf(snapshot))
		return
	}
	writeJSON(w, http.StatusOK, hostapi.AccountViewOf(s.engine.Account()))
}

func (s *Server) handleTimeRemaining(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int64{
		"remaining_ms": s.engine.TimeRemaining().Milliseconds(),
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts := s.layout
	if width, err := strconv.ParseFloat(r.URL.Query().Get("width"), 64); err == nil && width > 0 {
		opts.Width = width
	}
	if height, err := strconv.ParseFloat(r.URL.Query().Get("height"), 64); err == nil && height > 0 {
		opts.Height = height
	}

	view := hostapi.CatalogViewOf(s.engine.Catalog(r.URL.Query().Get("account")))
	placed := treemap.Layout(view.LayoutItems(), opts)
	writeJSON(w, http.StatusOK, placed)
}

func (s *Server) handleSelectAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	if err := s.engine.SelectAccount(accountID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hostapi.AccountViewOf(s.engine.Account()))
}

func (s *Server) handlePlaceBid(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req hostapi.PlaceBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, hostapi.ErrorResponse{
			Code: "bad_request", Error: "invalid request body",
		})
		return
	}

	lotID := chi.URLParam(r, "lotID")
	accountID := r.URL.Query().Get("account")

	var err error
	if accountID != "" {
		err = s.engine.PlaceBidFor(accountID, lotID, req.Amount)
	} else {
		err = s.engine.PlaceBid(lotID, req.Amount)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	s.broadcastState()
	writeJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

func (s *Server) handleRemoveBid(w http.ResponseWriter, r *http.Request) {
	lotID := chi.URLParam(r, "lotID")
	accountID := r.URL.Query().Get("account")

	var err error
	if accountID != "" {
		err = s.engine.RemoveBidFor(accountID, lotID)
	} else {
		err = s.engine.RemoveBid(lotID)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	s.broadcastState()
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debugf("websocket upgrade failed: %v", err)
		return
	}

	// Sync the new client immediately rather than waiting for the next tick.
	frame, err := hostapi.EncodeStateUpdate(s.stateUpdate())
	if err == nil {
		conn.WriteMessage(websocket.BinaryMessage, frame)
	}

	s.hub.register <- conn

	// Drain the read side to detect disconnects; inbound frames are ignored.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.hub.unregister <- conn
				return
			}
		}
	}()
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps engine command errors to HTTP statuses: missing things are
// 404, phase and availability conflicts are 409, everything else about the
// request itself is 400.
func writeError(w http.ResponseWriter, err error) {
	code := hostapi.ErrorCode(err)

	status := http.StatusBadRequest
	switch {
	case errors.Is(err, engine.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrRoundFrozen),
		errors.Is(err, engine.ErrLotUnavailable),
		errors.Is(err, engine.ErrInsufficientBalance):
		status = http.StatusConflict
	case code == "internal":
		status = http.StatusInternalServerError
	}

	writeJSON(w, status, hostapi.ErrorResponse{Code: code, Error: err.Error()})
}
