package httpfaceit

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
)

// Server recibe los webhooks de FACEIT y los baja al callback del dominio.
// FACEIT entrega at-least-once: la idempotencia la maneja el servicio, acá
// sólo validamos y despachamos.
type Server struct {
	secret       string
	mux          *http.ServeMux
	onMatchEvent func(ctx context.Context, matchID, status string)
	onResync     func(ctx context.Context) error
}

func New(secret string, onMatch func(ctx context.Context, matchID, status string), onResync func(ctx context.Context) error) *Server {
	s := &Server{secret: secret, mux: http.NewServeMux(), onMatchEvent: onMatch, onResync: onResync}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/faceit/webhook", s.handleWebhook)
	s.mux.HandleFunc("/faceit/resync", s.handleResync)
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.Header.Get("X-FACEIT-WH") != s.secret {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	body, _ := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	_ = r.Body.Close()

	var evt map[string]any
	_ = json.Unmarshal(body, &evt)
	t, _ := evt["event"].(string)

	var payload map[string]any
	if p, ok := evt["payload"].(map[string]any); ok {
		payload = p
	}

	if s.onMatchEvent != nil && strings.HasPrefix(strings.ToLower(t), "match_status_") {
		matchID := ""
		if payload != nil {
			// FACEIT manda el id del matchroom en payload.id
			if mid, ok := payload["id"].(string); ok {
				matchID = mid
			}
			if mid, ok := payload["match_id"].(string); ok && matchID == "" {
				matchID = mid
			}
		}
		if matchID != "" {
			status := strings.TrimPrefix(strings.ToLower(t), "match_status_")
			// el handler responde 200 ya mismo; el procesamiento sigue solo
			go s.onMatchEvent(context.Background(), matchID, status)
			log.Printf("webhook: match %s status=%s", matchID, status)
		}
	}

	w.WriteHeader(http.StatusOK)
}

// handleResync: trigger manual del resync de elo (el mismo que corre el ticker).
func (s *Server) handleResync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.Header.Get("X-FACEIT-WH") != s.secret {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if s.onResync == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	go func() {
		if err := s.onResync(context.Background()); err != nil {
			log.Printf("resync: %v", err)
		}
	}()
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) Start(addr string) {
	log.Printf("🌐 HTTP listening on %s", addr)
	if err := http.ListenAndServe(addr, s.mux); err != nil {
		log.Fatalf("http server: %v", err)
	}
}
