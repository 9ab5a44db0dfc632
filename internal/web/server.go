// Package web serves the browser chat interface: one page, a
// WebSocket for the conversation, and a history endpoint. Assistant
// replies are markdown and rendered to HTML server-side.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gladysproject/gladys/internal/buildinfo"
	"github.com/gladysproject/gladys/internal/memory"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Conversation is the slice of the agent the web layer needs.
type Conversation interface {
	Submit(ctx context.Context, text string) (string, error)
	History() []memory.Turn
	Reset() error
}

// Server hosts the chat UI and its WebSocket endpoint.
type Server struct {
	conv     Conversation
	logger   *slog.Logger
	page     *template.Template
	upgrader websocket.Upgrader

	// mu serializes turns: the conversation is single-threaded even
	// when several browser tabs are open.
	mu sync.Mutex
}

// NewServer creates the web server for one conversation.
func NewServer(conv Conversation, logger *slog.Logger) *Server {
	page := template.Must(template.ParseFS(templateFiles, "templates/chat.html"))
	return &Server{
		conv:   conv,
		logger: logger,
		page:   page,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
}

// Handler returns the route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/history", s.handleHistory)
	mux.HandleFunc("/reset", s.handleReset)
	return mux
}

// ListenAndServe runs the server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("web interface listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, map[string]string{
		"Version": buildinfo.Version,
	}); err != nil {
		s.logger.Error("render chat page", "error", err)
	}
}

// wsInbound is a message from the browser.
type wsInbound struct {
	Text string `json:"text"`
}

// wsOutbound is a message to the browser. HTML carries the rendered
// markdown; Text the raw content.
type wsOutbound struct {
	Role  string `json:"role"`
	Text  string `json:"text,omitempty"`
	HTML  string `json:"html,omitempty"`
	Error string `json:"error,omitempty"`
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	s.logger.Debug("websocket client connected", "remote", r.RemoteAddr)

	for {
		var in wsInbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket closed", "error", err)
			}
			return
		}
		if in.Text == "" {
			continue
		}

		s.mu.Lock()
		answer, err := s.conv.Submit(r.Context(), in.Text)
		s.mu.Unlock()

		var out wsOutbound
		if err != nil {
			out = wsOutbound{Role: "error", Error: err.Error()}
		} else {
			out = wsOutbound{
				Role: "assistant",
				Text: answer,
				HTML: renderMarkdown(answer),
			}
		}
		if err := conn.WriteJSON(out); err != nil {
			s.logger.Debug("websocket write failed", "error", err)
			return
		}
	}
}

// historyEntry is one turn in the /history response. Tool plumbing
// turns are omitted; the browser shows the dialogue.
type historyEntry struct {
	Role string `json:"role"`
	Text string `json:"text"`
	HTML string `json:"html"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	// Initialized so an empty conversation encodes as [], not null.
	entries := []historyEntry{}
	for _, t := range s.conv.History() {
		if t.Role != memory.RoleUser && t.Role != memory.RoleAssistant {
			continue
		}
		if t.Content == "" {
			continue
		}
		entries = append(entries, historyEntry{
			Role: t.Role,
			Text: t.Content,
			HTML: renderMarkdown(t.Content),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		s.logger.Error("encode history", "error", err)
	}
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	err := s.conv.Reset()
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("reset conversation", "error", err)
		http.Error(w, "reset failed", http.StatusInternalServerError)
		return
	}
	s.logger.Info("conversation reset")
	w.WriteHeader(http.StatusNoContent)
}

// SplitHostPort is a helper for building the listen address from
// config host and port values.
func SplitHostPort(host string, port int) string {
	return net.JoinHostPort(host, fmt.Sprintf("%d", port))
}
