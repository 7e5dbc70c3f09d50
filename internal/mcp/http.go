// Package mcp implements the tool-invocation protocol: a JSON-RPC 2.0
// dispatcher (server.go/registry.go/types.go) plus this file's HTTP
// transport, mounting a real SSE stream at GET /mcp/sse and a message
// endpoint at POST /mcp/message, correlated by a session id.
package mcp

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

const keepAliveInterval = 25 * time.Second

// HTTPServer wraps Server with the Streamable HTTP/SSE transport.
type HTTPServer struct {
	server   *Server
	cors     string
	logger   *slog.Logger
	sessions sync.Map // sessionID -> *session
}

// session tracks one open SSE stream. Responses to POST /mcp/message
// calls correlated with this session are delivered by pushing onto ch.
type session struct {
	id        string
	createdAt time.Time
	ch        chan *Response
}

// NewHTTPServer creates an HTTP transport wrapper around the core MCP server.
func NewHTTPServer(server *Server, corsOrigins string, logger *slog.Logger) *HTTPServer {
	return &HTTPServer{
		server: server,
		cors:   corsOrigins,
		logger: logger,
	}
}

// Handler returns an http.Handler serving the MCP SSE and message
// endpoints. Mount this under "/mcp" on the shared HTTP server.
func (h *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/mcp/sse", h.handleSSE)
	mux.HandleFunc("/mcp/message", h.handleMessage)
	mux.HandleFunc("/health", h.handleHealth)
	return mux
}

func (h *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleSSE opens a long-lived text/event-stream: an initial "endpoint"
// event tells the client where to POST tool calls, then the stream
// relays the JSON-RPC response for every correlated POST, interleaved
// with periodic keep-alive comments so intermediaries don't idle the
// connection out.
func (h *HTTPServer) handleSSE(w http.ResponseWriter, r *http.Request) {
	h.setCORS(w, r)

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, `{"error":"streaming unsupported"}`, http.StatusInternalServerError)
		return
	}

	sess := h.createSession()
	defer h.sessions.Delete(sess.id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "event: endpoint\ndata: /mcp/message?session=%s\n\n", sess.id)
	flusher.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case resp, ok := <-sess.ch:
			if !ok {
				return
			}
			data, err := json.Marshal(resp)
			if err != nil {
				h.logger.Error("mcp sse: failed to marshal response", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

// handleMessage processes a JSON-RPC request correlated to an open SSE
// session, pushing the response onto that session's stream and
// acknowledging the POST with 202.
func (h *HTTPServer) handleMessage(w http.ResponseWriter, r *http.Request) {
	h.setCORS(w, r)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST, OPTIONS")
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	sessionID := r.URL.Query().Get("session")
	var sess *session
	if sessionID != "" {
		v, ok := h.sessions.Load(sessionID)
		if !ok {
			http.Error(w, `{"error":"session not found"}`, http.StatusNotFound)
			return
		}
		sess = v.(*session)
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 10*1024*1024))
	if err != nil {
		http.Error(w, `{"error":"failed to read request body"}`, http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if len(body) == 0 {
		http.Error(w, `{"error":"empty request body"}`, http.StatusBadRequest)
		return
	}

	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		h.handleBatch(w, r, sess, body)
		return
	}
	h.handleSingle(w, r, sess, body)
}

func (h *HTTPServer) handleSingle(w http.ResponseWriter, r *http.Request, sess *session, body []byte) {
	var peek struct {
		ID json.RawMessage `json:"id,omitempty"`
	}
	if err := json.Unmarshal(body, &peek); err != nil {
		h.writeJSONError(w, http.StatusBadRequest, ErrCodeParse, "Parse error", err.Error())
		return
	}

	isNotification := peek.ID == nil || string(peek.ID) == "null"
	resp := h.server.HandleMessage(r.Context(), body)
	if isNotification || resp == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	if sess != nil {
		sess.ch <- resp
		w.WriteHeader(http.StatusAccepted)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPServer) handleBatch(w http.ResponseWriter, r *http.Request, sess *session, body []byte) {
	var messages []json.RawMessage
	if err := json.Unmarshal(body, &messages); err != nil {
		h.writeJSONError(w, http.StatusBadRequest, ErrCodeParse, "Parse error", err.Error())
		return
	}
	if len(messages) == 0 {
		h.writeJSONError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Empty batch", nil)
		return
	}

	var responses []*Response
	for _, msg := range messages {
		resp := h.server.HandleMessage(r.Context(), msg)
		if resp == nil {
			continue
		}
		if sess != nil {
			sess.ch <- resp
			continue
		}
		responses = append(responses, resp)
	}

	if sess != nil || len(responses) == 0 {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	h.writeJSON(w, http.StatusOK, responses)
}

func (h *HTTPServer) createSession() *session {
	b := make([]byte, 16)
	var id string
	if _, err := rand.Read(b); err != nil {
		id = fmt.Sprintf("session-%d", time.Now().UnixNano())
	} else {
		id = hex.EncodeToString(b)
	}
	sess := &session{id: id, createdAt: time.Now(), ch: make(chan *Response, 8)}
	h.sessions.Store(id, sess)
	h.logger.Info("mcp session opened", "session_id", id)
	return sess
}

func (h *HTTPServer) setCORS(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return
	}
	if h.cors == "*" {
		w.Header().Set("Access-Control-Allow-Origin", "*")
	} else {
		for _, a := range strings.Split(h.cors, ",") {
			if strings.TrimSpace(a) == origin {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				break
			}
		}
	}
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")
}

func (h *HTTPServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}

func (h *HTTPServer) writeJSONError(w http.ResponseWriter, httpStatus int, code int, message string, data any) {
	resp := &Response{
		JSONRPC: "2.0",
		Error:   &RPCError{Code: code, Message: message, Data: data},
	}
	h.writeJSON(w, httpStatus, resp)
}
