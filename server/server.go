package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

/*
Timeouts protect the server from slow or stalled clients.
They are resource guardrails, not client semantics.
*/
const (
	readTimeout     = time.Minute
	writeTimeout    = time.Minute
	shutdownTimeout = 5 * time.Second
)

/*
Server is the HTTP front-end: one command per POST body, the rendered
result as the response body.
*/
type Server struct {
	addr    string
	gate    *Gate
	maxBody int64

	ln      net.Listener
	httpSrv *http.Server
	ready   chan struct{} // blocks Stop until Start has a listener
}

/*
NewServer creates a server for the given gate. maxBody caps the
accepted request body size in bytes.
*/
func NewServer(addr string, gate *Gate, maxBody int64) *Server {
	return &Server{
		addr:    addr,
		gate:    gate,
		maxBody: maxBody,
		ready:   make(chan struct{}),
	}
}

/*
Start listens and serves until Stop is called. It blocks.
*/
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		log.Error().Str("addr", s.addr).Err(err).Msg("listen failed")
		return err
	}
	s.ln = ln

	s.httpSrv = &http.Server{
		Handler:      s,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
	close(s.ready)
	log.Info().Str("addr", ln.Addr().String()).Msg("listening")

	if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

/*
Stop drains in-flight requests and closes the listener.
*/
func (s *Server) Stop() error {
	<-s.ready
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.httpSrv.Shutdown(ctx)
}

/*
Addr reports the bound address, useful when addr was ":0".
*/
func (s *Server) Addr() net.Addr {
	<-s.ready
	return s.ln.Addr()
}

/*
ServeHTTP handles one command request. Only POST is accepted; the
body is the raw command line.
*/
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		io.WriteString(w, "Invalid request method. Use POST instead.")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		io.WriteString(w, "ERROR: request body too large")
		return
	}

	line := strings.TrimSpace(string(body))
	log.Debug().Str("remote", r.RemoteAddr).Str("body", line).Msg("request")

	resp, code := s.gate.Apply(line)
	if code == SessionClose {
		// EXIT: the transport interprets the gate's -1 as session-close.
		w.Header().Set("Connection", "close")
	}
	io.WriteString(w, resp.String())
}
