// Package lcitest serves canned LCI responses for tests.
package lcitest

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
)

type Response struct {
	Status      int
	ContentType string
	Body        string
}

// XmlFile responds 200 with the contents of a fixture file.
func XmlFile(t testing.TB, path string) Response {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading fixture %s: %v", path, err)
	}
	return Response{Status: http.StatusOK, ContentType: "text/xml", Body: string(b)}
}

type Server struct {
	*httptest.Server

	routes map[string]Response
	mu     sync.Mutex
	paths  []string
}

// NewServer answers each request whose path ends with a key of routes, after
// the "/lci" prefix, and 404s everything else. It's closed with the test.
func NewServer(t testing.TB, routes map[string]Response) *Server {
	s := &Server{routes: routes}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Host is what config.Config.Server should be set to.
func (s *Server) Host() string {
	return strings.TrimPrefix(s.URL, "http://")
}

func (s *Server) BaseUrl() string {
	return s.URL + "/lci"
}

// Paths lists the request paths seen so far, in order.
func (s *Server) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.paths...)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/lci")

	s.mu.Lock()
	s.paths = append(s.paths, path)
	s.mu.Unlock()

	resp, ok := s.routes[path]
	if !ok {
		http.NotFound(w, r)
		return
	}

	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	w.WriteHeader(resp.Status)
	_, _ = w.Write([]byte(resp.Body))
}
