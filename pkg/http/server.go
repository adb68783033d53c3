package http

import (
	"fmt"
	"log"
	"net"
	"sync"
	"time"
)

// RequestHandler defines a function that handles HTTP requests
type RequestHandler func(*Request) *Response

// Server represents an HTTP server built directly on TCP
type Server struct {
	Host     string
	Port     int
	Handlers map[string]RequestHandler //keyed by "METHOD path"
	listener net.Listener
	wg       sync.WaitGroup
	running  bool
	mutex    sync.Mutex
}

// ServerFactory creates a new HTTP server instance
func ServerFactory(host string, port int) *Server {
	return &Server{
		Host:     host,
		Port:     port,
		Handlers: make(map[string]RequestHandler),
	}
}

// RegisterHandler registers a handler for a specific HTTP method and path.
// A path of "*" matches any path for that method, "/prefix/*" matches by prefix.
func (s *Server) RegisterHandler(method, path string, handler RequestHandler) {
	key := method + " " + path
	s.Handlers[key] = handler
	log.Printf("Registered handler for %s %s", method, path)
}

// Start starts accepting connections
func (s *Server) Start() error {
	s.mutex.Lock()
	if s.running {
		s.mutex.Unlock()
		return fmt.Errorf("server already running")
	}
	s.running = true
	s.mutex.Unlock()

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	var err error
	s.listener, err = net.Listen("tcp", addr)
	if err != nil {
		s.running = false
		return fmt.Errorf("error starting server on %s: %w", addr, err)
	}

	log.Printf("Server started on %s", addr)

	go s.acceptConnections()

	return nil
}

// Stop closes the listener and waits for in-flight connections
func (s *Server) Stop() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.running {
		return fmt.Errorf("server not running")
	}

	err := s.listener.Close()
	s.running = false

	s.wg.Wait()
	log.Printf("Server stopped")

	return err
}

func (s *Server) acceptConnections() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.mutex.Lock()
			running := s.running
			s.mutex.Unlock()

			//listener closed during shutdown, nothing to report
			if !running {
				break
			}

			log.Printf("Error accepting connection: %v", err)
			continue
		}

		s.wg.Add(1)
		go func(c net.Conn) {
			defer s.wg.Done()
			defer c.Close()

			s.handleConnection(c)
		}(conn)
	}
}

// handleConnection processes an individual HTTP connection
func (s *Server) handleConnection(conn net.Conn) {
	err := conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	if err != nil {
		log.Printf("Error setting read deadline: %v", err)
		return
	}

	req, err := ParseRequest(conn)
	if err != nil {
		log.Printf("Error parsing request: %v", err)
		resp := NewResponse(StatusBadRequest)
		resp.SetBodyString(fmt.Sprintf("Bad request: %v", err))
		resp.Write(conn)
		return
	}

	log.Printf("Received request: %s %s", req.Method, req.Path)

	resp := s.dispatch(req)

	err = resp.Write(conn)
	if err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

// dispatch finds the handler for a request, trying exact, prefix and wildcard keys
func (s *Server) dispatch(req *Request) *Response {
	if handler, ok := s.Handlers[req.Method+" "+req.Path]; ok {
		return handler(req)
	}

	//prefix handlers are registered as "METHOD /prefix/*"
	for key, handler := range s.Handlers {
		method, pattern, found := cutHandlerKey(key)
		if !found || method != req.Method {
			continue
		}
		if len(pattern) > 1 && pattern[len(pattern)-1] == '*' &&
			len(req.Path) >= len(pattern)-1 && req.Path[:len(pattern)-1] == pattern[:len(pattern)-1] {
			return handler(req)
		}
	}

	if handler, ok := s.Handlers[req.Method+" *"]; ok {
		return handler(req)
	}

	resp := NewResponse(StatusNotFound)
	resp.SetBodyString(fmt.Sprintf("No handler for %s %s", req.Method, req.Path))
	return resp
}

func cutHandlerKey(key string) (method, pattern string, ok bool) {
	for i := 0; i < len(key); i++ {
		if key[i] == ' ' {
			return key[:i], key[i+1:], true
		}
	}
	return "", "", false
}
