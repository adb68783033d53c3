package http

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
)

// supported HTTP methods
const (
	GET  = "GET"
	POST = "POST"
)

// HTTP status codes used across the harness
const (
	StatusOK          = 200
	StatusBadRequest  = 400
	StatusNotFound    = 404
	StatusServerError = 500
)

// Request represents a parsed HTTP request
type Request struct {
	Method      string
	Path        string
	Version     string
	Headers     map[string]string
	Body        []byte
	ContentType string
	ContentLen  int
}

// ParseRequest parses an HTTP request from a connection
func ParseRequest(conn net.Conn) (*Request, error) {
	reader := bufio.NewReader(conn)
	req := &Request{
		Headers: make(map[string]string),
	}

	line, err := reader.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("error reading request line: %w", err)
	}

	//request line: Method Path Version
	parts := strings.Split(strings.TrimSpace(line), " ")
	if len(parts) != 3 {
		return nil, errors.New("invalid request line format")
	}
	req.Method = parts[0]
	req.Path = parts[1]
	req.Version = parts[2]

	//headers until the blank line
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("error reading header: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			break
		}

		colonIdx := strings.Index(line, ":")
		if colonIdx == -1 {
			return nil, errors.New("invalid header format")
		}

		key := strings.TrimSpace(line[:colonIdx])
		value := strings.TrimSpace(line[colonIdx+1:])
		req.Headers[key] = value

		keyLower := strings.ToLower(key)
		if keyLower == "content-type" {
			req.ContentType = value
		} else if keyLower == "content-length" {
			contentLen, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
			req.ContentLen = contentLen
		}
	}

	//read the body if the request announced one
	if req.Method == POST && req.ContentLen > 0 {
		body := make([]byte, req.ContentLen)
		_, err := io.ReadFull(reader, body)
		if err != nil {
			return nil, fmt.Errorf("error reading request body: %w", err)
		}
		req.Body = body
	}

	return req, nil
}

// String returns a string representation of the request for logging
func (r *Request) String() string {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s %s %s\r\n", r.Method, r.Path, r.Version))

	for key, value := range r.Headers {
		buf.WriteString(fmt.Sprintf("%s: %s\r\n", key, value))
	}

	buf.WriteString("\r\n")

	if len(r.Body) > 0 {
		buf.Write(r.Body)
	}

	return buf.String()
}
