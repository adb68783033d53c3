package http

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// Client represents a minimal HTTP client speaking HTTP/1.1 over a raw connection
type Client struct {
	Timeout time.Duration
}

// ClientFactory creates a new HTTP client with the specified timeout.
// The timeout covers dialing and the whole request/response exchange.
func ClientFactory(timeout time.Duration) *Client {
	return &Client{
		Timeout: timeout,
	}
}

// Get sends an HTTP GET request to the specified URL
func (c *Client) Get(url string) (*Response, error) {
	return c.sendRequest(GET, url, nil, "")
}

// Post sends an HTTP POST request with the specified body and content type
func (c *Client) Post(url string, body []byte, contentType string) (*Response, error) {
	return c.sendRequest(POST, url, body, contentType)
}

// PostJSON is a convenience method for sending JSON data
func (c *Client) PostJSON(url string, jsonData []byte) (*Response, error) {
	return c.Post(url, jsonData, "application/json")
}

// sendRequest performs one request/response exchange on a fresh connection
func (c *Client) sendRequest(method, url string, body []byte, contentType string) (*Response, error) {
	target, err := parseURL(url)
	if err != nil {
		return nil, err
	}

	conn, err := c.dial(target)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	//one deadline for the whole exchange
	err = conn.SetDeadline(time.Now().Add(c.Timeout))
	if err != nil {
		return nil, fmt.Errorf("error setting connection deadline: %w", err)
	}

	var reqBuf bytes.Buffer
	reqBuf.WriteString(fmt.Sprintf("%s %s HTTP/1.1\r\n", method, target.path))
	reqBuf.WriteString(fmt.Sprintf("Host: %s\r\n", target.host))

	if len(body) > 0 {
		reqBuf.WriteString(fmt.Sprintf("Content-Length: %d\r\n", len(body)))
		reqBuf.WriteString(fmt.Sprintf("Content-Type: %s\r\n", contentType))
	}

	//we never reuse connections, so tell the server to close
	reqBuf.WriteString("Connection: close\r\n")
	reqBuf.WriteString("\r\n")

	if len(body) > 0 {
		reqBuf.Write(body)
	}

	_, err = conn.Write(reqBuf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}

	//the server closes the connection after responding, so read until EOF
	rawResponse, err := io.ReadAll(conn)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	resp, err := parseResponse(rawResponse)
	if err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}

	return resp, nil
}

// dial opens a plain or TLS connection depending on the URL scheme
func (c *Client) dial(target *targetURL) (net.Conn, error) {
	addr := fmt.Sprintf("%s:%d", target.host, target.port)

	if target.useTLS {
		dialer := &net.Dialer{Timeout: c.Timeout}
		conn, err := tls.DialWithDialer(dialer, "tcp", addr, &tls.Config{ServerName: target.host})
		if err != nil {
			return nil, fmt.Errorf("error connecting to %s with TLS: %w", addr, err)
		}
		return conn, nil
	}

	conn, err := net.DialTimeout("tcp", addr, c.Timeout)
	if err != nil {
		return nil, fmt.Errorf("error connecting to %s: %w", addr, err)
	}
	return conn, nil
}

// targetURL holds the pieces of a parsed URL needed to dial and build a request
type targetURL struct {
	host   string
	port   int
	path   string
	useTLS bool
}

// parseURL extracts host, port, path and scheme from a URL.
// A missing scheme defaults to http, a missing port to the scheme's default.
func parseURL(url string) (*targetURL, error) {
	target := &targetURL{port: 80}

	switch {
	case strings.HasPrefix(url, "https://"):
		url = strings.TrimPrefix(url, "https://")
		target.useTLS = true
		target.port = 443
	case strings.HasPrefix(url, "http://"):
		url = strings.TrimPrefix(url, "http://")
	}

	//split into host+port and path
	parts := strings.SplitN(url, "/", 2)
	hostPort := parts[0]

	if len(parts) > 1 {
		target.path = "/" + parts[1]
	} else {
		target.path = "/"
	}

	//check if host carries an explicit port
	hostParts := strings.SplitN(hostPort, ":", 2)
	target.host = hostParts[0]

	if target.host == "" {
		return nil, fmt.Errorf("missing host in URL: %s", url)
	}

	if len(hostParts) > 1 {
		port, err := strconv.Atoi(hostParts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid port: %s", hostParts[1])
		}
		target.port = port
	}

	return target, nil
}

// parseResponse parses a raw HTTP response read off the wire
func parseResponse(rawResponse []byte) (*Response, error) {
	//split into header block and body
	parts := bytes.SplitN(rawResponse, []byte("\r\n\r\n"), 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid response format")
	}

	headerLines := bytes.Split(parts[0], []byte("\r\n"))
	if len(headerLines) == 0 {
		return nil, fmt.Errorf("invalid response headers")
	}

	//status line first: HTTP/1.1 <code> <text>
	statusLine := string(headerLines[0])
	statusParts := strings.SplitN(statusLine, " ", 3)
	if len(statusParts) < 3 {
		return nil, fmt.Errorf("invalid status line: %s", statusLine)
	}

	statusCode, err := strconv.Atoi(statusParts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid status code: %s", statusParts[1])
	}

	resp := &Response{
		StatusCode: statusCode,
		StatusText: statusParts[2],
		Headers:    make(map[string]string),
		Body:       parts[1],
	}

	//remaining lines are headers
	for i := 1; i < len(headerLines); i++ {
		line := string(headerLines[i])
		colonIdx := strings.Index(line, ":")
		if colonIdx == -1 {
			continue
		}

		key := strings.TrimSpace(line[:colonIdx])
		value := strings.TrimSpace(line[colonIdx+1:])
		resp.Headers[key] = value

		keyLower := strings.ToLower(key)
		if keyLower == "content-type" {
			resp.ContentType = value
		} else if keyLower == "content-length" {
			contentLen, err := strconv.Atoi(value)
			if err == nil {
				resp.ContentLength = contentLen
			}
		}
	}

	return resp, nil
}
