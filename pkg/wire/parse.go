package wire

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	ferrors "github.com/mutablelogic/go-filebox/pkg/ferrors"
)

var validMethods = map[string]bool{
	"GET":    true,
	"PUT":    true,
	"POST":   true,
	"DELETE": true,
}

// ParseRequest reads exactly one HTTP/1.1 request off r. httpVersion is the
// server's single configured version string; any other value in the
// request line fails with 505.
func ParseRequest(r *bufio.Reader, httpVersion string) (*Request, error) {
	line, err := readLine(r)
	if err != nil {
		return nil, err
	}

	tokens := strings.Split(line, " ")
	if len(tokens) != 3 {
		return nil, ferrors.ParseError(400, "request line must contain exactly three space-separated tokens")
	}
	method, target, version := tokens[0], tokens[1], tokens[2]

	if !validMethods[method] {
		return nil, ferrors.ParseError(400, "unrecognized method "+strconv.Quote(method))
	}
	if version != httpVersion {
		return nil, ferrors.ParseError(505, "unsupported version "+strconv.Quote(version))
	}

	headers, err := parseHeaders(r)
	if err != nil {
		return nil, err
	}

	root, path, query, hasQuery := splitTarget(target)

	body, err := parseBody(r, headers)
	if err != nil {
		return nil, err
	}

	return &Request{
		Method:   method,
		Version:  version,
		RawURL:   target,
		Root:     root,
		Path:     path,
		Query:    query,
		HasQuery: hasQuery,
		Headers:  headers,
		Body:     body,
	}, nil
}

// readLine reads bytes until CR, then requires the following byte to be LF.
// The returned string excludes the CRLF terminator.
func readLine(r *bufio.Reader) (string, error) {
	var line []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", ferrors.ParseError(400, "connection closed before line terminator")
		}
		if b == '\r' {
			next, err := r.ReadByte()
			if err != nil || next != '\n' {
				return "", ferrors.ParseError(400, "CR not followed by LF")
			}
			return string(line), nil
		}
		line = append(line, b)
	}
}

// parseHeaders reads CRLF-terminated header lines until an empty line.
func parseHeaders(r *bufio.Reader) (Headers, error) {
	var headers Headers
	for {
		line, err := readLine(r)
		if err != nil {
			return nil, err
		}
		if line == "" {
			break
		}
		idx := strings.Index(line, ": ")
		if idx < 0 {
			return nil, ferrors.ParseError(400, "header line missing \": \" delimiter")
		}
		headers.Add(line[:idx], line[idx+2:])
	}
	if len(headers) == 0 {
		return nil, ferrors.ParseError(400, "no headers parsed")
	}
	return headers, nil
}

// parseBody reads exactly Content-Length bytes when present. A missing
// Content-Length means no body at all (nil, not an error) — it is up to
// individual handlers to require a body via 411.
func parseBody(r *bufio.Reader, headers Headers) ([]byte, error) {
	raw, ok := headers.Get("Content-Length")
	if !ok {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, ferrors.ParseError(400, "invalid Content-Length")
	}
	body := make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, ferrors.ParseError(400, "body shorter than Content-Length")
		}
	}
	return body, nil
}

// splitTarget separates a request target into endpoint root, path
// remainder (leading "/" kept), and query string.
func splitTarget(target string) (root, pathRemainder, query string, hasQuery bool) {
	path := target
	if idx := strings.IndexByte(target, '?'); idx >= 0 {
		path, query = target[:idx], target[idx+1:]
		hasQuery = true
	}
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		root = "/" + trimmed[:i]
		pathRemainder = trimmed[i:]
	} else {
		root = "/" + trimmed
	}
	return
}
