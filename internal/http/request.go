package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// userIDHeader selects the storage namespace. Requests without it fall back
// to the legacy shared namespace from before accounts existed.
const userIDHeader = "X-User-ID"

func namespaceFrom(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(userIDHeader))
}

const maxBodySize = 1 << 20 // 1 MiB

// decodeBody decodes a JSON request body into v, rejecting oversized
// payloads and trailing garbage.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil {
		return err
	}
	// Trailing garbage after the document is a client error too.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

// sanitize trims whitespace and strips control characters from user text.
func sanitize(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
