// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides HTTP I/O helpers for eventdesk.
//
// Response helpers (ReadResponse, DecodeResponse) bound all
// response body reads at MaxResponseSize so a misbehaving server cannot
// force unbounded allocation. ErrorMessage extracts the user-facing text
// from a service error body, and WriteJSON/WriteMessage produce bodies in
// the same shape on the serving side.
package netutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MaxResponseSize is the bound on JSON API response body reads: 16 MB.
// Event and booking listings are far smaller; the limit only exists to
// stop a pathological response from exhausting memory.
const MaxResponseSize int64 = 16 << 20

// ReadResponse reads a JSON API response body up to MaxResponseSize bytes.
// Use instead of io.ReadAll when reading HTTP response bodies.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// DecodeResponse reads a JSON API response body (up to MaxResponseSize
// bytes) and JSON-decodes it into v. An empty body leaves v untouched.
func DecodeResponse(body io.Reader, v any) error {
	data, err := io.ReadAll(io.LimitReader(body, MaxResponseSize))
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// ErrorMessage extracts the human-readable message from an error body.
// Services report failures as {"message": "..."} or {"error": "..."};
// anything else is returned as trimmed raw text. An empty body falls
// back to the status text for statusCode.
func ErrorMessage(body []byte, statusCode int) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	if text := http.StatusText(statusCode); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", statusCode)
}

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(writer http.ResponseWriter, status int, v any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(v)
}

// WriteMessage writes a {"message": ...} body with the given status.
func WriteMessage(writer http.ResponseWriter, status int, message string) {
	WriteJSON(writer, status, map[string]string{"message": message})
}
