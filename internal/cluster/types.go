// Package cluster implements the Cluster Name Registry: the cluster-wide
// mapping of (kind, key) tagged entries to the node and handle that own
// them (spec §4.1). It is split into a server-side Store (used by
// cmd/registry) and an HTTP Client (used by cmd/chatnode's router), with
// the wire protocol between them defined here.
//
// The wire format and retry-free JSON-over-HTTP transport mirror the
// coordinator/node protocol in the retrieved distributed-storage example:
// a single shared http.Client with a fixed timeout, plain postJSON/getJSON
// helpers, no framing beyond JSON bodies.
package cluster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dkeye/clustchat/internal/domain"
)

// EntryKind tags what a registry entry names.
type EntryKind string

const (
	KindUser EntryKind = "user"
	KindRoom EntryKind = "room"
)

// Entry is the tagged key of a registry record: a user_number for
// KindUser, a (normalized) room name for KindRoom.
type Entry struct {
	Kind EntryKind `json:"kind"`
	Key  string    `json:"key"`
}

// Handle is what an Entry resolves to: the node that owns it and that
// node's RPC base address, so a caller can reach it without a second
// lookup.
type Handle struct {
	Node domain.NodeID `json:"node"`
	Addr string        `json:"addr"`
}

type registerRequest struct {
	Entry  Entry  `json:"entry"`
	Handle Handle `json:"handle"`
}

type lookupResponse struct {
	Found  bool   `json:"found"`
	Handle Handle `json:"handle"`
}

type enumerateResponse struct {
	Entries []Entry  `json:"entries"`
	Handles []Handle `json:"handles"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type registerNodeRequest struct {
	Node domain.NodeID `json:"node"`
	Addr string        `json:"addr"`
}

type unregisterNodeRequest struct {
	Node domain.NodeID `json:"node"`
}

var httpClient = &http.Client{Timeout: 5 * time.Second}

// postJSON POSTs body as JSON to url and decodes the response into out
// (if non-nil). A non-2xx response's body is decoded as errorResponse and
// surfaced as an error.
func postJSON(ctx context.Context, url string, body, out any) error {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var e errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error != "" {
			return fmt.Errorf("%s", e.Error)
		}
		return fmt.Errorf("http %s: %d", url, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var e errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error != "" {
			return fmt.Errorf("%s", e.Error)
		}
		return fmt.Errorf("http %s: %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
