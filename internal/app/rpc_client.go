package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RoomRPC is what the Router needs to invoke a room operation on a peer
// node. Defined here so it can be mocked in router tests without pulling
// in a real HTTP client.
type RoomRPC interface {
	InvokeRoom(ctx context.Context, addr string, req RoomRequest) (RoomResponse, error)
	Deliver(ctx context.Context, addr string, req DeliverRequest) error
}

// defaultRouteTimeout bounds a single remote invocation (spec §4.5: "a
// remote invocation that does not complete within 5 seconds is treated as
// a failure of that node"), used whenever the caller doesn't override it
// via NewHTTPRoomRPCWithTimeout.
const defaultRouteTimeout = 5 * time.Second

// HTTPRoomRPC implements RoomRPC over the chatnode-to-chatnode HTTP surface
// served by rpc_server.go.
type HTTPRoomRPC struct {
	client *http.Client
}

func NewHTTPRoomRPC() *HTTPRoomRPC {
	return NewHTTPRoomRPCWithTimeout(defaultRouteTimeout)
}

// NewHTTPRoomRPCWithTimeout lets the caller honor a configured
// route_timeout (config.Config.RouteTimeout) instead of the spec's
// suggested default.
func NewHTTPRoomRPCWithTimeout(timeout time.Duration) *HTTPRoomRPC {
	return &HTTPRoomRPC{client: &http.Client{Timeout: timeout}}
}

func (r *HTTPRoomRPC) InvokeRoom(ctx context.Context, addr string, req RoomRequest) (RoomResponse, error) {
	if req.CorrelationID == "" {
		req.CorrelationID = uuid.NewString()
	}
	var resp RoomResponse
	if err := r.postJSON(ctx, addr+"/rpc/room", req, &resp); err != nil {
		return RoomResponse{}, err
	}
	return resp, nil
}

func (r *HTTPRoomRPC) Deliver(ctx context.Context, addr string, req DeliverRequest) error {
	if req.CorrelationID == "" {
		req.CorrelationID = uuid.NewString()
	}
	return r.postJSON(ctx, addr+"/rpc/deliver", req, nil)
}

func (r *HTTPRoomRPC) postJSON(ctx context.Context, url string, body, out any) error {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("rpc %s: http %d", url, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
