package app

import (
	"net/http"

	"github.com/dkeye/clustchat/internal/core"
	"github.com/dkeye/clustchat/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// statusResponse is the operator visibility snapshot spec §13 adds: room
// and user counts resident on this node, no client-facing behavior.
type statusResponse struct {
	Node      string `json:"node"`
	RoomCount int    `json:"room_count"`
	UserCount int    `json:"user_count"`
}

// NewRPCRouter wires the node-to-node RPC surface: remote room operations
// (dispatched to the local Executor, same code path the Router uses for
// locally-owned rooms) and broadcast delivery against this node's
// Sessions. Grounded on the teacher's gin.Engine wiring in cmd/server,
// generalized from a browser-facing API to a peer-facing one.
func NewRPCRouter(node domain.NodeID, rooms *core.RoomManager, users *core.UserManager, exec *Executor, sessions *Sessions) *gin.Engine { //nolint:gocyclo
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	r.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, statusResponse{
			Node:      string(node),
			RoomCount: len(rooms.List()),
			UserCount: users.Count(),
		})
	})

	r.POST("/rpc/room", func(c *gin.Context) {
		var req RoomRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, RoomResponse{Error: "bad_request"})
			return
		}
		resp := exec.Exec(c.Request.Context(), req)
		c.JSON(http.StatusOK, resp)
	})

	r.POST("/rpc/deliver", func(c *gin.Context) {
		var req DeliverRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		deliver(sessions, req)
		c.Status(http.StatusOK)
	})

	return r
}

func deliver(sessions *Sessions, req DeliverRequest) {
	for _, number := range req.UserNumbers {
		conn, ok := sessions.Get(number)
		if !ok {
			continue
		}
		if err := conn.WriteLine(req.Payload); err != nil {
			log.Warn().Str("module", "app.rpc_server").Str("user", string(number)).
				Err(err).Msg("deliver write failed")
		}
	}
}
