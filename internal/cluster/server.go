package cluster

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// NewServer wires a Store behind the registry's HTTP API. Mirrors the
// coordinator's plain REST surface in the retrieved distributed-storage
// example, but dressed in the teacher's gin conventions (gin.New plus
// Recovery, no default request logger in release mode).
func NewServer(mode string, store *Store) *gin.Engine {
	if mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	if mode == "debug" {
		r.Use(gin.Logger())
	}

	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/registry/register", handleRegister(store))
	r.POST("/registry/unregister", handleUnregister(store))
	r.GET("/registry/lookup", handleLookup(store))
	r.GET("/registry/enumerate", handleEnumerate(store))
	r.POST("/registry/node/register", handleRegisterNode(store))
	r.POST("/registry/node/unregister", handleUnregisterNode(store))

	return r
}

func handleRegisterNode(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerNodeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "bad_json"})
			return
		}
		store.RegisterNode(req.Node, req.Addr)
		log.Info().Str("module", "cluster.server").Str("node", string(req.Node)).Str("addr", req.Addr).
			Msg("node registered")
		c.Status(http.StatusNoContent)
	}
}

func handleUnregisterNode(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req unregisterNodeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "bad_json"})
			return
		}
		store.UnregisterNode(req.Node)
		log.Info().Str("module", "cluster.server").Str("node", string(req.Node)).Msg("node unregistered")
		c.Status(http.StatusNoContent)
	}
}

func handleRegister(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "bad_json"})
			return
		}
		if err := store.Register(req.Entry, req.Handle); err != nil {
			log.Info().Str("module", "cluster.server").Str("kind", string(req.Entry.Kind)).
				Str("key", req.Entry.Key).Err(err).Msg("register rejected")
			c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
			return
		}
		log.Info().Str("module", "cluster.server").Str("kind", string(req.Entry.Kind)).
			Str("key", req.Entry.Key).Str("node", string(req.Handle.Node)).Msg("registered")
		c.Status(http.StatusNoContent)
	}
}

func handleUnregister(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "bad_json"})
			return
		}
		store.Unregister(req.Entry)
		c.Status(http.StatusNoContent)
	}
}

func handleLookup(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		entry := Entry{Kind: EntryKind(c.Query("kind")), Key: c.Query("key")}
		handle, ok := store.Lookup(entry)
		c.JSON(http.StatusOK, lookupResponse{Found: ok, Handle: handle})
	}
}

func handleEnumerate(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		kind := EntryKind(c.Query("kind"))
		entries, handles := store.Enumerate(kind)
		c.JSON(http.StatusOK, enumerateResponse{Entries: entries, Handles: handles})
	}
}
