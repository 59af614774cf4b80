package app

import (
	"context"

	"github.com/dkeye/clustchat/internal/domain"
	"github.com/rs/zerolog/log"
)

// clusterClient is the slice of cluster.Client the adapters below need.
// Defined here, not imported from package cluster, so core never has to
// know the registry's wire shape, only this node's view of it.
type clusterClient interface {
	RegisterRoom(ctx context.Context, name domain.RoomName, node domain.NodeID, addr string) error
	UnregisterRoom(ctx context.Context, name domain.RoomName) error
	RegisterUser(ctx context.Context, number domain.UserNumber, node domain.NodeID, addr string) error
	UnregisterUser(ctx context.Context, number domain.UserNumber) error
}

// ClusterAdapter binds a cluster.Client to this node's own RPC address, so
// it can satisfy core.ClusterRooms and core.ClusterUsers, which only know
// about (name/number, node) and don't carry the addr a fresh registration
// needs to publish. Unregister errors are network errors on a best-effort
// cleanup path; they're logged, never returned, matching spec §4.1's
// treatment of unregister as idempotent cleanup rather than a hot-path op.
type ClusterAdapter struct {
	client    clusterClient
	ownAddr   string
}

func NewClusterAdapter(client clusterClient, ownAddr string) *ClusterAdapter {
	return &ClusterAdapter{client: client, ownAddr: ownAddr}
}

func (a *ClusterAdapter) RegisterRoom(ctx context.Context, name domain.RoomName, node domain.NodeID) error {
	return a.client.RegisterRoom(ctx, name, node, a.ownAddr)
}

func (a *ClusterAdapter) UnregisterRoom(ctx context.Context, name domain.RoomName) {
	if err := a.client.UnregisterRoom(ctx, name); err != nil {
		log.Warn().Str("module", "app.cluster_adapter").Str("room", string(name)).Err(err).Msg("unregister room failed")
	}
}

func (a *ClusterAdapter) RegisterUser(ctx context.Context, number domain.UserNumber, node domain.NodeID) error {
	return a.client.RegisterUser(ctx, number, node, a.ownAddr)
}

func (a *ClusterAdapter) UnregisterUser(ctx context.Context, number domain.UserNumber) {
	if err := a.client.UnregisterUser(ctx, number); err != nil {
		log.Warn().Str("module", "app.cluster_adapter").Str("user", string(number)).Err(err).Msg("unregister user failed")
	}
}
