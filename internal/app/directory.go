package app

import (
	"context"

	"github.com/dkeye/clustchat/internal/cluster"
	"github.com/dkeye/clustchat/internal/domain"
)

// ClusterDirectory implements Directory over a cluster.Client, translating
// the Router's room/user lookups into the registry's generic (kind, key)
// entry lookups.
type ClusterDirectory struct {
	client *cluster.Client
}

func NewClusterDirectory(client *cluster.Client) *ClusterDirectory {
	return &ClusterDirectory{client: client}
}

func (d *ClusterDirectory) LookupRoom(ctx context.Context, name domain.RoomName) (domain.NodeID, string, bool) {
	h, ok, err := d.client.Lookup(ctx, cluster.Entry{Kind: cluster.KindRoom, Key: string(name)})
	if err != nil || !ok {
		return "", "", false
	}
	return h.Node, h.Addr, true
}

func (d *ClusterDirectory) LookupUser(ctx context.Context, number domain.UserNumber) (domain.NodeID, string, bool) {
	h, ok, err := d.client.Lookup(ctx, cluster.Entry{Kind: cluster.KindUser, Key: string(number)})
	if err != nil || !ok {
		return "", "", false
	}
	return h.Node, h.Addr, true
}

// EnumerateRooms lists every public room currently registered cluster-wide
// (spec §4.6's LIST ACCESSIBLE ROOMS).
func (d *ClusterDirectory) EnumerateRooms(ctx context.Context) []domain.RoomName {
	entries, _, err := d.client.Enumerate(ctx, cluster.KindRoom)
	if err != nil {
		return nil
	}
	names := make([]domain.RoomName, 0, len(entries))
	for _, e := range entries {
		names = append(names, domain.RoomName(e.Key))
	}
	return names
}
