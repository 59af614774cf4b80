package app

import (
	"context"

	"github.com/dkeye/clustchat/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
)

// Fanout is the Broadcast Fanout (spec §4.8): deliver one line to every
// member of a room, locally for members resident on this node and via one
// batched RPC per remote node for everyone else. Delivery order across
// members is unspecified and a failure reaching one node never blocks
// delivery to the others, so this runs every branch on its own goroutine
// under a conc.WaitGroup rather than returning early on the first error.
type Fanout struct {
	node     domain.NodeID
	sessions *Sessions
	rpc      RoomRPC
	dir      Directory
}

func NewFanout(node domain.NodeID, sessions *Sessions, rpc RoomRPC, dir Directory) *Fanout {
	return &Fanout{node: node, sessions: sessions, rpc: rpc, dir: dir}
}

// Broadcast delivers payload to every member. Members resident on this
// node are written directly to their live connection, if any (a member
// with no bound connection, e.g. between reconnects, is silently skipped;
// an unreachable remote node is skipped with a warning log).
func (f *Fanout) Broadcast(ctx context.Context, members []domain.User, payload string) {
	byNode := groupByNode(members)

	var wg conc.WaitGroup
	for node, numbers := range byNode {
		node, numbers := node, numbers
		if node == f.node {
			wg.Go(func() { f.deliverLocal(numbers, payload) })
			continue
		}
		wg.Go(func() { f.deliverRemote(ctx, node, numbers, payload) })
	}
	wg.Wait()
}

func (f *Fanout) deliverLocal(numbers []domain.UserNumber, payload string) {
	for _, number := range numbers {
		conn, ok := f.sessions.Get(number)
		if !ok {
			continue
		}
		if err := conn.WriteLine(payload); err != nil {
			log.Warn().Str("module", "app.fanout").Str("user", string(number)).
				Err(err).Msg("local broadcast write failed")
		}
	}
}

func (f *Fanout) deliverRemote(ctx context.Context, node domain.NodeID, numbers []domain.UserNumber, payload string) {
	if len(numbers) == 0 {
		return
	}
	addr, ok := f.addrForNode(ctx, node, numbers)
	if !ok {
		log.Warn().Str("module", "app.fanout").Str("node", string(node)).
			Msg("broadcast: no reachable address for node, skipping")
		return
	}
	req := DeliverRequest{UserNumbers: numbers, Payload: payload}
	if err := f.rpc.Deliver(ctx, addr, req); err != nil {
		log.Warn().Str("module", "app.fanout").Str("node", string(node)).
			Err(err).Msg("remote broadcast delivery failed")
	}
}

func (f *Fanout) addrForNode(ctx context.Context, node domain.NodeID, numbers []domain.UserNumber) (string, bool) {
	for _, number := range numbers {
		if gotNode, addr, ok := f.dir.LookupUser(ctx, number); ok && gotNode == node {
			return addr, true
		}
	}
	return "", false
}

func groupByNode(members []domain.User) map[domain.NodeID][]domain.UserNumber {
	out := make(map[domain.NodeID][]domain.UserNumber)
	for _, m := range members {
		out[m.Node] = append(out[m.Node], m.UserNumber)
	}
	return out
}
