package tcp

import (
	"context"
	"net"

	"github.com/dkeye/clustchat/internal/app"
	"github.com/dkeye/clustchat/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Listener is the Connection Session's accept loop: one dedicated task per
// accepted connection, as spec §4.7 and §5 require.
type Listener struct {
	addr       string
	dispatcher *app.Dispatcher
	limiter    *CommandRateLimiter
}

func NewListener(addr string, dispatcher *app.Dispatcher, limiter *CommandRateLimiter) *Listener {
	return &Listener{addr: addr, dispatcher: dispatcher, limiter: limiter}
}

// Serve accepts connections until ctx is canceled or the listener errors.
func (l *Listener) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return err
	}
	defer ln.Close()

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				log.Error().Err(err).Str("module", "adapters.tcp").Msg("accept error")
				continue
			}
		}
		go l.handle(ctx, conn)
	}
}

// handle runs the per-connection session loop: read one line, parse,
// enforce the login gate, dispatch, write the reply. A read error or
// connection close always runs the Dispatcher's LOG OUT flow, resolving
// the source's "leaked registry entry on close" behavior in favor of
// cleanup every time the session ends (spec §9's open question).
func (l *Listener) handle(ctx context.Context, conn net.Conn) {
	sc := newSessionConn(conn)
	state := &app.ConnState{}
	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go sc.writePump(connCtx)
	defer func() {
		l.dispatcher.Handle(context.Background(), sc, state, protocol.Command{Name: protocol.CmdLogOut})
		sc.Close()
	}()

	readLines(connCtx, conn,
		func(line string) { l.onLine(connCtx, sc, state, line) },
		func() {},
		func(err error) {
			log.Error().Err(err).Str("module", "adapters.tcp").Msg("session read error")
			_ = sc.WriteLine(protocol.TransportError)
		},
	)
}

func (l *Listener) onLine(ctx context.Context, sc *sessionConn, state *app.ConnState, line string) {
	cmd := protocol.Parse(line)

	if state.User == nil && cmd.Name != protocol.CmdLogin {
		_ = sc.WriteLine(protocol.NotLoggedIn)
		return
	}

	if state.User != nil && l.limiter != nil && !l.limiter.Allow(state.User.Get().UserNumber) {
		_ = sc.WriteLine(protocol.Direct("rate limit exceeded, slow down"))
		return
	}

	reply := l.dispatcher.Handle(ctx, sc, state, cmd)
	if reply == "" {
		return
	}
	_ = sc.WriteLine(reply)
}
