// Package tcp is the Connection Session (spec §4.7): it accepts the raw
// line-delimited TCP transport and turns each line into a Dispatcher call,
// generalizing the teacher's WebSocket readPump/writePump split from JSON
// signal frames to plain CRLF-terminated lines.
package tcp

import (
	"bufio"
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var ErrBackpressure = errors.New("backpressure")

// sessionConn owns one net.Conn. Writes never touch the socket directly
// from an arbitrary goroutine (the Fanout, the dispatcher's own reply, a
// remote deliver handler might all want to write); they go through send,
// and a single writePump goroutine per connection serializes onto the
// socket, mirroring the teacher's WsSignalConn.
type sessionConn struct {
	conn net.Conn
	send chan string

	mu     sync.RWMutex
	closed bool
}

func newSessionConn(conn net.Conn) *sessionConn {
	return &sessionConn{conn: conn, send: make(chan string, 32)}
}

// WriteLine satisfies app.Conn: it queues line for the writePump rather
// than blocking the caller (the Fanout, other sessions' dispatch calls) on
// this socket's I/O.
func (c *sessionConn) WriteLine(line string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- line:
		return nil
	default:
		return ErrBackpressure
	}
}

func (c *sessionConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

func (c *sessionConn) writePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "adapters.tcp").Msg("writePump set deadline")
				return
			}
			if _, err := c.conn.Write([]byte(line)); err != nil {
				log.Error().Err(err).Str("module", "adapters.tcp").Msg("writePump write error")
				return
			}
		}
	}
}

// readLines scans newline-delimited input off conn, invoking onLine for
// each one until the connection errors or ctx is canceled. A scanner read
// error that wraps net.ErrClosed is treated as the spec's "closed" read
// error; any other error terminates the session after onErr runs once.
func readLines(ctx context.Context, conn net.Conn, onLine func(string), onClosed func(), onErr func(error)) {
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		onLine(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, net.ErrClosed) {
			onClosed()
			return
		}
		onErr(err)
		return
	}
	onClosed()
}
