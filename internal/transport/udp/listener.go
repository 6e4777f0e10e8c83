// Package udp implements the primary MXTP transport: a UDP socket whose
// datagrams are handed straight to a reassembler. It owns socket I/O only;
// all protocol logic lives in internal/mxtp and internal/reassembly.
package udp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/axonmocap/mxtpd/internal/mxtp"
	"github.com/axonmocap/mxtpd/internal/reassembly"
	"github.com/axonmocap/mxtpd/internal/sink"
)

// maxDatagramSize is the largest UDP payload this listener will read into;
// MXTP datagrams fit comfortably within it.
const maxDatagramSize = 65535

// tickInterval governs how often the reassembler is ticked for wall-clock
// eviction of stale partial frames, independent of inbound traffic.
const tickInterval = 100 * time.Millisecond

// Listener binds a UDP socket and feeds every datagram it reads to a
// reassembly.Reassembler, guarded by a mutex since the reassembler itself
// is not safe for concurrent use.
type Listener struct {
	addr string
	log  *slog.Logger
	sink sink.Sink

	mu    sync.Mutex
	asm   *reassembly.Reassembler
	clock func() int64
}

// New returns a Listener bound to addr (not yet listening) that reassembles
// using cfg and delivers completed frames to out.
func New(addr string, cfg mxtp.Config, tel mxtp.Telemetry, out sink.Sink, log *slog.Logger) *Listener {
	if log == nil {
		log = slog.Default()
	}
	return &Listener{
		addr:  addr,
		log:   log.With("component", "udp-listener"),
		sink:  out,
		asm:   reassembly.New(cfg, tel),
		clock: func() int64 { return time.Now().UnixMilli() },
	}
}

// Run binds the socket and reads datagrams until ctx is cancelled. It
// blocks and returns nil on clean shutdown, or an error if the socket
// could not be opened or a read failed for a reason other than closure.
func (l *Listener) Run(ctx context.Context) error {
	conn, err := net.ListenPacket("udp", l.addr)
	if err != nil {
		return fmt.Errorf("udp: listen on %s: %w", l.addr, err)
	}
	defer conn.Close()
	l.log.Info("listening", "addr", l.addr)

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	go l.tickLoop(ctx)

	buf := make([]byte, maxDatagramSize)
	for {
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			l.log.Warn("read error", "error", err)
			continue
		}

		datagram := append([]byte(nil), buf[:n]...)
		l.mu.Lock()
		frames := l.asm.Push(datagram, l.clock())
		l.mu.Unlock()

		for _, f := range frames {
			if l.sink != nil {
				l.sink.OnFrame(f)
			}
		}
	}
}

func (l *Listener) tickLoop(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.mu.Lock()
			l.asm.Tick(l.clock())
			l.mu.Unlock()
		}
	}
}

// SetSink replaces the destination for completed frames. Safe to call
// before Run starts reading; not safe to call concurrently with Run.
func (l *Listener) SetSink(s sink.Sink) {
	l.sink = s
}

// InFlight returns the number of partial frames currently buffered, for
// the debug API's stats endpoint.
func (l *Listener) InFlight() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.asm.InFlight()
}

// Characters returns every character ID the reassembler has seen, whether
// or not it still has partials in flight.
func (l *Listener) Characters() []uint8 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.asm.Characters()
}
