// Package srt implements the secondary MXTP transport for links where raw
// UDP is not viable end-to-end (e.g. over the public internet): SRT
// provides a reliable, ordered byte stream, over which MXTP datagrams are
// carried length-prefixed and reframed back into discrete datagrams before
// reaching the same reassembly entry point the UDP transport uses.
package srt

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	srtgo "github.com/zsiec/srtgo"

	"github.com/axonmocap/mxtpd/internal/mxtp"
	"github.com/axonmocap/mxtpd/internal/reassembly"
	"github.com/axonmocap/mxtpd/internal/sink"
)

// srtLatencyNs is the SRT latency setting in nanoseconds (120ms), matching
// the value used elsewhere in this codebase for live low-latency links.
const srtLatencyNs = 120_000_000

// maxFramedDatagram bounds a single reframed MXTP datagram read off the
// byte stream; well above any real fragment.
const maxFramedDatagram = 65535

// Listener accepts SRT connections and reassembles the MXTP datagrams
// carried over each one.
type Listener struct {
	addr string
	log  *slog.Logger
	sink sink.Sink
	cfg  mxtp.Config
	tel  mxtp.Telemetry

	clock func() int64
}

// New returns a Listener bound to addr (not yet listening).
func New(addr string, cfg mxtp.Config, tel mxtp.Telemetry, out sink.Sink, log *slog.Logger, clock func() int64) *Listener {
	if log == nil {
		log = slog.Default()
	}
	return &Listener{addr: addr, log: log.With("component", "srt-listener"), sink: out, cfg: cfg, tel: tel, clock: clock}
}

// Run accepts SRT connections until ctx is cancelled. It blocks and
// returns nil on clean shutdown.
func (l *Listener) Run(ctx context.Context) error {
	cfg := srtgo.DefaultConfig()
	cfg.Latency = srtLatencyNs

	listener, err := srtgo.Listen(l.addr, cfg)
	if err != nil {
		return fmt.Errorf("srt: listen on %s: %w", l.addr, err)
	}
	l.log.Info("listening", "addr", l.addr)

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			l.log.Warn("accept error", "error", err)
			continue
		}
		go l.handleConnection(ctx, conn)
	}
}

func (l *Listener) handleConnection(ctx context.Context, conn *srtgo.Conn) {
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	l.log.Info("connected", "remote", remote)

	var mu sync.Mutex
	asm := reassembly.New(l.cfg, l.tel)

	lenBuf := make([]byte, 4)
	for {
		if ctx.Err() != nil {
			return
		}
		if _, err := io.ReadFull(conn, lenBuf); err != nil {
			if !errors.Is(err, io.EOF) {
				l.log.Debug("read length prefix", "remote", remote, "error", err)
			}
			return
		}
		n := binary.BigEndian.Uint32(lenBuf)
		if n == 0 || n > maxFramedDatagram {
			l.log.Warn("invalid frame length, dropping connection", "remote", remote, "length", n)
			return
		}

		datagram := make([]byte, n)
		if _, err := io.ReadFull(conn, datagram); err != nil {
			l.log.Debug("read frame body", "remote", remote, "error", err)
			return
		}

		mu.Lock()
		frames := asm.Push(datagram, l.clock())
		mu.Unlock()

		for _, f := range frames {
			if l.sink != nil {
				l.sink.OnFrame(f)
			}
		}
	}
}
