package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/axonmocap/mxtpd/internal/api"
	"github.com/axonmocap/mxtpd/internal/character"
	"github.com/axonmocap/mxtpd/internal/config"
	"github.com/axonmocap/mxtpd/internal/mxtp"
	"github.com/axonmocap/mxtpd/internal/sink"
	"github.com/axonmocap/mxtpd/internal/sink/jsonl"
	srttransport "github.com/axonmocap/mxtpd/internal/transport/srt"
	udptransport "github.com/axonmocap/mxtpd/internal/transport/udp"
)

func newListenCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Run the UDP/SRT ingest fleet and debug API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			return runListen(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML config file")
	return cmd
}

func runListen(parentCtx context.Context, cfg config.Config) error {
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	tel := mxtp.NewSlogTelemetry(slog.Default())

	var sinks sink.Multi
	if cfg.JSONLPath != "" {
		rec, err := jsonl.Open(cfg.JSONLPath)
		if err != nil {
			return err
		}
		defer rec.Close()
		sinks = append(sinks, rec)
	}

	sessions := character.NewRegistry(slog.Default(), defaultClock)
	sinks = append(sinks, sessions)

	udpListener := udptransport.New(cfg.UDPAddr, cfg.Mxtp, tel, nil, slog.Default())

	apiSrv := api.New(cfg.DebugAPIAddr, udpListener, sessions, slog.Default())
	sinks = append(sinks, apiSrv)
	udpListener.SetSink(sinks)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return udpListener.Run(ctx)
	})

	g.Go(func() error {
		return apiSrv.Run(ctx)
	})

	if cfg.SRTAddr != "" {
		clock := defaultClock
		srtListener := srttransport.New(cfg.SRTAddr, cfg.Mxtp, tel, sinks, slog.Default(), clock)
		g.Go(func() error {
			return srtListener.Run(ctx)
		})
	}

	slog.Info("mxtpd listening", "udp", cfg.UDPAddr, "srt", cfg.SRTAddr, "api", cfg.DebugAPIAddr)
	return g.Wait()
}
