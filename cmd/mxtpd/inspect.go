package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/axonmocap/mxtpd/internal/mxtp"
)

func newInspectCommand() *cobra.Command {
	var lenient bool

	cmd := &cobra.Command{
		Use:   "inspect <datagram-file>",
		Short: "Decode a single captured MXTP datagram and print its header and payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0], lenient)
		},
	}
	cmd.Flags().BoolVar(&lenient, "lenient", true, "clamp a mismatched payload_size instead of rejecting the datagram")
	return cmd
}

func runInspect(path string, lenient bool) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	cfg := mxtp.DefaultConfig()
	h, payload, err := mxtp.DecodeHeader(raw, cfg.StrictMagic, !lenient)
	if err != nil {
		return fmt.Errorf("decode header: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(h); err != nil {
		return err
	}

	if !h.MessageType.IsKnown() {
		fmt.Fprintf(os.Stderr, "message type %d is not recognized; payload not decoded\n", h.MessageType)
		return nil
	}

	key := mxtp.FrameKey{CharacterID: h.CharacterID, SampleCounter: h.SampleCounter}
	decoded, err := mxtp.DecodePayload(h, payload, key, cfg, mxtp.NoopTelemetry{})
	if err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return enc.Encode(decoded)
}
