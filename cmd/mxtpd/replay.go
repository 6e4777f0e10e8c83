package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// replayRecord mirrors the on-disk shape written by internal/sink/jsonl.
// Payload is kept as raw JSON since replay only needs to reprint and pace
// it, not re-decode it into a typed mxtp.Payload.
type replayRecord struct {
	CharacterID   uint8           `json:"character_id"`
	SampleCounter uint32          `json:"sample_counter"`
	TimeCodeMs    uint32          `json:"time_code_ms"`
	MessageType   int             `json:"message_type"`
	Payload       json.RawMessage `json:"payload"`
}

func newReplayCommand() *cobra.Command {
	var speed float64
	var rateLimit bool

	cmd := &cobra.Command{
		Use:   "replay <recording.jsonl>",
		Short: "Stream a JSONL recording back out at recorded pacing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), args[0], speed, rateLimit)
		},
	}
	cmd.Flags().Float64Var(&speed, "speed", 1.0, "playback speed multiplier (2.0 plays twice as fast)")
	cmd.Flags().BoolVar(&rateLimit, "paced", true, "sleep between records to match the original time_code_ms deltas")
	return cmd
}

func runReplay(ctx context.Context, path string, speed float64, paced bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("replay: open %s: %w", path, err)
	}
	defer f.Close()

	if speed <= 0 {
		speed = 1.0
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lastTimeCodeMs uint32
	haveLast := false
	count := 0

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec replayRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return fmt.Errorf("replay: decode record %d: %w", count+1, err)
		}

		if paced && haveLast && rec.TimeCodeMs >= lastTimeCodeMs {
			deltaMs := float64(rec.TimeCodeMs-lastTimeCodeMs) / speed
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(deltaMs) * time.Millisecond):
			}
		}
		lastTimeCodeMs = rec.TimeCodeMs
		haveLast = true

		if err := enc.Encode(rec); err != nil {
			return err
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("replay: reading %s: %w", path, err)
	}

	fmt.Fprintf(os.Stderr, "replayed %d frames from %s\n", count, path)
	return nil
}
