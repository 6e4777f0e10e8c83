// Package config loads mxtpd's TOML configuration file, applying the
// package defaults for any key the file leaves unset.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/axonmocap/mxtpd/internal/mxtp"
)

// Config is the full configuration for a running mxtpd instance: the decode
// and reassembly tunables from mxtp.Config plus transport and output
// settings.
type Config struct {
	Mxtp mxtp.Config

	UDPAddr      string
	SRTAddr      string // empty disables the SRT listener
	DebugAPIAddr string
	JSONLPath    string // empty disables the JSONL recorder
}

// Default returns the configuration mxtpd uses when no file is loaded.
func Default() Config {
	return Config{
		Mxtp:         mxtp.DefaultConfig(),
		UDPAddr:      ":9763",
		DebugAPIAddr: ":9764",
	}
}

// fileConfig mirrors the TOML schema from SPEC_FULL.md §6.4. Pointer and
// zero-value ambiguity is resolved via toml.MetaData.IsDefined, not by
// treating the Go zero value as "absent" — a file that explicitly sets
// reassembly_window_samples = 0 must be able to mean zero.
type fileConfig struct {
	ReassemblyWindowSamples        uint32 `toml:"reassembly_window_samples"`
	ReassemblyCapacityPerCharacter int    `toml:"reassembly_capacity_per_character"`
	ReassemblyTimeoutMs            int64  `toml:"reassembly_timeout_ms"`
	LenientLength                  bool   `toml:"lenient_length"`
	PointIDMultiplier              uint32 `toml:"point_id_multiplier"`
	StrictMagic                    bool   `toml:"strict_magic"`

	UDPAddr      string `toml:"udp_addr"`
	SRTAddr      string `toml:"srt_addr"`
	DebugAPIAddr string `toml:"debug_api_addr"`
	JSONLPath    string `toml:"jsonl_path"`
}

// Load reads path as TOML and overlays it onto Default(), using only the
// keys the file actually sets.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}

	if meta.IsDefined("reassembly_window_samples") {
		cfg.Mxtp.ReassemblyWindowSamples = raw.ReassemblyWindowSamples
	}
	if meta.IsDefined("reassembly_capacity_per_character") {
		cfg.Mxtp.ReassemblyCapacityPerCharacter = raw.ReassemblyCapacityPerCharacter
	}
	if meta.IsDefined("reassembly_timeout_ms") {
		cfg.Mxtp.ReassemblyTimeoutMs = raw.ReassemblyTimeoutMs
	}
	if meta.IsDefined("lenient_length") {
		cfg.Mxtp.LenientLength = raw.LenientLength
	}
	if meta.IsDefined("point_id_multiplier") {
		mult := mxtp.PointIDMultiplier(raw.PointIDMultiplier)
		if mult != mxtp.PointIDMultiplier100 && mult != mxtp.PointIDMultiplier256 {
			return Config{}, fmt.Errorf("config: point_id_multiplier must be 100 or 256, got %d", raw.PointIDMultiplier)
		}
		cfg.Mxtp.PointIDMultiplier = mult
	}
	if meta.IsDefined("strict_magic") {
		cfg.Mxtp.StrictMagic = raw.StrictMagic
	}

	if meta.IsDefined("udp_addr") {
		cfg.UDPAddr = strings.TrimSpace(raw.UDPAddr)
	}
	if meta.IsDefined("srt_addr") {
		cfg.SRTAddr = strings.TrimSpace(raw.SRTAddr)
	}
	if meta.IsDefined("debug_api_addr") {
		cfg.DebugAPIAddr = strings.TrimSpace(raw.DebugAPIAddr)
	}
	if meta.IsDefined("jsonl_path") {
		cfg.JSONLPath = strings.TrimSpace(raw.JSONLPath)
	}

	return cfg, nil
}
