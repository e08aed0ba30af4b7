package config

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/multicall/internal/host"
	"github.com/danmuck/multicall/internal/protocol"
	"github.com/danmuck/multicall/internal/protocol/frame"
)

// Target kinds understood by BuildRegistry.
const (
	KindStatic  = "static"
	KindEcho    = "echo"
	KindRevert  = "revert"
	KindCounter = "counter"
)

// Config is the gateway configuration.
type Config struct {
	Name             string
	Addr             string
	CorsOrigins      []string
	AuthToken        string
	MaxCalldataBytes uint64
	MaxResponseBytes uint64
	MaxDepth         int
	Gas              host.GasSchedule
	Targets          []TargetConfig
}

// TargetConfig declares one target on the reference host.
type TargetConfig struct {
	Address string `toml:"address"`
	Kind    string `toml:"kind"`
	Data    string `toml:"data,omitempty"`
	Reason  string `toml:"reason,omitempty"`
}

type gasConfig struct {
	Limit   uint64 `toml:"limit"`
	Base    uint64 `toml:"base"`
	PerByte uint64 `toml:"per_byte"`
}

type fileConfig struct {
	Name             string         `toml:"name"`
	Addr             string         `toml:"addr"`
	CorsOrigins      []string       `toml:"cors_origins"`
	AuthToken        string         `toml:"auth_token,omitempty"`
	MaxCalldataBytes uint64         `toml:"max_calldata_bytes"`
	MaxResponseBytes uint64         `toml:"max_response_bytes"`
	MaxDepth         int            `toml:"max_depth"`
	Gas              gasConfig      `toml:"gas"`
	Targets          []TargetConfig `toml:"targets"`
}

func Default() Config {
	opts := host.DefaultOptions()
	return Config{
		Name:             "multicall",
		Addr:             ":9300",
		CorsOrigins:      []string{},
		MaxCalldataBytes: frame.DefaultLimits().MaxCalldataBytes,
		MaxResponseBytes: protocol.DefaultLimits().MaxResponseSize,
		MaxDepth:         opts.MaxDepth,
		Gas:              opts.Gas,
		Targets:          []TargetConfig{},
	}
}

// Load reads path and overlays every defined key onto Default.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config %s: unknown key %s", path, undecoded[0])
	}

	if meta.IsDefined("name") {
		cfg.Name = strings.TrimSpace(raw.Name)
	}
	if meta.IsDefined("addr") {
		cfg.Addr = strings.TrimSpace(raw.Addr)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = normalizeOrigins(raw.CorsOrigins)
	}
	if meta.IsDefined("auth_token") {
		cfg.AuthToken = strings.TrimSpace(raw.AuthToken)
	}
	if meta.IsDefined("max_calldata_bytes") {
		cfg.MaxCalldataBytes = raw.MaxCalldataBytes
	}
	if meta.IsDefined("max_response_bytes") {
		cfg.MaxResponseBytes = raw.MaxResponseBytes
	}
	if meta.IsDefined("max_depth") {
		cfg.MaxDepth = raw.MaxDepth
	}
	if meta.IsDefined("gas", "limit") {
		cfg.Gas.Limit = raw.Gas.Limit
	}
	if meta.IsDefined("gas", "base") {
		cfg.Gas.Base = raw.Gas.Base
	}
	if meta.IsDefined("gas", "per_byte") {
		cfg.Gas.PerByte = raw.Gas.PerByte
	}
	if meta.IsDefined("targets") {
		cfg.Targets = raw.Targets
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config %s invalid: %w", path, err)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("missing name")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("missing addr")
	}
	if cfg.MaxCalldataBytes == 0 || cfg.MaxCalldataBytes > frame.MaxCalldataLimit {
		return fmt.Errorf("max_calldata_bytes must be in 1..%d", frame.MaxCalldataLimit)
	}
	if cfg.MaxResponseBytes == 0 || cfg.MaxResponseBytes > protocol.DefaultMaxResponseSize {
		return fmt.Errorf("max_response_bytes must be in 1..%d", protocol.DefaultMaxResponseSize)
	}
	if cfg.MaxDepth <= 0 {
		return fmt.Errorf("max_depth must be positive")
	}
	if cfg.Gas.Limit == 0 {
		return fmt.Errorf("gas.limit must be positive")
	}
	seen := make(map[protocol.Address]struct{}, len(cfg.Targets))
	for i, target := range cfg.Targets {
		a, err := ValidateTarget(target)
		if err != nil {
			return fmt.Errorf("targets[%d] invalid: %w", i, err)
		}
		if _, ok := seen[a]; ok {
			return fmt.Errorf("targets[%d] invalid: duplicate address %s", i, a)
		}
		seen[a] = struct{}{}
	}
	return nil
}

// ValidateTarget checks one target entry and returns its parsed address.
func ValidateTarget(target TargetConfig) (protocol.Address, error) {
	a, err := protocol.ParseAddress(target.Address)
	if err != nil {
		return protocol.Address{}, err
	}
	if a.IsZero() {
		return protocol.Address{}, fmt.Errorf("%w: zero address is reserved", protocol.ErrInvalidAddress)
	}
	switch strings.ToLower(strings.TrimSpace(target.Kind)) {
	case KindStatic:
		if _, err := decodeHex(target.Data); err != nil {
			return protocol.Address{}, fmt.Errorf("data: %w", err)
		}
	case KindEcho, KindCounter:
	case KindRevert:
		if strings.TrimSpace(target.Reason) == "" {
			return protocol.Address{}, fmt.Errorf("revert target requires reason")
		}
	default:
		return protocol.Address{}, fmt.Errorf("unknown kind %q", target.Kind)
	}
	return a, nil
}

func decodeHex(s string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
}

func normalizeOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, origin := range in {
		v := strings.TrimSpace(origin)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
