package config

import (
	"strings"

	"github.com/danmuck/multicall/internal/auth"
	"github.com/danmuck/multicall/internal/host"
	"github.com/danmuck/multicall/internal/protocol"
	"github.com/danmuck/multicall/internal/protocol/frame"
)

func HostOptions(cfg Config) host.Options {
	return host.Options{Gas: cfg.Gas, MaxDepth: cfg.MaxDepth}
}

func ProtocolLimits(cfg Config) protocol.Limits {
	return protocol.Limits{MaxResponseSize: cfg.MaxResponseBytes}
}

func FrameLimits(cfg Config) frame.Limits {
	return frame.Limits{MaxCalldataBytes: cfg.MaxCalldataBytes}
}

// Validator returns the gateway token check, or nil when auth is disabled.
func Validator(cfg Config) auth.Validator {
	if cfg.AuthToken == "" {
		return nil
	}
	return auth.StaticToken{Token: cfg.AuthToken}
}

// BuildRegistry registers every configured target.
func BuildRegistry(targets []TargetConfig) (*host.Registry, error) {
	reg := host.NewRegistry()
	for _, entry := range targets {
		a, err := ValidateTarget(entry)
		if err != nil {
			return nil, err
		}
		var target host.Target
		switch strings.ToLower(strings.TrimSpace(entry.Kind)) {
		case KindStatic:
			data, _ := decodeHex(entry.Data)
			target = host.Static(data)
		case KindEcho:
			target = host.Echo()
		case KindRevert:
			target = host.Revert(entry.Reason)
		case KindCounter:
			target = host.Counter()
		}
		if err := reg.Register(a, target); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// BuildHost assembles the reference host described by cfg.
func BuildHost(cfg Config) (*host.Host, error) {
	reg, err := BuildRegistry(cfg.Targets)
	if err != nil {
		return nil, err
	}
	return host.New(reg, HostOptions(cfg)), nil
}
