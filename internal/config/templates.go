package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/danmuck/multicall/internal/protocol"
)

// exampleTargets seed a fresh config with one target of every kind.
var exampleTargets = []TargetConfig{
	{Address: "0x" + repeatHex("0a"), Kind: KindStatic, Data: "0x01"},
	{Address: "0x" + repeatHex("0b"), Kind: KindEcho},
	{Address: "0x" + repeatHex("0c"), Kind: KindCounter},
	{Address: "0x" + repeatHex("0d"), Kind: KindRevert, Reason: "paused"},
}

// Template renders the default configuration with example targets.
func Template() (string, error) {
	cfg := Default()
	cfg.CorsOrigins = []string{"http://localhost:3000"}
	cfg.Targets = exampleTargets
	out, err := toml.Marshal(toFile(cfg))
	if err != nil {
		return "", fmt.Errorf("render config template: %w", err)
	}
	return string(out), nil
}

func WriteTemplate(path string, overwrite bool) error {
	template, err := Template()
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

func toFile(cfg Config) fileConfig {
	return fileConfig{
		Name:             cfg.Name,
		Addr:             cfg.Addr,
		CorsOrigins:      cfg.CorsOrigins,
		AuthToken:        cfg.AuthToken,
		MaxCalldataBytes: cfg.MaxCalldataBytes,
		MaxResponseBytes: cfg.MaxResponseBytes,
		MaxDepth:         cfg.MaxDepth,
		Gas: gasConfig{
			Limit:   cfg.Gas.Limit,
			Base:    cfg.Gas.Base,
			PerByte: cfg.Gas.PerByte,
		},
		Targets: cfg.Targets,
	}
}

func repeatHex(pair string) string {
	return strings.Repeat(pair, protocol.AddressLength)
}
