package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/multicall/internal/multicall"
	"github.com/danmuck/multicall/internal/protocol"
	"github.com/danmuck/multicall/internal/protocol/frame"
)

// batchFile lists the calls to aggregate, in order.
type batchFile struct {
	Calls []batchCall `toml:"calls"`
}

type batchCall struct {
	Target  string `toml:"target"`
	Payload string `toml:"payload"`
}

func loadBatch(path string) ([]protocol.CallRequest, error) {
	var raw batchFile
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("load batch %s: %w", path, err)
	}
	reqs := make([]protocol.CallRequest, 0, len(raw.Calls))
	for i, call := range raw.Calls {
		target, err := protocol.ParseAddress(call.Target)
		if err != nil {
			return nil, fmt.Errorf("calls[%d] target: %w", i, err)
		}
		payload, err := decodeHex(call.Payload)
		if err != nil {
			return nil, fmt.Errorf("calls[%d] payload: %w", i, err)
		}
		reqs = append(reqs, protocol.CallRequest{Target: target, Payload: payload})
	}
	return reqs, nil
}

// aggregateEnvelope encodes reqs as a complete aggregate call.
func aggregateEnvelope(reqs []protocol.CallRequest) ([]byte, error) {
	calldata, err := protocol.EncodeRequests(reqs)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	env := frame.Envelope{
		Selector: protocol.EncodeSelector(multicall.AggregateMethod),
		Calldata: calldata,
	}
	if err := frame.Write(&buf, env, frame.DefaultLimits()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func printRequests(w io.Writer, env frame.Envelope, reqs []protocol.CallRequest) {
	fmt.Fprintf(w, "selector=%s calls=%d\n", env.Selector, len(reqs))
	for i, r := range reqs {
		fmt.Fprintf(w, "[%d] target=%s payload=0x%s\n", i, r.Target, hex.EncodeToString(r.Payload))
	}
}

func printResults(w io.Writer, agg protocol.AggregateResult) {
	fmt.Fprintf(w, "results=%d total_length=%d\n", agg.Len(), agg.TotalLength())
	for i, r := range agg.Results() {
		fmt.Fprintf(w, "[%d] length=%d data=0x%s\n", i, r.Length(), hex.EncodeToString(r.Data()))
	}
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	return hex.DecodeString(s)
}
