package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/danmuck/multicall/internal/multicall"
	"github.com/danmuck/multicall/internal/protocol"
	"github.com/danmuck/multicall/internal/protocol/frame"
	"github.com/danmuck/multicall/internal/server"
)

const usage = `usage: multicallctl <command> [flags]

commands:
  selector <method|0xsel>      print a method's selector, or the method a selector routes to
  encode -batch <file>         print the aggregate envelope for a batch as hex
  decode [-request] <hex>      decode an aggregate response, or an aggregate envelope
  call -batch <file> [-gateway <url>] [-token <token>] [-attempts <n>]
                               send a batch to a gateway and decode the reply
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%s", usage)
	}
	switch args[0] {
	case "selector":
		if len(args) != 2 {
			return fmt.Errorf("selector: expected one method name or hex selector")
		}
		return runSelector(args[1], out)
	case "encode":
		return runEncode(args[1:], out)
	case "decode":
		return runDecode(args[1:], out)
	case "call":
		return runCall(args[1:], out)
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}

func runEncode(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	batch := fs.String("batch", "", "batch file (toml)")
	calldataOnly := fs.Bool("calldata", false, "omit the selector prefix")
	if err := fs.Parse(args); err != nil {
		return err
	}
	reqs, err := loadBatch(*batch)
	if err != nil {
		return err
	}
	var buf []byte
	if *calldataOnly {
		buf, err = protocol.EncodeRequests(reqs)
	} else {
		buf, err = aggregateEnvelope(reqs)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "0x%s\n", hex.EncodeToString(buf))
	return nil
}

// runSelector prints the selector for a method name, or the method a hex
// selector routes to.
func runSelector(arg string, out io.Writer) error {
	if !strings.HasPrefix(arg, "0x") {
		fmt.Fprintln(out, protocol.EncodeSelector(arg))
		return nil
	}
	sel, err := protocol.ParseSelector(arg)
	if err != nil {
		return err
	}
	method, ok := multicall.NewRouter(multicall.NewContract(protocol.DefaultLimits())).Method(sel)
	if !ok {
		return fmt.Errorf("%w: %s", multicall.ErrUnknownSelector, sel)
	}
	fmt.Fprintf(out, "%s %s\n", sel, method)
	return nil
}

func runDecode(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	request := fs.Bool("request", false, "decode an aggregate envelope instead of a response")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("decode: expected one hex argument")
	}
	buf, err := decodeHex(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if *request {
		env, err := frame.Decode(buf)
		if err != nil {
			return err
		}
		reqs, err := protocol.DecodeRequests(env.Calldata)
		if err != nil {
			return err
		}
		printRequests(out, env, reqs)
		return nil
	}
	agg, err := protocol.DecodeResponse(buf)
	if err != nil {
		return err
	}
	printResults(out, agg)
	return nil
}

func runCall(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("call", flag.ContinueOnError)
	batch := fs.String("batch", "", "batch file (toml)")
	gateway := fs.String("gateway", "http://localhost:9300", "gateway base url")
	timeout := fs.Duration("timeout", 10*time.Second, "request timeout")
	token := fs.String("token", os.Getenv("MULTICALL_TOKEN"), "gateway bearer token")
	retry := defaultBackoff()
	fs.IntVar(&retry.Attempts, "attempts", retry.Attempts, "connection attempts before giving up")
	if err := fs.Parse(args); err != nil {
		return err
	}
	reqs, err := loadBatch(*batch)
	if err != nil {
		return err
	}
	body, err := aggregateEnvelope(reqs)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: *timeout}
	url := strings.TrimRight(*gateway, "/") + "/v1/execute"
	resp, err := retry.do(context.Background(), client, func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/octet-stream")
		if *token != "" {
			req.Header.Set("Authorization", "Bearer "+*token)
		}
		return req, nil
	})
	if err != nil {
		return fmt.Errorf("call %s: %w", url, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var failure struct {
			Error string `json:"error"`
			Kind  string `json:"kind"`
		}
		if json.Unmarshal(raw, &failure) == nil && failure.Kind != "" {
			return fmt.Errorf("gateway %s: %s: %s", resp.Status, failure.Kind, failure.Error)
		}
		return fmt.Errorf("gateway %s", resp.Status)
	}

	agg, err := protocol.DecodeResponse(raw)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "gas_used=%s\n", resp.Header.Get(server.HeaderGasUsed))
	printResults(out, agg)
	return nil
}
