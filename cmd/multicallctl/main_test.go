package main

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/danmuck/multicall/internal/auth"
	"github.com/danmuck/multicall/internal/host"
	"github.com/danmuck/multicall/internal/multicall"
	"github.com/danmuck/multicall/internal/protocol"
	"github.com/danmuck/multicall/internal/server"
)

const (
	targetA = "0x00000000000000000000000000000000000000000000000000000000000000aa"
	targetB = "0x00000000000000000000000000000000000000000000000000000000000000bb"
)

func writeBatch(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch.toml")
	body := `
[[calls]]
target = "` + targetA + `"
payload = "0x01"

[[calls]]
target = "` + targetB + `"
payload = "0x0002"
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write batch: %v", err)
	}
	return path
}

func TestEncodeThenDecodeCalldata(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"encode", "-calldata", "-batch", writeBatch(t)}, &out); err != nil {
		t.Fatalf("encode: %v", err)
	}
	raw, err := decodeHex(out.String())
	if err != nil {
		t.Fatalf("hex: %v", err)
	}
	reqs, err := protocol.DecodeRequests(raw)
	if err != nil {
		t.Fatalf("decode requests: %v", err)
	}
	if len(reqs) != 2 || reqs[0].Target.String() != targetA || !bytes.Equal(reqs[1].Payload, []byte{0x00, 0x02}) {
		t.Fatalf("unexpected requests: %+v", reqs)
	}
}

func TestDecodeResponseCommand(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"decode", "0x0002000200000000000000010000000000000002010002"}, &out)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := "results=2 total_length=3\n[0] length=1 data=0x01\n[1] length=2 data=0x0002\n"
	if out.String() != want {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
	if err := run([]string{"decode", "0x0001"}, &out); err == nil {
		t.Fatalf("expected malformed response error")
	}
}

func TestCallAgainstGateway(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := host.NewRegistry()
	a, _ := protocol.ParseAddress(targetA)
	b, _ := protocol.ParseAddress(targetB)
	_ = reg.Register(a, host.Echo())
	_ = reg.Register(b, host.Echo())
	gw := server.Appear(server.Options{ID: "ctl-test", Auth: auth.StaticToken{Token: "t0k"}}, host.New(reg, host.DefaultOptions()),
		multicall.NewRouter(multicall.NewContract(protocol.DefaultLimits())))
	gw.RegisterRoutes()
	ts := httptest.NewServer(gw.HTTPRouter())
	defer ts.Close()

	var out bytes.Buffer
	err := run([]string{"call", "-gateway", ts.URL, "-token", "nope", "-batch", writeBatch(t)}, &out)
	if err == nil || !strings.Contains(err.Error(), "unauthorized") {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if err := run([]string{"call", "-gateway", ts.URL, "-token", "t0k", "-batch", writeBatch(t)}, &out); err != nil {
		t.Fatalf("call: %v", err)
	}
	if !strings.Contains(out.String(), "[0] length=1 data=0x01") || !strings.Contains(out.String(), "[1] length=2 data=0x0002") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestSelectorAndUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"selector", "aggregate"}, &out); err != nil {
		t.Fatalf("selector: %v", err)
	}
	if strings.TrimSpace(out.String()) != protocol.EncodeSelector("aggregate").String() {
		t.Fatalf("unexpected selector output %q", out.String())
	}
	if err := run([]string{"bogus"}, &out); err == nil {
		t.Fatalf("expected unknown command error")
	}
}

func TestDecodeRequestEnvelope(t *testing.T) {
	var encoded bytes.Buffer
	if err := run([]string{"encode", "-batch", writeBatch(t)}, &encoded); err != nil {
		t.Fatalf("encode: %v", err)
	}
	var out bytes.Buffer
	if err := run([]string{"decode", "-request", strings.TrimSpace(encoded.String())}, &out); err != nil {
		t.Fatalf("decode -request: %v", err)
	}
	want := "selector=" + protocol.EncodeSelector("aggregate").String() + " calls=2\n" +
		"[0] target=" + targetA + " payload=0x01\n" +
		"[1] target=" + targetB + " payload=0x0002\n"
	if out.String() != want {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
	if err := run([]string{"decode", "-request", "0x0102"}, &out); err == nil {
		t.Fatalf("expected short selector error")
	}
}

func TestSelectorLookup(t *testing.T) {
	sel := protocol.EncodeSelector("aggregate").String()
	var out bytes.Buffer
	if err := run([]string{"selector", sel}, &out); err != nil {
		t.Fatalf("selector lookup: %v", err)
	}
	if strings.TrimSpace(out.String()) != sel+" aggregate" {
		t.Fatalf("unexpected lookup output %q", out.String())
	}
	if err := run([]string{"selector", "0xdeadbeef"}, &out); err == nil || !strings.Contains(err.Error(), "unknown selector") {
		t.Fatalf("expected unknown selector error, got %v", err)
	}
	if err := run([]string{"selector", "0xzz"}, &out); err == nil {
		t.Fatalf("expected invalid selector error")
	}
}
