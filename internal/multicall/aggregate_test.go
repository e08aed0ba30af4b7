package multicall

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/danmuck/multicall/internal/protocol"
	"github.com/danmuck/multicall/internal/testutil/testlog"
)

type recordingCaller struct {
	responses map[protocol.Address][]byte
	faults    map[protocol.Address]error
	seen      []protocol.Address
}

func newRecordingCaller() *recordingCaller {
	return &recordingCaller{
		responses: make(map[protocol.Address][]byte),
		faults:    make(map[protocol.Address]error),
	}
}

// fn exposes the recorder as the caller capability.
func (c *recordingCaller) fn() CallerFunc {
	return c.call
}

func (c *recordingCaller) call(_ context.Context, target protocol.Address, _ []byte) ([]byte, error) {
	c.seen = append(c.seen, target)
	if err, ok := c.faults[target]; ok {
		return nil, err
	}
	return c.responses[target], nil
}

func addr(b byte) protocol.Address {
	var a protocol.Address
	a[len(a)-1] = b
	return a
}

func TestAggregatePreservesOrder(t *testing.T) {
	testlog.Start(t)
	caller := newRecordingCaller()
	reqs := make([]protocol.CallRequest, 0, 16)
	for i := 0; i < 16; i++ {
		target := addr(byte(i + 1))
		caller.responses[target] = bytes.Repeat([]byte{byte(i)}, i)
		reqs = append(reqs, protocol.CallRequest{Target: target, Payload: []byte{byte(i)}})
	}

	agg, err := Aggregate(context.Background(), caller.fn(), reqs)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if agg.Len() != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), agg.Len())
	}
	var total uint64
	for i, r := range agg.Results() {
		if caller.seen[i] != reqs[i].Target {
			t.Fatalf("call %d issued to %s, want %s", i, caller.seen[i], reqs[i].Target)
		}
		if !bytes.Equal(r.Data(), caller.responses[reqs[i].Target]) {
			t.Fatalf("result %d does not match request %d", i, i)
		}
		if r.Length() != uint64(i) {
			t.Fatalf("result %d length=%d", i, r.Length())
		}
		total += r.Length()
	}
	if agg.TotalLength() != total {
		t.Fatalf("total length %d, want %d", agg.TotalLength(), total)
	}
	testlog.Logf("multicall/aggregate: %d calls in order total=%d", agg.Len(), total)
}

func TestAggregateFaultStopsRun(t *testing.T) {
	testlog.Start(t)
	caller := newRecordingCaller()
	boom := errors.New("reverted")
	caller.responses[addr(1)] = []byte{0x01}
	caller.faults[addr(2)] = boom
	caller.responses[addr(3)] = []byte{0x03}

	reqs := []protocol.CallRequest{{Target: addr(1)}, {Target: addr(2)}, {Target: addr(3)}}
	agg, err := Aggregate(context.Background(), caller.fn(), reqs)
	if !errors.Is(err, ErrSubCallFault) {
		t.Fatalf("expected ErrSubCallFault, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected host fault to be wrapped, got %v", err)
	}
	var fault *SubCallFaultError
	if !errors.As(err, &fault) || fault.Index != 1 || fault.Target != addr(2) {
		t.Fatalf("unexpected fault detail: %+v", fault)
	}
	if agg.Len() != 0 || agg.TotalLength() != 0 {
		t.Fatalf("expected no partial result, got %d results", agg.Len())
	}
	if len(caller.seen) != 2 {
		t.Fatalf("expected the third call not to be issued, saw %d calls", len(caller.seen))
	}
	testlog.Logf("multicall/aggregate: fault at index=%d kind=%s", fault.Index, Kind(err))
}

func TestAggregateCancelledContext(t *testing.T) {
	caller := newRecordingCaller()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Aggregate(ctx, caller.fn(), []protocol.CallRequest{{Target: addr(1)}})
	if !errors.Is(err, ErrSubCallFault) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancelled sub-call fault, got %v", err)
	}
	if len(caller.seen) != 0 {
		t.Fatalf("expected no calls after cancellation")
	}
}

func TestAggregateEmpty(t *testing.T) {
	agg, err := Aggregate(context.Background(), newRecordingCaller().fn(), nil)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if agg.Len() != 0 || agg.TotalLength() != 0 {
		t.Fatalf("expected empty aggregate result")
	}
}
