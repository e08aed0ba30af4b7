package multicall

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/danmuck/multicall/internal/protocol"
	"github.com/danmuck/multicall/internal/protocol/frame"
	"github.com/danmuck/multicall/internal/testutil/testlog"
)

func TestContractExecuteTwoTargets(t *testing.T) {
	testlog.Start(t)
	caller := newRecordingCaller()
	caller.responses[addr(0xa)] = []byte{0x01}
	caller.responses[addr(0xb)] = []byte{0x00, 0x02}

	calldata, err := protocol.EncodeRequests([]protocol.CallRequest{
		{Target: addr(0xa), Payload: []byte("balanceOf")},
		{Target: addr(0xb), Payload: []byte("balanceOf")},
	})
	if err != nil {
		t.Fatalf("encode requests: %v", err)
	}

	out, err := NewContract(protocol.DefaultLimits()).Execute(context.Background(), caller.fn(), calldata)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	want := []byte{
		0, 2, 0, 2,
		0, 0, 0, 0, 0, 0, 0, 1,
		0, 0, 0, 0, 0, 0, 0, 2,
		0x01, 0x00, 0x02,
	}
	if !bytes.Equal(out, want) {
		t.Fatalf("unexpected response:\n got=% x\nwant=% x", out, want)
	}
	testlog.Logf("multicall/contract: response=% x", out)
}

func TestContractExecuteFailuresProduceNoOutput(t *testing.T) {
	caller := newRecordingCaller()
	caller.faults[addr(2)] = errors.New("out of gas")
	contract := NewContract(protocol.DefaultLimits())

	out, err := contract.Execute(context.Background(), caller.fn(), []byte{0, 0, 0})
	if Kind(err) != KindMalformedInput || out != nil {
		t.Fatalf("expected malformed input with no output, got out=%v err=%v", out, err)
	}
	if len(caller.seen) != 0 {
		t.Fatalf("malformed calldata must not issue calls")
	}

	calldata, err := protocol.EncodeRequests([]protocol.CallRequest{
		{Target: addr(1)}, {Target: addr(2)}, {Target: addr(3)},
	})
	if err != nil {
		t.Fatalf("encode requests: %v", err)
	}
	out, err = contract.Execute(context.Background(), caller.fn(), calldata)
	if Kind(err) != KindSubCallFault || out != nil {
		t.Fatalf("expected sub-call fault with no output, got out=%v err=%v", out, err)
	}

	caller = newRecordingCaller()
	caller.responses[addr(1)] = make([]byte, 64)
	calldata, _ = protocol.EncodeRequests([]protocol.CallRequest{{Target: addr(1)}})
	out, err = NewContract(protocol.Limits{MaxResponseSize: 16}).Execute(context.Background(), caller.fn(), calldata)
	if Kind(err) != KindCapacityExceeded || out != nil {
		t.Fatalf("expected capacity exceeded with no output, got out=%v err=%v", out, err)
	}
}

func TestRouterDispatch(t *testing.T) {
	testlog.Start(t)
	router := NewRouter(NewContract(protocol.DefaultLimits()))
	caller := newRecordingCaller()

	calldata, _ := protocol.EncodeRequests(nil)
	out, err := router.Dispatch(context.Background(), caller.fn(), frame.Envelope{
		Selector: protocol.EncodeSelector(AggregateMethod),
		Calldata: calldata,
	})
	if err != nil {
		t.Fatalf("dispatch aggregate: %v", err)
	}
	if !bytes.Equal(out, []byte{0, 0, 0, 0}) {
		t.Fatalf("unexpected empty aggregate response: % x", out)
	}

	_, err = router.Dispatch(context.Background(), caller.fn(), frame.Envelope{Selector: protocol.EncodeSelector("transfer")})
	if !errors.Is(err, ErrUnknownSelector) || Kind(err) != KindUnknownSelector {
		t.Fatalf("expected ErrUnknownSelector, got %v", err)
	}

	if err := router.Register(AggregateMethod, nil); !errors.Is(err, ErrSelectorExists) {
		t.Fatalf("expected ErrSelectorExists, got %v", err)
	}
	if method, ok := router.Method(protocol.EncodeSelector(AggregateMethod)); !ok || method != AggregateMethod {
		t.Fatalf("expected aggregate route, got %q %v", method, ok)
	}
	routes := router.Routes()
	if len(routes) != 1 || routes[0].Method != AggregateMethod {
		t.Fatalf("unexpected routes: %+v", routes)
	}
	testlog.Logf("multicall/router: aggregate selector=%s", routes[0].Selector)
}
