package host

import (
	"context"
	"fmt"
	"sync"

	"github.com/danmuck/multicall/internal/protocol"
)

// Options configures a Host.
type Options struct {
	Gas      GasSchedule
	MaxDepth int
}

func DefaultOptions() Options {
	return Options{
		Gas:      DefaultGasSchedule(),
		MaxDepth: 64,
	}
}

// Host owns committed target storage and runs invocations one at a time.
type Host struct {
	registry *Registry
	opts     Options

	mu    sync.Mutex
	state map[protocol.Address]map[string][]byte
}

func New(registry *Registry, opts Options) *Host {
	if registry == nil {
		registry = NewRegistry()
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultOptions().MaxDepth
	}
	return &Host{
		registry: registry,
		opts:     opts,
		state:    make(map[protocol.Address]map[string][]byte),
	}
}

func (h *Host) Registry() *Registry {
	return h.registry
}

func (h *Host) Options() Options {
	return h.opts
}

// Receipt is the outcome of one invocation.
type Receipt struct {
	Output  []byte
	GasUsed uint64
	Calls   int
}

// Program is the code an invocation runs, typically a contract entry point.
type Program func(ctx context.Context, inv *Invocation) ([]byte, error)

// Execute runs program as one invocation. Storage writes made by any target
// during the invocation are committed only if program succeeds; on failure
// the receipt still reports the gas consumed.
func (h *Host) Execute(ctx context.Context, program Program) (Receipt, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	inv := &Invocation{
		host:   h,
		meter:  NewMeter(h.opts.Gas.Limit),
		writes: make(map[protocol.Address]map[string][]byte),
	}
	out, err := program(ctx, inv)
	receipt := Receipt{GasUsed: inv.meter.Used(), Calls: inv.calls}
	if err != nil {
		return receipt, err
	}
	h.commit(inv.writes)
	receipt.Output = out
	return receipt, nil
}

// Load reads committed storage.
func (h *Host) Load(address protocol.Address, key string) []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return cloneBytes(h.state[address][key])
}

func (h *Host) commit(writes map[protocol.Address]map[string][]byte) {
	for address, kv := range writes {
		slots := h.state[address]
		if slots == nil {
			slots = make(map[string][]byte, len(kv))
			h.state[address] = slots
		}
		for k, v := range kv {
			slots[k] = v
		}
	}
}

// Invocation is the call capability handed to a program. Its Call method
// issues a top-level sub-call.
type Invocation struct {
	host   *Host
	meter  *Meter
	calls  int
	writes map[protocol.Address]map[string][]byte
	undo   []journalEntry
}

type journalEntry struct {
	address protocol.Address
	key     string
	prev    []byte
	existed bool
}

// Call invokes target with payload at depth one.
func (inv *Invocation) Call(ctx context.Context, target protocol.Address, payload []byte) ([]byte, error) {
	return inv.call(ctx, 1, target, payload)
}

func (inv *Invocation) GasUsed() uint64 {
	return inv.meter.Used()
}

func (inv *Invocation) call(ctx context.Context, depth int, target protocol.Address, payload []byte) ([]byte, error) {
	if depth > inv.host.opts.MaxDepth {
		return nil, fmt.Errorf("%w: depth %d", ErrCallDepth, depth)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	code, ok := inv.host.registry.Resolve(target)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTarget, target)
	}
	gas := inv.host.opts.Gas
	if err := inv.meter.Charge(gas.callCost(len(payload))); err != nil {
		return nil, err
	}

	snapshot := len(inv.undo)
	frame := &Frame{inv: inv, self: target, depth: depth}
	out, err := code.Invoke(ctx, frame, payload)
	if err == nil {
		err = inv.meter.Charge(gas.dataCost(len(out)))
	}
	if err != nil {
		inv.revertTo(snapshot)
		return nil, err
	}
	inv.calls++
	return out, nil
}

func (inv *Invocation) load(address protocol.Address, key string) []byte {
	if v, ok := inv.writes[address][key]; ok {
		return cloneBytes(v)
	}
	return cloneBytes(inv.host.state[address][key])
}

func (inv *Invocation) store(address protocol.Address, key string, value []byte) {
	slots := inv.writes[address]
	if slots == nil {
		slots = make(map[string][]byte)
		inv.writes[address] = slots
	}
	prev, existed := slots[key]
	inv.undo = append(inv.undo, journalEntry{address: address, key: key, prev: prev, existed: existed})
	slots[key] = cloneBytes(value)
}

func (inv *Invocation) revertTo(snapshot int) {
	for i := len(inv.undo) - 1; i >= snapshot; i-- {
		e := inv.undo[i]
		if e.existed {
			inv.writes[e.address][e.key] = e.prev
		} else {
			delete(inv.writes[e.address], e.key)
		}
	}
	inv.undo = inv.undo[:snapshot]
}

// Frame is the view a target gets of its own execution.
type Frame struct {
	inv   *Invocation
	self  protocol.Address
	depth int
}

func (f *Frame) Self() protocol.Address {
	return f.self
}

func (f *Frame) Depth() int {
	return f.depth
}

func (f *Frame) GasRemaining() uint64 {
	return f.inv.meter.Remaining()
}

// Load reads the target's own storage, including uncommitted writes.
func (f *Frame) Load(key string) []byte {
	return f.inv.load(f.self, key)
}

// Store writes the target's own storage for the current invocation.
func (f *Frame) Store(key string, value []byte) {
	f.inv.store(f.self, key, value)
}

// Call issues a nested call one level deeper.
func (f *Frame) Call(ctx context.Context, target protocol.Address, payload []byte) ([]byte, error) {
	return f.inv.call(ctx, f.depth+1, target, payload)
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
