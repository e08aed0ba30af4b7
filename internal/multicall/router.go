package multicall

import (
	"context"
	"fmt"
	"sort"

	"github.com/danmuck/multicall/internal/protocol"
	"github.com/danmuck/multicall/internal/protocol/frame"
)

// EntryPoint handles calldata already stripped of its selector.
type EntryPoint func(ctx context.Context, caller Caller, calldata []byte) ([]byte, error)

// Route is one registered entry point.
type Route struct {
	Selector protocol.Selector
	Method   string
}

// Router maps selectors to entry points. It is built once and read-only
// afterwards.
type Router struct {
	routes map[protocol.Selector]route
}

type route struct {
	method string
	entry  EntryPoint
}

// NewRouter returns a router with the aggregate entry point registered.
func NewRouter(contract Contract) *Router {
	r := &Router{routes: make(map[protocol.Selector]route)}
	r.mustRegister(AggregateMethod, contract.Execute)
	return r
}

func (r *Router) mustRegister(method string, entry EntryPoint) {
	if err := r.Register(method, entry); err != nil {
		panic(err)
	}
}

// Register binds method's selector to entry.
func (r *Router) Register(method string, entry EntryPoint) error {
	sel := protocol.EncodeSelector(method)
	if existing, ok := r.routes[sel]; ok {
		return fmt.Errorf("%w: %s (%s) held by %s", ErrSelectorExists, sel, method, existing.method)
	}
	r.routes[sel] = route{method: method, entry: entry}
	return nil
}

// Dispatch routes env to its entry point.
func (r *Router) Dispatch(ctx context.Context, caller Caller, env frame.Envelope) ([]byte, error) {
	rt, ok := r.routes[env.Selector]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSelector, env.Selector)
	}
	return rt.entry(ctx, caller, env.Calldata)
}

// Method returns the method name registered for sel.
func (r *Router) Method(sel protocol.Selector) (string, bool) {
	rt, ok := r.routes[sel]
	return rt.method, ok
}

// Routes lists registered entry points ordered by method name.
func (r *Router) Routes() []Route {
	list := make([]Route, 0, len(r.routes))
	for sel, rt := range r.routes {
		list = append(list, Route{Selector: sel, Method: rt.method})
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Method < list[j].Method
	})
	return list
}
