package host

import (
	"sort"

	"github.com/danmuck/multicall/internal/protocol"
)

// Registry stores targets by address. It is populated before the host
// serves invocations and only read afterwards.
type Registry struct {
	items map[protocol.Address]Target
}

func NewRegistry() *Registry {
	return &Registry{items: make(map[protocol.Address]Target)}
}

// Register adds a target at address.
func (r *Registry) Register(address protocol.Address, target Target) error {
	if target == nil {
		return ErrTargetNil
	}
	if _, ok := r.items[address]; ok {
		return ErrTargetExists
	}
	r.items[address] = target
	return nil
}

func (r *Registry) Resolve(address protocol.Address) (Target, bool) {
	target, ok := r.items[address]
	return target, ok
}

// Addresses returns registered addresses in byte order.
func (r *Registry) Addresses() []protocol.Address {
	list := make([]protocol.Address, 0, len(r.items))
	for a := range r.items {
		list = append(list, a)
	}
	sort.Slice(list, func(i, j int) bool {
		return string(list[i][:]) < string(list[j][:])
	})
	return list
}

func (r *Registry) Len() int {
	return len(r.items)
}
