// Package registry maps addresses to the code deployed behind them:
// implementations, liveness verifiers, response verifiers and callees.
package registry

import (
	"fmt"
	"sort"

	"github.com/keyward/keyward/common/types"
)

// New creates Registry instance.
func New[T any]() *Registry[T] {
	return &Registry[T]{entries: map[types.Address]T{}}
}

// Registry stores mapping from address to a handler.
type Registry[T any] struct {
	entries map[types.Address]T
}

// Get handler for the address if it exists.
func (r *Registry[T]) Get(address types.Address) (T, bool) {
	if r == nil {
		var empty T
		return empty, false
	}
	handler, exist := r.entries[address]
	return handler, exist
}

// Register handler for the address. Panics if address is already taken or zero.
func (r *Registry[T]) Register(address types.Address, handler T) {
	if address.IsEmpty() {
		panic("zero address can't be registered")
	}
	if _, exist := r.entries[address]; exist {
		panic(fmt.Sprintf("%x already register", address))
	}
	r.entries[address] = handler
}

// Addresses returns registered addresses in ascending order.
func (r *Registry[T]) Addresses() []types.Address {
	if r == nil {
		return nil
	}
	rst := make([]types.Address, 0, len(r.entries))
	for address := range r.entries {
		rst = append(rst, address)
	}
	sort.Slice(rst, func(i, j int) bool {
		return string(rst[i][:]) < string(rst[j][:])
	})
	return rst
}

// DeriveAddress returns the address of built-in code identified by name.
func DeriveAddress(name string) types.Address {
	h := types.Keccak256([]byte(name))
	return types.BytesToAddress(h[:])
}
