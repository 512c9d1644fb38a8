package dispatch

import (
	"fmt"
	"sync"
)

type CellState string

const (
	StateUninitialized CellState = "uninitialized"
	StateReady         CellState = "ready"
	StateFailed        CellState = "failed"
)

// ProviderCell constructs the provider on first use, exactly once. A failed
// construction is terminal: every later Get returns the same error.
type ProviderCell struct {
	once  func() (Provider, error)
	mu    sync.Mutex
	state CellState
}

func NewProviderCell(construct func() (Provider, error)) *ProviderCell {
	c := &ProviderCell{state: StateUninitialized}
	c.once = sync.OnceValues(func() (p Provider, err error) {
		defer func() {
			if r := recover(); r != nil {
				p, err = nil, fmt.Errorf("provider construction panicked: %v", r)
			}
			c.mu.Lock()
			if err != nil {
				c.state = StateFailed
			} else {
				c.state = StateReady
			}
			c.mu.Unlock()
		}()
		p, err = construct()
		if err == nil && p == nil {
			err = fmt.Errorf("provider construction returned nil")
		}
		return p, err
	})
	return c
}

// ReadyCell wraps an already constructed provider.
func ReadyCell(p Provider) *ProviderCell {
	c := NewProviderCell(func() (Provider, error) { return p, nil })
	_, _ = c.Get()
	return c
}

func (c *ProviderCell) Get() (Provider, error) {
	return c.once()
}

func (c *ProviderCell) State() CellState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
