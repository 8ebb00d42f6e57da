package firewall

import (
	"fmt"
	"strconv"
	"sync"
)

// MemoryClient is an in-memory Client used by tests and dry runs. It models
// the store's re-indexing behavior: indices are positional and shift down
// when an earlier rule is deleted.
type MemoryClient struct {
	mu    sync.Mutex
	rules []Rule

	// Error injection hooks for failure-path tests. Nil means succeed.
	AllowErr  func(source string) error
	DeleteErr func(index int) error
}

// NewMemoryClient creates an empty in-memory firewall.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

// Rules returns a snapshot of the current rules with 1-based indices.
func (m *MemoryClient) Rules() ([]Rule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Rule, len(m.rules))
	for i, r := range m.rules {
		r.Index = i + 1
		out[i] = r
	}
	return out, nil
}

// AllowFrom appends an allow rule for the given source.
func (m *MemoryClient) AllowFrom(source, comment string) error {
	if m.AllowErr != nil {
		if err := m.AllowErr(source); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, Rule{
		To:        Anywhere,
		Action:    ActionAllow,
		Direction: "IN",
		From:      source,
		Comment:   comment,
	})
	return nil
}

// AllowService appends an allow rule for the given port/protocol.
func (m *MemoryClient) AllowService(port int, proto, comment string) error {
	if m.AllowErr != nil {
		if err := m.AllowErr(strconv.Itoa(port)); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, Rule{
		To:        fmt.Sprintf("%d/%s", port, proto),
		Action:    ActionAllow,
		Direction: "IN",
		From:      Anywhere,
		Comment:   comment,
	})
	return nil
}

// DeleteByIndex removes the rule at the 1-based index; later rules shift.
func (m *MemoryClient) DeleteByIndex(index int) error {
	if m.DeleteErr != nil {
		if err := m.DeleteErr(index); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if index < 1 || index > len(m.rules) {
		return fmt.Errorf("no rule at index %d", index)
	}
	m.rules = append(m.rules[:index-1], m.rules[index:]...)
	return nil
}

// Status reports the rule count.
func (m *MemoryClient) Status() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fmt.Sprintf("Status: active (%d rules)", len(m.rules)), nil
}

// Seed replaces the rule set. Test helper.
func (m *MemoryClient) Seed(rules []Rule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append([]Rule{}, rules...)
}
