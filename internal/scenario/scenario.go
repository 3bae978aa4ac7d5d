package scenario

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Step operations.
const (
	OpSetName  = "set-name"
	OpSetID    = "set-id"
	OpAttach   = "attach"
	OpDetach   = "detach"
	OpBegin    = "begin"
	OpEnd      = "end"
	OpOverride = "override"
	OpRefresh  = "refresh"
	OpPersist  = "persist"
	OpDispose  = "dispose"
	OpFinalize = "finalize"
)

var knownOps = map[string]bool{
	OpSetName:  true,
	OpSetID:    true,
	OpAttach:   true,
	OpDetach:   true,
	OpBegin:    true,
	OpEnd:      true,
	OpOverride: true,
	OpRefresh:  true,
	OpPersist:  true,
	OpDispose:  true,
	OpFinalize: true,
}

// Ops returns the supported step operations in alphabetical order.
func Ops() []string {
	ops := make([]string, 0, len(knownOps))
	for op := range knownOps {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// Scenario is a scripted sequence of operations on a view model.
type Scenario struct {
	// Name is a human-readable label.
	Name string `yaml:"name"`

	// Steps run in order.
	Steps []Step `yaml:"steps"`

	// Expect, when set, is checked by Check.
	Expect *Expectation `yaml:"expect,omitempty"`
}

// Step is one operation. Only the fields the op uses are read.
type Step struct {
	Op string `yaml:"op"`

	// Name is the value for set-name and the model name for attach.
	Name string `yaml:"name,omitempty"`

	// ID is the value for set-id and the model ID for attach.
	ID int `yaml:"id,omitempty"`

	// On is the override lock state for override.
	On bool `yaml:"on,omitempty"`

	// Times repeats the step (default 1).
	Times int `yaml:"times,omitempty"`
}

// Expectation describes the outcome a scenario must produce.
type Expectation struct {
	// Notifications is the exact announced property sequence. A nil slice
	// skips the check; an empty one requires silence.
	Notifications []string `yaml:"notifications"`

	// Error is the batch error kind the run must stop with:
	// "already_in_batch_mode" or "not_in_batch_mode". Empty means none.
	Error string `yaml:"error,omitempty"`

	// ManagedDisposals and UnmanagedDisposals are hook run counts.
	ManagedDisposals   *int `yaml:"managed_disposals,omitempty"`
	UnmanagedDisposals *int `yaml:"unmanaged_disposals,omitempty"`

	Backed *bool `yaml:"backed,omitempty"`
	New    *bool `yaml:"new,omitempty"`
}

// Load reads and parses the scenario at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse parses and validates a YAML scenario.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that every step names a known op.
func (s *Scenario) Validate() error {
	for i, step := range s.Steps {
		if !knownOps[step.Op] {
			return fmt.Errorf("step %d: unknown op %q", i+1, step.Op)
		}
		if step.Times < 0 {
			return fmt.Errorf("step %d: times must not be negative", i+1)
		}
	}
	if s.Expect != nil {
		switch s.Expect.Error {
		case "", errAlreadyInBatchMode, errNotInBatchMode:
		default:
			return fmt.Errorf("expect: unknown error kind %q", s.Expect.Error)
		}
	}
	return nil
}
