package store

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	ResetOnMalformed bool  `json:"reset_on_malformed"`
	Reads            int64 `json:"reads"`
	Creates          int64 `json:"creates"`
	Writes           int64 `json:"writes"`
	Clears           int64 `json:"clears"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	return ServiceState{
		ResetOnMalformed: s.resetOnMalformed,
		Reads:            s.reads.Load(),
		Creates:          s.creates.Load(),
		Writes:           s.writes.Load(),
		Clears:           s.clears.Load(),
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "store"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
