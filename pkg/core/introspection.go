package core

import (
	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Namespace    string `json:"namespace"`
	MediumType   string `json:"medium_type"`
	Subscribers  int    `json:"subscribers"`
	HeavyPattern string `json:"heavy_pattern"`
	KeepFull     int    `json:"keep_full"`
	KeepRecent   int    `json:"keep_recent"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	mediumType := "medium"
	if comp, ok := s.medium.(introspection.Component); ok {
		mediumType = comp.ComponentType()
	}

	return StoreState{
		Namespace:    s.config.Namespace,
		MediumType:   mediumType,
		Subscribers:  s.reg.count(),
		HeavyPattern: s.config.HeavyPattern,
		KeepFull:     s.config.KeepFull,
		KeepRecent:   s.config.KeepRecent,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
