// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the closed enumerations used by the tree: node kinds,
// stage types, spawner behaviors and attribute locations. Each has a keyword
// form, used by the graph sources and by dump output.
package model

import (
	"fmt"
	"strings"
)

// Kind discriminates tree nodes.
type Kind uint8

const (
	KindGraph Kind = iota
	KindContext
	KindBlock
	KindParameter
)

func (k Kind) String() string {
	switch k {
	case KindGraph:
		return "Graph"
	case KindContext:
		return "Context"
	case KindBlock:
		return "Block"
	case KindParameter:
		return "Parameter"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ContextType is the stage a context represents.
type ContextType uint8

const (
	ContextSpawner ContextType = iota
	ContextInitialize
	ContextUpdate
	ContextOutput
)

var contextTypeNames = [...]string{
	ContextSpawner:    "spawner",
	ContextInitialize: "initialize",
	ContextUpdate:     "update",
	ContextOutput:     "output",
}

func (c ContextType) String() string {
	if int(c) < len(contextTypeNames) {
		return contextTypeNames[c]
	}
	return fmt.Sprintf("ContextType(%d)", uint8(c))
}

func (c ContextType) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// ParseContextType resolves a stage keyword.
func ParseContextType(s string) (ContextType, error) {
	for i, n := range contextTypeNames {
		if n == strings.ToLower(s) {
			return ContextType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown context type %q", s)
}

// SpawnerType is the spawning behavior of a block inside a spawn stage.
// SpawnerNone marks an ordinary block.
type SpawnerType uint8

const (
	SpawnerNone SpawnerType = iota
	SpawnerConstantRate
	SpawnerBurst
	SpawnerVariableRate
	SpawnerCustomCallback
)

var spawnerTypeNames = [...]string{
	SpawnerNone:           "none",
	SpawnerConstantRate:   "constant_rate",
	SpawnerBurst:          "burst",
	SpawnerVariableRate:   "variable_rate",
	SpawnerCustomCallback: "custom_callback",
}

func (s SpawnerType) String() string {
	if int(s) < len(spawnerTypeNames) {
		return spawnerTypeNames[s]
	}
	return fmt.Sprintf("SpawnerType(%d)", uint8(s))
}

func (s SpawnerType) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// ParseSpawnerType resolves a spawner keyword. The empty string maps to
// SpawnerNone.
func ParseSpawnerType(s string) (SpawnerType, error) {
	if s == "" {
		return SpawnerNone, nil
	}
	for i, n := range spawnerTypeNames {
		if n == strings.ToLower(s) {
			return SpawnerType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown spawner type %q", s)
}

// Location is where a particle attribute is read from.
type Location uint8

const (
	// LocationCurrent reads the attribute of the particle being processed.
	LocationCurrent Location = iota
	// LocationSource reads the attribute from the spawn event payload.
	LocationSource
)

func (l Location) String() string {
	if l == LocationSource {
		return "source"
	}
	return "current"
}

func (l Location) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// ParseLocation resolves "current" or "source"; empty means current.
func ParseLocation(s string) (Location, error) {
	switch strings.ToLower(s) {
	case "", "current":
		return LocationCurrent, nil
	case "source":
		return LocationSource, nil
	}
	return 0, fmt.Errorf("unknown attribute location %q", s)
}
