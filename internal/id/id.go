// Package id generates prefixed identifiers for journal entities.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for each entity kind.
const (
	PrefixSession = "session"
	PrefixCoffee  = "coffee"
	PrefixCup     = "cup"
)

// Generate returns prefix-nanoid, e.g. "cup-V1StGXR8_Z5jdHi6B-myT".
// It fails only when the system entropy source does.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics on failure.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// Generator produces ids for a prefix. Tests swap it for a deterministic one.
type Generator func(prefix string) (string, error)

// Sequential returns a Generator yielding prefix-1, prefix-2, ... per prefix.
func Sequential() Generator {
	counters := make(map[string]int)
	return func(prefix string) (string, error) {
		counters[prefix]++
		return fmt.Sprintf("%s-%d", prefix, counters[prefix]), nil
	}
}
