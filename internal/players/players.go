// Package players provides ready-made agents for any arena.GameRules and a
// factory building them from "name:key=value,..." descriptions.
package players

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/mitchelldurbincs/arena/internal/arena"
)

var (
	ErrNoLegalActions = errors.New("no legal actions")
	ErrUnknownPlayer  = errors.New("unknown player")
)

// FirstLegal always plays the first legal action
type FirstLegal[S any, A comparable] struct {
	rules arena.GameRules[S, A]
}

// NewFirstLegal creates a FirstLegal player
func NewFirstLegal[S any, A comparable](rules arena.GameRules[S, A]) *FirstLegal[S, A] {
	return &FirstLegal[S, A]{rules: rules}
}

// Decide implements arena.Player
func (p *FirstLegal[S, A]) Decide(_ context.Context, canonical S) (A, error) {
	var zero A
	legal := p.rules.LegalActions(canonical)
	if len(legal) == 0 {
		return zero, ErrNoLegalActions
	}
	return legal[0], nil
}

// Options carries the settings a Spec may not express
type Options struct {
	// In and Out are used by the human player, stdin/stdout when nil
	In  io.Reader
	Out io.Writer
}

// Spec is a parsed player description such as "minimax:depth=4"
type Spec struct {
	Name   string
	Params map[string]string
}

// ParseSpec parses "name" or "name:key=value,key=value"
func ParseSpec(s string) (Spec, error) {
	s = strings.TrimSpace(s)
	name, rest, _ := strings.Cut(s, ":")
	if name == "" {
		return Spec{}, fmt.Errorf("%w: empty player description", ErrUnknownPlayer)
	}

	spec := Spec{Name: strings.ToLower(name), Params: make(map[string]string)}
	if rest == "" {
		return spec, nil
	}
	for _, kv := range strings.Split(rest, ",") {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return Spec{}, fmt.Errorf("invalid player parameter %q in %q", kv, s)
		}
		spec.Params[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return spec, nil
}

// String returns the canonical text of the spec
func (s Spec) String() string {
	if len(s.Params) == 0 {
		return s.Name
	}
	keys := make([]string, 0, len(s.Params))
	for k := range s.Params {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + s.Params[k]
	}
	return s.Name + ":" + strings.Join(parts, ",")
}

func (s Spec) intParam(key string, def int) (int, error) {
	raw, ok := s.Params[key]
	if !ok {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("player %s: parameter %s: %w", s.Name, key, err)
	}
	return v, nil
}

// New builds a player from its description
func New[S any, A comparable](description string, rules arena.GameRules[S, A], opts Options) (arena.Player[S, A], error) {
	spec, err := ParseSpec(description)
	if err != nil {
		return nil, err
	}

	switch spec.Name {
	case "first", "firstlegal":
		return NewFirstLegal(rules), nil

	case "random":
		seed, err := spec.intParam("seed", 0)
		if err != nil {
			return nil, err
		}
		return NewRandom(rules, uint64(seed)), nil

	case "minimax":
		depth, err := spec.intParam("depth", DefaultMinimaxDepth)
		if err != nil {
			return nil, err
		}
		return NewMinimax(rules, depth), nil

	case "human":
		in, out := opts.In, opts.Out
		if in == nil {
			in = os.Stdin
		}
		if out == nil {
			out = os.Stdout
		}
		return NewHuman(rules, in, out), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlayer, spec.Name)
	}
}
