package players

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/mitchelldurbincs/arena/internal/arena"
)

// Human asks for an action on a text stream. The position is printed with
// %v, followed by the numbered legal actions; the answer is the number.
type Human[S any, A comparable] struct {
	rules arena.GameRules[S, A]
	in    io.Reader
	out   io.Writer

	start   sync.Once
	lines   chan string
	readErr error // set before lines is closed
}

// NewHuman creates a Human player reading from in and prompting on out
func NewHuman[S any, A comparable](rules arena.GameRules[S, A], in io.Reader, out io.Writer) *Human[S, A] {
	return &Human[S, A]{
		rules: rules,
		in:    in,
		out:   out,
		lines: make(chan string),
	}
}

// read feeds lines until the input ends. It outlives a cancelled Decide
// and hands the pending line to the next one.
func (p *Human[S, A]) read() {
	scanner := bufio.NewScanner(p.in)
	for scanner.Scan() {
		p.lines <- scanner.Text()
	}
	p.readErr = scanner.Err()
	close(p.lines)
}

// Decide implements arena.Player. Invalid input is re-prompted, end of input
// is an error and a cancelled ctx returns while the prompt is still open.
func (p *Human[S, A]) Decide(ctx context.Context, canonical S) (A, error) {
	var zero A
	legal := p.rules.LegalActions(canonical)
	if len(legal) == 0 {
		return zero, ErrNoLegalActions
	}
	p.start.Do(func() { go p.read() })

	fmt.Fprintf(p.out, "%v\n", canonical)
	for i, action := range legal {
		fmt.Fprintf(p.out, "[%d] %v\n", i, action)
	}

	for {
		fmt.Fprint(p.out, "> ")
		var line string
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case l, ok := <-p.lines:
			if !ok {
				if p.readErr != nil {
					return zero, fmt.Errorf("reading move: %w", p.readErr)
				}
				return zero, io.ErrUnexpectedEOF
			}
			line = l
		}

		idx, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || idx < 0 || idx >= len(legal) {
			fmt.Fprintf(p.out, "enter a number between 0 and %d\n", len(legal)-1)
			continue
		}
		return legal[idx], nil
	}
}
