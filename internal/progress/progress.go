// Package progress renders tournament progress reports, either as an in-place
// terminal bar or as structured log lines.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/arena/internal/arena"
)

const (
	// DefaultWidth is the number of cells of the bar
	DefaultWidth = 30
	// Label prefixes every progress line
	Label = "Arena.playGames"

	filledCell = "█"
	emptyCell  = "·"
)

// Format renders one progress line without terminal styling:
//
//	Arena.playGames |█████·····| (2/6) Eps Time: 0.123s | Total: 0:00:05 | ETA: 0:00:07
func Format(p arena.Progress, width int) string {
	filled, empty := cells(p, width)
	return line(strings.Repeat(filledCell, filled)+strings.Repeat(emptyCell, empty), p)
}

func line(bar string, p arena.Progress) string {
	return fmt.Sprintf("%s |%s| (%d/%d) Eps Time: %.3fs | Total: %s | ETA: %s",
		Label, bar, p.Completed, p.Total, p.AvgEpisode.Seconds(), clock(p.Elapsed), clock(p.ETA))
}

func cells(p arena.Progress, width int) (filled, empty int) {
	if width <= 0 {
		width = DefaultWidth
	}
	if p.Total > 0 {
		filled = p.Completed * width / p.Total
	}
	filled = min(max(filled, 0), width)
	return filled, width - filled
}

// clock formats d as h:mm:ss
func clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", s/3600, s/60%60, s%60)
}

// Bar redraws a single progress line in place. It implements arena.Sink so the
// cursor is hidden for the duration of a tournament.
type Bar struct {
	out   *termenv.Output
	width int
	drawn bool
}

// NewBar creates a bar of width cells writing to w
func NewBar(w io.Writer, width int, opts ...termenv.OutputOption) *Bar {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Bar{
		out:   termenv.NewOutput(w, opts...),
		width: width,
	}
}

// Open implements arena.Sink
func (b *Bar) Open() error {
	b.out.HideCursor()
	b.drawn = false
	return nil
}

// Close implements arena.Sink, leaving the last drawn line on screen
func (b *Bar) Close() error {
	if b.drawn {
		fmt.Fprintln(b.out)
	}
	b.out.ShowCursor()
	return nil
}

// Update implements arena.ProgressSink
func (b *Bar) Update(p arena.Progress) {
	filled, empty := cells(p, b.width)
	bar := b.out.String(strings.Repeat(filledCell, filled)).Foreground(b.out.Color("2")).String() +
		b.out.String(strings.Repeat(emptyCell, empty)).Faint().String()

	b.out.ClearLine()
	fmt.Fprint(b.out, "\r"+line(bar, p))
	b.drawn = true
}

// LogSink reports progress as structured log lines
type LogSink struct {
	logger zerolog.Logger
	every  int
}

// NewLogSink creates a sink logging every n-th update, plus the last one
func NewLogSink(logger zerolog.Logger, every int) *LogSink {
	if every < 1 {
		every = 1
	}
	return &LogSink{
		logger: logger.With().Str("component", "progress").Logger(),
		every:  every,
	}
}

// Update implements arena.ProgressSink
func (s *LogSink) Update(p arena.Progress) {
	if p.Completed%s.every != 0 && p.Completed != p.Total {
		return
	}
	s.logger.Info().
		Int("completed", p.Completed).
		Int("total", p.Total).
		Dur("avg_episode", p.AvgEpisode).
		Dur("elapsed", p.Elapsed).
		Dur("eta", p.ETA).
		Msg(Label)
}

// IsTerminal reports whether w is attached to a terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// New picks a Bar for terminals and a LogSink otherwise
func New(w io.Writer, width int, logger zerolog.Logger) arena.ProgressSink {
	if IsTerminal(w) {
		return NewBar(w, width)
	}
	return NewLogSink(logger, 1)
}
