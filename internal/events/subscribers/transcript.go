package subscribers

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mitchelldurbincs/arena/internal/events"
)

// ErrInvalidTranscriptFormat is returned for an unknown transcript format
var ErrInvalidTranscriptFormat = errors.New("invalid transcript format")

// TranscriptFormat selects how a transcript is written
type TranscriptFormat string

const (
	// TranscriptText is a human readable game history
	TranscriptText TranscriptFormat = "text"
	// TranscriptJSONL writes one protojson encoded record per event
	TranscriptJSONL TranscriptFormat = "jsonl"
)

const banner = "#############################"

// TranscriptSubscriber appends the game history of a tournament to a file.
// The file is opened once per tournament and released on Close.
type TranscriptSubscriber struct {
	id     string
	path   string
	format TranscriptFormat
	logger zerolog.Logger

	mu     sync.Mutex
	file   *os.File
	w      *bufio.Writer
	errors int
}

// NewTranscriptSubscriber creates a transcript writing to path in the given format
func NewTranscriptSubscriber(id, path string, format TranscriptFormat, logger zerolog.Logger) (*TranscriptSubscriber, error) {
	switch format {
	case TranscriptText, TranscriptJSONL:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidTranscriptFormat, format)
	}
	if path == "" {
		return nil, fmt.Errorf("transcript path is empty")
	}

	return &TranscriptSubscriber{
		id:     id,
		path:   path,
		format: format,
		logger: logger.With().Str("component", "transcript").Str("path", path).Logger(),
	}, nil
}

// ID returns the subscriber's unique identifier
func (ts *TranscriptSubscriber) ID() string {
	return ts.id
}

// Path returns the transcript file path
func (ts *TranscriptSubscriber) Path() string {
	return ts.path
}

// WriteErrors returns the number of events that could not be written
func (ts *TranscriptSubscriber) WriteErrors() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.errors
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ts *TranscriptSubscriber) InterestedIn(eventType string) bool {
	if ts.format == TranscriptJSONL {
		return true
	}
	switch eventType {
	case events.TypeEpisodeStarted, events.TypeTurnPlayed, events.TypeEpisodeEnded,
		events.TypeAgentFault, events.TypeTournamentEnded:
		return true
	default:
		return false
	}
}

// Open implements events.Lifecycle, creating parent directories as needed
func (ts *TranscriptSubscriber) Open() error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.file != nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(ts.path), 0755); err != nil {
		return fmt.Errorf("failed to create transcript directory: %w", err)
	}
	f, err := os.OpenFile(ts.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open transcript: %w", err)
	}

	ts.file = f
	ts.w = bufio.NewWriter(f)
	ts.logger.Debug().Msg("Transcript opened")
	return nil
}

// Close implements events.Lifecycle
func (ts *TranscriptSubscriber) Close() error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.file == nil {
		return nil
	}
	flushErr := ts.w.Flush()
	closeErr := ts.file.Close()
	ts.file, ts.w = nil, nil
	ts.logger.Debug().Msg("Transcript closed")
	return errors.Join(flushErr, closeErr)
}

// HandleEvent appends the event to the transcript. Events outside an
// Open/Close window, such as the abort after a failed open, are dropped.
func (ts *TranscriptSubscriber) HandleEvent(event events.Event) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.w == nil {
		ts.logger.Trace().Str("event_type", event.Type()).Msg("Transcript not open, event dropped")
		return
	}

	var err error
	if ts.format == TranscriptJSONL {
		err = writeRecord(ts.w, event)
	} else {
		err = writeText(ts.w, event)
	}

	if err != nil {
		ts.errors++
		ts.logger.Warn().Err(err).Str("event_type", event.Type()).Msg("Failed to write transcript entry")
	}
}

// writeRecord encodes the event as a protobuf Struct, one JSON object per line
func writeRecord(w io.Writer, event events.Event) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("failed to decode event: %w", err)
	}
	record, err := structpb.NewStruct(fields)
	if err != nil {
		return fmt.Errorf("failed to build record: %w", err)
	}
	data, err := protojson.MarshalOptions{Multiline: false}.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func writeText(w io.Writer, event events.Event) error {
	var sb strings.Builder

	switch e := event.(type) {
	case *events.EpisodeStartedEvent:
		fmt.Fprintf(&sb, "%s\nPlaying Game #%d  (%s)\n%s\n\n", banner, e.Episode, e.Tag, banner)

	case *events.TurnPlayedEvent:
		fmt.Fprintf(&sb, "Turn: %d   Player: %d\n", e.Turn, e.Seat)
		sb.WriteString(withNewline(e.Board))
		if e.HasScore {
			fmt.Fprintf(&sb, "Current score: first %g, second %g\n", e.Score.First, e.Score.Second)
		}
		sb.WriteString("\n\n")

	case *events.AgentFaultEvent:
		fmt.Fprintf(&sb, "!! Fault %s: turn %d player %d", e.Fault, e.Turn, e.Seat)
		if e.Action != "" {
			fmt.Fprintf(&sb, " action %s", e.Action)
		}
		if e.Error != "" {
			fmt.Fprintf(&sb, " error %s", e.Error)
		}
		sb.WriteString("\n")

	case *events.EpisodeEndedEvent:
		fmt.Fprintf(&sb, "## Game over: Turn %d Result %d ##\n", e.Turns, e.Outcome)
		sb.WriteString("Final Board Configuration: \n")
		sb.WriteString(withNewline(e.Board))
		if e.HasScore {
			fmt.Fprintf(&sb, "Final score: first %g, second %g\n", e.Score.First, e.Score.Second)
		}
		sb.WriteString("\n\n")

	case *events.TournamentEndedEvent:
		fmt.Fprintf(&sb, "%s\nTournament %s: %s %d, %s %d, draws %d (%d/%d played)\n%s\n\n",
			banner, e.TournamentID(), e.PlayerOne, e.PlayerOneWins, e.PlayerTwo, e.PlayerTwoWins,
			e.Draws, e.Completed, e.Episodes, banner)

	default:
		return nil
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func withNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
