// Package picker implements the country search widget: a debounced
// suggestion pipeline over a loaded country list plus the selection
// controller that commits a choice to a country-code sink.
//
// All widget state lives in the goroutine running Run. Input and Select
// hand events to that loop; snapshots come back through Updates.
package picker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/hightemp/countrypick/internal/countries"
	"github.com/hightemp/countrypick/internal/logging"
	"github.com/hightemp/countrypick/internal/suggest"
)

const (
	// DefaultDebounce is the input silence needed before suggestions are recomputed.
	DefaultDebounce = 400 * time.Millisecond

	// DefaultLimit caps the number of suggestions.
	DefaultLimit = suggest.DefaultLimit
)

var (
	// ErrStopped is returned for events sent after the loop has exited.
	ErrStopped = errors.New("picker: stopped")

	// ErrAlreadyRunning is returned when Run is called twice.
	ErrAlreadyRunning = errors.New("picker: already running")
)

// Sink receives the code of every committed selection.
type Sink interface {
	SetCountryCode(code string)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(code string)

// SetCountryCode calls f(code).
func (f SinkFunc) SetCountryCode(code string) {
	f(code)
}

// State is a snapshot of the widget. Each snapshot replaces the previous one.
type State struct {
	// Text is the current field value.
	Text string
	// Suggestions holds at most the configured limit of matches.
	Suggestions []countries.Country
	// Loaded is set once the country list has arrived.
	Loaded bool
	// Selected is the last committed selection, if any.
	Selected *countries.Country
}

// Option configures a Widget.
type Option func(*Widget)

// WithDebounce sets the debounce window. Zero settles on the next loop turn.
func WithDebounce(d time.Duration) Option {
	return func(w *Widget) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLimit sets the suggestion cap.
func WithLimit(n int) Option {
	return func(w *Widget) {
		if n > 0 {
			w.limit = n
		}
	}
}

// WithOnSelect registers the "country selected" listener. It runs on the
// widget loop and must not call back into the widget.
func WithOnSelect(fn func(countries.Country)) Option {
	return func(w *Widget) {
		w.onSelect = fn
	}
}

// Widget is one activation of the country picker.
type Widget struct {
	source   countries.Source
	sink     Sink
	debounce time.Duration
	limit    int
	onSelect func(countries.Country)

	inputs  chan string
	selects chan countries.Country
	updates chan State
	started chan struct{}
	done    chan struct{}
}

// New creates a widget. The sink may be nil.
func New(source countries.Source, sink Sink, opts ...Option) *Widget {
	w := &Widget{
		source:   source,
		sink:     sink,
		debounce: DefaultDebounce,
		limit:    DefaultLimit,
		inputs:   make(chan string),
		selects:  make(chan countries.Country),
		updates:  make(chan State, 1),
		started:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Updates returns the snapshot stream. Only the latest unread snapshot is
// kept. The channel is closed when Run returns.
func (w *Widget) Updates() <-chan State {
	return w.updates
}

// Done is closed when Run returns.
func (w *Widget) Done() <-chan struct{} {
	return w.done
}

// Input delivers a text change from the search field. It blocks until the
// loop takes the event.
func (w *Widget) Input(text string) error {
	select {
	case w.inputs <- text:
		return nil
	case <-w.done:
		return ErrStopped
	}
}

// Select commits entry. entry is expected to come from a prior snapshot.
func (w *Widget) Select(entry countries.Country) error {
	select {
	case w.selects <- entry:
		return nil
	case <-w.done:
		return ErrStopped
	}
}

// Run loads the country list and processes events until ctx is cancelled.
// Cancelling ctx ends the country list subscription and the input pipeline
// together and stops any pending debounce timer.
func (w *Widget) Run(ctx context.Context) error {
	select {
	case <-w.started:
		return ErrAlreadyRunning
	default:
		close(w.started)
	}
	defer close(w.done)
	defer close(w.updates)

	l := w.newLoop()
	defer l.stopTimer()

	loaded := w.source.Load(ctx)
	for {
		select {
		case <-ctx.Done():
			logging.Debug("picker stopped", zap.Error(ctx.Err()))
			return nil

		case list, ok := <-loaded:
			loaded = nil
			if !ok {
				// Silent degradation: searches keep returning nothing.
				logging.Debug("picker has no country list")
				continue
			}
			l.setCountries(list)

		case text := <-w.inputs:
			l.input(text)

		case <-l.timerC:
			l.fire()

		case entry := <-w.selects:
			l.selectEntry(entry)
		}
	}
}

// publish replaces any unread snapshot with s. Only the loop sends.
func (w *Widget) publish(s State) {
	select {
	case w.updates <- s:
		return
	default:
	}
	select {
	case <-w.updates:
	default:
	}
	w.updates <- s
}
