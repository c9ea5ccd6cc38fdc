package picker

import (
	"time"

	"go.uber.org/zap"

	"github.com/hightemp/countrypick/internal/countries"
	"github.com/hightemp/countrypick/internal/logging"
	"github.com/hightemp/countrypick/internal/suggest"
)

// loop is the state owned by Run.
type loop struct {
	w        *Widget
	index    *suggest.Index
	loaded   bool
	pipeline suggest.Pipeline
	text     string
	filtered []countries.Country
	selected *countries.Country

	timer  *time.Timer
	timerC <-chan time.Time
	ticket suggest.Ticket
}

func (w *Widget) newLoop() *loop {
	return &loop{
		w:        w,
		index:    suggest.NewIndex(nil),
		filtered: []countries.Country{},
	}
}

func (l *loop) snapshot() State {
	s := State{
		Text:        l.text,
		Suggestions: make([]countries.Country, len(l.filtered)),
		Loaded:      l.loaded,
	}
	copy(s.Suggestions, l.filtered)
	if l.selected != nil {
		sel := *l.selected
		s.Selected = &sel
	}
	return s
}

func (l *loop) setCountries(list []countries.Country) {
	l.index = suggest.NewIndex(list)
	l.loaded = true
	logging.Debug("picker countries loaded", zap.Int("count", l.index.Len()))

	// A query that settled before the list arrived is matched again.
	if q, ok := l.pipeline.Last(); ok {
		l.filtered = l.index.Match(q, l.w.limit)
	}
	l.w.publish(l.snapshot())
}

func (l *loop) input(text string) {
	l.text = text
	ticket, ok := l.pipeline.Push(text)
	if !ok {
		// Empty text is dropped; the previous suggestions stay.
		return
	}
	l.ticket = ticket
	l.armTimer()
}

func (l *loop) armTimer() {
	l.stopTimer()
	l.timer = time.NewTimer(l.w.debounce)
	l.timerC = l.timer.C
}

func (l *loop) stopTimer() {
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	l.timerC = nil
}

func (l *loop) fire() {
	l.timer = nil
	l.timerC = nil

	q, ok := l.pipeline.Fire(l.ticket)
	if !ok {
		return
	}
	l.filtered = l.index.Match(q, l.w.limit)
	logging.Debug("suggestions computed",
		zap.String("query", q),
		zap.Int("matches", len(l.filtered)),
	)
	l.w.publish(l.snapshot())
}

func (l *loop) selectEntry(entry countries.Country) {
	// The field write is not an input event.
	l.text = entry.Name
	l.pipeline.Cancel()
	l.stopTimer()

	if l.w.sink != nil {
		l.w.sink.SetCountryCode(entry.CountryCode)
	}
	l.filtered = []countries.Country{}
	l.pipeline.Forget()
	sel := entry
	l.selected = &sel

	logging.Debug("country selected",
		zap.String("name", entry.Name),
		zap.String("code", entry.CountryCode),
	)
	if l.w.onSelect != nil {
		l.w.onSelect(entry)
	}
	l.w.publish(l.snapshot())
}
