package picker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hightemp/countrypick/internal/countries"
	"github.com/hightemp/countrypick/internal/logging"
)

const testDebounce = 50 * time.Millisecond

var (
	germany = countries.Country{Name: "Germany", CountryCode: "DE"}
	ghana   = countries.Country{Name: "Ghana", CountryCode: "GH"}
	greece  = countries.Country{Name: "Greece", CountryCode: "GR"}

	threeCountries = []countries.Country{germany, ghana, greece}
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	mu    sync.Mutex
	codes []string
}

func (r *recorder) SetCountryCode(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes = append(r.codes, code)
}

func (r *recorder) Codes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.codes...)
}

type harness struct {
	t    *testing.T
	w    *Widget
	sink *recorder
	logs *observer.ObservedLogs
	stop func()
}

func start(t *testing.T, source countries.Source, opts ...Option) *harness {
	t.Helper()

	core, logs := observer.New(zap.DebugLevel)
	logging.SetLogger(zap.New(core))

	sink := &recorder{}
	w := New(source, sink, append([]Option{WithDebounce(testDebounce)}, opts...)...)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()

	var once sync.Once
	h := &harness{t: t, w: w, sink: sink, logs: logs}
	h.stop = func() {
		once.Do(func() {
			cancel()
			select {
			case err := <-errc:
				assert.NoError(t, err)
			case <-time.After(2 * time.Second):
				t.Error("Run did not return after cancel")
			}
			logging.SetLogger(nil)
		})
	}
	t.Cleanup(h.stop)
	return h
}

// wait returns the first snapshot satisfying cond.
func (h *harness) wait(cond func(State) bool) State {
	h.t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case s, ok := <-h.w.Updates():
			require.True(h.t, ok, "updates closed")
			if cond(s) {
				return s
			}
		case <-timeout:
			h.t.Fatal("timed out waiting for snapshot")
			return State{}
		}
	}
}

func (h *harness) waitLoaded() State {
	h.t.Helper()
	return h.wait(func(s State) bool { return s.Loaded })
}

func (h *harness) computations() int {
	return h.logs.FilterMessage("suggestions computed").Len()
}

// settle waits well past the debounce window.
func settle() {
	time.Sleep(4 * testDebounce)
}

func TestSearchAndSelect(t *testing.T) {
	var notified []countries.Country
	var mu sync.Mutex
	h := start(t, countries.NewStaticSource(threeCountries), WithOnSelect(func(c countries.Country) {
		mu.Lock()
		defer mu.Unlock()
		notified = append(notified, c)
	}))
	h.waitLoaded()

	require.NoError(t, h.w.Input("g"))
	s := h.wait(func(s State) bool { return len(s.Suggestions) > 0 })
	assert.Equal(t, threeCountries, s.Suggestions)
	assert.Equal(t, "g", s.Text)

	require.NoError(t, h.w.Select(ghana))
	s = h.wait(func(s State) bool { return s.Selected != nil })
	assert.Empty(t, s.Suggestions)
	assert.NotNil(t, s.Suggestions)
	assert.Equal(t, "Ghana", s.Text)
	assert.Equal(t, ghana, *s.Selected)
	assert.Equal(t, []string{"GH"}, h.sink.Codes())

	mu.Lock()
	assert.Equal(t, []countries.Country{ghana}, notified)
	mu.Unlock()

	// The field write must not start a new search.
	before := h.computations()
	settle()
	assert.Equal(t, before, h.computations())
}

func TestDebounceCollapsesRapidInput(t *testing.T) {
	h := start(t, countries.NewStaticSource(threeCountries), WithDebounce(200*time.Millisecond))
	h.waitLoaded()

	require.NoError(t, h.w.Input("g"))
	require.NoError(t, h.w.Input("gr"))
	s := h.wait(func(s State) bool { return len(s.Suggestions) > 0 })
	assert.Equal(t, []countries.Country{greece}, s.Suggestions)

	settle()
	assert.Equal(t, 1, h.computations())
}

func TestDebounceRestartsOnEachInput(t *testing.T) {
	const window = 200 * time.Millisecond
	h := start(t, countries.NewStaticSource(threeCountries), WithDebounce(window))
	h.waitLoaded()

	for _, text := range []string{"g", "gh", "gha"} {
		require.NoError(t, h.w.Input(text))
		time.Sleep(window / 5)
	}
	assert.Equal(t, 0, h.computations(), "nothing settles while typing continues")

	s := h.wait(func(s State) bool { return len(s.Suggestions) > 0 })
	assert.Equal(t, []countries.Country{ghana}, s.Suggestions)
	settle()
	assert.Equal(t, 1, h.computations())
}

func TestDuplicateInputComputedOnce(t *testing.T) {
	h := start(t, countries.NewStaticSource(threeCountries))
	h.waitLoaded()

	require.NoError(t, h.w.Input("g"))
	h.wait(func(s State) bool { return len(s.Suggestions) == 3 })

	require.NoError(t, h.w.Input("G"))
	settle()
	assert.Equal(t, 1, h.computations())
}

func TestEmptyInputKeepsSuggestions(t *testing.T) {
	h := start(t, countries.NewStaticSource(threeCountries))
	h.waitLoaded()

	require.NoError(t, h.w.Input("gr"))
	h.wait(func(s State) bool { return len(s.Suggestions) == 1 })

	require.NoError(t, h.w.Input(""))
	settle()
	assert.Equal(t, 1, h.computations())

	// Nothing new was published; the next snapshot still carries [Greece].
	require.NoError(t, h.w.Input("gre"))
	s := h.wait(func(s State) bool { return s.Text == "gre" })
	assert.Equal(t, []countries.Country{greece}, s.Suggestions)
}

func TestEmptyCountryList(t *testing.T) {
	h := start(t, countries.NewStaticSource(nil))
	h.waitLoaded()

	for _, text := range []string{"g", "a", "Germany"} {
		require.NoError(t, h.w.Input(text))
		s := h.wait(func(s State) bool { return s.Text == text })
		assert.Empty(t, s.Suggestions)
	}
	assert.Equal(t, 3, h.computations())
}

func TestFailedSourceDegradesSilently(t *testing.T) {
	failing := countries.SourceFunc(func(context.Context) ([]countries.Country, error) {
		return nil, errors.New("network down")
	})
	h := start(t, failing)

	require.NoError(t, h.w.Input("g"))
	s := h.wait(func(s State) bool { return s.Text == "g" })
	assert.False(t, s.Loaded)
	assert.Empty(t, s.Suggestions)
}

func TestSettledQueryRematchedWhenListArrives(t *testing.T) {
	release := make(chan struct{})
	gated := countries.SourceFunc(func(ctx context.Context) ([]countries.Country, error) {
		select {
		case <-release:
			return threeCountries, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
	h := start(t, gated)

	require.NoError(t, h.w.Input("gh"))
	s := h.wait(func(s State) bool { return s.Text == "gh" })
	assert.Empty(t, s.Suggestions)

	close(release)
	s = h.waitLoaded()
	assert.Equal(t, []countries.Country{ghana}, s.Suggestions)
}

func TestSameQueryAfterSelection(t *testing.T) {
	h := start(t, countries.NewStaticSource(threeCountries))
	h.waitLoaded()

	require.NoError(t, h.w.Input("g"))
	h.wait(func(s State) bool { return len(s.Suggestions) == 3 })
	require.NoError(t, h.w.Select(germany))
	h.wait(func(s State) bool { return s.Selected != nil })

	require.NoError(t, h.w.Input("g"))
	s := h.wait(func(s State) bool { return len(s.Suggestions) > 0 })
	assert.Equal(t, threeCountries, s.Suggestions)
	assert.Equal(t, germany, *s.Selected)
}

func TestSelectionCancelsPendingSearch(t *testing.T) {
	const window = 300 * time.Millisecond
	h := start(t, countries.NewStaticSource(threeCountries), WithDebounce(window))
	h.waitLoaded()

	require.NoError(t, h.w.Input("g"))
	require.NoError(t, h.w.Select(greece))
	s := h.wait(func(s State) bool { return s.Selected != nil })
	assert.Empty(t, s.Suggestions)

	time.Sleep(2 * window)
	assert.Equal(t, 0, h.computations())
	assert.Equal(t, []string{"GR"}, h.sink.Codes())
}

func TestLimit(t *testing.T) {
	h := start(t, countries.EmbeddedSource())
	h.waitLoaded()

	require.NoError(t, h.w.Input("S"))
	s := h.wait(func(s State) bool { return len(s.Suggestions) > 0 })
	assert.Len(t, s.Suggestions, DefaultLimit)
	for _, c := range s.Suggestions {
		assert.Equal(t, "S", c.Name[:1])
	}

	h2 := start(t, countries.NewStaticSource(threeCountries), WithLimit(2))
	h2.waitLoaded()
	require.NoError(t, h2.w.Input("g"))
	s = h2.wait(func(s State) bool { return len(s.Suggestions) > 0 })
	assert.Equal(t, []countries.Country{germany, ghana}, s.Suggestions)
}

func TestStopClosesEverything(t *testing.T) {
	h := start(t, countries.NewStaticSource(threeCountries))
	h.waitLoaded()
	require.NoError(t, h.w.Input("g"))

	h.stop()

	select {
	case <-h.w.Done():
	default:
		t.Fatal("Done not closed")
	}
	for range h.w.Updates() {
		// drain the last snapshot, if any
	}
	assert.ErrorIs(t, h.w.Input("gh"), ErrStopped)
	assert.ErrorIs(t, h.w.Select(ghana), ErrStopped)
	assert.Empty(t, h.sink.Codes())
}

func TestNoLateDeliveryAfterStop(t *testing.T) {
	release := make(chan struct{})
	slow := countries.SourceFunc(func(context.Context) ([]countries.Country, error) {
		<-release
		return threeCountries, nil
	})
	h := start(t, slow)
	h.stop()
	close(release)

	for s := range h.w.Updates() {
		assert.False(t, s.Loaded, "country list delivered after stop")
	}
}

func TestRunTwice(t *testing.T) {
	h := start(t, countries.NewStaticSource(nil))
	h.waitLoaded()
	assert.ErrorIs(t, h.w.Run(context.Background()), ErrAlreadyRunning)
}

func TestNilSink(t *testing.T) {
	w := New(countries.NewStaticSource(threeCountries), nil, WithDebounce(0))
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()

	require.NoError(t, w.Select(ghana))
	cancel()
	require.NoError(t, <-errc)
}

func TestSinkFunc(t *testing.T) {
	var got string
	var sink Sink = SinkFunc(func(code string) { got = code })
	sink.SetCountryCode("GH")
	assert.Equal(t, "GH", got)
}
