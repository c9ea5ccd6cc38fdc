package suggest

// Ticket identifies one armed debounce window.
type Ticket uint64

// Pipeline is the input side of the suggestion flow as an explicit state
// machine: empty events are dropped, text is lowercased, each accepted event
// supersedes the pending one, and a settled value equal to the previous
// settled value is suppressed.
//
// Pipeline does no timing itself. The driver arms a timer for every ticket
// returned by Push and calls Fire when it expires. It is not safe for
// concurrent use.
type Pipeline struct {
	seq        Ticket
	pending    string
	hasPending bool
	last       string
	hasLast    bool
}

// Push feeds one raw text change. It reports false for events that are
// dropped; otherwise any earlier ticket becomes stale.
func (p *Pipeline) Push(raw string) (Ticket, bool) {
	if raw == "" {
		return 0, false
	}
	p.seq++
	p.pending = Normalize(raw)
	p.hasPending = true
	return p.seq, true
}

// Fire settles the value armed by t. It reports false if t is stale, nothing
// is pending, or the value repeats the last settled one.
func (p *Pipeline) Fire(t Ticket) (string, bool) {
	if !p.hasPending || t != p.seq {
		return "", false
	}
	p.hasPending = false
	if p.hasLast && p.pending == p.last {
		return "", false
	}
	p.last = p.pending
	p.hasLast = true
	return p.last, true
}

// Pending reports whether a debounce window is open.
func (p *Pipeline) Pending() bool {
	return p.hasPending
}

// Cancel drops the pending value.
func (p *Pipeline) Cancel() {
	p.hasPending = false
	p.pending = ""
}

// Last returns the last settled query.
func (p *Pipeline) Last() (string, bool) {
	return p.last, p.hasLast
}

// Forget clears the last settled query so the next settle always passes.
func (p *Pipeline) Forget() {
	p.last = ""
	p.hasLast = false
}
