// Package feedback holds the single transient status notification.
package feedback

import "time"

// DefaultTTL is how long an entry stays visible
const DefaultTTL = 5 * time.Second

// Polarity selects the color cue of an entry
type Polarity int

const (
	Positive Polarity = iota
	Negative
)

func (p Polarity) String() string {
	if p == Negative {
		return "negative"
	}
	return "positive"
}

// Entry is one notification with an absolute expiry.
type Entry struct {
	Text      string
	Polarity  Polarity
	ExpiresAt time.Time
}

// Registry holds at most one Entry. Expiry is lazy: nothing clears the
// entry until ExpireIfDue observes the deadline. It is not safe for
// concurrent use; the owner serializes access.
type Registry struct {
	ttl   time.Duration
	now   func() time.Time
	entry *Entry
}

// Option configures a Registry.
type Option func(*Registry)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(r *Registry) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRegistry creates an empty Registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Set replaces any current entry with one expiring TTL from now.
func (r *Registry) Set(text string, polarity Polarity) {
	r.entry = &Entry{
		Text:      text,
		Polarity:  polarity,
		ExpiresAt: r.now().Add(r.ttl),
	}
}

// ExpireIfDue clears the entry once its expiry has been reached and reports
// whether it did.
func (r *Registry) ExpireIfDue() bool {
	if r.entry == nil || r.now().Before(r.entry.ExpiresAt) {
		return false
	}
	r.entry = nil
	return true
}

// Current returns the live entry, if any.
func (r *Registry) Current() (Entry, bool) {
	if r.entry == nil {
		return Entry{}, false
	}
	return *r.entry, true
}

// Clear drops the current entry.
func (r *Registry) Clear() {
	r.entry = nil
}
