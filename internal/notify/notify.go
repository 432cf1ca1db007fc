// Package notify sends desktop notifications through the native mechanism
// of each platform: osascript on macOS, notify-send on Linux, a no-op
// elsewhere. It also tracks long-session milestones so a running timer can
// raise each one exactly once.
package notify

import (
	"sort"
	"time"
)

// Notifier sends desktop notifications.
type Notifier interface {
	// Send sends a notification with the given title and message.
	Send(title, message string) error

	// SendWithSound sends a notification with sound.
	SendWithSound(title, message string) error

	// IsSupported reports whether notifications work on this platform.
	IsSupported() bool
}

type noopNotifier struct{}

func (n *noopNotifier) Send(title, message string) error          { return nil }
func (n *noopNotifier) SendWithSound(title, message string) error { return nil }
func (n *noopNotifier) IsSupported() bool                         { return false }

// New creates a platform-specific notifier, falling back to a no-op when
// the platform has no usable notification mechanism.
func New() Notifier {
	n := newPlatformNotifier()
	if n == nil || !n.IsSupported() {
		return &noopNotifier{}
	}
	return n
}

// Tracker reports which session milestones an elapsed duration has crossed.
// Each milestone fires once until Reset.
type Tracker struct {
	milestones []int // minutes, ascending
	notified   map[int]bool
}

// NewTracker builds a tracker from milestone minutes. Non-positive values
// are dropped and the rest are deduplicated and sorted.
func NewTracker(minutes []int) *Tracker {
	seen := make(map[int]bool, len(minutes))
	var ms []int
	for _, m := range minutes {
		if m <= 0 || seen[m] {
			continue
		}
		seen[m] = true
		ms = append(ms, m)
	}
	sort.Ints(ms)
	return &Tracker{milestones: ms, notified: make(map[int]bool)}
}

// Crossed returns the milestones newly reached by the elapsed duration, in
// ascending order, and marks them as raised.
func (t *Tracker) Crossed(elapsed time.Duration) []int {
	var crossed []int
	for _, m := range t.milestones {
		if t.notified[m] {
			continue
		}
		if elapsed >= time.Duration(m)*time.Minute {
			t.notified[m] = true
			crossed = append(crossed, m)
		}
	}
	return crossed
}

// Reset clears raised milestones, for the next session.
func (t *Tracker) Reset() {
	t.notified = make(map[int]bool)
}
