package companion

import (
	"sync"
	"time"
)

// DoubleTapWindow is the longest gap between two taps on the same name that
// still counts as a double tap.
const DoubleTapWindow = 500 * time.Millisecond

// Gesture is what a tap on a pool entry means.
type Gesture string

const (
	// GestureSelect toggles the name on the meal being edited.
	GestureSelect Gesture = "select"
	// GestureRemove asks to drop the name from the pool.
	GestureRemove Gesture = "remove"
)

type lastTap struct {
	name string
	at   time.Time
}

// TapDetector tells single taps from double taps. It remembers the last tap
// per user; a double tap consumes that memory so a third quick tap starts
// over as a single tap.
type TapDetector struct {
	mu   sync.Mutex
	last map[string]lastTap
	now  func() time.Time
}

func NewTapDetector() *TapDetector {
	return &TapDetector{
		last: make(map[string]lastTap),
		now:  time.Now,
	}
}

// Tap records a tap by userID on name and classifies it.
func (d *TapDetector) Tap(userID, name string) Gesture {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	prev, ok := d.last[userID]
	if ok && prev.name == name && now.Sub(prev.at) < DoubleTapWindow {
		delete(d.last, userID)
		return GestureRemove
	}

	d.last[userID] = lastTap{name: name, at: now}
	return GestureSelect
}
