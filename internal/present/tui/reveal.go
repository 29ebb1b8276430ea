package tui

// span is the line range one landing block occupies in the content.
type span struct {
	key    string
	top    int
	height int
}

// revealTracker records which blocks have intersected the viewport. A block
// counts once the visible share of its lines reaches threshold; after that
// it stays revealed.
type revealTracker struct {
	threshold float64
	shown     map[string]bool
}

func newRevealTracker(threshold float64) *revealTracker {
	return &revealTracker{threshold: threshold, shown: map[string]bool{}}
}

// intersectionRatio is the fraction of s inside the window [top, top+height).
func intersectionRatio(s span, top, height int) float64 {
	if height <= 0 {
		return 0
	}
	if s.height <= 0 {
		if s.top >= top && s.top < top+height {
			return 1
		}
		return 0
	}
	lo := max(s.top, top)
	hi := min(s.top+s.height, top+height)
	if hi <= lo {
		return 0
	}
	return float64(hi-lo) / float64(s.height)
}

// observe reveals every span intersecting the window and reports whether
// anything new became visible.
func (t *revealTracker) observe(spans []span, top, height int) bool {
	changed := false
	for _, s := range spans {
		if t.shown[s.key] {
			continue
		}
		if intersectionRatio(s, top, height) >= t.threshold {
			t.shown[s.key] = true
			changed = true
		}
	}
	return changed
}

func (t *revealTracker) visible(key string) bool { return t.shown[key] }
