package vt

// historyRing is the scrollback store: a bounded FIFO of lines backed by a
// ring slice. Pushing past capacity evicts the oldest line.
type historyRing struct {
	lines []Line
	head  int // index of the oldest line
	count int
	max   int
}

func newHistoryRing(max int) *historyRing {
	if max < 0 {
		max = 0
	}
	return &historyRing{max: max}
}

func (h *historyRing) push(l Line) {
	if h.max == 0 {
		return
	}
	if h.lines == nil {
		// Start small; grow up to max as lines arrive.
		h.lines = make([]Line, 0, minInt(h.max, 128))
	}
	if h.count < h.max {
		if h.count < len(h.lines) {
			h.lines[(h.head+h.count)%len(h.lines)] = l
		} else {
			h.lines = append(h.lines, l)
		}
		h.count++
		return
	}
	// Full: overwrite the oldest slot.
	h.lines[h.head] = l
	h.head = (h.head + 1) % len(h.lines)
}

func (h *historyRing) len() int { return h.count }

// at returns the i-th line, oldest first.
func (h *historyRing) at(i int) Line {
	return h.lines[(h.head+i)%len(h.lines)]
}

func (h *historyRing) clear() {
	h.lines = nil
	h.head = 0
	h.count = 0
}

// snapshot copies the ring out in oldest-first order.
func (h *historyRing) snapshot() []Line {
	out := make([]Line, h.count)
	for i := 0; i < h.count; i++ {
		out[i] = h.at(i).clone()
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
