package orderedset

// A satCounter counts up to max and freezes there until restarted. Keeping
// the boundary in one place avoids off-by-one mistakes at the wraparound.
type satCounter struct {
	value int
	max   int
}

func (c *satCounter) increment() {
	if c.value < c.max {
		c.value++
	}
}

func (c *satCounter) restart() {
	c.value = 0
}

func (c *satCounter) saturate() {
	c.value = c.max
}

func (c *satCounter) atMax() bool {
	return c.value == c.max
}
