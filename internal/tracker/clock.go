package tracker

import "time"

// clock stamps mutations. Stamps are UTC without a monotonic reading so they
// compare equal after a round trip through storage.
type clock struct {
	now func() time.Time
}

func (c *clock) read() time.Time {
	return c.now().UTC().Round(0)
}

// after returns the current time, or prev+1ms if the clock has not moved
// past prev. UpdatedAt therefore strictly increases on every mutation.
func (c *clock) after(prev time.Time) time.Time {
	t := c.read()
	if !t.After(prev) {
		t = prev.Add(time.Millisecond)
	}
	return t
}
