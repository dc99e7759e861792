package modulator

// Carrier is the free-running triangular counter every phase
// comparison is made against. It counts up to max-1, turns around
// with a one-tick peak pulse, counts back down to 0, and turns around
// with a one-tick valley pulse.
type Carrier struct {
	max    uint32
	value  uint32
	rising bool

	valley bool
	peak   bool
}

// NewCarrier creates a carrier counter with the given amplitude.
// The counter starts at 0 ascending, with no pulse asserted.
func NewCarrier(max uint32) *Carrier {
	return &Carrier{
		max:    max,
		rising: true,
	}
}

// Tick advances the counter by one clock tick.
func (c *Carrier) Tick() {
	c.valley = false
	c.peak = false

	if c.rising {
		if c.value < c.max-1 {
			c.value++
		}
		if c.value == c.max-1 {
			c.rising = false
			c.peak = true
		}
	} else {
		if c.value > 0 {
			c.value--
		}
		if c.value == 0 {
			c.rising = true
			c.valley = true
		}
	}
}

// Value returns the current counter value.
func (c *Carrier) Value() uint32 {
	return c.value
}

// Max returns the carrier amplitude.
func (c *Carrier) Max() uint32 {
	return c.max
}

// Rising reports whether the counter is in its ascending half-period.
func (c *Carrier) Rising() bool {
	return c.rising
}

// Valley reports the one-tick pulse at the counter minimum.
func (c *Carrier) Valley() bool {
	return c.valley
}

// Peak reports the one-tick pulse at the counter maximum.
func (c *Carrier) Peak() bool {
	return c.peak
}
