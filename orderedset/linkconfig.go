package orderedset

// LinkConfig is the link configuration carried in word 1 of TS1 and TS2.
type LinkConfig struct {
	Reset      bool
	Loopback   bool
	Scrambling bool
}

// asByte packs the configuration for transmission: bit 0 reset, bit 1
// loopback, bit 2 scrambling disabled.
func (c LinkConfig) asByte() uint8 {
	var b uint8

	if c.Reset {
		b |= 1 << 0
	}

	if c.Loopback {
		b |= 1 << 1
	}

	if !c.Scrambling {
		b |= 1 << 2
	}

	return b
}

// linkConfigFromWord extracts the configuration from a received word 1:
// bit 8 reset, bit 10 loopback, bit 11 scrambling disabled.
func linkConfigFromWord(word uint32) LinkConfig {
	return LinkConfig{
		Reset:      word&(1<<8) != 0,
		Loopback:   word&(1<<10) != 0,
		Scrambling: word&(1<<11) == 0,
	}
}
