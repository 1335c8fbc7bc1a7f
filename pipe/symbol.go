// Package pipe defines the vocabulary of the parallel PHY interface: 32-bit
// data words with a per-byte control marker, and the messages that carry
// them between components.
package pipe

// A Symbol is one word of the parallel interface. Data holds four bytes.
// Each bit of Ctrl marks the corresponding byte of Data as a control code
// rather than payload.
type Symbol struct {
	Data uint32
	Ctrl uint8
}

// K returns the control code K x.y.
func K(x, y uint8) uint8 {
	return (y << 5) | x
}

// D returns the data code D x.y.
func D(x, y uint8) uint8 {
	return (y << 5) | x
}

// Control codes used by link training.
var (
	// COM marks the start of an ordered set.
	COM = K(28, 5)

	// SKP fills the elasticity buffers between ordered sets.
	SKP = K(28, 1)
)
