// Package orderedset implements the ordered sets exchanged during link
// training, together with the engines that detect and emit them.
package orderedset

import "fmt"

// A Set is an immutable link-training pattern, packed into little-endian
// 32-bit words. Word 0 carries the framing comma; its ctrl marker tells it
// apart from the interior words, which are plain data.
type Set struct {
	name       string
	words      []uint32
	firstCtrl  uint8
	linkConfig bool
}

func newSet(name string, data []byte, firstCtrl uint8, linkConfig bool) Set {
	if len(data)%4 != 0 {
		panic("ordered set must pack into whole words")
	}

	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = uint32(data[4*i]) |
			uint32(data[4*i+1])<<8 |
			uint32(data[4*i+2])<<16 |
			uint32(data[4*i+3])<<24
	}

	return Set{
		name:       name,
		words:      words,
		firstCtrl:  firstCtrl,
		linkConfig: linkConfig,
	}
}

// TSEQ is the repeating training sequence sent for receiver equalization.
// One COM, fifteen scrambled payload bytes, sixteen D10.2 symbols.
var TSEQ = newSet("TSEQ", []byte{
	0xBC, 0xFF, 0x17, 0xC0,
	0x14, 0xB2, 0xE7, 0x02,
	0x82, 0x72, 0x6E, 0x28,
	0xA6, 0xBE, 0x6D, 0xBF,
	0x4A, 0x4A, 0x4A, 0x4A,
	0x4A, 0x4A, 0x4A, 0x4A,
	0x4A, 0x4A, 0x4A, 0x4A,
	0x4A, 0x4A, 0x4A, 0x4A,
}, 0x1, false)

// TS1 is the first training set. Four COMs, the link configuration word,
// then D10.2 symbols.
var TS1 = newSet("TS1", []byte{
	0xBC, 0xBC, 0xBC, 0xBC,
	0x00, 0x00, 0x4A, 0x4A,
	0x4A, 0x4A, 0x4A, 0x4A,
	0x4A, 0x4A, 0x4A, 0x4A,
}, 0xF, true)

// TS2 is the second training set. Four COMs, the link configuration word,
// then D5.2 symbols.
var TS2 = newSet("TS2", []byte{
	0xBC, 0xBC, 0xBC, 0xBC,
	0x00, 0x00, 0x45, 0x45,
	0x45, 0x45, 0x45, 0x45,
	0x45, 0x45, 0x45, 0x45,
}, 0xF, true)

// Lookup resolves an ordered set by name. Unknown names are a
// configuration error.
func Lookup(name string) Set {
	switch name {
	case "TSEQ":
		return TSEQ
	case "TS1":
		return TS1
	case "TS2":
		return TS2
	default:
		panic(fmt.Sprintf("unknown ordered set %s", name))
	}
}

// Name returns the name of the set.
func (s Set) Name() string {
	return s.name
}

// Depth returns the number of words in the set.
func (s Set) Depth() int {
	return len(s.words)
}

// Word returns the pattern word at adr.
func (s Set) Word(adr int) uint32 {
	return s.words[adr]
}

// FirstCtrl returns the ctrl marker expected on word 0.
func (s Set) FirstCtrl() uint8 {
	return s.firstCtrl
}

// CtrlAt returns the ctrl marker expected at adr.
func (s Set) CtrlAt(adr int) uint8 {
	if adr == 0 {
		return s.firstCtrl
	}

	return 0
}

// Mask returns the bit mask applied when comparing the word at adr. Word 1
// of a set that carries link configuration masks out the configuration
// byte, as a mismatch there reflects configuration, not corruption.
func (s Set) Mask(adr int) uint32 {
	if s.linkConfig && adr == 1 {
		return 0xFFFF00FF
	}

	return 0xFFFFFFFF
}

// HasLinkConfig reports whether word 1 of the set carries the link
// configuration byte.
func (s Set) HasLinkConfig() bool {
	return s.linkConfig
}
