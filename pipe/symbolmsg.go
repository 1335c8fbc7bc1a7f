package pipe

import (
	"github.com/serdeslab/pipesim/sim"
)

// SymbolMsg carries one symbol over a connection.
type SymbolMsg struct {
	sim.MsgMeta

	Content Symbol
}

// Meta returns the meta data of the message.
func (m *SymbolMsg) Meta() *sim.MsgMeta {
	return &m.MsgMeta
}

// Clone returns a cloned SymbolMsg with a different ID.
func (m *SymbolMsg) Clone() sim.Msg {
	cloneMsg := *m
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// SymbolMsgBuilder can build symbol messages.
type SymbolMsgBuilder struct {
	Src, Dst sim.RemotePort
	Content  Symbol
}

// WithSrc sets the source of the symbol message.
func (b SymbolMsgBuilder) WithSrc(src sim.RemotePort) SymbolMsgBuilder {
	b.Src = src
	return b
}

// WithDst sets the destination of the symbol message.
func (b SymbolMsgBuilder) WithDst(dst sim.RemotePort) SymbolMsgBuilder {
	b.Dst = dst
	return b
}

// WithContent sets the symbol that the message carries.
func (b SymbolMsgBuilder) WithContent(content Symbol) SymbolMsgBuilder {
	b.Content = content
	return b
}

// Build creates a new symbol message.
func (b SymbolMsgBuilder) Build() *SymbolMsg {
	msg := &SymbolMsg{
		MsgMeta: sim.MsgMeta{
			ID:           sim.GetIDGenerator().Generate(),
			Src:          b.Src,
			Dst:          b.Dst,
			TrafficBytes: 4,
		},
		Content: b.Content,
	}

	return msg
}
