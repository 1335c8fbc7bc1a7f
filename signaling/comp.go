// Package signaling composes the link-training engines into one ticking
// component: ordered-set detectors and an emitter on the symbol stream, and
// the LFPS transmitter and receiver on the side-band line.
package signaling

import (
	"github.com/serdeslab/pipesim/lfps"
	"github.com/serdeslab/pipesim/orderedset"
	"github.com/serdeslab/pipesim/pipe"
	"github.com/serdeslab/pipesim/sim"
	"github.com/serdeslab/pipesim/tracing"
)

// Comp is a signaling unit. Every received symbol is offered to the TSEQ,
// TS1 and TS2 detectors in parallel; the emitter drives TxPort while
// ordered-set transmission is requested. The LFPS engines run on the side
// of the symbol stream and never touch it.
type Comp struct {
	*sim.TickingComponent

	RxPort sim.Port
	TxPort sim.Port

	detectors     []*orderedset.Detector
	detectTaskIDs []string

	emitter    *orderedset.Emitter
	emitTaskID string

	lfpsTx *lfps.Transmitter
	lfpsRx *lfps.Receiver

	txDst      sim.RemotePort
	remoteLine lfps.Line
	polling    bool
}

// SetTxDst sets the remote port that emitted symbols are addressed to.
func (c *Comp) SetTxDst(dst sim.RemotePort) {
	c.txDst = dst
}

// ConnectLine attaches the remote side of the LFPS lane. A connected line
// is observed on every tick of the unit.
func (c *Comp) ConnectLine(remote lfps.Line) {
	c.remoteLine = remote
}

// Line returns the transmit side of the unit's LFPS lane.
func (c *Comp) Line() lfps.Line {
	return c.lfpsTx
}

// ObserveLine feeds the receiver one tick of remote line state. It is for
// wiring glue that samples the line itself; a unit with a connected remote
// line observes it on its own ticks instead.
func (c *Comp) ObserveLine(idle bool) {
	c.lfpsRx.Observe(idle)
}

// SetPolling starts or stops LFPS polling on the line.
func (c *Comp) SetPolling(enable bool) {
	c.polling = enable
	c.lfpsTx.SetPolling(enable)
	c.TickLater()
}

// SetSendOrderedSets requests ordered-set emission. Bursts repeat back to
// back while the request stays asserted; deasserting it takes effect at
// the next burst boundary.
func (c *Comp) SetSendOrderedSets(send bool) {
	c.emitter.SetSend(send)
	c.TickLater()
}

// SetLinkConfig sets the live link configuration carried in emitted
// training sets.
func (c *Comp) SetLinkConfig(cfg orderedset.LinkConfig) {
	c.emitter.SetLinkConfig(cfg)
}

// TSEQDetected reports whether the TSEQ detector has seen enough
// uninterrupted repetitions.
func (c *Comp) TSEQDetected() bool {
	return c.detectors[0].Detected()
}

// TS1Detected reports whether the TS1 detector has seen enough
// uninterrupted repetitions.
func (c *Comp) TS1Detected() bool {
	return c.detectors[1].Detected()
}

// TS2Detected reports whether the TS2 detector has seen enough
// uninterrupted repetitions.
func (c *Comp) TS2Detected() bool {
	return c.detectors[2].Detected()
}

// RxLinkConfig returns the link configuration latched by the detector for
// the named training set.
func (c *Comp) RxLinkConfig(setName string) orderedset.LinkConfig {
	for _, d := range c.detectors {
		if d.Set().Name() == setName && d.Set().HasLinkConfig() {
			return d.LinkConfig()
		}
	}

	panic("no training set detector named " + setName)
}

// EmitDone reports whether the emitter is at a burst boundary.
func (c *Comp) EmitDone() bool {
	return c.emitter.Done()
}

// PollingDetected reports whether the receiver currently sees the polling
// pattern on the remote line.
func (c *Comp) PollingDetected() bool {
	return c.lfpsRx.PollingDetected()
}

// LineLevel returns the electrical level the unit drives on its line.
func (c *Comp) LineLevel() bool {
	return c.lfpsTx.Level()
}

// LineIdle returns true when the unit does not drive its line.
func (c *Comp) LineIdle() bool {
	return c.lfpsTx.Idle()
}

// Tick advances the unit by one system clock tick. Received symbols are
// processed before emission so that a latched configuration read within
// this tick reflects the word that carried it.
func (c *Comp) Tick() bool {
	madeProgress := false

	madeProgress = c.processRxStream() || madeProgress
	madeProgress = c.emitTxStream() || madeProgress
	madeProgress = c.tickLFPS() || madeProgress

	return madeProgress
}

func (c *Comp) processRxStream() bool {
	msg := c.RxPort.RetrieveIncoming()
	if msg == nil {
		return false
	}

	symMsg := msg.(*pipe.SymbolMsg)

	for i, detector := range c.detectors {
		detector.Input(symMsg.Content)
		c.traceDetector(i)
	}

	return true
}

// traceDetector reports one task per match window: from the first counted
// symbol until the detector either asserts detection or restarts.
func (c *Comp) traceDetector(i int) {
	if c.NumHooks() == 0 {
		return
	}

	detector := c.detectors[i]

	switch {
	case c.detectTaskIDs[i] == "" && detector.Progress() > 0:
		c.detectTaskIDs[i] = sim.GetIDGenerator().Generate()
		tracing.StartTask(c.detectTaskIDs[i], "", c,
			"detect", detector.Set().Name(), nil)
	case c.detectTaskIDs[i] != "" &&
		(detector.Detected() || detector.Progress() == 0):
		tracing.EndTask(c.detectTaskIDs[i], c)
		c.detectTaskIDs[i] = ""
	}
}

func (c *Comp) emitTxStream() bool {
	sym, valid := c.emitter.Output()

	if !valid {
		c.emitter.Tick(false)
		c.traceEmitter()
		return false
	}

	accepted := false
	if c.TxPort.CanSend() {
		msg := pipe.SymbolMsgBuilder{}.
			WithSrc(c.TxPort.AsRemote()).
			WithDst(c.txDst).
			WithContent(sym).
			Build()

		sendErr := c.TxPort.Send(msg)
		accepted = sendErr == nil
	}

	c.emitter.Tick(accepted)
	c.traceEmitter()

	return true
}

// traceEmitter reports one task per emitted burst.
func (c *Comp) traceEmitter() {
	if c.NumHooks() == 0 {
		return
	}

	switch {
	case c.emitTaskID == "" && !c.emitter.Done():
		c.emitTaskID = sim.GetIDGenerator().Generate()
		tracing.StartTask(c.emitTaskID, "", c,
			"emit", c.emitter.Set().Name(), nil)
	case c.emitTaskID != "" && c.emitter.Done():
		tracing.EndTask(c.emitTaskID, c)
		c.emitTaskID = ""
	}
}

func (c *Comp) tickLFPS() bool {
	c.lfpsTx.Tick()

	if c.remoteLine != nil {
		c.lfpsRx.Observe(c.remoteLine.Idle())
	}

	c.sampleLine()

	active := c.polling || !c.lfpsTx.Idle()
	if c.remoteLine != nil && (!c.remoteLine.Idle() || c.lfpsRx.Armed()) {
		active = true
	}

	return active
}

func (c *Comp) sampleLine() {
	if c.NumHooks() == 0 {
		return
	}

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    lfps.HookPosLineSample,
		Item: lfps.LineSample{
			Level: c.lfpsTx.Level(),
			Idle:  c.lfpsTx.Idle(),
		},
	})
}
