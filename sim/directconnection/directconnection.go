// Package directconnection provides directconnection
package directconnection

import (
	"fmt"

	"github.com/serdeslab/pipesim/sim"
)

type portRegistry struct {
	ports   []sim.Port
	portMap map[sim.RemotePort]int
}

func newPortRegistry() portRegistry {
	return portRegistry{
		ports:   make([]sim.Port, 0, 4),
		portMap: make(map[sim.RemotePort]int),
	}
}

func (r *portRegistry) add(port sim.Port) {
	r.ports = append(r.ports, port)
	r.portMap[port.AsRemote()] = len(r.ports) - 1
}

func (r *portRegistry) byIndex(index int) sim.Port {
	return r.ports[index]
}

func (r *portRegistry) byName(name sim.RemotePort) sim.Port {
	idx, ok := r.portMap[name]
	if !ok {
		panic(fmt.Sprintf("port %s not found", name))
	}

	return r.ports[idx]
}

func (r *portRegistry) list() []sim.Port {
	return r.ports
}

func (r *portRegistry) len() int {
	return len(r.ports)
}

// Comp is a DirectConnection connects two components without latency
type Comp struct {
	*sim.TickingComponent

	nextPortID int
	ports      portRegistry
}

// PlugIn marks the port connects to this DirectConnection.
func (c *Comp) PlugIn(port sim.Port) {
	c.Lock()
	defer c.Unlock()

	c.ports.add(port)

	port.SetConnection(c)
}

// Unplug marks the port no longer connects to this DirectConnection.
func (c *Comp) Unplug(_ sim.Port) {
	panic("not implemented")
}

// NotifyAvailable is called by a port to notify that the connection can
// deliver to the port again.
func (c *Comp) NotifyAvailable(p sim.Port) {
	for _, port := range c.ports.list() {
		if port == p {
			continue
		}

		port.NotifyAvailable()
	}

	c.TickNow()
}

// NotifySend is called by a port to notify that the connection can start
// to tick now
func (c *Comp) NotifySend() {
	c.TickNow()
}

// Tick updates the states of the connection and delivers messages.
func (c *Comp) Tick() bool {
	madeProgress := false

	for i := 0; i < c.ports.len(); i++ {
		portID := (i + c.nextPortID) % c.ports.len()
		port := c.ports.byIndex(portID)
		madeProgress = c.forwardMany(port) || madeProgress
	}

	c.nextPortID = (c.nextPortID + 1) % c.ports.len()

	return madeProgress
}

func (c *Comp) forwardMany(
	port sim.Port,
) bool {
	madeProgress := false
	for {
		head := port.PeekOutgoing()
		if head == nil {
			break
		}

		dst := c.ports.byName(head.Meta().Dst)
		err := dst.Deliver(head)
		if err != nil {
			break
		}

		madeProgress = true
		port.RetrieveOutgoing()
	}

	return madeProgress
}
