package tracing

import (
	"fmt"
	"reflect"

	"github.com/serdeslab/pipesim/sim"
)

// CollectTrace lets the tracer collect traces from a domain.
func CollectTrace(domain NamedHookable, tracer Tracer) {
	hooks := domain.Hooks()
	for _, hook := range hooks {
		hook, ok := hook.(*traceHook)
		if ok && hook.t == tracer {
			panic(fmt.Sprintf(
				"domain %s already has tracer %s",
				domain.Name(), reflect.TypeOf(tracer)))
		}
	}

	h := traceHook{t: tracer}
	domain.AcceptHook(&h)
}

// A traceHook is a hook that forwards task events to a tracer.
type traceHook struct {
	t Tracer
}

// Func calls the tracer interfaces when the hook is triggered.
func (h *traceHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case HookPosTaskStart:
		h.t.StartTask(ctx.Item.(Task))
	case HookPosTaskStep:
		h.t.StepTask(ctx.Item.(Task))
	case HookPosTaskEnd:
		h.t.EndTask(ctx.Item.(Task))
	}
}
