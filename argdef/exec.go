package argdef

import "fmt"

// Handler is the implementation of an action.  It receives the arguments
// given to the action on the command line and reports whether execution
// should continue.
type Handler func(args []string) bool

// Registry maps handler names declared in the argument definition to their
// implementations.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds a handler name to its implementation.
func (r *Registry) Register(name string, handler Handler) {
	r.handlers[name] = handler
}

// -----------------------------------------------------------------------------

// Invocation is a selected action together with its command-line arguments.
type Invocation struct {
	Action int
	Args   []string
}

// Execute runs the given invocations against the table.  Before anything
// runs, each invoked action's requires and metadeps lists are expanded
// (transitively) into additional invocations with no arguments.  The full set
// is then ordered so that every action runs after all invoked actions in its
// runafter and requires lists, and each handler runs once.  A handler
// returning false stops execution.
func Execute(table []*Action, registry *Registry, invocations []Invocation) error {
	// Expand dependencies into the invocation set.
	queued := make(map[int][]string)
	var order []int

	var enqueue func(inv Invocation)
	enqueue = func(inv Invocation) {
		if _, ok := queued[inv.Action]; ok {
			return
		}

		queued[inv.Action] = inv.Args
		order = append(order, inv.Action)

		action := table[inv.Action]
		for _, dep := range action.Requires {
			enqueue(Invocation{Action: dep})
		}
		for _, dep := range action.MetaDeps {
			enqueue(Invocation{Action: dep})
		}
	}

	for _, inv := range invocations {
		if err := checkArgCount(table[inv.Action], len(inv.Args)); err != nil {
			return err
		}

		enqueue(inv)
	}

	// Order the queued actions so runafter and requires constraints hold.  The
	// sort is a fixpoint pass over the queue: each pass places every action
	// whose queued dependencies are already placed.
	ordered := orderByRunAfter(table, order, queued)

	for _, index := range ordered {
		action := table[index]

		handler, ok := registry.handlers[action.Handler]
		if !ok {
			return fmt.Errorf("no handler registered for `%s' (action `%s')", action.Handler, action.Name)
		}

		if !handler(queued[index]) {
			return fmt.Errorf("action `%s' failed", action.Name)
		}
	}

	return nil
}

// checkArgCount validates an invocation's argument count against the action's
// declared range.
func checkArgCount(action *Action, count int) error {
	if count < action.ArgRange.Low {
		return fmt.Errorf("action `%s' requires at least %d argument(s), but %d were provided",
			action.Name, action.ArgRange.Low, count)
	}

	if action.ArgRange.High != UnboundedArgs && count > action.ArgRange.High {
		return fmt.Errorf("action `%s' accepts at most %d argument(s), but %d were provided",
			action.Name, action.ArgRange.High, count)
	}

	return nil
}

// orderByRunAfter orders the queued action indices so that every action runs
// after the queued actions in its runafter and requires lists.
func orderByRunAfter(table []*Action, order []int, queued map[int][]string) []int {
	ordered := make([]int, 0, len(order))
	placed := make(map[int]bool)

	for len(ordered) < len(order) {
		progressed := false

		for _, index := range order {
			if placed[index] {
				continue
			}

			ready := true
			for _, dep := range append(append([]int{}, table[index].RunAfter...), table[index].Requires...) {
				if _, isQueued := queued[dep]; isQueued && !placed[dep] {
					ready = false
					break
				}
			}

			if ready {
				ordered = append(ordered, index)
				placed[index] = true
				progressed = true
			}
		}

		// A dependency cycle cannot be satisfied; run the remainder in queue
		// order rather than spinning.
		if !progressed {
			for _, index := range order {
				if !placed[index] {
					ordered = append(ordered, index)
					placed[index] = true
				}
			}
		}
	}

	return ordered
}
