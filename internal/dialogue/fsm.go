package dialogue

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"

	"github.com/bizmatters/agent-builder/spec-elicitor/internal/models"
)

// Machine states. Untyped so they convert to statekit.StateID directly.
const (
	StateStarted    = models.StatusStarted
	StateInProgress = models.StatusInProgress
	StateAnswered   = "answered"
	StateCompleted  = models.StatusCompleted
)

// Machine events.
const (
	EventAnswer   = "answer"
	EventAsk      = "ask"
	EventComplete = "complete"
)

type turnContext struct {
	TurnCount int
}

// turnMachine tracks one dialogue turn. It is rebuilt from the caller's
// history on every call and discarded afterwards.
type turnMachine struct {
	interpreter *statekit.Interpreter[turnContext]
}

// newTurnMachine positions the machine where the caller's history leaves the
// dialogue: started when nothing was answered yet, in progress otherwise.
// turnCount is the history length once the current answer is recorded.
func newTurnMachine(previousTurns, turnCount int) (*turnMachine, error) {
	initial := StateInProgress
	if previousTurns == 0 {
		initial = StateStarted
	}

	builder := statekit.NewMachine[turnContext]("dialogue-turn").
		WithInitial(statekit.StateID(initial)).
		WithContext(turnContext{TurnCount: turnCount}).
		// Backstop only: the planner already completes the dialogue at MaxQuestions.
		WithGuard("belowCap", func(ctx turnContext, _ statekit.Event) bool {
			return ctx.TurnCount < MaxQuestions
		})

	builder.State(StateStarted).
		On(EventAnswer).Target(StateAnswered).
		On(EventComplete).Target(StateCompleted).
		Done()

	builder.State(StateInProgress).
		On(EventAnswer).Target(StateAnswered).
		On(EventComplete).Target(StateCompleted).
		Done()

	builder.State(StateAnswered).
		On(EventAsk).Target(StateInProgress).Guard("belowCap").
		On(EventComplete).Target(StateCompleted).
		Done()

	builder.State(StateCompleted).Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build dialogue machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()
	return &turnMachine{interpreter: interpreter}, nil
}

// Fire sends event and fails when the machine refuses to move.
func (m *turnMachine) Fire(event string) error {
	before := m.Current()
	m.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	if after := m.Current(); after != before {
		return nil
	}
	return fmt.Errorf("event %q is not allowed in dialogue state %q", event, before)
}

// Current returns the current state name.
func (m *turnMachine) Current() string {
	return string(m.interpreter.State().Value)
}
