package wizard

import "fmt"

// Step is one of the four sequential wizard phases. The order is fixed.
type Step string

const (
	StepProperty Step = "property"
	StepUnits    Step = "units"
	StepListings Step = "listings"
	StepReview   Step = "review"
)

// Steps lists the phases in wizard order.
var Steps = []Step{StepProperty, StepUnits, StepListings, StepReview}

// stepTransitions is the adjacency map for Next/Prev moves.
var stepTransitions = map[Step][]Step{
	StepProperty: {StepUnits},
	StepUnits:    {StepProperty, StepListings},
	StepListings: {StepUnits, StepReview},
	StepReview:   {StepListings},
}

// Index returns the step's position in wizard order, or -1 for an unknown
// step.
func (s Step) Index() int {
	for i, step := range Steps {
		if step == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s names a real wizard step.
func (s Step) Valid() bool { return s.Index() >= 0 }

// ValidateTransition checks whether moving from current to target is
// allowed by the adjacency map. It returns nil for a legal move, or a
// descriptive error otherwise.
func ValidateTransition(current, target Step) error {
	allowed, ok := stepTransitions[current]
	if !ok {
		return fmt.Errorf("unknown current step: %s", current)
	}
	for _, s := range allowed {
		if s == target {
			return nil
		}
	}
	return fmt.Errorf("transition from %q to %q is not allowed", current, target)
}
