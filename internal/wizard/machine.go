package wizard

// Next advances to the following step. The move is refused — and false
// returned — unless the active step is currently valid. Callers disable
// the affordance in the UI, but the machine guards the transition itself.
func (s *Store) Next() bool {
	idx := s.state.CurrentStep.Index()
	if idx < 0 || idx == len(Steps)-1 {
		return false
	}
	if !s.state.Status[s.state.CurrentStep].Valid {
		return false
	}
	target := Steps[idx+1]
	if err := ValidateTransition(s.state.CurrentStep, target); err != nil {
		return false
	}
	s.state.CurrentStep = target
	return true
}

// Prev moves one step back. Always allowed except from the first step.
func (s *Store) Prev() bool {
	idx := s.state.CurrentStep.Index()
	if idx <= 0 {
		return false
	}
	s.state.CurrentStep = Steps[idx-1]
	return true
}

// GoTo jumps directly to a step. Backward and sideways jumps are free;
// a forward jump requires every step before the target to be valid, so a
// vacuously-valid later step cannot be reached past an invalid one.
func (s *Store) GoTo(target Step) bool {
	targetIdx := target.Index()
	if targetIdx < 0 {
		return false
	}
	currentIdx := s.state.CurrentStep.Index()
	if targetIdx <= currentIdx {
		s.state.CurrentStep = target
		return true
	}
	for _, step := range Steps[:targetIdx] {
		if !s.state.Status[step].Valid {
			return false
		}
	}
	s.state.CurrentStep = target
	return true
}

// CanSubmit reports whether the terminal submit action is reachable: the
// wizard must sit on the review step and the review step must be valid.
func (s *Store) CanSubmit() bool {
	return s.state.CurrentStep == StepReview && s.state.Status[StepReview].Valid
}
