package affine

import "fmt"

// Sequence applies its steps in order, first step first.
type Sequence struct {
	steps []*Affine
}

// NewSequence creates a sequence from steps.
func NewSequence(steps ...*Affine) *Sequence {
	return &Sequence{steps: append([]*Affine(nil), steps...)}
}

// Len returns the number of steps.
func (s *Sequence) Len() int { return len(s.steps) }

// Steps returns a copy of the steps.
func (s *Sequence) Steps() []*Affine {
	return append([]*Affine(nil), s.steps...)
}

// Append returns a new sequence with step added last.
func (s *Sequence) Append(step *Affine) *Sequence {
	return &Sequence{steps: append(s.Steps(), step)}
}

// Then returns a new sequence running s and then next.
func (s *Sequence) Then(next *Sequence) *Sequence {
	return &Sequence{steps: append(s.Steps(), next.steps...)}
}

// Apply maps a point through every step.
func (s *Sequence) Apply(pt []float64) ([]float64, error) {
	cur := pt
	for i, step := range s.steps {
		next, err := step.Apply(cur)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		cur = next
	}
	return cur, nil
}

// Compose collapses the sequence into one affine. An empty sequence has no
// defined dimensionality and returns ErrDimensionMismatch.
func (s *Sequence) Compose() (*Affine, error) {
	if len(s.steps) == 0 {
		return nil, fmt.Errorf("%w: empty sequence", ErrDimensionMismatch)
	}
	acc := s.steps[0]
	for i, step := range s.steps[1:] {
		next, err := acc.Then(step)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		acc = next
	}
	return acc, nil
}
