package domain

import "strings"

// InstructionPair carries the positive and negative halves of a generation
// instruction. Pairs are value types: refinement always produces a new pair
// so the attempt history stays inspectable.
type InstructionPair struct {
	Positive string
	Negative string
}

// Append returns a new pair with the fragments appended to each half. Empty
// fragments leave the corresponding half untouched.
func (p InstructionPair) Append(positive, negative string) InstructionPair {
	out := p
	if positive != "" {
		out.Positive = joinFragment(out.Positive, positive)
	}
	if negative != "" {
		out.Negative = joinFragment(out.Negative, negative)
	}
	return out
}

func joinFragment(base, fragment string) string {
	base = strings.TrimRight(strings.TrimSpace(base), ",")
	if base == "" {
		return fragment
	}
	return base + ", " + fragment
}
