package domain

import "sort"

// FlagKind is a structured reason a candidate image failed part of the
// rubric. The enumeration is closed: adapters must map free-form evaluator
// output onto these values, falling back to FlagUnknown.
type FlagKind string

const (
	FlagPhotorealistic    FlagKind = "photorealistic_instead_of_vector"
	FlagExcessiveDetail   FlagKind = "excessive_detail"
	FlagIllegibleType     FlagKind = "illegible_typography"
	FlagWrongStyle        FlagKind = "wrong_style_category"
	FlagNonWhiteBG        FlagKind = "non_white_background"
	FlagDepthEffects      FlagKind = "depth_effects_present"
	FlagUnwantedText      FlagKind = "unwanted_text_present"
	FlagMissingText       FlagKind = "missing_required_text"
	FlagVisualClutter     FlagKind = "visual_clutter"
	FlagExcessiveGradient FlagKind = "excessive_gradient_use"
	FlagLowContrast       FlagKind = "low_contrast"
	FlagPoorFraming       FlagKind = "poor_framing"
	FlagWrongTextSpelled  FlagKind = "wrong_text_spelled"
	FlagUnknown           FlagKind = "unknown"
)

// AllFlags lists every known flag except FlagUnknown, which is reserved for
// adapter failures rather than rubric findings.
var AllFlags = []FlagKind{
	FlagPhotorealistic,
	FlagExcessiveDetail,
	FlagIllegibleType,
	FlagWrongStyle,
	FlagNonWhiteBG,
	FlagDepthEffects,
	FlagUnwantedText,
	FlagMissingText,
	FlagVisualClutter,
	FlagExcessiveGradient,
	FlagLowContrast,
	FlagPoorFraming,
	FlagWrongTextSpelled,
}

// ParseFlag maps a string onto the closed enumeration. The second return
// value is false for names outside the enumeration.
func ParseFlag(s string) (FlagKind, bool) {
	for _, f := range AllFlags {
		if s == string(f) {
			return f, true
		}
	}
	if s == string(FlagUnknown) {
		return FlagUnknown, true
	}
	return "", false
}

// FlagSet is an unordered collection of flags.
type FlagSet map[FlagKind]struct{}

// NewFlagSet builds a set from the given flags.
func NewFlagSet(flags ...FlagKind) FlagSet {
	fs := make(FlagSet, len(flags))
	for _, f := range flags {
		fs[f] = struct{}{}
	}
	return fs
}

func (fs FlagSet) Has(f FlagKind) bool {
	_, ok := fs[f]
	return ok
}

// Add returns a set containing f. The receiver is not mutated when nil.
func (fs FlagSet) Add(f FlagKind) FlagSet {
	if fs == nil {
		return NewFlagSet(f)
	}
	fs[f] = struct{}{}
	return fs
}

// Sorted returns the flags in lexical order for stable logging and prompts.
func (fs FlagSet) Sorted() []FlagKind {
	out := make([]FlagKind, 0, len(fs))
	for f := range fs {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Strings returns the sorted flags as plain strings.
func (fs FlagSet) Strings() []string {
	flags := fs.Sorted()
	out := make([]string, len(flags))
	for i, f := range flags {
		out[i] = string(f)
	}
	return out
}
