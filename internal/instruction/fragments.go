package instruction

import (
	"strings"

	"pipeline/internal/domain"
)

// fragmentPair is one row of the flag→fix table: the positive half is
// appended to the positive instruction, the negative half to the negative
// instruction. Fragments are idempotent in effect, so duplicates across
// attempts are tolerated rather than deduplicated.
type fragmentPair struct {
	positive string
	negative string
}

// flagFixes maps every flag in the closed enumeration to its fix fragments.
// exhaustivenessCheck below keeps the table honest when the enumeration grows.
var flagFixes = map[domain.FlagKind]fragmentPair{
	domain.FlagPhotorealistic: {
		positive: "flat 2d vector illustration",
		negative: "photograph, photorealism, camera lens effects",
	},
	domain.FlagExcessiveDetail: {
		positive: "simplified forms, fewer elements",
		negative: "intricate detail, fine linework, ornamentation",
	},
	domain.FlagIllegibleType: {
		positive: "clear crisp legible typography",
		negative: "blurry text, distorted letters",
	},
	domain.FlagWrongStyle: {
		positive: "strictly follow the requested logo style",
		negative: "mixed styles, off-brief composition",
	},
	domain.FlagNonWhiteBG: {
		positive: "pure white background",
		negative: "colored background, scenery, backdrop",
	},
	domain.FlagDepthEffects: {
		positive: "completely flat design",
		negative: "3d depth, bevel, emboss, perspective",
	},
	domain.FlagUnwantedText: {
		positive: "no text or lettering anywhere in the image",
		negative: "text, letters, words, captions",
	},
	domain.FlagMissingText: {
		positive: "the brand text must appear prominently and legibly",
		negative: "missing text, empty nameplate",
	},
	domain.FlagVisualClutter: {
		positive: "clean uncluttered composition with generous negative space",
		negative: "clutter, overlapping elements, noise",
	},
	domain.FlagExcessiveGradient: {
		positive: "solid flat colors only",
		negative: "gradients, color blends, glows",
	},
	domain.FlagLowContrast: {
		positive: "strong contrast between mark and background",
		negative: "washed-out colors, low contrast",
	},
	domain.FlagPoorFraming: {
		positive: "mark centered with even margins on all sides",
		negative: "cropped edges, off-center composition",
	},
	domain.FlagWrongTextSpelled: {
		positive: "spell the brand text exactly as given, letter by letter",
		negative: "misspelled text, extra letters, missing letters",
	},
	domain.FlagUnknown: {
		positive: "cleaner simpler execution of the same brief",
		negative: "artifacts, glitches",
	},
}

// exhaustivenessCheck panics at init when a flag has no fix row, turning a
// forgotten table entry into an immediate test failure instead of a silent
// no-op refinement.
func init() {
	for _, f := range domain.AllFlags {
		if _, ok := flagFixes[f]; !ok {
			panic("instruction: no fix fragments for flag " + string(f))
		}
	}
}

// applyFixes is the deterministic refinement tier: it appends the fix
// fragments for every raised flag to a copy of the previous pair. For
// wrong_text_spelled it additionally injects a letter-spelled-out directive
// to bias the next generation toward correct spelling.
func applyFixes(prev domain.InstructionPair, flags domain.FlagSet, expectedText string) domain.InstructionPair {
	out := prev
	for _, f := range flags.Sorted() {
		fix, ok := flagFixes[f]
		if !ok {
			fix = flagFixes[domain.FlagUnknown]
		}
		out = out.Append(fix.positive, fix.negative)
	}
	if flags.Has(domain.FlagWrongTextSpelled) && expectedText != "" {
		out = out.Append("the text reads "+spellOut(expectedText), "")
	}
	return out
}

// spellOut renders "Acme" as `"Acme" spelled A-c-m-e`. Spaces split the
// hyphenated runs so multi-word names stay readable.
func spellOut(text string) string {
	words := strings.Fields(text)
	spelled := make([]string, len(words))
	for i, w := range words {
		letters := strings.Split(w, "")
		spelled[i] = strings.Join(letters, "-")
	}
	return "\"" + text + "\" spelled " + strings.Join(spelled, " ")
}
