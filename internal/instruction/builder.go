// Package instruction builds and refines the positive/negative instruction
// pairs sent to the image generator.
package instruction

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"pipeline/internal/domain"
)

// negativeBoilerplate is appended to every style's negative instruction.
// It encodes the standing production constraints for logo concepts.
const negativeBoilerplate = "photograph, photorealistic rendering, 3d render, " +
	"drop shadows, gradients, busy background, textured background, watermark, " +
	"stock imagery, clip-art collage"

type styleTemplate struct {
	positive string // fmt template; see Build for the injected arguments
	negative string
}

// Per-style templates. Text-bearing templates receive the expected text,
// symbol-only templates forbid any text outright.
var styleTemplates = map[domain.StyleID]styleTemplate{
	domain.StyleWordmark: {
		positive: "minimal vector wordmark logo for %q, legible centered custom typography spelling %q",
		negative: "icons, mascots, pictorial elements",
	},
	domain.StyleMonogram: {
		positive: "elegant vector monogram logo with the letters %q for the brand %q, balanced letterform composition, centered",
		negative: "full words, long text, decorative borders",
	},
	domain.StyleMascot: {
		positive: "friendly vector mascot logo for %q with the brand name %q in legible centered text beneath the character",
		negative: "realistic anatomy, horror elements, excessive line detail",
	},
	domain.StylePictorial: {
		positive: "simple flat vector pictorial mark for %q, a single recognizable motif, no text",
		negative: "text, letters, words, typography of any kind",
	},
	domain.StyleAbstract: {
		positive: "abstract geometric vector mark for %q, one bold memorable shape, no text",
		negative: "text, letters, words, typography of any kind",
	},
	domain.StyleEmblem: {
		positive: "classic vector emblem badge logo for %q with the name %q integrated as legible centered text",
		negative: "photographic texture, tiny unreadable lettering",
	},
}

// Build produces the initial instruction pair for one style. Pure and
// deterministic; refinement never calls back into it.
func Build(spec domain.StyleSpec, brand domain.BrandContext) domain.InstructionPair {
	name := displayName(brand)
	tmpl, ok := styleTemplates[spec.ID]
	if !ok {
		tmpl = styleTemplate{positive: "minimal flat vector logo for %q"}
	}

	var positive string
	if spec.Category == domain.StyleCategoryTextBearing {
		subject := name
		if spec.TextRule == domain.TextRuleInitials {
			subject = spec.ExpectedText(brand)
		}
		positive = fmt.Sprintf(tmpl.positive, firstArg(spec, subject, name), name)
	} else {
		positive = fmt.Sprintf(tmpl.positive, name)
	}

	if brand.Aesthetic != "" {
		positive += ", " + strings.TrimSpace(brand.Aesthetic) + " aesthetic"
	}
	if len(brand.Palette) > 0 {
		positive += ", color palette " + strings.Join(brand.Palette, " and ")
	}
	positive += ", flat vector style, plain white background"

	negative := negativeBoilerplate
	if tmpl.negative != "" {
		negative = tmpl.negative + ", " + negative
	}

	return domain.InstructionPair{Positive: positive, Negative: negative}
}

// firstArg resolves the leading template argument: monograms lead with the
// letters, every other text-bearing style leads with the brand name.
func firstArg(spec domain.StyleSpec, subject, name string) string {
	if spec.TextRule == domain.TextRuleInitials {
		return subject
	}
	return name
}

func displayName(brand domain.BrandContext) string {
	name := brand.Normalized()
	if name == "" {
		return name
	}
	if name == strings.ToLower(name) {
		// All-lowercase intake is common; title-case it for the instruction.
		return cases.Title(language.Und).String(name)
	}
	return name
}
