package domain

// ScoreMax is the top of the evaluation scale: four rubric dimensions of
// 0-25 each.
const ScoreMax = 100

// EvaluationResult is the outcome of scoring one generated image against a
// style rubric.
type EvaluationResult struct {
	Score int
	Flags FlagSet
	Notes string
}

// TextCheckResult records the text-fidelity gate for one attempt. Present
// only for text-bearing styles with a non-empty expected text.
type TextCheckResult struct {
	Matched        bool
	RecognizedText string
}
