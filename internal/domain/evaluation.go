package domain

// ─── Evaluation Types ───────────────────────────────────────────────────────
// A case pairs a trip with the amount the legacy system actually paid.

// Case is one labelled example from a cases file.
type Case struct {
	Input          Trip    `json:"input" yaml:"input"`
	ExpectedOutput float64 `json:"expected_output" yaml:"expected_output"`
}

// CaseResult is a case after pricing. Actual is rounded to cents, as printed.
type CaseResult struct {
	Index      int     `json:"index"`
	Trip       Trip    `json:"trip"`
	Expected   float64 `json:"expected"`
	Actual     float64 `json:"actual"`
	Error      float64 `json:"error"`
	Path       Path    `json:"path"`
	LuckyCents bool    `json:"lucky_cents"`
}

// EvalSummary aggregates a run.
type EvalSummary struct {
	Cases        int     `json:"cases"`
	ExactMatches int     `json:"exact_matches"`
	CloseMatches int     `json:"close_matches"`
	AvgError     float64 `json:"avg_error"`
	MaxError     float64 `json:"max_error"`
	Score        float64 `json:"score"`
}

// PathStats aggregates results that share a pricing path.
type PathStats struct {
	Path     Path    `json:"path"`
	Cases    int     `json:"cases"`
	AvgError float64 `json:"avg_error"`
}
