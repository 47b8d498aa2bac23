package entity

// GenerationResult is the outcome of one asset-pipeline run (QR or ticket stage).
type GenerationResult struct {
	Generated       int      `json:"generated"`
	Skipped         int      `json:"skipped"`
	Errors          []string `json:"errors,omitempty"`
	DurationSeconds float64  `json:"duration"`
}
