package classifier

type Request struct {
	Frame any `json:"frame"`
}

type ErrorDetail struct {
	Message string `json:"message"`
}

type Result struct {
	// Scores is the per-class probability vector in fixed class order:
	// laughter, applause, silence, disapproval, excitement.
	Scores []float64   `json:"scores"`
	Error  ErrorDetail `json:"detail"`
}
