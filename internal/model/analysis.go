package model

// AnalyzeTextRequest is the payload for running both text heuristics.
type AnalyzeTextRequest struct {
	Text string `json:"text" binding:"required,min=1,max=100000"`
}
