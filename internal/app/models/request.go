package models

// ProcessingRequest is the unit of work handed to the clip processing topic.
// Field order defines the order of the published JSON document.
type ProcessingRequest struct {
	UserID string  `json:"user_id"`
	Src    string  `json:"src"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
}
