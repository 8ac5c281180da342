package models

// Record maps an identifier to a redirect destination.
// Records are written by the downstream worker and are read-only here.
type Record struct {
	ID          string  `json:"id"`
	Destination *string `json:"dst,omitempty"`
	UserID      string  `json:"user_id,omitempty"`
	Src         string  `json:"src,omitempty"`
	Start       float64 `json:"start,omitempty"`
	End         float64 `json:"end,omitempty"`
	ProcessHost string  `json:"process_host,omitempty"`
}

// Dst returns the destination and whether it is set to a non-empty value
func (r Record) Dst() (string, bool) {
	if r.Destination == nil || *r.Destination == "" {
		return "", false
	}

	return *r.Destination, true
}

// StrPtr returns a pointer to a copy of s
func StrPtr(s string) *string {
	return &s
}
