package rate_entry

// RateEntryRequest HTTP request model
type RateEntryRequest struct {
	Rating   int     `json:"rating"`
	Feedback *string `json:"feedback,omitempty"`
}
