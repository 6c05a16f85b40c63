package advance_status

// AdvanceStatusRequest HTTP request model
type AdvanceStatusRequest struct {
	Status string `json:"status"`
}
