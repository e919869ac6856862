package entity

// CapturedEnvelope is the inbound request snapshot retained by test mode.
// File contents are not kept, only their metadata.
type CapturedEnvelope struct {
	Action  string                   `json:"action"`
	Params  map[string]interface{}   `json:"params"`
	Files   map[string]*UploadedFile `json:"files"`
	Headers map[string]string        `json:"headers"`
}

// TestSessionStatus is the poll result for the test-mode capture slot.
type TestSessionStatus struct {
	Active   bool              `json:"test_active"`
	Captured *CapturedEnvelope `json:"results,omitempty"`
}
