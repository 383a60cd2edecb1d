package automation

import "time"

// CRMData is a mock sales system reading.
type CRMData struct {
	Sales  int `json:"sales"`
	Orders int `json:"orders"`
}

// DesktopActivity is a mock reading of the application a user is working in.
type DesktopActivity struct {
	ActiveApp   string `json:"active_app"`
	DurationMin int    `json:"duration_min"`
}

// CustomerService is a mock support desk reading.
type CustomerService struct {
	Tickets      int     `json:"tickets"`
	ResponseTime float64 `json:"response_time"`
}

// Feedback is the user's reaction to a deployment.
type Feedback struct {
	Satisfaction   int `json:"satisfaction"`
	IssuesReported int `json:"issues_reported"`
}

// RawData is one ingestion pass over all sources. Feedback carries the
// previous cycle's user feedback and is nil on the first cycle.
type RawData struct {
	Timestamp       time.Time       `json:"timestamp"`
	CRM             CRMData         `json:"crm"`
	Desktop         DesktopActivity `json:"desktop"`
	CustomerService CustomerService `json:"customer_service"`
	Feedback        *Feedback       `json:"feedback,omitempty"`
}

// Analysis lists the automation candidates found in one RawData.
type Analysis struct {
	Patterns  []string  `json:"patterns"`
	Timestamp time.Time `json:"timestamp"`
}

// Recommendation proposes an automation for a detected pattern.
type Recommendation struct {
	Name       string `json:"name"`
	Impact     string `json:"impact"`
	Complexity string `json:"complexity"`
}
