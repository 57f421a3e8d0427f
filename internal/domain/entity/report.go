package entity

import "time"

// Incident report states as they move through moderation.
const (
	ReportReceived    = "received"
	ReportUnderReview = "under_review"
	ReportClosed      = "closed"
)

// Report is an incident report document. ReporterID is empty for anonymous
// submissions. Attachments are opaque blob references; the backend never
// reinterprets their contents.
type Report struct {
	ID          string    `bson:"_id"`
	ReporterID  string    `bson:"reporter_id,omitempty"`
	Category    string    `bson:"category"`
	Description string    `bson:"description"`
	Location    string    `bson:"location,omitempty"`
	Attachments []string  `bson:"attachments,omitempty"`
	Status      string    `bson:"status"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}
