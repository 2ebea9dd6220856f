package domain

import "errors"

// Coordinate is a marker placed on a project's image, with free-text notes.
// Order within a project's list is display-significant.
type Coordinate struct {
	Lat  float64  `json:"lat"`
	Lng  float64  `json:"lng"`
	Note []string `json:"note"`
}

// Project represents a single bouldering-problem attempt.
// It is intentionally storage-agnostic and used across repository and HTTP layers.
type Project struct {
	ID        string `json:"_id,omitempty"`
	AccountID string `json:"account_id"`
	// Unix milliseconds of the attempt/creation time.
	DateTime int64 `json:"date_time"`
	// Unix milliseconds of the first successful send; present iff IsSent.
	SentDate    *int64       `json:"sent_date,omitempty"`
	ImagePath   string       `json:"image_path"`
	IsSent      bool         `json:"is_sent"`
	Attempts    int32        `json:"attempts"`
	Grade       string       `json:"grade"`
	IsActive    bool         `json:"is_active"`
	Coordinates []Coordinate `json:"coordinates"`
	Style       []string     `json:"style"`
	Holds       []string     `json:"holds"`
}

// SentFilter is the tri-state sent-status filter decoded once at the HTTP
// boundary. Anything other than "true"/"false" maps to SentAny.
type SentFilter int

const (
	SentAny SentFilter = iota
	SentOnly
	NotSentOnly
)

// ParseSentFilter decodes the legacy string sentinel.
func ParseSentFilter(s string) SentFilter {
	switch s {
	case "true":
		return SentOnly
	case "false":
		return NotSentOnly
	default:
		return SentAny
	}
}

// SendsSummary is the total number of sent projects plus per-grade counts of
// that subset.
type SendsSummary struct {
	Total   int64            `json:"total"`
	ByGrade map[string]int64 `json:"by_grade"`
}

// StyleSummary reports, for one style tag, how many sent and not-yet-sent
// projects carry it.
type StyleSummary struct {
	Style      string `json:"style"`
	Done       int64  `json:"done"`
	Practicing int64  `json:"practicing"`
}

var (
	// ErrMissingID marks an update or annotation save without a project id.
	ErrMissingID = errors.New("project id is required")

	// ErrBadID marks an id that is not a valid document identifier.
	ErrBadID = errors.New("malformed project id")
)
