package models

import "time"

// Issue types a report can be classified as. The first entry doubles as the
// classifier's default when no endpoint is configured.
var IssueTypes = []string{"pothole", "garbage", "tree_fall"}

// Statuses a report can be in. New reports always start as StatusOpen.
var Statuses = []string{StatusOpen, StatusResolved, StatusFlagged}

const (
	StatusOpen     = "open"
	StatusResolved = "resolved"
	StatusFlagged  = "flagged"
)

// DefaultMimeType is assumed when an upload carries no content type.
const DefaultMimeType = "image/jpeg"

// ValidIssueType reports whether t is a known issue type
func ValidIssueType(t string) bool {
	for _, v := range IssueTypes {
		if v == t {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known report status
func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// Location is where a report was filed. Coordinates are optional; an empty
// form field is omitted rather than stored as zero.
type Location struct {
	Area      string   `json:"area,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Reporter is the optional contact info of a submitter. It is only ever
// returned on the admin surface.
type Reporter struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Report is one citizen-submitted civic issue record
type Report struct {
	ID            string    `json:"id"`
	ImageData     string    `json:"imageData,omitempty"`
	ImageMimeType string    `json:"imageMimeType"`
	IssueType     string    `json:"issueType"`
	Severity      int       `json:"severity"`
	Location      Location  `json:"location"`
	Reporter      *Reporter `json:"reporter,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Admin is an administrator account
type Admin struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"-"`
}

// LoginRequest is the admin login payload
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginData is the payload returned on a successful admin login
type LoginData struct {
	Token string    `json:"token"`
	Admin AdminInfo `json:"admin"`
}

// AdminInfo is the admin identity echoed back to the dashboard
type AdminInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// UpdateStatusRequest is the admin status mutation payload
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// BroadcastMessage wraps a report pushed to live-feed listeners
type BroadcastMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}
