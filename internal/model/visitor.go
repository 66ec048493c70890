package model

import "time"

// Visitor is a site-visit record keyed by browser fingerprint
type Visitor struct {
	Fingerprint string
	IPAddress   string
	UserAgent   string
	FirstSeen   time.Time
	LastSeen    time.Time
}
