package domain

import "time"

// Vote is the curator's judgment on a listing.
type Vote string

const (
	VoteNone     Vote = ""
	VotePositive Vote = "pos"
	VoteNegative Vote = "neg"
)

// ParseVote maps the wire value ("pos"/"neg") to a Vote.
func ParseVote(s string) (Vote, bool) {
	switch Vote(s) {
	case VotePositive:
		return VotePositive, true
	case VoteNegative:
		return VoteNegative, true
	}
	return VoteNone, false
}

type Location struct {
	City string  `json:"city,omitempty"`
	Lat  float64 `json:"lat,omitempty"`
	Lng  float64 `json:"lng,omitempty"`
}

// Ad is one observed marketplace listing. The JSON shape is also the
// persisted snapshot shape, so renaming a tag is a storage migration.
type Ad struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	URL         string    `json:"url"`
	Location    *Location `json:"location,omitempty"`
	DistanceKm  int       `json:"distanceKm"`
	PublishedAt string    `json:"publishedAt,omitempty"`
	// DiscoveredAt is set once at first ingestion and drives eviction.
	DiscoveredAt time.Time `json:"discoveredAt"`
	Image        string    `json:"image,omitempty"`
	// AIScore is the classifier probability for the title, scaled to 0-100.
	AIScore  int  `json:"aiScore"`
	UserVote Vote `json:"userVote,omitempty"`
}
