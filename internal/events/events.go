package events

import (
	"encoding/json"
	"time"

	"dealradar-engine/internal/domain"
)

// Event is the envelope pushed to SSE subscribers.
type Event struct {
	Type string    `json:"type"`
	At   time.Time `json:"at"`
	Data any       `json:"data,omitempty"`
}

func newEvent(typ string, data any) Event {
	return Event{Type: typ, At: time.Now().UTC(), Data: data}
}

// AdCreated fires once per newly ingested ad during a scan.
func AdCreated(id int64, title string) Event {
	return newEvent("ad_created", map[string]any{"id": id, "title": title})
}

// ScanFinished fires after a scan's evict/rescore/persist epilogue.
func ScanFinished(added, total int) Event {
	return newEvent("scan_finished", map[string]any{"added": added, "total": total})
}

// VoteApplied fires after a curator vote has retrained and rescored.
func VoteApplied(id int64, vote domain.Vote) Event {
	return newEvent("vote_applied", map[string]any{"id": id, "vote": vote})
}

// Ping keeps idle SSE connections alive.
func Ping() Event {
	return newEvent("ping", nil)
}

// JSON renders the event for the wire. Marshal cannot fail for the payloads
// built above.
func (e Event) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}
