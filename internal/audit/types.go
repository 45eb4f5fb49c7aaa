package audit

import "time"

// Action is the kind of recorded event.
type Action string

const (
	// ActionPromotion records a content item entering style_examples.
	ActionPromotion Action = "promotion"
	// ActionCollectionClear records an irreversible collection reset.
	ActionCollectionClear Action = "collection_clear"
	// ActionIngest records a knowledge ingestion run.
	ActionIngest Action = "ingest"
)

// Entry is one audit ledger record. The ledger lives in SQLite, outside
// the vector store, so it survives collection clears.
type Entry struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Action     Action    `json:"action"`
	Collection string    `json:"collection,omitempty"`
	Subject    string    `json:"subject,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	Score      float64   `json:"score,omitempty"`
}
