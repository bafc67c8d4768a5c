package matchModel

import "context"

type BlockType string

const (
	BlockTypeLine BlockType = "LINE"
	BlockTypeWord BlockType = "WORD"
	BlockTypePage BlockType = "PAGE"
)

// TextBlock is one unit of recognised text as returned by OCR.
type TextBlock struct {
	Type BlockType `json:"type"`
	Text string    `json:"text"`
}

// ObjectRef identifies a stored object, typically the one an event announced.
type ObjectRef struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

type MatchResult struct {
	JobTitle        string   `json:"job_title"`
	Company         string   `json:"company"`
	Location        string   `json:"location"`
	Salary          string   `json:"salary"`
	MatchPercentage float64  `json:"match_percentage"`
	MatchedSkills   []string `json:"matched_skills"`
	CareerPath      string   `json:"career_path"`
}

// RankedResultList is sorted by MatchPercentage, highest first. Equal
// percentages keep catalog order.
type RankedResultList []MatchResult

type IngestState string

const (
	StateReceived  IngestState = "Received"
	StateValidated IngestState = "Validated"
	StateExtracted IngestState = "Extracted"
	StateMatched   IngestState = "Matched"
	StatePersisted IngestState = "Persisted"
	StateSkipped   IngestState = "Skipped"
	StateFailed    IngestState = "Failed"
)

// Terminal reports whether no further transition can happen from s.
func (s IngestState) Terminal() bool {
	return s == StatePersisted || s == StateSkipped || s == StateFailed
}

// Outcome is what one ingestion reports back to its trigger.
type Outcome struct {
	Object    ObjectRef   `json:"object"`
	State     IngestState `json:"state"`
	ResultKey string      `json:"result_key,omitempty"`
	Matches   int         `json:"matches,omitempty"`
}

// Ingester processes one created object end to end.
type Ingester interface {
	Handle(ctx context.Context, ref ObjectRef) (Outcome, error)
}
