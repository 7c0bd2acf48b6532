package domain

type GenerationStatus string

const (
	StatusGenerating   GenerationStatus = "generating"
	StatusSegmentReady GenerationStatus = "segment_ready"
	StatusComplete     GenerationStatus = "complete"
	StatusError        GenerationStatus = "error"
)

// ProgressEvent is one unit of the generation stream. Non-terminal segment
// events carry strictly increasing progress in (0, 0.9]; the single terminal
// event carries either progress 1.0 and the artifact refs, or an error
// message.
type ProgressEvent struct {
	Status        GenerationStatus `json:"status"`
	SegmentIndex  int              `json:"segment_index"`
	TotalSegments int              `json:"total_segments"`
	SegmentRef    string           `json:"segment_url,omitempty"`
	Progress      float64          `json:"progress"`
	Message       string           `json:"message,omitempty"`
	DurationMs    int              `json:"duration_ms,omitempty"`
	CacheKey      CacheKey         `json:"cache_key,omitempty"`
	Files         *ArtifactRefs    `json:"files,omitempty"`
}

// Terminal reports whether the event ends the stream.
func (e ProgressEvent) Terminal() bool {
	return e.Status == StatusComplete || e.Status == StatusError
}
