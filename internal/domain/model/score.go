package model

// StyleScore is the aggregated outcome for a single style category.
type StyleScore struct {
	Category   string `json:"category"`
	RawPoints  int    `json:"raw_points"`
	Percentage int    `json:"percentage"`
	Rank       int    `json:"rank"`
}

// ScoringResult is the terminal classification for a session: the dominant
// style plus ranked runners-up.
type ScoringResult struct {
	PrimaryStyle    StyleScore   `json:"primary_style"`
	SecondaryStyles []StyleScore `json:"secondary_styles"`
	TotalPoints     int          `json:"total_points"`
}
