package model

// PresetItem is a suggested food item to help a user get started. Measure is
// nil when the preset fits any kind of unit.
type PresetItem struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Measure *Measure `json:"measure,omitempty"`
}
