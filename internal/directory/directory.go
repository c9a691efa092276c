// Package directory holds the static physician roster and resolves
// transcribed physician names against it.
package directory

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Physician is a roster entry. IDs are opaque and stable for a process run.
type Physician struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DefaultThreshold is the minimum similarity ratio a spoken name must exceed
// before it is considered a match.
const DefaultThreshold = 0.5

// Directory is a read-only physician registry. It is safe for concurrent use
// because the roster never changes after construction.
type Directory struct {
	physicians []Physician
	threshold  float64
}

// New builds a directory from a roster. Roster order is significant: Resolve
// returns the first entry that clears the threshold, not the best-scoring one.
func New(roster []Physician, threshold float64) *Directory {
	if threshold <= 0 || threshold >= 1 {
		threshold = DefaultThreshold
	}
	out := make([]Physician, len(roster))
	copy(out, roster)
	return &Directory{physicians: out, threshold: threshold}
}

// DefaultRoster returns the built-in physician list used when no roster is
// configured.
func DefaultRoster() []Physician {
	return []Physician{
		{ID: 1, Name: "Dr. Smith"},
		{ID: 2, Name: "Dr. Jones"},
		{ID: 3, Name: "Dr. Allendorf"},
		{ID: 4, Name: "Dr. Paul"},
		{ID: 5, Name: "Dr. Sanchez"},
	}
}

// ParseRoster decodes a JSON roster of the form [{"id":1,"name":"Dr. Smith"}].
func ParseRoster(data []byte) ([]Physician, error) {
	var roster []Physician
	if err := json.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("directory: parse roster: %w", err)
	}
	if len(roster) == 0 {
		return nil, fmt.Errorf("directory: roster is empty")
	}
	for i, p := range roster {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("directory: roster entry %d has no name", i)
		}
	}
	return roster, nil
}

// ListNames returns every physician name in roster order.
func (d *Directory) ListNames() []string {
	names := make([]string, len(d.physicians))
	for i, p := range d.physicians {
		names[i] = p.Name
	}
	return names
}

// Resolve matches a spoken or transcribed name against the roster. The first
// entry whose similarity ratio exceeds the threshold wins, even if a later
// entry would score higher.
func (d *Directory) Resolve(spokenName string) (Physician, bool) {
	spoken := strings.TrimSpace(spokenName)
	if spoken == "" {
		return Physician{}, false
	}
	for _, p := range d.physicians {
		if matchRatio(p.Name, spoken) > d.threshold {
			return p, true
		}
	}
	return Physician{}, false
}
