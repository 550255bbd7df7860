package collision

import "github.com/Tan-0321/HOSHI-WorkFlow/internal/hash"

// Tracker indexes column names by their xxHash64 ID.
// Header lines may repeat a name, so the tracker keeps every name positionally and
// resolves a lookup to the first column that carries it. Distinct names hashing to
// the same ID switch lookups to a linear scan.
type Tracker struct {
	firstIndex   map[uint64]int // ID → position of the first column with that ID
	names        []string       // Column names in header order
	duplicates   []string       // Names seen more than once, in order of first repeat
	hasCollision bool           // Whether two distinct names share an ID
}

// NewTracker creates a tracker sized for capacity columns.
func NewTracker(capacity int) *Tracker {
	return &Tracker{
		firstIndex: make(map[uint64]int, capacity),
		names:      make([]string, 0, capacity),
	}
}

// Track appends a column name and returns its position.
// duplicate is true when the same name was tracked before.
func (t *Tracker) Track(name string) (position int, duplicate bool) {
	position = len(t.names)
	id := hash.ColumnID(name)

	if first, exists := t.firstIndex[id]; exists {
		if t.names[first] == name {
			duplicate = true
			if !t.seenDuplicate(name) {
				t.duplicates = append(t.duplicates, name)
			}
		} else {
			t.hasCollision = true
		}
	} else {
		t.firstIndex[id] = position
	}
	t.names = append(t.names, name)

	return position, duplicate
}

// Lookup returns the position of the first column named name.
func (t *Tracker) Lookup(name string) (int, bool) {
	if t.hasCollision {
		for i, n := range t.names {
			if n == name {
				return i, true
			}
		}

		return -1, false
	}

	pos, ok := t.firstIndex[hash.ColumnID(name)]
	if !ok || t.names[pos] != name {
		return -1, false
	}

	return pos, true
}

// HasCollision returns true if two distinct names share an ID.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}

// Names returns the tracked names in header order.
func (t *Tracker) Names() []string {
	return t.names
}

// Duplicates returns the names that occur more than once.
func (t *Tracker) Duplicates() []string {
	return t.duplicates
}

// Count returns the number of tracked columns.
func (t *Tracker) Count() int {
	return len(t.names)
}

func (t *Tracker) seenDuplicate(name string) bool {
	for _, d := range t.duplicates {
		if d == name {
			return true
		}
	}

	return false
}
