package league

import (
	"errors"
	"time"
)

// ErrConflict reports that a concurrent writer changed the collection and the
// repository gave up retrying.
var ErrConflict = errors.New("league collection write conflict")

// League is a registered league with its age-group birthdate ranges.
type League struct {
	ID             string
	Name           string
	NumberOfGroups int
	AgeGroups      []AgeGroup
}

// AgeGroup is a named birthdate range. Start and End are calendar dates and
// either may be absent. End is allowed to precede Start.
type AgeGroup struct {
	Name           string
	BirthdateStart *time.Time
	BirthdateEnd   *time.Time
}

// Clone returns a deep copy so stored records never alias caller memory.
func (l League) Clone() League {
	copied := l
	if l.AgeGroups == nil {
		copied.AgeGroups = []AgeGroup{}
		return copied
	}

	copied.AgeGroups = make([]AgeGroup, len(l.AgeGroups))
	for i, g := range l.AgeGroups {
		copied.AgeGroups[i] = AgeGroup{
			Name:           g.Name,
			BirthdateStart: cloneDate(g.BirthdateStart),
			BirthdateEnd:   cloneDate(g.BirthdateEnd),
		}
	}

	return copied
}

func cloneDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
