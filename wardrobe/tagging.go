package wardrobe

import "fmt"

// TaggingStep names the state of a tagging wizard session.
type TaggingStep string

const (
	StepSelectingCategory TaggingStep = "selecting_category"
	StepTaggingItem       TaggingStep = "tagging_item"
	StepDone              TaggingStep = "done"
)

// TaggingSession is the explicit state of a multi-step tagging flow over a
// batch of untagged items. Sessions are values: every transition returns a
// new session and leaves the receiver untouched, so a caller can hold on to
// an earlier step (e.g. to implement "back") without surprises.
type TaggingSession struct {
	Step      TaggingStep
	Pending   map[Category][]Item
	Category  Category
	Current   Item
	Collected map[Category]map[string]TagRecord
}

// NewTaggingSession starts a session over the given untagged items. An
// empty batch starts (and therefore ends) in the Done step.
func NewTaggingSession(untagged map[Category][]Item) TaggingSession {
	s := TaggingSession{
		Step:      StepSelectingCategory,
		Pending:   make(map[Category][]Item),
		Collected: make(map[Category]map[string]TagRecord),
	}
	remaining := 0
	for cat, items := range untagged {
		if len(items) == 0 {
			continue
		}
		s.Pending[cat] = append([]Item{}, items...)
		remaining += len(items)
	}
	if remaining == 0 {
		s.Step = StepDone
	}
	return s
}

func (s TaggingSession) clone() TaggingSession {
	next := s
	next.Pending = make(map[Category][]Item, len(s.Pending))
	for cat, items := range s.Pending {
		next.Pending[cat] = append([]Item{}, items...)
	}
	next.Collected = make(map[Category]map[string]TagRecord, len(s.Collected))
	for cat, records := range s.Collected {
		copied := make(map[string]TagRecord, len(records))
		for identity, record := range records {
			copied[identity] = record
		}
		next.Collected[cat] = copied
	}
	return next
}

// SelectCategory moves the session onto the first pending item of the
// chosen category.
func (s TaggingSession) SelectCategory(cat Category) (TaggingSession, error) {
	if s.Step != StepSelectingCategory {
		return s, fmt.Errorf("tagging session: cannot select category in step %q", s.Step)
	}
	if len(s.Pending[cat]) == 0 {
		return s, fmt.Errorf("tagging session: no pending items in category %q", cat)
	}
	next := s.clone()
	next.Step = StepTaggingItem
	next.Category = cat
	next.Current = next.Pending[cat][0]
	return next, nil
}

// ApplyTags records the tag for the current item and advances: to the next
// item of the same category if one is pending, back to category selection
// if other categories still hold items, or to Done.
func (s TaggingSession) ApplyTags(record TagRecord) (TaggingSession, error) {
	if s.Step != StepTaggingItem {
		return s, fmt.Errorf("tagging session: cannot apply tags in step %q", s.Step)
	}
	next := s.clone()
	if next.Collected[next.Category] == nil {
		next.Collected[next.Category] = make(map[string]TagRecord)
	}
	next.Collected[next.Category][next.Current.Identity()] = record
	next.Pending[next.Category] = next.Pending[next.Category][1:]
	if len(next.Pending[next.Category]) == 0 {
		delete(next.Pending, next.Category)
	}

	switch {
	case len(next.Pending[next.Category]) > 0:
		next.Current = next.Pending[next.Category][0]
	case len(next.Pending) > 0:
		next.Step = StepSelectingCategory
		next.Category = ""
		next.Current = nil
	default:
		next.Step = StepDone
		next.Category = ""
		next.Current = nil
	}
	return next, nil
}

// Remaining counts items still awaiting tags.
func (s TaggingSession) Remaining() int {
	total := 0
	for _, items := range s.Pending {
		total += len(items)
	}
	return total
}
