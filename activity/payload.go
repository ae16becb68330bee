// activity/payload.go
package activity

import (
	"github.com/avesguide/academy_api/shared"
)

// Option is one selectable answer in a multiple-choice quiz.
type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
	Feedback  string `json:"feedback,omitempty"`
}

// Pair is one normalized drag-and-drop item: Element must end up on the
// target belonging to the same ID.
type Pair struct {
	ID      string `json:"id"`
	Element string `json:"element"`
	Target  string `json:"target"`
}

// MatchPair is one term/definition pair in a matching activity.
type MatchPair struct {
	ID    string `json:"id"`
	Term  string `json:"term"`
	Match string `json:"match"`
}

// Response is the learner's input for one activity. Only the field for the
// activity's kind is consulted.
type Response struct {
	// quiz_multiple: id of the selected option
	OptionID string `json:"option_id,omitempty"`
	// quiz_true_false: the selected boolean (button tap or swipe gesture,
	// both resolve to the same value)
	Selection *bool `json:"selection,omitempty"`
	// drag_drop: target pair id -> id of the item placed there
	Placements map[string]string `json:"placements,omitempty"`
	// matching: term id -> chosen match id
	Connections map[string]string `json:"connections,omitempty"`
}

// Payload is the canonical, normalized form of one activity. Judge and
// Ready are pure: identical (payload, response) pairs always yield
// identical results, regardless of prior retries.
type Payload interface {
	Kind() string
	// Ready reports whether enough input has been given to judge. It gates
	// the submit control for submit-gated kinds.
	Ready(r Response) bool
	// Judge reports whether the response is correct. It never errors: a
	// malformed payload simply can never judge true.
	Judge(r Response) bool
}

// QuizMultiple holds single-selection multiple-choice options.
type QuizMultiple struct {
	Options []Option
}

func (QuizMultiple) Kind() string { return shared.ActivityTypeQuizMultiple }

func (p QuizMultiple) Ready(r Response) bool { return r.OptionID != "" }

func (p QuizMultiple) Judge(r Response) bool {
	for _, opt := range p.Options {
		if opt.ID == r.OptionID {
			return opt.IsCorrect
		}
	}
	return false
}

// HasCorrectOption reports whether the payload is answerable at all. A quiz
// authored without a correct option renders but can never be completed.
func (p QuizMultiple) HasCorrectOption() bool {
	for _, opt := range p.Options {
		if opt.IsCorrect {
			return true
		}
	}
	return false
}

// TrueFalse holds the resolved correct boolean. Answerable is false when the
// payload carried neither a usable correct_answer nor is_true field; such an
// activity can never judge correct.
type TrueFalse struct {
	Answer     bool
	Answerable bool
}

func (TrueFalse) Kind() string { return shared.ActivityTypeQuizTrueFalse }

func (p TrueFalse) Ready(r Response) bool { return r.Selection != nil }

func (p TrueFalse) Judge(r Response) bool {
	if !p.Answerable || r.Selection == nil {
		return false
	}
	return *r.Selection == p.Answer
}

// CorrectAnswer is the single source of truth for UI highlighting of the
// right choice. It returns the same resolved value Judge compares against.
func (p TrueFalse) CorrectAnswer() (bool, bool) {
	return p.Answer, p.Answerable
}

// DragDrop holds normalized element/target pairs.
type DragDrop struct {
	Pairs []Pair
}

func (DragDrop) Kind() string { return shared.ActivityTypeDragDrop }

func (p DragDrop) Ready(r Response) bool {
	return len(p.Pairs) > 0 && len(r.Placements) == len(p.Pairs)
}

// Judge is correct iff every item was reunited with its own original
// target: the placement at each pair's target must be that pair's own id.
func (p DragDrop) Judge(r Response) bool {
	if !p.Ready(r) {
		return false
	}
	for _, pair := range p.Pairs {
		if r.Placements[pair.ID] != pair.ID {
			return false
		}
	}
	return true
}

// Matching holds term/definition pairs.
type Matching struct {
	Pairs []MatchPair
}

func (Matching) Kind() string { return shared.ActivityTypeMatching }

func (p Matching) Ready(r Response) bool {
	return len(p.Pairs) > 0 && len(r.Connections) == len(p.Pairs)
}

func (p Matching) Judge(r Response) bool {
	if !p.Ready(r) {
		return false
	}
	for _, pair := range p.Pairs {
		if r.Connections[pair.ID] != pair.ID {
			return false
		}
	}
	return true
}
