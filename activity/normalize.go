// activity/normalize.go
package activity

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/avesguide/academy_api/shared"
)

// Normalize converts a raw activity payload into its canonical form. It is
// total: malformed or missing fields degrade to a payload that renders but
// can never judge correct, so a content-authoring defect never becomes a
// runtime fault.
func Normalize(activityType string, raw json.RawMessage) Payload {
	switch activityType {
	case shared.ActivityTypeQuizMultiple:
		return normalizeQuizMultiple(raw)
	case shared.ActivityTypeQuizTrueFalse:
		return normalizeTrueFalse(raw)
	case shared.ActivityTypeDragDrop:
		return normalizeDragDrop(raw)
	case shared.ActivityTypeMatching:
		return normalizeMatching(raw)
	default:
		// Unknown kind: unanswerable quiz with no options.
		return QuizMultiple{}
	}
}

type rawOption struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect *bool  `json:"isCorrect"`
	// legacy field name
	IsCorrectSnake *bool  `json:"is_correct"`
	Feedback       string `json:"feedback"`
}

type rawQuizMultiple struct {
	Options []rawOption `json:"options"`
}

func normalizeQuizMultiple(raw json.RawMessage) QuizMultiple {
	var payload rawQuizMultiple
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			return QuizMultiple{}
		}
	}

	options := make([]Option, 0, len(payload.Options))
	for i, opt := range payload.Options {
		id := opt.ID
		if id == "" {
			id = fmt.Sprintf("option-%d", i)
		}
		correct := false
		if opt.IsCorrect != nil {
			correct = *opt.IsCorrect
		} else if opt.IsCorrectSnake != nil {
			correct = *opt.IsCorrectSnake
		}
		options = append(options, Option{
			ID:        id,
			Text:      opt.Text,
			IsCorrect: correct,
			Feedback:  opt.Feedback,
		})
	}
	return QuizMultiple{Options: options}
}

type rawTrueFalse struct {
	CorrectAnswer json.RawMessage `json:"correct_answer"`
	IsTrue        *bool           `json:"is_true"`
}

func normalizeTrueFalse(raw json.RawMessage) TrueFalse {
	var payload rawTrueFalse
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			return TrueFalse{}
		}
	}
	answer, ok := resolveTrueFalse(payload)
	return TrueFalse{Answer: answer, Answerable: ok}
}

// resolveTrueFalse applies the one precedence rule for the correct boolean:
// correct_answer wins (accepting a boolean or the strings "true"/"false"),
// legacy is_true is consulted only when correct_answer is absent. Judging
// and display both flow through the TrueFalse payload this produces, so the
// two can never disagree.
func resolveTrueFalse(payload rawTrueFalse) (bool, bool) {
	if len(payload.CorrectAnswer) > 0 && string(payload.CorrectAnswer) != "null" {
		var b bool
		if err := json.Unmarshal(payload.CorrectAnswer, &b); err == nil {
			return b, true
		}
		var s string
		if err := json.Unmarshal(payload.CorrectAnswer, &s); err == nil {
			switch strings.ToLower(strings.TrimSpace(s)) {
			case "true":
				return true, true
			case "false":
				return false, true
			}
		}
		// correct_answer present but unusable: content defect, not a
		// fallback case.
		return false, false
	}
	if payload.IsTrue != nil {
		return *payload.IsTrue, true
	}
	return false, false
}

type rawDragItem struct {
	ID      string `json:"id"`
	Element string `json:"element"`
	Target  string `json:"target"`
	// legacy field names
	Term  string `json:"term"`
	Match string `json:"match"`
}

type rawDragDrop struct {
	Pairs json.RawMessage `json:"pairs"`
	Items json.RawMessage `json:"items"`
}

func normalizeDragDrop(raw json.RawMessage) DragDrop {
	var payload rawDragDrop
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			return DragDrop{}
		}
	}

	source := payload.Pairs
	if len(source) == 0 {
		source = payload.Items
	}
	if len(source) == 0 {
		return DragDrop{}
	}

	// Shape (b): explicit ordered list of {id, element, target} triples,
	// with term/match as historical aliases.
	var items []rawDragItem
	if err := json.Unmarshal(source, &items); err == nil {
		pairs := make([]Pair, 0, len(items))
		seen := map[string]bool{}
		for i, item := range items {
			element := item.Element
			if element == "" {
				element = item.Term
			}
			target := item.Target
			if target == "" {
				target = item.Match
			}
			pairs = append(pairs, Pair{
				ID:      uniqueID(item.ID, i, seen),
				Element: element,
				Target:  target,
			})
		}
		return DragDrop{Pairs: pairs}
	}

	// Shape (a): unordered element -> target mapping. Keys are sorted so
	// synthetic ids are stable across loads.
	var mapping map[string]string
	if err := json.Unmarshal(source, &mapping); err == nil {
		elements := make([]string, 0, len(mapping))
		for element := range mapping {
			elements = append(elements, element)
		}
		sort.Strings(elements)

		pairs := make([]Pair, 0, len(elements))
		seen := map[string]bool{}
		for i, element := range elements {
			pairs = append(pairs, Pair{
				ID:      uniqueID("", i, seen),
				Element: element,
				Target:  mapping[element],
			})
		}
		return DragDrop{Pairs: pairs}
	}

	return DragDrop{}
}

// uniqueID returns the given id, synthesizing "item-<index>" when absent and
// suffixing on collision. Every produced id is unique within the activity.
func uniqueID(id string, index int, seen map[string]bool) string {
	if id == "" {
		id = fmt.Sprintf("item-%d", index)
	}
	candidate := id
	for n := 2; seen[candidate]; n++ {
		candidate = fmt.Sprintf("%s-%d", id, n)
	}
	seen[candidate] = true
	return candidate
}

type rawMatchPair struct {
	ID    string `json:"id"`
	Term  string `json:"term"`
	Match string `json:"match"`
}

type rawMatching struct {
	Pairs []rawMatchPair `json:"pairs"`
}

func normalizeMatching(raw json.RawMessage) Matching {
	var payload rawMatching
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			return Matching{}
		}
	}

	pairs := make([]MatchPair, 0, len(payload.Pairs))
	seen := map[string]bool{}
	for i, pair := range payload.Pairs {
		pairs = append(pairs, MatchPair{
			ID:    uniqueID(pair.ID, i, seen),
			Term:  pair.Term,
			Match: pair.Match,
		})
	}
	return Matching{Pairs: pairs}
}
