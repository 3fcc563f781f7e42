package domain

import "strings"

// Item type discriminators as emitted by the generation prompt.
const (
	ItemTypeMultiple   = "multiple"
	ItemTypeTrueFalse  = "truefalse"
	ItemTypeSubjective = "subjective"
)

// Option is a single multiple-choice option. IDs are single lowercase
// letters starting at "a", unique within one item.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Item is the canonical quiz question unit, one element of a generated
// batch. Answer is polymorphic: an option id string for multiple items,
// a bool for truefalse items, free text for subjective items.
type Item struct {
	Number      int      `json:"question_num,omitempty"`
	Type        string   `json:"type"`
	Text        string   `json:"text"`
	Answer      any      `json:"answer"`
	Explanation string   `json:"explanation"`
	Options     []Option `json:"options,omitempty"`
}

// AnswerID returns the declared answer as an option id, lower-cased.
// ok is false when the answer is not a string.
func (it *Item) AnswerID() (string, bool) {
	s, ok := it.Answer.(string)
	if !ok {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(s)), true
}

// OptionByID returns the option whose id matches, or nil.
func (it *Item) OptionByID(id string) *Option {
	for i := range it.Options {
		if it.Options[i].ID == id {
			return &it.Options[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the item. Repair works on copies so a
// failed sub-step can fall back to the untouched original.
func (it *Item) Clone() *Item {
	cp := *it
	if it.Options != nil {
		cp.Options = make([]Option, len(it.Options))
		copy(cp.Options, it.Options)
	}
	return &cp
}

// Batch is an ordered sequence of items produced by one generation
// request and tagged with the batch identifier under which it is stored.
// Unit1..Unit3 carry the curriculum unit the request targeted.
type Batch struct {
	BatchID string
	UserID  string
	Unit1   string
	Unit2   string
	Unit3   string
	Items   []Item
}
