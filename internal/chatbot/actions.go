package chatbot

import (
	"regexp"
	"strconv"
	"strings"
)

// ActionKind says how a follow-up action is handled.
type ActionKind string

const (
	// ActionRelated opens another QnA record by id.
	ActionRelated ActionKind = "related"
	// ActionLink opens an external URL.
	ActionLink ActionKind = "link"
	// ActionPrompt re-submits the text as a new question.
	ActionPrompt ActionKind = "prompt"
)

// Action is one follow-up button attached to an answer.
type Action struct {
	Kind      ActionKind `json:"kind"`
	Label     string     `json:"label"`
	RelatedID int        `json:"relatedId,omitempty"`
}

var relatedIDPattern = regexp.MustCompile(`\[id(\d+)\]`)

// ParseActions splits a record's action text into one action per non-blank line.
func ParseActions(text string) []Action {
	var actions []Action
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		actions = append(actions, classifyAction(line))
	}
	return actions
}

func classifyAction(line string) Action {
	if m := relatedIDPattern.FindStringSubmatch(line); m != nil {
		if id, err := strconv.Atoi(m[1]); err == nil {
			return Action{Kind: ActionRelated, Label: line, RelatedID: id}
		}
	}
	if strings.Contains(line, "http") {
		return Action{Kind: ActionLink, Label: line}
	}
	return Action{Kind: ActionPrompt, Label: line}
}
