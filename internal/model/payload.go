package model

import (
	"fmt"
	"strings"
)

// Payload field names, in the order they are rendered.
const (
	FieldLatestMessage = "Latest_Patient_Message"
	FieldTimeRemaining = "Time_Left_In_Session"
	FieldSessionLabel  = "Current_Session"
	FieldHistory       = "Patient_History"
)

// PayloadFieldNames lists every mandated payload field.
var PayloadFieldNames = []string{
	FieldLatestMessage,
	FieldTimeRemaining,
	FieldSessionLabel,
	FieldHistory,
}

// EnhancedPayload is the context-augmented structure sent in place of raw user text.
type EnhancedPayload struct {
	LatestMessage string `json:"latest_message" yaml:"latest_message"`
	TimeRemaining string `json:"time_remaining" yaml:"time_remaining"`
	SessionLabel  string `json:"session_label" yaml:"session_label"`
	History       string `json:"history" yaml:"history"`
}

// Field is a single name/value pair of the payload.
type Field struct {
	Name  string
	Value string
}

// Fields returns the payload as an ordered name/value list.
func (p EnhancedPayload) Fields() []Field {
	return []Field{
		{Name: FieldLatestMessage, Value: p.LatestMessage},
		{Name: FieldTimeRemaining, Value: p.TimeRemaining},
		{Name: FieldSessionLabel, Value: p.SessionLabel},
		{Name: FieldHistory, Value: p.History},
	}
}

// Render produces the prompt text, one "Name: {value};" block per field.
func (p EnhancedPayload) Render() string {
	blocks := make([]string, 0, len(PayloadFieldNames))
	for _, f := range p.Fields() {
		blocks = append(blocks, fmt.Sprintf("%s: {%s};", f.Name, f.Value))
	}
	return strings.Join(blocks, "\n\n")
}
