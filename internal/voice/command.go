// Package voice turns free-text laundry commands into structured booking
// intents. Parsing is a fixed cascade of keyword and pattern rules; it never
// fails, it only degrades to lower confidence when fields cannot be
// extracted.
package voice

// Intent classifies what the speaker wants to do.
type Intent string

const (
	IntentBook         Intent = "book"
	IntentCancel       Intent = "cancel"
	IntentListServices Intent = "list_services"
	IntentStatus       Intent = "status"
	// IntentNone means the text was not recognized.
	IntentNone Intent = ""
)

// Command is the structured result of parsing one utterance. Absent fields
// are empty strings (or false); they are data for the caller's follow-up
// dialogue, not errors.
type Command struct {
	Original   string  `json:"original"`
	Intent     Intent  `json:"intent"`
	Service    string  `json:"service"`
	Date       string  `json:"date"` // YYYY-MM-DD
	Time       string  `json:"time"` // HH:00, 24-hour
	Express    bool    `json:"express"`
	Confidence float64 `json:"confidence"`
}
