package models

// Answer is the terminal artifact returned to callers of the orchestrator.
// HumanizedAnswer holds the narrative plus, when news evidence was used, an
// appended plain-text citation block. Downstream formatting treats it as
// semi-structured text with "=" framed section markers.
type Answer struct {
	SelectedQuestion string `json:"selected_question"`
	HumanizedAnswer  string `json:"humanized_answer"`
}
