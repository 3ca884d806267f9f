package api

// CharacterSummary describes a character in a transport-friendly format.
// Descriptions are markup-stripped for display.
type CharacterSummary struct {
	Number      int            `json:"number"`
	Type        string         `json:"type"`
	TypeLabel   string         `json:"typeLabel"`
	Description string         `json:"description"`
	Units       string         `json:"units,omitempty"`
	States      []StateSummary `json:"states,omitempty"`
	Mandatory   bool           `json:"mandatory,omitempty"`
	OmitFromKey bool           `json:"omitFromKey,omitempty"`
}

// StateSummary describes one state of a multistate character.
type StateSummary struct {
	Number      int    `json:"number"`
	Description string `json:"description"`
}

// ItemSummary describes a taxon with display-ready name text.
type ItemSummary struct {
	Number  int    `json:"number"`
	Name    string `json:"name"`
	Comment string `json:"comment,omitempty"`
}

// ValueOption pairs one distinct attribute value with the number of
// remaining items coded with it.
type ValueOption struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Proposal reports the next character worth asking about.
type Proposal struct {
	Character        CharacterSummary `json:"character"`
	DistinctValues   int              `json:"distinctValues"`
	SelectivityScore float64          `json:"selectivityScore"`
	RemainingItems   int              `json:"remainingItems"`
	Values           []ValueOption    `json:"values"`
}

// ProposalResponse wraps a proposal or the explicit no-candidate outcome.
type ProposalResponse struct {
	Proposal    *Proposal `json:"proposal,omitempty"`
	NoCandidate bool      `json:"noCandidate"`
}

// FilterRequest is the payload for applying one filter to a session.
type FilterRequest struct {
	Character int    `json:"character"`
	Value     string `json:"value"`
}

// IdentifyRequest is the payload for an automated identification run. A
// zero MaxSteps asks the server for its configured default.
type IdentifyRequest struct {
	MaxSteps int `json:"maxSteps,omitempty"`
}

// FilterEntry is one applied filter in a session's history.
type FilterEntry struct {
	Character int    `json:"character"`
	Value     string `json:"value"`
}

// FilterResult summarizes a session after a history mutation.
type FilterResult struct {
	SessionID      string `json:"sessionId"`
	FilterCount    int    `json:"filterCount"`
	RemainingCount int    `json:"remainingCount"`
}

// SessionState is the full view of a session: ordered history plus the
// recomputed remaining items.
type SessionState struct {
	SessionID      string        `json:"sessionId"`
	Filters        []FilterEntry `json:"filters"`
	RemainingCount int           `json:"remainingCount"`
	RemainingItems []ItemSummary `json:"remainingItems"`
}

// ValuesResponse is the distinct-value breakdown for one character.
type ValuesResponse struct {
	Character      CharacterSummary `json:"character"`
	RemainingItems int              `json:"remainingItems"`
	Values         []ValueOption    `json:"values"`
}

// IdentifyStep records one round of the automated identification loop.
type IdentifyStep struct {
	Character int    `json:"character"`
	Value     string `json:"value"`
	Remaining int    `json:"remaining"`
}

// IdentifyResult reports an automated identification run.
type IdentifyResult struct {
	SessionID      string         `json:"sessionId"`
	Steps          []IdentifyStep `json:"steps"`
	RemainingItems []ItemSummary  `json:"remainingItems"`
}

// StatsResponse summarizes the loaded dataset.
type StatsResponse struct {
	Characters   int `json:"characters"`
	States       int `json:"states"`
	Items        int `json:"items"`
	Attributes   int `json:"attributes"`
	Dependencies int `json:"dependencies"`
}

// SessionListResponse wraps stored session identifiers.
type SessionListResponse struct {
	Sessions []string `json:"sessions"`
}
