package simserver

// VenueInfo names one venue.
type VenueInfo struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ListVenuesRequest has no fields.
type ListVenuesRequest struct{}

// ListVenuesResponse lists venues in table order.
type ListVenuesResponse struct {
	Venues []VenueInfo `json:"venues"`
}

// SelectionRequest identifies a venue (display name or slug) and a partial
// encounter selection. Unset slots are empty strings.
type SelectionRequest struct {
	Venue     string   `json:"venue"`
	Selection []string `json:"selection"`
}

// ChoicesResponse carries the permissible names for each of the four slots.
type ChoicesResponse struct {
	Choices [][]string `json:"choices"`
	// Valid reports whether the selection already names a sanctioned encounter.
	Valid bool `json:"valid"`
}

// ValidateResponse reports whether a selection is a sanctioned encounter.
type ValidateResponse struct {
	Valid bool `json:"valid"`
}

// Combatant describes a dragon or monster on the wire. Ambush is ignored
// for monsters.
type Combatant struct {
	Name      string `json:"name"`
	Quickness int    `json:"quickness"`
	Ambush    int    `json:"ambush,omitempty"`
}

// CommitResponse lists the monsters an encounter commits, in selection
// order, and the names skipped for lack of monster data.
type CommitResponse struct {
	Monsters []Combatant `json:"monsters"`
	Skipped  []string    `json:"skipped,omitempty"`
}

// CalculateRequest is one scheduler run.
type CalculateRequest struct {
	Dragons  []Combatant `json:"dragons"`
	Monsters []Combatant `json:"monsters"`
	Rounds   int         `json:"rounds"`
}

// TurnEvent is one action in the turn log.
type TurnEvent struct {
	Round    int    `json:"round"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Ambush   bool   `json:"ambush,omitempty"`
}

// CalculateResponse is the turn order. A rejected round count is reported
// with OK false and Error set rather than as an RPC failure.
type CalculateResponse struct {
	OK       bool        `json:"ok"`
	Error    string      `json:"error,omitempty"`
	Turns    []string    `json:"turns"`
	Events   []TurnEvent `json:"events,omitempty"`
	TurnCost int         `json:"turn_cost"`
}

// VenueRequest names a venue by display name or slug.
type VenueRequest struct {
	Venue string `json:"venue"`
}

// ReloadVenueResponse summarizes the freshly loaded catalog.
type ReloadVenueResponse struct {
	Venue      VenueInfo `json:"venue"`
	Monsters   int       `json:"monsters"`
	Encounters int       `json:"encounters"`
}
