// Package models defines the provider-side profile document types.
//
// The entity-extraction provider sends dynamic-schema JSON; these structs
// model the recognized keys only. Unknown keys are ignored, not preserved,
// so the downstream graph mapping stays deterministic.
package models

// Payload is one document in the inbound batch: the provider's envelope
// around a list of extracted entities.
type Payload struct {
	Data []PayloadData `json:"data"`
}

// PayloadData wraps a single extracted entity.
type PayloadData struct {
	Entity Profile `json:"entity"`
}

// Profile is one person-profile document as delivered by the provider.
// Immutable once received; its lifecycle ends after mapping.
type Profile struct {
	EntityURI   string           `json:"entityUri"`
	NameDetail  *NameDetail      `json:"nameDetail"`
	Description string           `json:"description"`
	Summary     string           `json:"summary"`
	Origins     []string         `json:"origins"`
	Languages   []map[string]any `json:"languages"`
	Educations  []Education      `json:"educations"`
	Employments []Employment     `json:"employments"`
}

// NameDetail holds the split person name.
type NameDetail struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Employment is one employment record nested in a profile. It has no key of
// its own; it is identified implicitly by its (employer name, title) pair.
type Employment struct {
	IsCurrent   bool       `json:"isCurrent"`
	Employer    *Employer  `json:"employer"`
	Description string     `json:"description"`
	Location    *Location  `json:"location"`
	Title       string     `json:"title"`
	To          *EpochTime `json:"to"`
}

// Employer names the employing organization.
type Employer struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Location is the employment location as sent by the provider.
type Location struct {
	IsCurrent *bool  `json:"isCurrent"`
	Address   string `json:"address"`
}

// EpochTime is the provider's timestamp wrapper.
type EpochTime struct {
	Timestamp *int64 `json:"timestamp"`
}

// Education is carried through parsing but not persisted to the graph.
type Education struct {
	Institution map[string]any `json:"institution"`
	IsCurrent   *bool          `json:"isCurrent"`
	From        *EpochTime     `json:"from"`
	To          *EpochTime     `json:"to"`
}

// LanguageTags returns the normalized language values from the provider's
// language maps, skipping entries without a string normalizedValue.
func (p *Profile) LanguageTags() []string {
	tags := make([]string, 0, len(p.Languages))
	for _, lang := range p.Languages {
		if v, ok := lang["normalizedValue"].(string); ok && v != "" {
			tags = append(tags, v)
		}
	}
	return tags
}

// FirstName returns the profile's first name, or "" when nameDetail is absent.
func (p *Profile) FirstName() string {
	if p.NameDetail == nil {
		return ""
	}
	return p.NameDetail.FirstName
}

// LastName returns the profile's last name, or "" when nameDetail is absent.
func (p *Profile) LastName() string {
	if p.NameDetail == nil {
		return ""
	}
	return p.NameDetail.LastName
}

// EmployerName returns the employer name, or "" when no employer is attached.
func (e *Employment) EmployerName() string {
	if e.Employer == nil {
		return ""
	}
	return e.Employer.Name
}
