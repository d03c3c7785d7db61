package domain

// SessionPhase is the edit-session state.
type SessionPhase string

// Session phases.
const (
	PhaseCapturing SessionPhase = "capturing"
	PhaseEditing   SessionPhase = "editing"
	PhaseReviewed  SessionPhase = "reviewed"
)

// PresetSource records which event last wrote the selected preset.
// Manual and country-driven selection share one field; the last write wins.
type PresetSource string

// Preset sources.
const (
	PresetSourceNone    PresetSource = ""
	PresetSourceDefault PresetSource = "default"
	PresetSourceManual  PresetSource = "manual"
	PresetSourceCountry PresetSource = "country"
)

// AppSession is a read-only snapshot of the interactive edit session.
type AppSession struct {
	Phase            SessionPhase
	Source           *SourceImage
	Service          *Service
	PresetID         string
	PresetSource     PresetSource
	CountryQuery     string
	Transform        EditTransform
	IsAnalyzing      bool
	PassedCompliance bool
	CheckoutPending  bool
}

// HasSource reports whether a source image is loaded.
func (s AppSession) HasSource() bool {
	return s.Source != nil && s.Source.Image != nil
}

// CountryResolution is the outcome of a country-query change.
type CountryResolution struct {
	// Query is the raw text entered.
	Query string

	// PresetID is the resolved preset, empty when nothing matched.
	PresetID string

	// Found is false for an informational "no preset found" state.
	Found bool

	// Applied is true when the resolved preset replaced the current selection.
	Applied bool
}
