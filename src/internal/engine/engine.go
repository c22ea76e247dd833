// Package engine defines the contract between the renderer and a CSL
// processor. The processor evaluates citation styles; this side only
// feeds it data and drives its render calls.
package engine

// Output format names understood by SetOutputFormat. A processor starts
// in FormatHTML.
const (
	FormatHTML = "html"
	FormatRTF  = "rtf"
)

// DataProvider supplies item and locale data on the processor's request.
// The processor pulls; it is never handed data up front.
type DataProvider interface {
	// RetrieveItem returns the CSL-JSON fields for the given item id.
	RetrieveItem(id string) (map[string]any, error)
	// RetrieveLocale returns the raw locale XML for a language tag.
	RetrieveLocale(lang string) (string, error)
}

// Engine is one stateful processor instance bound to a style and a
// DataProvider. SetOutputFormat mutates the instance: every render call
// after it produces the new format. Instances are not safe for
// concurrent use.
type Engine interface {
	// UpdateItems declares the active item set for subsequent renders.
	UpdateItems(ids []string) error
	// MakeBibliography renders the active items as ordered bibliography
	// entries in the current output format.
	MakeBibliography() ([]string, error)
	// MakeCitationCluster renders an in-text citation fragment for ids
	// in the current output format.
	MakeCitationCluster(ids []string) (string, error)
	// SetOutputFormat switches the format of subsequent renders.
	SetOutputFormat(format string) error
}

// Factory constructs an Engine for one style. defaultLocale names the
// locale used when the style declares none; forceLocale makes it win
// over the style's own preference.
type Factory func(p DataProvider, style, defaultLocale string, forceLocale bool) (Engine, error)
