// Package model defines the report structures caretctx produces.
package model

// FindingKind says how a value was recognised as an endpoint URI.
type FindingKind string

const (
	// Call is a string argument of an endpoint method.
	Call FindingKind = "call"
	// Attribute is a markup attribute listed in endpoint_attributes.
	Attribute FindingKind = "attribute"
	// Setter is a bean property set through a setter or <property> tag.
	Setter FindingKind = "setter"
	// Annotation is an argument of an endpoint annotation.
	Annotation FindingKind = "annotation"
	// Value is a URI-shaped properties or YAML value.
	Value FindingKind = "value"
)

// Finding is one endpoint URI occurrence.
type Finding struct {
	File   string      `yaml:"file"`
	Line   int         `yaml:"line"`
	Column int         `yaml:"column"`
	Kind   FindingKind `yaml:"kind"`
	// Call is the method, tag, annotation or key the value belongs to.
	Call  string `yaml:"call"`
	Value string `yaml:"value"`
}

// FileInfo holds the findings of a single source file.
type FileInfo struct {
	Path     string    `yaml:"path"`
	Language string    `yaml:"language"`
	Findings []Finding `yaml:"findings,omitempty"`
	Rank     float64   `yaml:"rank"`
}

// Link is an edge in the endpoint graph: Source produces to endpoints that
// Target consumes from.
type Link struct {
	Source    string   `yaml:"source"`
	Target    string   `yaml:"target"`
	Endpoints []string `yaml:"endpoints"`
}

// ScanReport is the complete scan result, ready for serialization.
type ScanReport struct {
	RepoName string     `yaml:"repo"`
	Root     string     `yaml:"root"`
	Files    []FileInfo `yaml:"files"`
	Links    []Link     `yaml:"links,omitempty"`
}

// CaretReport describes the node under a caret position.
type CaretReport struct {
	File     string `yaml:"file"`
	Offset   int    `yaml:"offset"`
	Line     int    `yaml:"line"`
	Column   int    `yaml:"column"`
	Language string `yaml:"language"`
	Node     string `yaml:"node"`
	Class    string `yaml:"class"`
	Text     string `yaml:"text"`
	HasText  bool   `yaml:"has_text"`
	Key      string `yaml:"key,omitempty"`
	Value    string `yaml:"value,omitempty"`
	HasValue bool   `yaml:"has_value"`
	AtEnd    bool   `yaml:"at_end_of_line"`
	// Call is the endpoint method, attribute or annotation the caret sits
	// in, empty when none matched.
	Call string `yaml:"call,omitempty"`
	// Error holds the cursor query error, if any.
	Error string `yaml:"error,omitempty"`
}
