// Package dom is the dashboard's view of the page markup: elements addressed by id.
package dom

// Document is the element-id contract between the controller and the page template.
// Mutators report false when the element does not exist.
type Document interface {
	Text(id string) (string, bool)
	SetText(id, text string) bool
	SetHTML(id, html string) bool

	AddClass(id string, classes ...string) bool
	RemoveClass(id string, classes ...string) bool
	HasClass(id, class string) bool
	SetClassName(id, className string) bool

	SetAttr(id, name, value string) bool

	// Form state
	Value(id string) string
	SelectedValues(id string) []string
}

// Patch ops
const (
	OpText  = "text"
	OpHTML  = "html"
	OpClass = "class"
	OpAttr  = "attr"
	OpValue = "value"
)

// Patch describes one element mutation so a remote view can replay it.
type Patch struct {
	Op    string `json:"op"`
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Value string `json:"value"`
}
