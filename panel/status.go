package panel

// Forms a Status can belong to.
const (
	FormConfig = "config"
	FormCall   = "call"
)

// Style classes of the configuration form status.
const (
	ClassReady  = "status-ready"
	ClassSaving = "status-saving"
	ClassSaved  = "status-saved"
	ClassError  = "status-error"
)

// Style classes of the call form status.
const (
	ClassCalling   = "calling"
	ClassSuccess   = "success"
	ClassCallError = "error"
)

// Status is a status line shown under a form.
type Status struct {
	Form    string
	Message string
	Class   string
}

// CSSClass returns the class attribute for the status element.
func (s Status) CSSClass() string {
	if s.Form == FormCall && s.Class != "" {
		return "call-status " + s.Class
	}
	return s.Class
}
