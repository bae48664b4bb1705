package diag

type Note struct {
	Path string
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	// Path is the qualified name of the declaration the finding is about.
	Path  string
	Notes []Note
}
