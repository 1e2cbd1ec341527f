package models

import "strconv"

// CodeWindow is a bounded excerpt of a source file around one stack frame's
// target line. Windows are derived from filesystem content at request time
// and are not cached.
type CodeWindow struct {
	// ClassName is the fully qualified class name from the frame.
	ClassName string `json:"class_name"`

	// MethodName is the method name from the frame.
	MethodName string `json:"method_name"`

	// FileName is the source file's base name (e.g. "UserService.java").
	FileName string `json:"file_name"`

	// Line is the 1-based target line number from the frame.
	Line int `json:"line"`

	// Snippet is the formatted window text: each line prefixed with its
	// absolute line number, the target line marked with ">".
	Snippet string `json:"snippet"`
}

// Label returns the section heading used when a window is embedded in a
// remote analysis request.
func (w CodeWindow) Label() string {
	return w.ClassName + "." + w.MethodName + "() at " + w.FileName + ":" + strconv.Itoa(w.Line)
}
