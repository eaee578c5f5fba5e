package exec

import "io"

// Sink receives the output of an execution and provides the parameters a
// script can read and modify. Request parameters are read-only; persistent
// parameters outlive the execution; temporary parameters last for it.
type Sink interface {
	io.Writer
	io.StringWriter

	Parameter(name string) (string, bool)
	ParameterNames() []string

	PersistentParameter(name string) (string, bool)
	SetPersistentParameter(name, value string)
	RemovePersistentParameter(name string)
	PersistentParameterNames() []string

	TemporaryParameter(name string) (string, bool)
	SetTemporaryParameter(name, value string)
	RemoveTemporaryParameter(name string)
	TemporaryParameterNames() []string

	SetMimeType(mime string) error
}
