package treesitter

import "fmt"

// ErrLanguageNotSupported reports a grammar the backend does not carry.
type ErrLanguageNotSupported struct {
	Language Language
	Backend  string
}

func (e ErrLanguageNotSupported) Error() string {
	return fmt.Sprintf("%s backend has no %s grammar", e.Backend, e.Language)
}

// ErrBackendClosed reports use of a backend after Close.
type ErrBackendClosed struct {
	Backend string
}

func (e ErrBackendClosed) Error() string {
	return fmt.Sprintf("%s backend is closed", e.Backend)
}

// ErrParserClosed reports use of a parser after Close.
type ErrParserClosed struct{}

func (ErrParserClosed) Error() string {
	return "parser is closed"
}
