package workspace

import "errors"

var (
	ErrUnknownSchema   = errors.New("workspace: unknown schema")
	ErrUnknownTemplate = errors.New("workspace: unknown template")
	ErrUnknownField    = errors.New("workspace: unknown field")
	ErrDuplicateField  = errors.New("workspace: duplicate field id")
	ErrInvalidField    = errors.New("workspace: invalid field")
	ErrNotList         = errors.New("workspace: field value is not a list")
	ErrUnknownDocument = errors.New("workspace: unknown document")
	ErrNilCommand      = errors.New("workspace: command is required")
)
