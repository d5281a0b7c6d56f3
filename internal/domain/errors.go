package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrTransport           = errors.New("transport failure")
	ErrConfigNotFound      = errors.New("config note not found")
	ErrNotebookNotFound    = errors.New("notebook not found")
	ErrSourceUnreachable   = errors.New("source unreachable")
	ErrNoteCreationFailed  = errors.New("note creation failed")
	ErrTagAssignmentFailed = errors.New("tag assignment failed")
	ErrCredentialMissing   = errors.New("credential missing")
	ErrMalformedResponse   = errors.New("malformed response")
	ErrBlogAlreadyTracked  = errors.New("blog already tracked")
)
