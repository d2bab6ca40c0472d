package message

import "errors"

var (
	ErrMessageNotFound = errors.New("message not found")
	ErrNotAuthor       = errors.New("only the author may modify a message")
	ErrAccessDenied    = errors.New("no access to this project's messages")
)
