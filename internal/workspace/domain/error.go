package domain

import "errors"

var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
)
