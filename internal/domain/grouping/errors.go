package grouping

import "errors"

// Domain-specific errors для grouping domain
var (
	ErrItemNotFound        = errors.New("item not found")
	ErrGroupNotFound       = errors.New("group not found")
	ErrTargetGroupNotFound = errors.New("target group not found")
	ErrItemAlreadyGrouped  = errors.New("item already belongs to a group")
	ErrInvalidGroupID      = errors.New("invalid group ID")
	ErrProtocolViolation   = errors.New("reasoning capability protocol violation")
	ErrEscalationFailed    = errors.New("reasoning capability call failed")
)
