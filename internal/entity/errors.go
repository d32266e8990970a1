package entity

import "errors"

var (
	ErrInvalidLead       = errors.New("invalid lead")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrLeadNotFound      = errors.New("lead not found")
	ErrStorage           = errors.New("storage unavailable")
)
