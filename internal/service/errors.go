package service

import "errors"

var (
	ErrIntegrationNotFound  = errors.New("integration not found")
	ErrAlreadyConnected     = errors.New("service already connected")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrControlNotFound      = errors.New("control not found")
	ErrControlSourceManaged = errors.New("control is managed by an integration")
	ErrControlKeyTaken      = errors.New("control key already in use")
	ErrInvalidControlValue  = errors.New("invalid control value")
	ErrInvalidControl       = errors.New("invalid control")
	ErrSessionExpired       = errors.New("session expired")
	ErrUserNotFound         = errors.New("user not found")
)
