package service

import "errors"

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrClientNotFound     = errors.New("client not found")
	ErrLoginTaken         = errors.New("login already exists")
	ErrInvalidCredentials = errors.New("invalid login or password")
)
