package domain

import (
	"errors"
)

const (
	CookingTimeMin = 1
	CookingTimeMax = 32000
	AmountMin      = 1
	AmountMax      = 32000

	DefaultPageSize = 10
)

var (
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"
	MessageUserNotAllowed       = "user not allowed"

	ErrParseUUID          = errors.New("failed to parse UUID")
	ErrInvalidImageFormat = errors.New("invalid image format")
	ErrUserNotAllowed     = errors.New("user not allowed")
	ErrTokenNotFound      = errors.New("failed to token not found")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)
