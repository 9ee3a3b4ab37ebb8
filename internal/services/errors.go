package services

import "errors"

var (
	ErrCacheMiss      = errors.New("cache miss")
	ErrPlayerNotFound = errors.New("player not found")
	ErrRunNotFound    = errors.New("rating run not found")
	ErrUnknownRole    = errors.New("unknown player role")
)
