package httpserver

import "errors"

var (
	ErrStart    = errors.New("httpserver: could not serve")
	ErrShutdown = errors.New("httpserver: shutdown incomplete")
)
