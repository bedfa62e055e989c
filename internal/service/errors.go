package service

import "errors"

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrSessionNotFound  = errors.New("session not found")
	ErrQuestionNotFound = errors.New("question not found")
)
