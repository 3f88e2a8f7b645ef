package cli

import "errors"

var (
	ErrorInvalidInput  = errors.New("invalid_input")
	ErrorUserCancelled = errors.New("user_cancelled")
)
