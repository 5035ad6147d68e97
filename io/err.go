package io

import (
	"errors"

	"github.com/ezrec/akku/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrChannelInvalid = errors.New(f("channel invalid"))
	ErrChannelEmpty   = errors.New(f("channel empty"))
)

// ErrValue is an input word that is not an int32 value.
type ErrValue string

func (err ErrValue) Error() string {
	return f("'%v' is not a number", string(err))
}
