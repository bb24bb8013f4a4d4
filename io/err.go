package io

import (
	"errors"

	"github.com/ezrec/toy/translate"
)

var f = translate.From

var (
	// Device errors
	ErrChannelEmpty = errors.New(f("channel empty"))
	ErrChannelDown  = errors.New(f("channel not connected"))
)

// ErrParseInput is returned when an input line is not an integer.
type ErrParseInput string

func (err ErrParseInput) Error() string {
	return f("'%v' is not a number", string(err))
}
