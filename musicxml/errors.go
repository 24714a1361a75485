package musicxml

import "errors"

var (
	ErrUnknownSymbol    = errors.New("musicxml: unknown symbol")
	ErrNoContainer      = errors.New("musicxml: missing META-INF/container.xml")
	ErrInvalidContainer = errors.New("musicxml: invalid container.xml")
	ErrNoRootfile       = errors.New("musicxml: no rootfile found in container.xml")
)
