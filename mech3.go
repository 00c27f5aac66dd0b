/*
Package mech3 is a library for converting MechWarrior 3 game assets between
the game's binary formats and modern equivalents.
*/
package mech3

import "log"

type Mech3 struct {
	logger *log.Logger
}

func New(logger *log.Logger) *Mech3 {
	return &Mech3{
		logger: logger,
	}
}
