package main

import "time"

type Mode int

const (
	ModeNormal Mode = iota
	ModeGotoInput
	ModeImportInput
)

const (
	defaultCanvasWidth  = 800
	defaultCanvasHeight = 800
	defaultPalettePath  = "color.csv"
	defaultLogName      = "clusterviz.log"
	panelWidth          = 36
	// Terminals give no key-release events; an arrow is considered released
	// once no press or auto-repeat for it arrived within this window.
	arrowReleaseGrace = 600 * time.Millisecond
)
