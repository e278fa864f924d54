// Package command implements the line-oriented command interpreter that edits
// the visualization options while the engine runs, and the text profile
// format used to save and load them.
//
// A profile is a sequence of lines of the form "<property> <values...>". Each
// line is applied exactly as "set <line>" would be, so any command accepted by
// set is also a valid profile line.
package command
