// Package viz renders charge-field results for the terminal.
//
//   - [Canvas]: Braille pixel canvas, two by four dots per cell
//   - [FieldLines]: orthographic projection of traced lines and charges
//   - [Profile]: asciigraph line chart of a sampled quantity
//
// Styles are lipgloss; they degrade to plain text when stdout is not a
// terminal.
package viz
