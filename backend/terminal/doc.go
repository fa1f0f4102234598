// Package terminal provides a text-terminal surface for the fractal viewer
// using tcell.
//
// Every terminal cell shows two vertically stacked pixels with the upper
// half block character: the foreground is the upper pixel and the
// background the lower one. The last terminal row holds the title. The
// terminal needs true-color support for the grayscale steps to show.
package terminal
