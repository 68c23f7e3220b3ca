// Package buffer implements the document model behind the playground editor.
//
// Coordinates are 0-based (Row, GraphemeCol): GraphemeCol counts grapheme
// clusters, so a position never splits a combined character.
// Ranges are half-open selections in document coordinates: [Start, End).
package buffer
