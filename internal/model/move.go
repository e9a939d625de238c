package model

// WSMove is a move request as it arrives over the wire.
type WSMove struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

// WSSelect is a square-selection request; selecting an empty or
// opposing square clears the current selection.
type WSSelect struct {
	Square Square `json:"square"`
}

type SimpleMove struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}
