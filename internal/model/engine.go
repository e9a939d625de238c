package model

// MoveOutcome reports what applying a move did, so the caller can
// update captured-piece lists and pick a sound cue.
type MoveOutcome struct {
	Captured *Piece `json:"captured"`
	Promoted bool   `json:"promoted"`
}

// IsLegal reports whether piece may move to dest on board. It checks
// geometry, friendly fire and path obstruction only; it does not care
// whose turn it is and it does not consider king safety.
func IsLegal(board *BoardState, piece *Piece, dest Square) bool {
	if piece == nil || !inBounds(dest) || !inBounds(piece.Square) {
		return false
	}
	from := piece.Square
	if from == dest {
		return false
	}
	// A piece never captures its own color, whatever its kind.
	if occupant := board.PieceAt(dest); occupant != nil && occupant.Color == piece.Color {
		return false
	}

	rowDiff := dest.Row - from.Row
	colDiff := dest.Col - from.Col
	absRow := abs(rowDiff)
	absCol := abs(colDiff)

	switch piece.Kind {
	case Pawn:
		return isLegalPawnMove(board, piece, dest)
	case Rook:
		if rowDiff != 0 && colDiff != 0 {
			return false
		}
		return !isPathBlocked(board, from, dest)
	case Knight:
		return (absRow == 2 && absCol == 1) || (absRow == 1 && absCol == 2)
	case Bishop:
		return absRow == absCol && !isPathBlocked(board, from, dest)
	case Queen:
		if rowDiff != 0 && colDiff != 0 && absRow != absCol {
			return false
		}
		return !isPathBlocked(board, from, dest)
	case King:
		// The path check is vacuous at distance one but applied for
		// uniformity with the other sliders.
		return absRow <= 1 && absCol <= 1 && !isPathBlocked(board, from, dest)
	}
	return false
}

// Pawns are the only asymmetric piece: white advances toward row 0,
// black toward row 7. Straight moves require an empty destination, the
// double advance additionally a clear path and the starting rank, and
// diagonal steps are legal only as captures.
func isLegalPawnMove(board *BoardState, piece *Piece, dest Square) bool {
	from := piece.Square
	dir := -1
	startRow := 6
	if piece.Color == Black {
		dir = 1
		startRow = 1
	}
	rowDiff := dest.Row - from.Row
	colDiff := dest.Col - from.Col

	if colDiff == 0 && board.PieceAt(dest) == nil {
		if rowDiff == dir {
			return true
		}
		if rowDiff == 2*dir && from.Row == startRow && !isPathBlocked(board, from, dest) {
			return true
		}
		return false
	}
	if abs(colDiff) == 1 && rowDiff == dir {
		occupant := board.PieceAt(dest)
		return occupant != nil && occupant.Color != piece.Color
	}
	return false
}

// isPathBlocked walks the squares strictly between from and to in unit
// steps along each axis and reports whether any of them is occupied.
// Adjacent squares have no intervening path, so the walk is empty.
func isPathBlocked(board *BoardState, from, to Square) bool {
	rowStep := sign(to.Row - from.Row)
	colStep := sign(to.Col - from.Col)
	current := Square{Row: from.Row + rowStep, Col: from.Col + colStep}
	for current != to {
		if board.PieceAt(current) != nil {
			return true
		}
		current.Row += rowStep
		current.Col += colStep
	}
	return false
}

// ApplyMove mutates board for a move that already passed IsLegal:
// captures the opposing occupant of dest if there is one, then either
// promotes (a pawn reaching the far rank becomes a fresh queen) or
// relocates the piece. The whole mutation is performed in one call so
// callers never observe a half-applied move.
func ApplyMove(board *BoardState, piece *Piece, dest Square) MoveOutcome {
	outcome := MoveOutcome{}
	if occupant := board.PieceAt(dest); occupant != nil && occupant.Color != piece.Color {
		outcome.Captured = board.Remove(dest)
	}
	if piece.Kind == Pawn && dest.Row == promotionRow(piece.Color) {
		board.Remove(piece.Square)
		board.Place(&Piece{Kind: Queen, Color: piece.Color}, dest)
		outcome.Promoted = true
		return outcome
	}
	board.Move(piece.Square, dest)
	return outcome
}

func promotionRow(color Color) int {
	if color == White {
		return 0
	}
	return 7
}

// LegalDestinations enumerates every square the piece may move to.
// Used to drive client-side highlighting; 64 candidates is cheap
// enough that no smarter generation is warranted.
func LegalDestinations(board *BoardState, piece *Piece) []Square {
	destinations := []Square{}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			dest := Square{Row: row, Col: col}
			if IsLegal(board, piece, dest) {
				destinations = append(destinations, dest)
			}
		}
	}
	return destinations
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
