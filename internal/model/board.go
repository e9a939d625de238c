package model

type PieceKind string

const (
	King   PieceKind = "king"
	Queen  PieceKind = "queen"
	Rook   PieceKind = "rook"
	Bishop PieceKind = "bishop"
	Knight PieceKind = "knight"
	Pawn   PieceKind = "pawn"
)

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Square is a board coordinate. Row 0 is black's back rank, row 7 is
// white's back rank.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func inBounds(sq Square) bool {
	return sq.Row >= 0 && sq.Row < 8 && sq.Col >= 0 && sq.Col < 8
}

type Piece struct {
	Kind   PieceKind `json:"kind"`
	Color  Color     `json:"color"`
	Square Square    `json:"square"`
}

// BoardState is a passive holder of piece positions plus whose move is
// next. It performs no validation of its own; legality lives in the
// move engine, mutation ordering in Game.
type BoardState struct {
	Squares [8][8]*Piece `json:"squares"`
	Turn    Color        `json:"turn"`
}

// PieceAt returns the occupant of sq, or nil when the square is empty
// or out of range.
func (b *BoardState) PieceAt(sq Square) *Piece {
	if !inBounds(sq) {
		return nil
	}
	return b.Squares[sq.Row][sq.Col]
}

// Place puts p on sq, overwriting any occupant. Used during setup and
// promotion only.
func (b *BoardState) Place(p *Piece, sq Square) {
	if !inBounds(sq) {
		return
	}
	p.Square = sq
	b.Squares[sq.Row][sq.Col] = p
}

// Remove clears sq and returns the piece that occupied it, if any.
func (b *BoardState) Remove(sq Square) *Piece {
	if !inBounds(sq) {
		return nil
	}
	p := b.Squares[sq.Row][sq.Col]
	b.Squares[sq.Row][sq.Col] = nil
	return p
}

// Move relocates the piece on from to to without any validation.
func (b *BoardState) Move(from, to Square) {
	p := b.PieceAt(from)
	if p == nil || !inBounds(to) {
		return
	}
	b.Squares[from.Row][from.Col] = nil
	p.Square = to
	b.Squares[to.Row][to.Col] = p
}

// NewBoard sets up the standard starting position with white to move.
func NewBoard() *BoardState {
	board := &BoardState{Turn: White}
	backRank := []PieceKind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for col, kind := range backRank {
		board.Place(&Piece{Kind: kind, Color: Black}, Square{Row: 0, Col: col})
		board.Place(&Piece{Kind: kind, Color: White}, Square{Row: 7, Col: col})
	}
	for col := 0; col < 8; col++ {
		board.Place(&Piece{Kind: Pawn, Color: Black}, Square{Row: 1, Col: col})
		board.Place(&Piece{Kind: Pawn, Color: White}, Square{Row: 6, Col: col})
	}
	return board
}
