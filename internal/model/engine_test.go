package model

import (
	"testing"

	"github.com/jhalvorsen/chesscore-backend/internal/testutil"
)

func emptyBoard() *BoardState {
	return &BoardState{Turn: White}
}

func placeAt(b *BoardState, kind PieceKind, color Color, row, col int) *Piece {
	p := &Piece{Kind: kind, Color: color}
	b.Place(p, Square{Row: row, Col: col})
	return p
}

func countPieces(b *BoardState) int {
	count := 0
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if b.Squares[row][col] != nil {
				count++
			}
		}
	}
	return count
}

func TestNullMovesAreIllegal(t *testing.T) {
	board := NewBoard()
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			piece := board.PieceAt(Square{Row: row, Col: col})
			if piece == nil {
				continue
			}
			testutil.AssertFalse(t, IsLegal(board, piece, piece.Square),
				"%s at (%d,%d) must not move onto itself", piece.Kind, row, col)
		}
	}
}

func TestFriendlyFireIsIllegal(t *testing.T) {
	board := NewBoard()
	tests := []struct {
		name string
		from Square
		to   Square
	}{
		{name: "rook onto own pawn", from: Square{7, 0}, to: Square{6, 0}},
		{name: "king onto own queen", from: Square{7, 4}, to: Square{7, 3}},
		{name: "knight onto own pawn", from: Square{7, 1}, to: Square{6, 3}},
		{name: "black rook onto own pawn", from: Square{0, 0}, to: Square{1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			piece := board.PieceAt(tt.from)
			testutil.AssertNotNil(t, piece)
			testutil.AssertFalse(t, IsLegal(board, piece, tt.to))
		})
	}
}

func TestOutOfRangeDestinationIsIllegal(t *testing.T) {
	board := emptyBoard()
	rook := placeAt(board, Rook, White, 0, 0)
	testutil.AssertFalse(t, IsLegal(board, rook, Square{Row: -1, Col: 0}))
	testutil.AssertFalse(t, IsLegal(board, rook, Square{Row: 0, Col: 8}))
	testutil.AssertNil(t, board.PieceAt(Square{Row: 9, Col: 9}))
}

func TestPawnMoves(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*BoardState) *Piece
		to    Square
		want  bool
	}{
		{
			name:  "white single advance",
			setup: func(b *BoardState) *Piece { return placeAt(b, Pawn, White, 6, 4) },
			to:    Square{5, 4},
			want:  true,
		},
		{
			name:  "white double advance from start rank",
			setup: func(b *BoardState) *Piece { return placeAt(b, Pawn, White, 6, 4) },
			to:    Square{4, 4},
			want:  true,
		},
		{
			name:  "white triple advance",
			setup: func(b *BoardState) *Piece { return placeAt(b, Pawn, White, 6, 4) },
			to:    Square{3, 4},
			want:  false,
		},
		{
			name:  "white double advance off start rank",
			setup: func(b *BoardState) *Piece { return placeAt(b, Pawn, White, 5, 4) },
			to:    Square{3, 4},
			want:  false,
		},
		{
			name: "white double advance through blocker",
			setup: func(b *BoardState) *Piece {
				placeAt(b, Knight, Black, 5, 4)
				return placeAt(b, Pawn, White, 6, 4)
			},
			to:   Square{4, 4},
			want: false,
		},
		{
			name: "white advance onto occupied square",
			setup: func(b *BoardState) *Piece {
				placeAt(b, Knight, Black, 5, 4)
				return placeAt(b, Pawn, White, 6, 4)
			},
			to:   Square{5, 4},
			want: false,
		},
		{
			name:  "white backwards",
			setup: func(b *BoardState) *Piece { return placeAt(b, Pawn, White, 5, 4) },
			to:    Square{6, 4},
			want:  false,
		},
		{
			name: "white diagonal capture",
			setup: func(b *BoardState) *Piece {
				placeAt(b, Knight, Black, 4, 3)
				return placeAt(b, Pawn, White, 5, 4)
			},
			to:   Square{4, 3},
			want: true,
		},
		{
			name:  "white diagonal onto empty square",
			setup: func(b *BoardState) *Piece { return placeAt(b, Pawn, White, 5, 4) },
			to:    Square{4, 3},
			want:  false,
		},
		{
			name: "white diagonal onto own piece",
			setup: func(b *BoardState) *Piece {
				placeAt(b, Knight, White, 4, 3)
				return placeAt(b, Pawn, White, 5, 4)
			},
			to:   Square{4, 3},
			want: false,
		},
		{
			name:  "black single advance",
			setup: func(b *BoardState) *Piece { return placeAt(b, Pawn, Black, 1, 2) },
			to:    Square{2, 2},
			want:  true,
		},
		{
			name:  "black double advance from start rank",
			setup: func(b *BoardState) *Piece { return placeAt(b, Pawn, Black, 1, 2) },
			to:    Square{3, 2},
			want:  true,
		},
		{
			name:  "black moving in white direction",
			setup: func(b *BoardState) *Piece { return placeAt(b, Pawn, Black, 3, 2) },
			to:    Square{2, 2},
			want:  false,
		},
		{
			name: "black diagonal capture",
			setup: func(b *BoardState) *Piece {
				placeAt(b, Rook, White, 2, 3)
				return placeAt(b, Pawn, Black, 1, 2)
			},
			to:   Square{2, 3},
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := emptyBoard()
			pawn := tt.setup(board)
			testutil.AssertEqual(t, IsLegal(board, pawn, tt.to), tt.want)
		})
	}
}

func TestRookMoves(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*BoardState) *Piece
		to    Square
		want  bool
	}{
		{
			name:  "along file",
			setup: func(b *BoardState) *Piece { return placeAt(b, Rook, White, 7, 0) },
			to:    Square{3, 0},
			want:  true,
		},
		{
			name:  "along rank",
			setup: func(b *BoardState) *Piece { return placeAt(b, Rook, White, 7, 0) },
			to:    Square{7, 5},
			want:  true,
		},
		{
			name:  "diagonal",
			setup: func(b *BoardState) *Piece { return placeAt(b, Rook, White, 7, 0) },
			to:    Square{5, 2},
			want:  false,
		},
		{
			name: "blocked file",
			setup: func(b *BoardState) *Piece {
				placeAt(b, Pawn, Black, 5, 0)
				return placeAt(b, Rook, White, 7, 0)
			},
			to:   Square{3, 0},
			want: false,
		},
		{
			name: "blocked toward decreasing column",
			setup: func(b *BoardState) *Piece {
				placeAt(b, Pawn, Black, 4, 3)
				return placeAt(b, Rook, White, 4, 6)
			},
			to:   Square{4, 1},
			want: false,
		},
		{
			name: "capture at the end of a clear file",
			setup: func(b *BoardState) *Piece {
				placeAt(b, Pawn, Black, 3, 0)
				return placeAt(b, Rook, White, 7, 0)
			},
			to:   Square{3, 0},
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := emptyBoard()
			rook := tt.setup(board)
			testutil.AssertEqual(t, IsLegal(board, rook, tt.to), tt.want)
		})
	}
}

func TestRookBlockedInStartingPosition(t *testing.T) {
	board := NewBoard()
	rook := board.PieceAt(Square{Row: 7, Col: 0})
	testutil.AssertNotNil(t, rook)
	// The knight on (7,1) is in the way.
	testutil.AssertFalse(t, IsLegal(board, rook, Square{Row: 7, Col: 4}))
}

func TestKnightMoves(t *testing.T) {
	board := emptyBoard()
	knight := placeAt(board, Knight, White, 4, 4)
	// Surround the knight so the jump has something to clear.
	for _, sq := range []Square{{3, 3}, {3, 4}, {3, 5}, {4, 3}, {4, 5}, {5, 3}, {5, 4}, {5, 5}} {
		placeAt(board, Pawn, Black, sq.Row, sq.Col)
	}

	want := []Square{{2, 3}, {2, 5}, {3, 2}, {3, 6}, {5, 2}, {5, 6}, {6, 3}, {6, 5}}
	testutil.AssertEqual(t, LegalDestinations(board, knight), want)
}

func TestKnightMovesNearEdge(t *testing.T) {
	board := emptyBoard()
	knight := placeAt(board, Knight, White, 0, 0)
	want := []Square{{1, 2}, {2, 1}}
	testutil.AssertEqual(t, LegalDestinations(board, knight), want)
}

func TestBishopMoves(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*BoardState) *Piece
		to    Square
		want  bool
	}{
		{
			name:  "long diagonal",
			setup: func(b *BoardState) *Piece { return placeAt(b, Bishop, White, 7, 2) },
			to:    Square{2, 7},
			want:  true,
		},
		{
			name:  "straight line",
			setup: func(b *BoardState) *Piece { return placeAt(b, Bishop, White, 7, 2) },
			to:    Square{4, 2},
			want:  false,
		},
		{
			name:  "not a line at all",
			setup: func(b *BoardState) *Piece { return placeAt(b, Bishop, White, 7, 2) },
			to:    Square{5, 3},
			want:  false,
		},
		{
			name: "blocked diagonal",
			setup: func(b *BoardState) *Piece {
				placeAt(b, Pawn, White, 5, 4)
				return placeAt(b, Bishop, White, 7, 2)
			},
			to:   Square{2, 7},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := emptyBoard()
			bishop := tt.setup(board)
			testutil.AssertEqual(t, IsLegal(board, bishop, tt.to), tt.want)
		})
	}
}

func TestQueenMoves(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*BoardState) *Piece
		to    Square
		want  bool
	}{
		{
			name:  "along rank",
			setup: func(b *BoardState) *Piece { return placeAt(b, Queen, White, 4, 4) },
			to:    Square{4, 0},
			want:  true,
		},
		{
			name:  "along diagonal",
			setup: func(b *BoardState) *Piece { return placeAt(b, Queen, White, 4, 4) },
			to:    Square{1, 1},
			want:  true,
		},
		{
			name:  "knight-shaped",
			setup: func(b *BoardState) *Piece { return placeAt(b, Queen, White, 4, 4) },
			to:    Square{2, 3},
			want:  false,
		},
		{
			name: "blocked rank",
			setup: func(b *BoardState) *Piece {
				placeAt(b, Pawn, Black, 4, 2)
				return placeAt(b, Queen, White, 4, 4)
			},
			to:   Square{4, 0},
			want: false,
		},
		{
			name: "blocked diagonal",
			setup: func(b *BoardState) *Piece {
				placeAt(b, Pawn, Black, 3, 3)
				return placeAt(b, Queen, White, 4, 4)
			},
			to:   Square{1, 1},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := emptyBoard()
			queen := tt.setup(board)
			testutil.AssertEqual(t, IsLegal(board, queen, tt.to), tt.want)
		})
	}
}

func TestKingMoves(t *testing.T) {
	board := emptyBoard()
	king := placeAt(board, King, White, 4, 4)
	placeAt(board, Pawn, Black, 4, 5)

	// Adjacent capture is legal, distance two is not.
	testutil.AssertTrue(t, IsLegal(board, king, Square{Row: 4, Col: 5}))
	testutil.AssertFalse(t, IsLegal(board, king, Square{Row: 4, Col: 6}))
	testutil.AssertTrue(t, IsLegal(board, king, Square{Row: 3, Col: 3}))
	testutil.AssertFalse(t, IsLegal(board, king, Square{Row: 2, Col: 4}))
}

func TestEngineIsTurnAgnostic(t *testing.T) {
	board := NewBoard()
	testutil.AssertEqual(t, board.Turn, White)

	// Legality alone does not gate on the turn; that is Game's job.
	pawn := board.PieceAt(Square{Row: 1, Col: 4})
	testutil.AssertTrue(t, IsLegal(board, pawn, Square{Row: 3, Col: 4}))
}

func TestApplyMoveRelocates(t *testing.T) {
	board := NewBoard()
	pawn := board.PieceAt(Square{Row: 6, Col: 4})

	testutil.AssertTrue(t, IsLegal(board, pawn, Square{Row: 4, Col: 4}))
	outcome := ApplyMove(board, pawn, Square{Row: 4, Col: 4})

	testutil.AssertNil(t, outcome.Captured)
	testutil.AssertFalse(t, outcome.Promoted)
	testutil.AssertNil(t, board.PieceAt(Square{Row: 6, Col: 4}))
	moved := board.PieceAt(Square{Row: 4, Col: 4})
	testutil.AssertNotNil(t, moved)
	testutil.AssertEqual(t, moved.Kind, Pawn)
	testutil.AssertEqual(t, moved.Color, White)
	testutil.AssertEqual(t, moved.Square, Square{Row: 4, Col: 4})
	testutil.AssertEqual(t, countPieces(board), 32)
}

func TestApplyMoveCapture(t *testing.T) {
	board := emptyBoard()
	rook := placeAt(board, Rook, White, 7, 0)
	placeAt(board, Knight, Black, 3, 0)

	outcome := ApplyMove(board, rook, Square{Row: 3, Col: 0})

	testutil.AssertNotNil(t, outcome.Captured)
	testutil.AssertEqual(t, outcome.Captured.Kind, Knight)
	testutil.AssertEqual(t, outcome.Captured.Color, Black)
	testutil.AssertEqual(t, board.PieceAt(Square{Row: 3, Col: 0}), rook)
	testutil.AssertEqual(t, countPieces(board), 1)
}

func TestApplyMovePromotion(t *testing.T) {
	board := emptyBoard()
	pawn := placeAt(board, Pawn, White, 1, 3)

	testutil.AssertTrue(t, IsLegal(board, pawn, Square{Row: 0, Col: 3}))
	outcome := ApplyMove(board, pawn, Square{Row: 0, Col: 3})

	testutil.AssertTrue(t, outcome.Promoted)
	promoted := board.PieceAt(Square{Row: 0, Col: 3})
	testutil.AssertNotNil(t, promoted)
	testutil.AssertEqual(t, promoted.Kind, Queen)
	testutil.AssertEqual(t, promoted.Color, White)
	// The pawn is gone from the board entirely.
	testutil.AssertEqual(t, countPieces(board), 1)
}

func TestApplyMovePromotionWithCapture(t *testing.T) {
	board := emptyBoard()
	pawn := placeAt(board, Pawn, Black, 6, 2)
	placeAt(board, Rook, White, 7, 3)

	testutil.AssertTrue(t, IsLegal(board, pawn, Square{Row: 7, Col: 3}))
	outcome := ApplyMove(board, pawn, Square{Row: 7, Col: 3})

	testutil.AssertTrue(t, outcome.Promoted)
	testutil.AssertNotNil(t, outcome.Captured)
	testutil.AssertEqual(t, outcome.Captured.Kind, Rook)
	promoted := board.PieceAt(Square{Row: 7, Col: 3})
	testutil.AssertEqual(t, promoted.Kind, Queen)
	testutil.AssertEqual(t, promoted.Color, Black)
	testutil.AssertEqual(t, countPieces(board), 1)
}

func TestLegalDestinationsFromStartingPosition(t *testing.T) {
	board := NewBoard()

	knight := board.PieceAt(Square{Row: 7, Col: 1})
	testutil.AssertEqual(t, LegalDestinations(board, knight), []Square{{5, 0}, {5, 2}})

	pawn := board.PieceAt(Square{Row: 6, Col: 4})
	testutil.AssertEqual(t, LegalDestinations(board, pawn), []Square{{4, 4}, {5, 4}})

	// Completely boxed in.
	queen := board.PieceAt(Square{Row: 7, Col: 3})
	testutil.AssertEqual(t, LegalDestinations(board, queen), []Square{})
}

func TestIsPathBlocked(t *testing.T) {
	board := emptyBoard()
	placeAt(board, Pawn, White, 4, 4)

	// Adjacent squares have no intervening path.
	testutil.AssertFalse(t, isPathBlocked(board, Square{4, 3}, Square{4, 4}))
	testutil.AssertFalse(t, isPathBlocked(board, Square{4, 4}, Square{4, 5}))

	testutil.AssertTrue(t, isPathBlocked(board, Square{4, 0}, Square{4, 7}))
	testutil.AssertTrue(t, isPathBlocked(board, Square{0, 0}, Square{7, 7}))
	testutil.AssertTrue(t, isPathBlocked(board, Square{7, 7}, Square{0, 0}))
	testutil.AssertFalse(t, isPathBlocked(board, Square{0, 4}, Square{3, 4}))
}
