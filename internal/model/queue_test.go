package model

import (
	"testing"

	"github.com/jhalvorsen/chesscore-backend/internal/testutil"
)

func TestQueuePairsLongestWaiting(t *testing.T) {
	queue := NewQueue()

	testutil.AssertNoError(t, queue.AddPlayer(Player{ID: "a"}))
	testutil.AssertNoError(t, queue.AddPlayer(Player{ID: "b"}))
	testutil.AssertNoError(t, queue.AddPlayer(Player{ID: "c"}))
	testutil.AssertEqual(t, queue.Size(), 3)

	p1, p2 := queue.NextPair()
	testutil.AssertEqual(t, p1.ID, "a")
	testutil.AssertEqual(t, p2.ID, "b")
	testutil.AssertEqual(t, queue.Size(), 1)
}

func TestQueueRejectsDuplicates(t *testing.T) {
	queue := NewQueue()

	testutil.AssertNoError(t, queue.AddPlayer(Player{ID: "a"}))
	testutil.AssertError(t, queue.AddPlayer(Player{ID: "a"}))
	testutil.AssertEqual(t, queue.Size(), 1)
}
