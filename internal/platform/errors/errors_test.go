package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestIsMatchesByCode(t *testing.T) {
	sentinel := New(CodeWrongTurn, "not your turn")
	other := New(CodeWrongTurn, "a different message")

	if !stderrors.Is(other, sentinel) {
		t.Fatal("expected errors with the same code to match")
	}
	if stderrors.Is(New(CodeCellOccupied, "taken"), sentinel) {
		t.Fatal("expected errors with different codes not to match")
	}
	if !stderrors.Is(fmt.Errorf("apply move: %w", other), sentinel) {
		t.Fatal("expected wrapped error to match")
	}
}

func TestWrapUnwrapsCause(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(CodeUnknown, "wrapped", cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected cause in chain")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(fmt.Errorf("x: %w", New(CodeNoActiveGame, "none"))); got != CodeNoActiveGame {
		t.Fatalf("code = %q", got)
	}
	if got := GetCode(stderrors.New("plain")); got != CodeUnknown {
		t.Fatalf("plain code = %q", got)
	}
}

func TestGetMetadata(t *testing.T) {
	err := WithMetadata(CodeIdentityInUse, "in use", map[string]string{"Player": "Player1"})
	if got := GetMetadata(fmt.Errorf("connect: %w", err))["Player"]; got != "Player1" {
		t.Fatalf("metadata player = %q", got)
	}
	if GetMetadata(stderrors.New("plain")) != nil {
		t.Fatal("expected nil metadata for plain error")
	}
}

func TestNotActiveCodes(t *testing.T) {
	if !CodeNotStarted.NotActive() || !CodeGameOver.NotActive() {
		t.Fatal("expected not-started and game-over to be not-active codes")
	}
	if CodeWrongTurn.NotActive() {
		t.Fatal("wrong turn is not a not-active code")
	}
}
