package oracle

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/abrezinsky/jeopardy/internal/errors"
	"github.com/abrezinsky/jeopardy/internal/models"
)

func TestMockClient_DefaultsToCorrect(t *testing.T) {
	m := NewMockClient()

	v, err := m.CheckAnswer(context.Background(), "clue", "answer", "What is X?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Correct {
		t.Error("expected default verdict to be correct")
	}
	if m.CheckCalls() != 1 || m.LastResponse() != "What is X?" {
		t.Errorf("unexpected call tracking: calls=%d last=%q", m.CheckCalls(), m.LastResponse())
	}
}

func TestMockClient_ReplyQueue(t *testing.T) {
	m := NewMockClient(WithReplies(CorrectMarker+" one", IncorrectMarker+" two"))
	ctx := context.Background()

	want := []bool{true, false, false}
	for i, w := range want {
		v, err := m.CheckAnswer(ctx, "c", "a", "r")
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
		if v.Correct != w {
			t.Errorf("call %d: expected correct=%v", i, w)
		}
	}
}

func TestMockClient_BadReplyViolatesContract(t *testing.T) {
	m := NewMockClient(WithReplies("Sure!"))
	_, err := m.CheckAnswer(context.Background(), "c", "a", "r")
	if !apperrors.Is(err, apperrors.ErrOracleContractViolation) {
		t.Errorf("expected contract violation, got %v", err)
	}
}

func TestMockClient_Gate(t *testing.T) {
	gate := make(chan struct{})
	m := NewMockClient(WithGate(gate))

	done := make(chan struct{})
	go func() {
		m.CheckAnswer(context.Background(), "c", "a", "r")
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("expected CheckAnswer to block on the gate")
	case <-time.After(20 * time.Millisecond):
	}

	close(gate)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected CheckAnswer to return after the gate opened")
	}
}

func TestMockClient_GenerateBoard(t *testing.T) {
	records := []models.ClueRecord{{Category: "A"}}
	m := NewMockClient(WithBoard(records))

	got, err := m.GenerateBoard(context.Background())
	if err != nil || len(got) != 1 {
		t.Fatalf("unexpected result: %v, %v", got, err)
	}
	if m.GenerateCalls() != 1 {
		t.Errorf("expected 1 call, got %d", m.GenerateCalls())
	}

	failing := NewMockClient(WithGenerateError(errors.New("quota")))
	if _, err := failing.GenerateBoard(context.Background()); err == nil {
		t.Error("expected error")
	}

	shaped := NewMockClient(WithBoardReply(`{"A": []}`))
	if _, err := shaped.GenerateBoard(context.Background()); !apperrors.Is(err, apperrors.ErrInvalidBoardShape) {
		t.Errorf("expected invalid board shape, got %v", err)
	}
}
