package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/abrezinsky/jeopardy/internal/cluestore"
	"github.com/abrezinsky/jeopardy/internal/curator"
	apperrors "github.com/abrezinsky/jeopardy/internal/errors"
	"github.com/abrezinsky/jeopardy/internal/game"
	"github.com/abrezinsky/jeopardy/internal/logger"
	"github.com/abrezinsky/jeopardy/internal/models"
	"github.com/abrezinsky/jeopardy/internal/services"
	"github.com/abrezinsky/jeopardy/internal/testutil"
	"github.com/abrezinsky/jeopardy/pkg/oracle"
)

func newGameService(t *testing.T, categories int, grader *oracle.MockClient) *services.GameService {
	t.Helper()
	repo := testutil.NewTestRepository(t)
	testutil.SeedCorpus(t, repo, categories)
	log := logger.Discard()
	boards := curator.New(log, cluestore.New(log, repo))
	svc := services.NewGameService(log, boards, grader, game.Options{})
	t.Cleanup(svc.Close)
	return svc
}

// startedGame creates a game and waits for its board
func startedGame(t *testing.T, svc *services.GameService) string {
	t.Helper()
	ctx := context.Background()

	snap, err := svc.CreateGame(ctx)
	if err != nil {
		t.Fatalf("CreateGame failed: %v", err)
	}
	res, err := svc.StartGame(ctx, snap.GameID)
	if err != nil || !res.Applied {
		t.Fatalf("StartGame failed: %v", err)
	}
	waitReady(t, svc, snap.GameID)
	return snap.GameID
}

func waitReady(t *testing.T, svc *services.GameService, id string) game.Snapshot {
	t.Helper()
	for i := 0; i < 2000; i++ {
		snap, err := svc.Snapshot(id)
		if err != nil {
			t.Fatalf("Snapshot failed: %v", err)
		}
		if snap.Status != game.StatusLoading {
			return snap
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("board never loaded")
	return game.Snapshot{}
}

func TestGameService_CreateGame(t *testing.T) {
	svc := newGameService(t, 6, oracle.NewMockClient())
	ctx := context.Background()

	snap, err := svc.CreateGame(ctx)
	if err != nil {
		t.Fatalf("CreateGame failed: %v", err)
	}
	if _, err := uuid.Parse(snap.GameID); err != nil {
		t.Errorf("expected uuid game id, got %q", snap.GameID)
	}
	if snap.Status != game.StatusNoBoard {
		t.Errorf("expected no_board, got %s", snap.Status)
	}

	other, _ := svc.CreateGame(ctx)
	if other.GameID == snap.GameID {
		t.Error("expected distinct game ids")
	}
	if ids := svc.ListGames(ctx); len(ids) != 2 {
		t.Errorf("expected 2 games, got %d", len(ids))
	}
}

func TestGameService_UnknownGame(t *testing.T) {
	svc := newGameService(t, 6, oracle.NewMockClient())
	ctx := context.Background()
	id := "missing"

	checks := map[string]error{}
	_, checks["GetGame"] = svc.GetGame(ctx, id)
	_, checks["Snapshot"] = svc.Snapshot(id)
	_, checks["StartGame"] = svc.StartGame(ctx, id)
	_, checks["SelectClue"] = svc.SelectClue(ctx, id, models.ClueKey{})
	_, checks["UpdateDraft"] = svc.UpdateDraft(ctx, id, "x")
	_, checks["SubmitResponse"] = svc.SubmitResponse(ctx, id)
	_, checks["CloseModal"] = svc.CloseModal(ctx, id)
	checks["EndGame"] = svc.EndGame(ctx, id)

	for name, err := range checks {
		if apperrors.KindOf(err) != apperrors.ErrNotFound {
			t.Errorf("%s: expected not found, got %v", name, err)
		}
	}
}

func TestGameService_PlayClue(t *testing.T) {
	grader := oracle.NewMockClient(oracle.WithReplies(oracle.CorrectMarker + " Nicely done."))
	svc := newGameService(t, 8, grader)
	ctx := context.Background()
	id := startedGame(t, svc)

	res, err := svc.SelectClue(ctx, id, models.ClueKey{Row: 1, Col: 2})
	if err != nil || !res.Applied {
		t.Fatalf("SelectClue failed: %v", err)
	}
	if res.Snapshot.Selected != "clue-1-2" {
		t.Errorf("expected clue-1-2 selected, got %q", res.Snapshot.Selected)
	}

	res, err = svc.SelectClue(ctx, id, models.ClueKey{Row: 0, Col: 0})
	if err != nil || res.Applied {
		t.Errorf("expected second select to be rejected, got %+v, %v", res, err)
	}

	if res, _ := svc.UpdateDraft(ctx, id, "What is Madrid?"); !res.Applied {
		t.Error("expected draft update to apply")
	}

	submit, err := svc.SubmitResponse(ctx, id)
	if err != nil {
		t.Fatalf("SubmitResponse failed: %v", err)
	}
	if !submit.Applied || submit.Verdict == nil || !submit.Verdict.Correct {
		t.Fatalf("expected correct verdict, got %+v", submit)
	}
	if submit.Snapshot.Score != 600 || !submit.Snapshot.Modal.Open {
		t.Errorf("unexpected snapshot after submit: score=%d modal=%v", submit.Snapshot.Score, submit.Snapshot.Modal.Open)
	}

	closed, _ := svc.CloseModal(ctx, id)
	if !closed.Applied || closed.Snapshot.Modal.Open {
		t.Error("expected modal closed")
	}
	again, _ := svc.CloseModal(ctx, id)
	if again.Applied {
		t.Error("expected second close to be a no-op")
	}
}

func TestGameService_SubmitWithoutDraftIsNoop(t *testing.T) {
	grader := oracle.NewMockClient()
	svc := newGameService(t, 6, grader)
	id := startedGame(t, svc)

	res, err := svc.SubmitResponse(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Applied || res.Verdict != nil {
		t.Errorf("expected no-op submit, got %+v", res)
	}
	if grader.CheckCalls() != 0 {
		t.Error("expected no oracle call")
	}
}

func TestGameService_SubmitOracleError(t *testing.T) {
	grader := oracle.NewMockClient(oracle.WithCheckError(apperrors.OracleTransport(errors.New("timeout"), "answer check failed")))
	svc := newGameService(t, 6, grader)
	ctx := context.Background()
	id := startedGame(t, svc)

	svc.SelectClue(ctx, id, models.ClueKey{Row: 0, Col: 0})
	svc.UpdateDraft(ctx, id, "What is it?")

	_, err := svc.SubmitResponse(ctx, id)
	if !apperrors.Is(err, apperrors.ErrOracleTransport) {
		t.Errorf("expected transport error, got %v", err)
	}

	snap, _ := svc.GetGame(ctx, id)
	if snap.Selected != "clue-0-0" || snap.Error == "" {
		t.Errorf("expected clue open with error, got %+v", snap)
	}
}

func TestGameService_StartGame_TooFewCategories(t *testing.T) {
	svc := newGameService(t, 5, oracle.NewMockClient())
	ctx := context.Background()

	snap, _ := svc.CreateGame(ctx)
	if _, err := svc.StartGame(ctx, snap.GameID); err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}

	final := waitReady(t, svc, snap.GameID)
	if final.Status != game.StatusLoadFailed {
		t.Errorf("expected load_failed, got %s", final.Status)
	}
}

func TestGameService_StartGame_OutlivesRequest(t *testing.T) {
	svc := newGameService(t, 6, oracle.NewMockClient())
	ctx, cancel := context.WithCancel(context.Background())

	snap, _ := svc.CreateGame(ctx)
	if _, err := svc.StartGame(ctx, snap.GameID); err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}
	cancel()

	if final := waitReady(t, svc, snap.GameID); final.Status != game.StatusReady {
		t.Errorf("expected ready after request cancel, got %s (%s)", final.Status, final.Error)
	}
}

func TestGameService_EndGame(t *testing.T) {
	svc := newGameService(t, 6, oracle.NewMockClient())
	ctx := context.Background()
	id := startedGame(t, svc)

	if err := svc.EndGame(ctx, id); err != nil {
		t.Fatalf("EndGame failed: %v", err)
	}
	if _, err := svc.GetGame(ctx, id); apperrors.KindOf(err) != apperrors.ErrNotFound {
		t.Errorf("expected ended game to be gone, got %v", err)
	}
	if err := svc.EndGame(ctx, id); apperrors.KindOf(err) != apperrors.ErrNotFound {
		t.Errorf("expected second end to be not found, got %v", err)
	}
}

func TestGameService_NotifierReceivesSnapshots(t *testing.T) {
	svc := newGameService(t, 6, oracle.NewMockClient())

	var mu sync.Mutex
	published := map[string]int{}
	svc.SetNotifier(game.NotifierFunc(func(gameID string, snap game.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		published[gameID]++
	}))

	id := startedGame(t, svc)

	mu.Lock()
	defer mu.Unlock()
	if published[id] < 2 {
		t.Errorf("expected loading and ready snapshots, got %d", published[id])
	}
}

func TestGameService_ConcurrentGames(t *testing.T) {
	svc := newGameService(t, 6, oracle.NewMockClient())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := svc.CreateGame(ctx)
			if err != nil {
				t.Errorf("CreateGame failed: %v", err)
				return
			}
			svc.StartGame(ctx, snap.GameID)
		}()
	}
	wg.Wait()

	for _, id := range svc.ListGames(ctx) {
		if snap := waitReady(t, svc, id); snap.Status != game.StatusReady {
			t.Errorf("game %s: expected ready, got %s", id, snap.Status)
		}
	}
}
