package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreSaveAndFetchSession(t *testing.T) {
	store := openTestStore(t)

	rec := SessionRecord{
		SessionID: "s-1",
		Player:    "alice",
		Server:    "ws://localhost:5000/ws",
		Mode:      "classic",
		Kills:     3,
		Deaths:    1,
		Score:     300,
		Shots:     42,
		Hits:      9,
		Duration:  120,
	}
	id, err := store.SaveSession(rec)
	if err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	if id == 0 {
		t.Error("Expected non-zero ID")
	}

	got, err := store.SessionByID("s-1")
	if err != nil {
		t.Fatalf("SessionByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected session, got nil")
	}
	if got.Player != "alice" || got.Kills != 3 || got.Shots != 42 || got.Duration != 120 {
		t.Errorf("Unexpected session: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("Expected created_at to be set")
	}

	missing, err := store.SessionByID("nope")
	if err != nil {
		t.Fatalf("SessionByID() for missing session failed: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil for missing session, got %+v", missing)
	}
}

func TestStoreSaveSessionValidation(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.SaveSession(SessionRecord{Player: "bob"}); err == nil {
		t.Error("Expected error for missing session id")
	}
	if _, err := store.SaveSession(SessionRecord{SessionID: "x"}); err == nil {
		t.Error("Expected error for missing player")
	}

	if _, err := store.SaveSession(SessionRecord{SessionID: "dup", Player: "bob"}); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	if _, err := store.SaveSession(SessionRecord{SessionID: "dup", Player: "bob"}); err == nil {
		t.Error("Expected error for duplicate session id")
	}
}

func TestStorePlayerTotals(t *testing.T) {
	store := openTestStore(t)

	for i, score := range []int{100, 300, 200} {
		_, err := store.SaveSession(SessionRecord{
			SessionID: fmt.Sprintf("a-%d", i),
			Player:    "alice",
			Kills:     score / 100,
			Deaths:    1,
			Score:     score,
		})
		if err != nil {
			t.Fatalf("SaveSession() failed: %v", err)
		}
	}
	store.SaveSession(SessionRecord{SessionID: "b-0", Player: "bob", Score: 1000})

	totals, err := store.PlayerTotals("alice")
	if err != nil {
		t.Fatalf("PlayerTotals() failed: %v", err)
	}
	if totals.GamesPlayed != 3 {
		t.Errorf("Expected 3 games, got %d", totals.GamesPlayed)
	}
	if totals.TotalScore != 600 {
		t.Errorf("Expected total score 600, got %d", totals.TotalScore)
	}
	if totals.BestScore != 300 {
		t.Errorf("Expected best score 300, got %d", totals.BestScore)
	}
	if totals.Kills != 6 || totals.Deaths != 3 {
		t.Errorf("Expected 6 kills and 3 deaths, got %d/%d", totals.Kills, totals.Deaths)
	}
	if kd := totals.KD(); kd != 2 {
		t.Errorf("Expected K/D 2, got %v", kd)
	}

	empty, err := store.PlayerTotals("nobody")
	if err != nil {
		t.Fatalf("PlayerTotals() for unknown player failed: %v", err)
	}
	if empty.GamesPlayed != 0 || empty.TotalScore != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("Expected zero totals, got %+v", empty)
	}
}

func TestStoreRecentSessions(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveSession(SessionRecord{SessionID: fmt.Sprintf("a-%d", i), Player: "alice", Score: i})
	}
	store.SaveSession(SessionRecord{SessionID: "b-0", Player: "bob"})

	recent, err := store.RecentSessions("alice", 3)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("Expected 3 sessions with limit, got %d", len(recent))
	}
	// Same timestamp resolution, so newest insert wins the tie.
	if recent[0].SessionID != "a-4" {
		t.Errorf("Expected newest session first, got %s", recent[0].SessionID)
	}

	all, err := store.RecentSessions("", 0)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(all) != 6 {
		t.Errorf("Expected 6 sessions across players, got %d", len(all))
	}
}

func TestStoreLeaderboard(t *testing.T) {
	store := openTestStore(t)

	store.SaveSession(SessionRecord{SessionID: "1", Player: "alice", Score: 100})
	store.SaveSession(SessionRecord{SessionID: "2", Player: "alice", Score: 150})
	store.SaveSession(SessionRecord{SessionID: "3", Player: "bob", Score: 400})
	store.SaveSession(SessionRecord{SessionID: "4", Player: "carol", Score: 50})

	board, err := store.Leaderboard(2)
	if err != nil {
		t.Fatalf("Leaderboard() failed: %v", err)
	}
	if len(board) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(board))
	}
	if board[0].Player != "bob" || board[1].Player != "alice" {
		t.Errorf("Unexpected order: %+v", board)
	}
	if board[1].GamesPlayed != 2 || board[1].TotalScore != 250 {
		t.Errorf("Unexpected alice totals: %+v", board[1])
	}
}

func TestStoreClearSessions(t *testing.T) {
	store := openTestStore(t)

	store.SaveSession(SessionRecord{SessionID: "1", Player: "alice"})
	store.SaveSession(SessionRecord{SessionID: "2", Player: "bob"})

	if err := store.ClearSessions("alice"); err != nil {
		t.Fatalf("ClearSessions() failed: %v", err)
	}

	alice, _ := store.RecentSessions("alice", 10)
	if len(alice) != 0 {
		t.Errorf("Expected 0 alice sessions after clear, got %d", len(alice))
	}
	bob, _ := store.RecentSessions("bob", 10)
	if len(bob) != 1 {
		t.Error("Bob sessions should not be affected by clearing alice")
	}
}
