package app

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	gorillaws "github.com/gorilla/websocket"

	"github.com/abrezinsky/jeopardy/internal/config"
	"github.com/abrezinsky/jeopardy/internal/game"
	"github.com/abrezinsky/jeopardy/internal/logger"
	"github.com/abrezinsky/jeopardy/internal/models"
	"github.com/abrezinsky/jeopardy/internal/testutil"
	"github.com/abrezinsky/jeopardy/pkg/oracle"
)

func TestNew_InitializesApp(t *testing.T) {
	app := createTestApp(t)

	if app.handlers == nil {
		t.Error("expected handlers to be initialized")
	}
	if app.repo == nil {
		t.Error("expected repo to be initialized")
	}
	if app.hub == nil || app.games == nil || app.corpus == nil {
		t.Error("expected hub and services to be initialized")
	}

	stats, err := app.corpus.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.QuestionSets != 6 {
		t.Errorf("expected clue bank seeded with 6 sets, got %d", stats.QuestionSets)
	}
}

func TestNew_FailsWithBadDBPath(t *testing.T) {
	cfg := testConfig(t)
	cfg.DBPath = "/nonexistent/path/db.sqlite"

	_, err := New(logger.Discard(), cfg, oracle.NewMockClient(), createTestTemplatesFS(), fstest.MapFS{})

	if err == nil {
		t.Error("expected error for invalid db path")
	}
}

func TestNew_FailsWithMissingTemplates(t *testing.T) {
	_, err := New(logger.Discard(), testConfig(t), oracle.NewMockClient(), fstest.MapFS{}, fstest.MapFS{})

	if err == nil {
		t.Error("expected error for missing templates")
	}
}

func TestNew_MissingCorpusIsNotFatal(t *testing.T) {
	cfg := testConfig(t)
	cfg.CorpusPath = filepath.Join(t.TempDir(), "missing.json")

	app, err := New(logger.Discard(), cfg, oracle.NewMockClient(), createTestTemplatesFS(), fstest.MapFS{})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	defer app.Close()

	stats, err := app.corpus.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Records != 0 {
		t.Errorf("expected empty clue bank, got %d records", stats.Records)
	}
}

func TestApp_Router_ServesRequests(t *testing.T) {
	app := createTestApp(t)
	server := httptest.NewServer(app.Router())
	defer server.Close()

	resp, err := http.Get(server.URL + "/")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for /, got %d", resp.StatusCode)
	}

	resp, err = http.Post(server.URL+"/api/games", "application/json", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("expected 201 for POST /api/games, got %d", resp.StatusCode)
	}
}

func TestApp_GeneratedBoards(t *testing.T) {
	cfg := testConfig(t)
	cfg.CorpusPath = ""
	cfg.Generate = true
	grader := oracle.NewMockClient(oracle.WithBoard(testutil.CorpusRecords(6)))

	app, err := New(logger.Discard(), cfg, grader, createTestTemplatesFS(), fstest.MapFS{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer app.Close()

	ctx := context.Background()
	snap, err := app.games.CreateGame(ctx)
	if err != nil {
		t.Fatalf("CreateGame failed: %v", err)
	}
	if _, err := app.games.StartGame(ctx, snap.GameID); err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}

	final := waitSettled(t, app, snap.GameID)
	if final.Status != game.StatusReady {
		t.Fatalf("expected ready, got %s (%s)", final.Status, final.Error)
	}
	if grader.GenerateCalls() != 1 {
		t.Errorf("expected one generated board, got %d", grader.GenerateCalls())
	}
}

func TestApp_WebSocketReceivesUpdates(t *testing.T) {
	app := createTestApp(t)
	server := httptest.NewServer(app.Router())
	defer server.Close()

	ctx := context.Background()
	snap, err := app.games.CreateGame(ctx)
	if err != nil {
		t.Fatalf("CreateGame failed: %v", err)
	}

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/" + snap.GameID
	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	// Wait for registration before changing state
	for i := 0; i < 500 && app.hub.ClientCount(snap.GameID) == 0; i++ {
		time.Sleep(time.Millisecond)
	}

	if _, err := app.games.StartGame(ctx, snap.GameID); err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var msg struct {
			Type    string        `json:"type"`
			Payload game.Snapshot `json:"payload"`
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read failed before the board arrived: %v", err)
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("bad message %q: %v", data, err)
		}
		if msg.Type != "snapshot" || msg.Payload.GameID != snap.GameID {
			t.Fatalf("unexpected message %+v", msg)
		}
		if msg.Payload.Status == game.StatusReady {
			return
		}
	}
}

func TestApp_Close_IsSafeBeforeRun(t *testing.T) {
	app := createTestApp(t)
	app.Close()
}

func TestResolveBaseURL_ConfigWins(t *testing.T) {
	app := createTestApp(t)
	app.cfg.BaseURL = "https://trivia.example.com"

	if got := app.resolveBaseURL("http://192.168.1.100:8080"); got != "https://trivia.example.com" {
		t.Errorf("expected configured URL, got %s", got)
	}
}

func TestResolveBaseURL_SetsWhenEmpty(t *testing.T) {
	app := createTestApp(t)
	ctx := context.Background()
	if err := app.repo.SetSetting(ctx, SettingBaseURL, ""); err != nil {
		t.Fatalf("failed to clear setting: %v", err)
	}

	got := app.resolveBaseURL("http://192.168.1.100:8080")

	if got != "http://192.168.1.100:8080" {
		t.Errorf("expected detected URL, got %s", got)
	}
	val, err := app.repo.GetSetting(ctx, SettingBaseURL)
	if err != nil {
		t.Fatalf("failed to get setting: %v", err)
	}
	if val != "http://192.168.1.100:8080" {
		t.Errorf("expected base_url to be stored, got: %s", val)
	}
}

func TestResolveBaseURL_ReplacesLocalhost(t *testing.T) {
	app := createTestApp(t)
	ctx := context.Background()
	if err := app.repo.SetSetting(ctx, SettingBaseURL, "http://localhost:8080"); err != nil {
		t.Fatalf("failed to set initial setting: %v", err)
	}

	if got := app.resolveBaseURL("http://192.168.1.100:8080"); got != "http://192.168.1.100:8080" {
		t.Errorf("expected localhost to be replaced, got: %s", got)
	}
}

func TestResolveBaseURL_KeepsStoredURL(t *testing.T) {
	app := createTestApp(t)
	ctx := context.Background()
	if err := app.repo.SetSetting(ctx, SettingBaseURL, "http://192.168.1.50:8080"); err != nil {
		t.Fatalf("failed to set initial setting: %v", err)
	}

	if got := app.resolveBaseURL("http://192.168.1.100:8080"); got != "http://192.168.1.50:8080" {
		t.Errorf("expected stored URL to remain, got: %s", got)
	}
}

func TestResolveBaseURL_HandlesRepoError(t *testing.T) {
	app := createTestApp(t)
	app.repo.Close()

	// Falls back to the detected address and only logs
	if got := app.resolveBaseURL("http://192.168.1.100:8080"); got != "http://192.168.1.100:8080" {
		t.Errorf("expected detected URL, got: %s", got)
	}
}

// mockInterface implements networkInterface for testing
type mockInterface struct {
	flags net.Flags
	addrs []net.Addr
	err   error
}

func (m mockInterface) Flags() net.Flags {
	return m.flags
}

func (m mockInterface) Addrs() ([]net.Addr, error) {
	return m.addrs, m.err
}

// mockNetworkProvider implements networkProvider for testing
type mockNetworkProvider struct {
	interfaces []networkInterface
	err        error
}

func (m mockNetworkProvider) Interfaces() ([]networkInterface, error) {
	return m.interfaces, m.err
}

func ipNet(s string) *net.IPNet {
	return &net.IPNet{IP: net.ParseIP(s), Mask: net.CIDRMask(24, 32)}
}

func TestGetPreferredIP(t *testing.T) {
	tests := []struct {
		name     string
		provider mockNetworkProvider
		want     string
	}{
		{
			name:     "network error",
			provider: mockNetworkProvider{err: net.ErrClosed},
			want:     "localhost",
		},
		{
			name: "addrs error",
			provider: mockNetworkProvider{interfaces: []networkInterface{
				mockInterface{flags: net.FlagUp, err: net.ErrClosed},
			}},
			want: "localhost",
		},
		{
			name: "ip addr",
			provider: mockNetworkProvider{interfaces: []networkInterface{
				mockInterface{flags: net.FlagUp, addrs: []net.Addr{&net.IPAddr{IP: net.ParseIP("192.168.1.100")}}},
			}},
			want: "192.168.1.100",
		},
		{
			name: "public fallback",
			provider: mockNetworkProvider{interfaces: []networkInterface{
				mockInterface{flags: net.FlagUp, addrs: []net.Addr{ipNet("8.8.8.8")}},
			}},
			want: "8.8.8.8",
		},
		{
			name: "private preferred over public",
			provider: mockNetworkProvider{interfaces: []networkInterface{
				mockInterface{flags: net.FlagUp, addrs: []net.Addr{ipNet("8.8.8.8"), ipNet("172.20.0.4")}},
			}},
			want: "172.20.0.4",
		},
		{
			name: "loopback address skipped",
			provider: mockNetworkProvider{interfaces: []networkInterface{
				mockInterface{flags: net.FlagUp, addrs: []net.Addr{ipNet("127.0.0.1"), ipNet("10.0.0.7")}},
			}},
			want: "10.0.0.7",
		},
		{
			name: "down and loopback interfaces skipped",
			provider: mockNetworkProvider{interfaces: []networkInterface{
				mockInterface{flags: 0, addrs: []net.Addr{ipNet("192.168.1.2")}},
				mockInterface{flags: net.FlagUp | net.FlagLoopback, addrs: []net.Addr{ipNet("192.168.1.3")}},
			}},
			want: "localhost",
		},
		{
			name: "ipv6 ignored",
			provider: mockNetworkProvider{interfaces: []networkInterface{
				mockInterface{flags: net.FlagUp, addrs: []net.Addr{&net.IPNet{IP: net.ParseIP("fe80::1"), Mask: net.CIDRMask(64, 128)}}},
			}},
			want: "localhost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getPreferredIP(tt.provider); got != tt.want {
				t.Errorf("getPreferredIP() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestGetPreferredIP_Real(t *testing.T) {
	ip := getPreferredIP(realNetworkProvider{})

	if ip == "" {
		t.Fatal("IP should never be empty")
	}
	if ip != "localhost" {
		parsed := net.ParseIP(ip)
		if parsed == nil || parsed.To4() == nil {
			t.Errorf("expected IPv4 address or 'localhost', got: %s", ip)
		}
	}
}

func TestApp_Run_Integration(t *testing.T) {
	app := createTestApp(t)

	done := make(chan error, 1)
	go func() {
		done <- app.Run("127.0.0.1:0")
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Logf("Run returned (expected): %v", err)
		}
	case <-time.After(100 * time.Millisecond):
		app.Close()
		if err := <-done; err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	}
}

// Helper functions

func createTestTemplatesFS() fstest.MapFS {
	return fstest.MapFS{
		"index.html": &fstest.MapFile{
			Data: []byte(`<html><body>{{.Title}}</body></html>`),
		},
	}
}

func writeCorpus(t *testing.T, records []models.ClueRecord) string {
	t.Helper()
	data, err := json.Marshal(records)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "corpus.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DBPath = ":memory:"
	cfg.CorpusPath = writeCorpus(t, testutil.CorpusRecords(6))
	cfg.DraftClearDelay = 0
	return cfg
}

func createTestApp(t *testing.T) *App {
	t.Helper()
	app, err := New(logger.Discard(), testConfig(t), oracle.NewMockClient(), createTestTemplatesFS(), fstest.MapFS{})
	if err != nil {
		t.Fatalf("failed to create test app: %v", err)
	}
	t.Cleanup(app.Close)
	return app
}

func waitSettled(t *testing.T, app *App, id string) game.Snapshot {
	t.Helper()
	for i := 0; i < 2000; i++ {
		snap, err := app.games.Snapshot(id)
		if err != nil {
			t.Fatalf("Snapshot failed: %v", err)
		}
		if snap.Status != game.StatusLoading && snap.Status != game.StatusNoBoard {
			return snap
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("board never settled")
	return game.Snapshot{}
}
