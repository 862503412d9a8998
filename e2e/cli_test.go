//go:build e2e

package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scopecreep/projectgame/internal/api"
	"github.com/scopecreep/projectgame/internal/factory"
)

// manualRules disables the auto-end-turn timers so the CLI drives every
// phase transition explicitly
const manualRules = `
turn_settle_delay: 1h
auto_select_delay: 1h
auto_end_turn: false
`

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "pgame-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/pgame")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	server   *http.Server
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	rulesPath := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(rulesPath, []byte(manualRules), 0o644))

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	app, err := factory.New(factory.Config{
		RulesPath: rulesPath,
		Logger:    logger,
	})
	require.NoError(t, err)

	// Load the production board content
	projectRoot := findProjectRoot(t)
	err = app.ContentService.LoadFromDir(context.Background(), filepath.Join(projectRoot, "data"))
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		Store:          app.Store,
		Orchestrator:   app.Orchestrator,
		MovementEngine: app.MovementEngine,
		Storage:        app.Storage,
		HubManager:     app.HubManager,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		server: server,
		addr:   serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing

type playerResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Position    string `json:"position"`
	Money       int    `json:"money"`
	TimeSpent   int    `json:"time_spent"`
}

type turnResponse struct {
	Phase            string   `json:"phase"`
	Number           int      `json:"number"`
	CompletedActions []string `json:"completed_actions"`
}

type gameStateResponse struct {
	ID             string           `json:"id"`
	Players        []playerResponse `json:"players"`
	ActivePlayerID string           `json:"active_player_id"`
	Status         string           `json:"status"`
	Turn           turnResponse     `json:"turn"`
	Winner         string           `json:"winner,omitempty"`
}

type movesResponse struct {
	PlayerID string   `json:"player_id"`
	Moves    []string `json:"moves"`
}

type summaryResponse struct {
	ID     string `json:"id"`
	Winner string `json:"winner"`
	Turns  int    `json:"turns"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_FullGameFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Create a two-player game; player IDs are server-generated
	output, err := cli.run("game", "new", "Alice", "Bob")
	require.NoError(t, err, "output: %s", output)

	var game gameStateResponse
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	assert.Equal(t, "in_progress", game.Status)
	assert.Equal(t, "MOVING", game.Turn.Phase)
	require.Len(t, game.Players, 2)
	assert.Equal(t, "Alice", game.Players[0].DisplayName)
	assert.Equal(t, "project-kickoff", game.Players[0].Position)
	alice := game.Players[0].ID
	bob := game.Players[1].ID
	require.Equal(t, alice, game.ActivePlayerID)
	t.Logf("Game %s: alice=%s bob=%s", game.ID, alice, bob)

	// The active player's only move from the kickoff
	output, err = cli.run("game", "moves")
	require.NoError(t, err, "output: %s", output)
	var moves movesResponse
	require.NoError(t, json.Unmarshal([]byte(output), &moves))
	assert.Equal(t, alice, moves.PlayerID)
	assert.Equal(t, []string{"gather-requirements"}, moves.Moves)

	// Alice moves and ends her turn
	output, err = cli.run("game", "move", alice, "gather-requirements")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	assert.Equal(t, "ACTING", game.Turn.Phase)
	assert.Equal(t, "gather-requirements", game.Players[0].Position)
	assert.Contains(t, game.Turn.CompletedActions, "move")

	output, err = cli.run("game", "end", alice)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	assert.Equal(t, bob, game.ActivePlayerID)
	assert.Equal(t, 2, game.Turn.Number)

	// Bob follows
	output, err = cli.run("game", "move", bob, "gather-requirements")
	require.NoError(t, err, "output: %s", output)
	output, err = cli.run("game", "end", bob)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	assert.Equal(t, alice, game.ActivePlayerID)
	assert.Equal(t, 3, game.Turn.Number)

	// Alice advances to the design phase
	output, err = cli.run("game", "moves", alice)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &moves))
	assert.Equal(t, []string{"design-phase"}, moves.Moves)

	output, err = cli.run("game", "move", alice, "design-phase")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	assert.Equal(t, "design-phase", game.Players[0].Position)

	// State is queryable at any point
	output, err = cli.run("game", "get")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	assert.Equal(t, "in_progress", game.Status)
	assert.Equal(t, alice, game.ActivePlayerID)
}

func TestCLI_GameAbandon(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("game", "new", "Alice")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("game", "abandon")
	require.NoError(t, err, "output: %s", output)

	var msgResp messageResponse
	require.NoError(t, json.Unmarshal([]byte(output), &msgResp))
	assert.Equal(t, "Game abandoned", msgResp.Message)

	output, err = cli.run("game", "get")
	assert.Error(t, err, "should not find game after abandon")
	assert.Contains(t, output, "GAME_NOT_STARTED")
}

func TestCLI_History(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// No games have completed yet
	output, err := cli.run("game", "history")
	require.NoError(t, err, "output: %s", output)

	var summaries []summaryResponse
	require.NoError(t, json.Unmarshal([]byte(output), &summaries))
	assert.Empty(t, summaries)
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// No game yet
	output, err := cli.run("game", "get")
	assert.Error(t, err)
	assert.Contains(t, output, "GAME_NOT_STARTED")

	output, err = cli.run("game", "new", "Alice", "Bob")
	require.NoError(t, err, "output: %s", output)
	var game gameStateResponse
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	alice := game.Players[0].ID
	bob := game.Players[1].ID

	// Bob acts out of turn
	output, err = cli.run("game", "move", bob, "gather-requirements")
	assert.Error(t, err)
	assert.Contains(t, output, "NOT_YOUR_TURN")

	// Alice picks a space the board does not offer
	output, err = cli.run("game", "move", alice, "launch")
	assert.Error(t, err)
	assert.Contains(t, output, "INVALID_MOVE")

	// Rolling only works on dice spaces
	output, err = cli.run("game", "roll", alice)
	assert.Error(t, err)
	assert.Contains(t, strings.ToUpper(output), "SPACE_NOT_FOUND")
}
