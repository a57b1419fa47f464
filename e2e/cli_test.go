package e2e_test

import (
	"context"
	"encoding/json"
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

	"github.com/mcoot/game2048/internal/api"
	"github.com/mcoot/game2048/internal/factory"
	"github.com/mcoot/game2048/internal/testutil"
	"github.com/mcoot/game2048/internal/web"
	"github.com/mcoot/game2048/internal/web/sse"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "g2048-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/g2048")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "tokens.json"),
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	cmd.Env = append(os.Environ(), "G2048_TOKEN=")
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runWithToken(token string, args ...string) (string, error) {
	return r.run(append([]string{"--token", token}, args...)...)
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
	app      *factory.TestApp
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

	// Scripted model and randomness, real HTTP stack
	logger := testutil.NopLogger()
	app := factory.NewTestAppWithLogger(logger)
	hubManager := sse.NewHubManager(logger)

	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		GameController: app.GameController,
		Suggester:      app.SuggestionService,
	})
	webRouter := web.NewRouter(web.RouterConfig{
		Logger:         logger,
		GameController: app.GameController,
		HubManager:     hubManager,
	})

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/health", apiRouter)
	mux.Handle("/prompt", apiRouter)
	mux.Handle("/", webRouter)

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/health")

	return &testServer{
		app:  app,
		addr: serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
			hubManager.Close()
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
type gameResponse struct {
	ID          string              `json:"id"`
	Status      string              `json:"status"`
	Score       int                 `json:"score"`
	MoveCount   int                 `json:"move_count"`
	Locked      bool                `json:"locked"`
	BoardValues [][]*int            `json:"board_values"`
	LegalMoves  []string            `json:"legal_moves"`
	Suggestion  *suggestionResponse `json:"suggestion"`
}

type suggestionResponse struct {
	Recommended string `json:"recommended"`
	Reasoning   string `json:"reasoning"`
	DisplayText string `json:"display_text"`
	MoveCount   int    `json:"move_count"`
}

type createResponse struct {
	Game      gameResponse `json:"game"`
	PlayToken string       `json:"play_token"`
}

type promptResponse struct {
	Recommended string `json:"recommended"`
	Reasoning   string `json:"reasoning"`
}

type healthResponse struct {
	OK bool `json:"ok"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func rowValues(row []*int) []int {
	out := make([]int, len(row))
	for i, v := range row {
		if v != nil {
			out[i] = *v
		}
	}
	return out
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
	assert.True(t, resp.OK)
}

func TestCLI_FullGameFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Start a game; the token is kept in the token file
	output, err := cli.run("game", "new")
	require.NoError(t, err, "output: %s", output)

	var created createResponse
	require.NoError(t, json.Unmarshal([]byte(output), &created))
	gameID := created.Game.ID
	assert.Equal(t, "new", created.Game.Status)
	assert.Equal(t, []int{2, 2, 0, 0}, rowValues(created.Game.BoardValues[0]))

	// Merge left
	output, err = cli.run("game", "move", gameID, "left")
	require.NoError(t, err, "output: %s", output)

	var game gameResponse
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	assert.Equal(t, "playing", game.Status)
	assert.Equal(t, 4, game.Score)
	assert.Equal(t, 1, game.MoveCount)
	assert.Equal(t, []int{4, 2, 0, 0}, rowValues(game.BoardValues[0]))

	// Ask for a suggestion
	output, err = cli.run("game", "suggest", gameID)
	require.NoError(t, err, "output: %s", output)

	game = gameResponse{}
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	require.NotNil(t, game.Suggestion)
	assert.Equal(t, "LEFT", game.Suggestion.Recommended)
	assert.Equal(t, 1, game.Suggestion.MoveCount)
	assert.False(t, game.Locked)

	// Get sees the stored suggestion
	output, err = cli.run("game", "get", gameID)
	require.NoError(t, err, "output: %s", output)
	game = gameResponse{}
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	require.NotNil(t, game.Suggestion)

	// Reset
	output, err = cli.run("game", "reset", gameID)
	require.NoError(t, err, "output: %s", output)
	game = gameResponse{}
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	assert.Equal(t, "new", game.Status)
	assert.Equal(t, 0, game.MoveCount)
	assert.Nil(t, game.Suggestion)

	// Delete
	output, err = cli.run("game", "delete", gameID)
	require.NoError(t, err, "output: %s", output)
	var msg messageResponse
	require.NoError(t, json.Unmarshal([]byte(output), &msg))
	assert.Equal(t, "Game deleted", msg.Message)

	// The token went with the game
	_, err = cli.run("game", "get", gameID)
	assert.Error(t, err)
	_, err = cli.runWithToken(created.PlayToken, "game", "get", gameID)
	assert.Error(t, err, "should not find game after delete")
}

func TestCLI_TextOutput(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("game", "new")
	require.NoError(t, err, "output: %s", output)
	var created createResponse
	require.NoError(t, json.Unmarshal([]byte(output), &created))

	output, err = cli.run("--output", "text", "game", "get", created.Game.ID)
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, output, "Status: new")
	assert.Contains(t, output, "|    2 |    2 |    . |    . |")
}

func TestCLI_SuggestArbitraryBoard(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("suggest", "--board",
		`[[2,2,null,null],[null,null,null,null],[null,null,null,null],[null,null,null,null]]`)
	require.NoError(t, err, "output: %s", output)

	var resp promptResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "LEFT", resp.Recommended)
	assert.NotEmpty(t, resp.Reasoning)
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// No stored token
	output, err := cli.run("game", "get", "NOSUCHGAME01")
	assert.Error(t, err)
	assert.Contains(t, output, "no play token stored")

	// Wrong token for a real game
	output, err = cli.run("game", "new")
	require.NoError(t, err, "output: %s", output)
	var created createResponse
	require.NoError(t, json.Unmarshal([]byte(output), &created))

	output, err = cli.runWithToken("pt_not-the-token", "game", "get", created.Game.ID)
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "token")

	// Bad direction never reaches the server
	_, err = cli.run("game", "move", created.Game.ID, "diagonal")
	assert.Error(t, err)

	// Malformed board
	output, err = cli.run("suggest", "--board", `[[2,4]]`)
	assert.Error(t, err)
	assert.Contains(t, output, "Invalid request")
}
