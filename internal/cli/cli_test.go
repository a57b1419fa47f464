package cli_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/game2048/internal/api"
	"github.com/mcoot/game2048/internal/cli"
	"github.com/mcoot/game2048/internal/factory"
	"github.com/mcoot/game2048/internal/testutil"
)

type cliHarness struct {
	t         *testing.T
	app       *factory.TestApp
	serverURL string
	tokenFile string
}

func newCLIHarness(t *testing.T) *cliHarness {
	t.Helper()

	app := factory.NewTestApp()
	server := httptest.NewServer(api.NewRouter(api.RouterConfig{
		Logger:         testutil.NopLogger(),
		GameController: app.GameController,
		Suggester:      app.SuggestionService,
	}))
	t.Cleanup(server.Close)

	return &cliHarness{
		t:         t,
		app:       app,
		serverURL: server.URL,
		tokenFile: filepath.Join(t.TempDir(), "tokens.json"),
	}
}

// run executes the CLI and returns stdout, stderr and the command error
func (h *cliHarness) run(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer

	cmd := cli.NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{
		"--server", h.serverURL,
		"--token-file", h.tokenFile,
		"--token", "",
	}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (h *cliHarness) newGame() cli.CreateResult {
	out, _, err := h.run("-o", "json", "game", "new")
	require.NoError(h.t, err, out)

	var result cli.CreateResult
	require.NoError(h.t, json.Unmarshal([]byte(out), &result))
	return result
}

func (h *cliHarness) storedTokens() map[string]string {
	data, err := os.ReadFile(h.tokenFile)
	require.NoError(h.t, err)

	tokens := map[string]string{}
	require.NoError(h.t, json.Unmarshal(data, &tokens))
	return tokens
}

func TestHealth(t *testing.T) {
	h := newCLIHarness(t)

	out, _, err := h.run("health")
	require.NoError(t, err)
	assert.Equal(t, "Status: ok\n", out)

	out, _, err = h.run("-o", "json", "health")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, out)
}

func TestInvalidOutputFormat(t *testing.T) {
	h := newCLIHarness(t)

	_, _, err := h.run("-o", "yaml", "health")
	assert.ErrorContains(t, err, "invalid --output")
}

func TestGameNewSavesToken(t *testing.T) {
	h := newCLIHarness(t)

	result := h.newGame()
	assert.Equal(t, "AAAAAAAAAAAA", result.Game.ID)
	assert.Equal(t, "new", result.Game.Status)
	assert.NotEmpty(t, result.PlayToken)

	assert.Equal(t, map[string]string{result.Game.ID: result.PlayToken}, h.storedTokens())
}

func TestGameTextOutputPrintsBoard(t *testing.T) {
	h := newCLIHarness(t)
	id := h.newGame().Game.ID

	out, _, err := h.run("game", "get", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Game: "+id)
	assert.Contains(t, out, "Status: new")
	assert.Contains(t, out, "+------+------+------+------+\n")
	assert.Contains(t, out, "|    2 |    2 |    . |    . |\n")
	assert.Contains(t, out, "|    . |    . |    . |    . |\n")
}

func TestGameMove(t *testing.T) {
	h := newCLIHarness(t)
	id := h.newGame().Game.ID

	out, _, err := h.run("game", "move", id, "LEFT")
	require.NoError(t, err)
	assert.Contains(t, out, "Status: playing")
	assert.Contains(t, out, "Score: 4")
	assert.Contains(t, out, "Moves: 1")
	assert.Contains(t, out, "|    4 |    2 |    . |    . |\n")
}

func TestGameMoveRejectsBadDirection(t *testing.T) {
	h := newCLIHarness(t)
	id := h.newGame().Game.ID

	_, _, err := h.run("game", "move", id, "sideways")
	assert.Error(t, err)

	out, _, err := h.run("-o", "json", "game", "get", id)
	require.NoError(t, err)
	var game cli.GameState
	require.NoError(t, json.Unmarshal([]byte(out), &game))
	assert.Equal(t, 0, game.MoveCount)
}

func TestGameWithoutStoredToken(t *testing.T) {
	h := newCLIHarness(t)

	_, _, err := h.run("game", "get", "NOSUCHGAME01")
	assert.ErrorContains(t, err, "no play token stored")
}

func TestGameWithExplicitToken(t *testing.T) {
	h := newCLIHarness(t)
	created := h.newGame()
	require.NoError(t, os.Remove(h.tokenFile))

	out, _, err := h.run("--token", created.PlayToken, "game", "get", created.Game.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Game: "+created.Game.ID)

	_, _, err = h.run("--token", "pt_wrong", "game", "get", created.Game.ID)
	assert.Error(t, err)
}

func TestGameSuggest(t *testing.T) {
	h := newCLIHarness(t)
	id := h.newGame().Game.ID

	out, _, err := h.run("game", "suggest", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Suggestion:")
	assert.Contains(t, out, "Keeps the largest tile in the corner.")
	assert.Equal(t, 1, h.app.MockModel.CallCount())
}

func TestGameResetAndDelete(t *testing.T) {
	h := newCLIHarness(t)
	id := h.newGame().Game.ID

	_, _, err := h.run("game", "move", id, "left")
	require.NoError(t, err)

	out, _, err := h.run("-o", "json", "game", "reset", id)
	require.NoError(t, err)
	var game cli.GameState
	require.NoError(t, json.Unmarshal([]byte(out), &game))
	assert.Equal(t, "new", game.Status)
	assert.Equal(t, 0, game.Score)

	out, _, err = h.run("game", "delete", id)
	require.NoError(t, err)
	assert.Equal(t, "Game deleted\n", out)
	assert.Empty(t, h.storedTokens())
}

func TestSuggestArbitraryBoard(t *testing.T) {
	h := newCLIHarness(t)

	board := `[[2,2,null,null],[null,null,null,null],[null,null,null,null],[null,null,null,4]]`
	out, _, err := h.run("suggest", "--board", board)
	require.NoError(t, err)
	assert.Equal(t, "Recommended: LEFT\nReasoning: Keeps the largest tile in the corner.\n", out)

	require.Len(t, h.app.MockModel.Calls, 1)
	assert.Contains(t, h.app.MockModel.Calls[0].User, board)
}

func TestSuggestFromFile(t *testing.T) {
	h := newCLIHarness(t)

	path := filepath.Join(t.TempDir(), "board.json")
	board := `[[null,null,null,null],[null,8,null,null],[null,null,null,null],[null,null,null,null]]`
	require.NoError(t, os.WriteFile(path, []byte(board), 0o600))

	out, _, err := h.run("-o", "json", "suggest", "--board-file", path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"recommended":"LEFT","reasoning":"Keeps the largest tile in the corner."}`, out)
}

func TestSuggestRejectsBadBoard(t *testing.T) {
	h := newCLIHarness(t)

	_, _, err := h.run("suggest")
	assert.ErrorContains(t, err, "--board")

	_, _, err = h.run("suggest", "--board", "not json")
	assert.ErrorContains(t, err, "not valid JSON")

	_, _, err = h.run("suggest", "--board", `[[1,2],[3,4]]`)
	assert.ErrorContains(t, err, "HTTP 400")
	assert.Equal(t, 0, h.app.MockModel.CallCount())
}
