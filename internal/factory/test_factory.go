package factory

import (
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/game2048/internal/dependencies/mocks"
	"github.com/mcoot/game2048/internal/services/auth"
	"github.com/mcoot/game2048/internal/services/game"
	"github.com/mcoot/game2048/internal/services/suggestion"
	"github.com/mcoot/game2048/internal/storage/memory"
	"github.com/mcoot/game2048/internal/testutil"
)

// TestSuggestionReply is the scripted model reply used by NewTestApp
const TestSuggestionReply = `{"recommended": "LEFT", "reasoning": "Keeps the largest tile in the corner."}`

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	MockModel  *mocks.MockModel
	Memory     *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// Game suggestions run through the real suggestion service backed by MockModel.
func NewTestApp() *TestApp {
	return NewTestAppWithLogger(testutil.NopLogger())
}

// NewTestAppWithLogger is NewTestApp with a caller-supplied logger
func NewTestAppWithLogger(logger *slog.Logger) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	mockModel := mocks.NewMockModel(TestSuggestionReply)

	suggestionService := suggestion.New(mockModel, logger)
	app := newWithDependencies(
		store,
		mockClock,
		mockRandom,
		auth.Config{Cost: bcrypt.MinCost},
		suggestionService,
		suggestionService,
		game.Config{},
		logger,
	)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		MockModel:  mockModel,
		Memory:     store,
	}
}
