package llm

import (
	"log"
	"os"
	"time"
)

const (
	// EnvTaskchatMode is the environment variable name for mode selection.
	EnvTaskchatMode = "TASKCHAT_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// NewCompletionClient creates a completion client based on the TASKCHAT_MODE
// environment variable. If TASKCHAT_MODE=MOCK, returns a MockClient;
// otherwise returns a real Client.
func NewCompletionClient(baseURL, apiKey string, timeout time.Duration) CompletionClient {
	mode := os.Getenv(EnvTaskchatMode)

	if mode == ModeMock {
		log.Println("TASKCHAT_MODE=MOCK detected, using mock completion client")
		return NewMockClient()
	}

	return NewClient(baseURL, apiKey, timeout)
}
