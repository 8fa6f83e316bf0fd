package oracle

import (
	"context"
	"sync"

	"github.com/abrezinsky/jeopardy/internal/models"
)

// MockClient is a scripted oracle for testing
type MockClient struct {
	mu            sync.Mutex
	replies       []string // raw model replies, parsed with ParseVerdict
	checkErr      error
	board         []models.ClueRecord
	boardReply    string
	generateErr   error
	gate          chan struct{}
	checkCalls    int
	generateCalls int
	lastResponse  string
}

// MockOption configures the mock client
type MockOption func(*MockClient)

// WithReplies queues raw answer-check replies. Each CheckAnswer consumes one;
// the last reply repeats once the queue is drained.
func WithReplies(replies ...string) MockOption {
	return func(m *MockClient) {
		m.replies = append(m.replies, replies...)
	}
}

// WithCheckError makes CheckAnswer fail
func WithCheckError(err error) MockOption {
	return func(m *MockClient) {
		m.checkErr = err
	}
}

// WithBoard sets the records GenerateBoard returns
func WithBoard(records []models.ClueRecord) MockOption {
	return func(m *MockClient) {
		m.board = records
	}
}

// WithBoardReply makes GenerateBoard parse reply as if the model returned it
func WithBoardReply(reply string) MockOption {
	return func(m *MockClient) {
		m.boardReply = reply
	}
}

// WithGenerateError makes GenerateBoard fail
func WithGenerateError(err error) MockOption {
	return func(m *MockClient) {
		m.generateErr = err
	}
}

// WithGate blocks CheckAnswer until gate is closed or receives
func WithGate(gate chan struct{}) MockOption {
	return func(m *MockClient) {
		m.gate = gate
	}
}

// NewMockClient creates a new mock client. By default every response is correct.
func NewMockClient(opts ...MockOption) *MockClient {
	m := &MockClient{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetCheckError changes the CheckAnswer error after construction
func (m *MockClient) SetCheckError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkErr = err
}

// CheckAnswer implements Client
func (m *MockClient) CheckAnswer(ctx context.Context, clue, answer, response string) (Verdict, error) {
	m.mu.Lock()
	m.checkCalls++
	m.lastResponse = response
	gate := m.gate
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return Verdict{}, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.checkErr != nil {
		return Verdict{}, m.checkErr
	}

	reply := CorrectMarker + " Well done."
	if len(m.replies) > 0 {
		reply = m.replies[0]
		if len(m.replies) > 1 {
			m.replies = m.replies[1:]
		}
	}
	return ParseVerdict(reply)
}

// GenerateBoard implements Client
func (m *MockClient) GenerateBoard(ctx context.Context) ([]models.ClueRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generateCalls++

	if m.generateErr != nil {
		return nil, m.generateErr
	}
	if m.boardReply != "" {
		return ParseBoard([]byte(m.boardReply))
	}
	return append([]models.ClueRecord(nil), m.board...), nil
}

// CheckCalls returns how many times CheckAnswer was called
func (m *MockClient) CheckCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checkCalls
}

// GenerateCalls returns how many times GenerateBoard was called
func (m *MockClient) GenerateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generateCalls
}

// LastResponse returns the response text of the latest CheckAnswer call
func (m *MockClient) LastResponse() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastResponse
}

// Ensure MockClient implements Client
var _ Client = (*MockClient)(nil)
