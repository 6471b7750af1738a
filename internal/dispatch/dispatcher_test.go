package dispatch

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/legistyr/termbench/internal/dataset"
	"github.com/legistyr/termbench/internal/openrouter"
)

// mockClient is a Completer that records call volume and the peak number of
// in-flight requests. fn, when set, decides the per-call outcome from the
// message content.
type mockClient struct {
	mu          sync.Mutex
	calls       int
	inFlight    int
	maxInFlight int
	delay       time.Duration
	fn          func(messages []openrouter.Message) (*openrouter.Completion, error)
}

func (m *mockClient) Complete(ctx context.Context, messages []openrouter.Message) (*openrouter.Completion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.calls++
	m.inFlight++
	if m.inFlight > m.maxInFlight {
		m.maxInFlight = m.inFlight
	}
	m.mu.Unlock()

	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	m.mu.Lock()
	m.inFlight--
	m.mu.Unlock()

	if m.fn != nil {
		return m.fn(messages)
	}
	return &openrouter.Completion{Text: "ok"}, nil
}

func (m *mockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockClient) MaxInFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxInFlight
}

func makeRows(n int) []dataset.Row {
	rows := make([]dataset.Row, n)
	for i := range rows {
		rows[i] = dataset.Row{Index: i, Example: fmt.Sprintf("sentence-%d", i)}
	}
	return rows
}

func echoBuild(row dataset.Row) []openrouter.Message {
	return []openrouter.Message{{Role: openrouter.RoleUser, Content: row.Example}}
}

// --- Tests ---

func TestDispatcher_IndexAlignment(t *testing.T) {
	// Completions land in arbitrary order; the result slice must not care.
	client := &mockClient{
		fn: func(messages []openrouter.Message) (*openrouter.Completion, error) {
			time.Sleep(time.Duration(rand.IntN(8)) * time.Millisecond)
			return &openrouter.Completion{Text: "echo " + messages[0].Content}, nil
		},
	}
	d := New(client, 5, nil)

	rows := makeRows(20)
	results := d.Run(context.Background(), rows, echoBuild)

	if len(results) != 20 {
		t.Fatalf("expected 20 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Index != i {
			t.Errorf("result %d: expected index %d, got %d", i, i, r.Index)
		}
		if r.Failed() {
			t.Errorf("result %d: unexpected failure: %v", i, r.Err)
			continue
		}
		want := fmt.Sprintf("echo sentence-%d", i)
		if r.Completion.Text != want {
			t.Errorf("result %d: expected %q, got %q", i, want, r.Completion.Text)
		}
	}
}

func TestDispatcher_ConcurrencyCeiling(t *testing.T) {
	client := &mockClient{delay: 5 * time.Millisecond}
	d := New(client, 4, nil)

	results := d.Run(context.Background(), makeRows(30), echoBuild)

	if client.CallCount() != 30 {
		t.Errorf("expected 30 calls, got %d", client.CallCount())
	}
	if max := client.MaxInFlight(); max > 4 {
		t.Errorf("expected at most 4 in-flight requests, observed %d", max)
	}
	if max := client.MaxInFlight(); max < 2 {
		t.Errorf("expected requests to overlap, observed peak %d", max)
	}
	for i, r := range results {
		if r.Failed() {
			t.Errorf("result %d: unexpected failure: %v", i, r.Err)
		}
	}
}

func TestDispatcher_LimitFloor(t *testing.T) {
	client := &mockClient{delay: 2 * time.Millisecond}
	d := New(client, 0, nil)

	d.Run(context.Background(), makeRows(5), echoBuild)

	if max := client.MaxInFlight(); max != 1 {
		t.Errorf("expected serialized requests with limit 0, observed peak %d", max)
	}
}

func TestDispatcher_FailureContainment(t *testing.T) {
	client := &mockClient{
		fn: func(messages []openrouter.Message) (*openrouter.Completion, error) {
			if messages[0].Content == "sentence-1" {
				return nil, errors.New("model refused")
			}
			return &openrouter.Completion{Text: "fine"}, nil
		},
	}
	d := New(client, 3, nil)

	results := d.Run(context.Background(), makeRows(3), echoBuild)

	if results[0].Failed() || results[2].Failed() {
		t.Errorf("expected rows 0 and 2 to succeed, got %v / %v", results[0].Err, results[2].Err)
	}
	if !results[1].Failed() {
		t.Fatal("expected row 1 to fail")
	}
	if results[1].Completion != nil {
		t.Errorf("expected nil completion on failure, got %+v", results[1].Completion)
	}
	if results[1].Err.Error() != "model refused" {
		t.Errorf("expected failure to carry the client error, got %v", results[1].Err)
	}
}

func TestDispatcher_ProgressCoversEveryRow(t *testing.T) {
	var mu sync.Mutex
	var seen []int
	var lastTotal atomic.Int64

	d := New(&mockClient{delay: time.Millisecond}, 4, func(done, total int) {
		mu.Lock()
		seen = append(seen, done)
		mu.Unlock()
		lastTotal.Store(int64(total))
	})

	d.Run(context.Background(), makeRows(10), echoBuild)

	if lastTotal.Load() != 10 {
		t.Errorf("expected total 10, got %d", lastTotal.Load())
	}
	if len(seen) != 10 {
		t.Fatalf("expected 10 progress calls, got %d", len(seen))
	}
	sort.Ints(seen)
	for i, v := range seen {
		if v != i+1 {
			t.Fatalf("expected progress values 1..10, got %v", seen)
		}
	}
}

func TestDispatcher_EmptyRows(t *testing.T) {
	client := &mockClient{}
	d := New(client, 4, func(done, total int) {
		t.Error("progress must not fire for an empty batch")
	})

	results := d.Run(context.Background(), nil, echoBuild)

	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
	if client.CallCount() != 0 {
		t.Errorf("expected no calls, got %d", client.CallCount())
	}
}

func TestDispatcher_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := New(&mockClient{}, 4, nil)
	results := d.Run(ctx, makeRows(6), echoBuild)

	for i, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("result %d: expected context.Canceled, got %v", i, r.Err)
		}
	}
}

func TestSummarize(t *testing.T) {
	cost1 := 0.002
	cost2 := 0.0035
	results := []Result{
		{Index: 0, Completion: &openrouter.Completion{Text: "a", Cost: &cost1, PromptTokens: 100, OutputTokens: 10}},
		{Index: 1, Err: errors.New("boom")},
		{Index: 2, Completion: &openrouter.Completion{Text: "b", Cost: &cost2, PromptTokens: 120, OutputTokens: 12}},
		{Index: 3, Completion: &openrouter.Completion{Text: "c", PromptTokens: 80, OutputTokens: 8}},
	}

	s := Summarize(results)

	if s.Succeeded != 3 || s.Failed != 1 {
		t.Errorf("expected 3 succeeded / 1 failed, got %d / %d", s.Succeeded, s.Failed)
	}
	if !s.CostKnown {
		t.Error("expected CostKnown with reported costs")
	}
	if s.TotalCost < 0.0054 || s.TotalCost > 0.0056 {
		t.Errorf("expected total cost ~0.0055, got %f", s.TotalCost)
	}
	if s.PromptTokens != 300 || s.OutputTokens != 30 {
		t.Errorf("expected 300/30 tokens, got %d/%d", s.PromptTokens, s.OutputTokens)
	}
}

func TestSummarizeNoCostData(t *testing.T) {
	results := []Result{
		{Index: 0, Completion: &openrouter.Completion{Text: "a"}},
	}

	s := Summarize(results)

	if s.CostKnown {
		t.Error("expected CostKnown false when the API reports no cost")
	}
	if s.TotalCost != 0 {
		t.Errorf("expected zero total cost, got %f", s.TotalCost)
	}
}
