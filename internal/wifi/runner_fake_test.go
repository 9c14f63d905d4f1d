package wifi

import (
	"context"
	"strings"
	"sync"
)

// fakeRunner is a scripted command runner for tests. Responses are matched
// by substring against the full command line; unmatched commands succeed
// with empty output.
type fakeRunner struct {
	mu        sync.Mutex
	calls     []string
	responses []fakeResponse
}

type fakeResponse struct {
	match string
	out   string
	err   error
}

func (f *fakeRunner) respond(match string, out string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, fakeResponse{match: match, out: out, err: err})
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	line := name + " " + strings.Join(args, " ")

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, line)

	for _, resp := range f.responses {
		if strings.Contains(line, resp.match) {
			return resp.out, resp.err
		}
	}
	return "", nil
}

// callsContaining returns the recorded command lines matching a substring.
func (f *fakeRunner) callsContaining(substr string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []string
	for _, call := range f.calls {
		if strings.Contains(call, substr) {
			matched = append(matched, call)
		}
	}
	return matched
}
