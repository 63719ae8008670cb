// MockGenerator below is hand-written in the shape MockGen produces for
// the Generator interface in generator.go; this file also holds the
// hand-written fixtureGenerator.

package kernel

import (
	"context"
	reflect "reflect"

	gomock "go.uber.org/mock/gomock"
)

// MockGenerator is a mock of the Generator interface, scripted with
// scheduled arrivals so the scheduler loops can be exercised without a
// real generator goroutine racing simulated time.
type MockGenerator struct {
	ctrl     *gomock.Controller
	recorder *MockGeneratorMockRecorder
}

// MockGeneratorMockRecorder is the mock recorder for MockGenerator.
type MockGeneratorMockRecorder struct {
	mock *MockGenerator
}

// NewMockGenerator creates a new mock instance.
func NewMockGenerator(ctrl *gomock.Controller) *MockGenerator {
	mock := &MockGenerator{ctrl: ctrl}
	mock.recorder = &MockGeneratorMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockGenerator) EXPECT() *MockGeneratorMockRecorder {
	return m.recorder
}

// Run mocks base method.
func (m *MockGenerator) Run(ctx context.Context, clk *Clock, admit func(*PCB)) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Run", ctx, clk, admit)
	ret0, _ := ret[0].(error)
	return ret0
}

// Run indicates an expected call of Run.
func (mr *MockGeneratorMockRecorder) Run(ctx, clk, admit interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Run", reflect.TypeOf((*MockGenerator)(nil).Run), ctx, clk, admit)
}

// scriptedArrival pairs a PCB with the simulated-time offset at which the
// fixture generator admits it, for tests that want deterministic arrival
// ordering without a gomock expectation per call.
type scriptedArrival struct {
	pcb       *PCB
	arrivalMS int64
}

// fixtureGenerator is a minimal, non-mock Generator used by scheduler
// tests that need real concurrent arrival behavior (worker goroutines
// actually running) rather than a scripted mock call.
type fixtureGenerator struct {
	arrivals []scriptedArrival
}

func newFixtureGenerator(arrivals ...scriptedArrival) *fixtureGenerator {
	return &fixtureGenerator{arrivals: arrivals}
}

func (g *fixtureGenerator) Run(ctx context.Context, clk *Clock, admit func(*PCB)) error {
	remaining := make([]scriptedArrival, len(g.arrivals))
	copy(remaining, g.arrivals)

	for len(remaining) > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		now := clk.NowMillis()
		next := remaining[:0]
		for _, a := range remaining {
			if now >= a.arrivalMS {
				admit(a.pcb)
			} else {
				next = append(next, a)
			}
		}
		remaining = next
		if len(remaining) > 0 {
			sleepMillis(1)
		}
	}
	return nil
}
