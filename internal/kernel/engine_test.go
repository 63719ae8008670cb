package kernel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineFCFSTwoProcessesArrivingTogether(t *testing.T) {
	gen := newFixtureGenerator(
		scriptedArrival{pcb: NewPCB(1, 1000, 3, 1, 0), arrivalMS: 0},
		scriptedArrival{pcb: NewPCB(2, 1000, 1, 1, 0), arrivalMS: 0},
	)
	e := NewSchedulerEngine(EngineConfig{Policy: FCFS, Generator: gen})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	essential, err := e.Run(ctx)
	require.NoError(t, err)

	expected := "[FCFS] Executando processo PID 1\n" +
		"[FCFS] Processo PID 1 finalizado\n" +
		"[FCFS] Executando processo PID 2\n" +
		"[FCFS] Processo PID 2 finalizado\n" +
		"Escalonador terminou execução de todos processos\n"
	assert.Equal(t, expected, essential)
}

func TestEngineRoundRobinQuantum500(t *testing.T) {
	gen := newFixtureGenerator(
		scriptedArrival{pcb: NewPCB(1, 1000, 2, 1, 0), arrivalMS: 0},
		scriptedArrival{pcb: NewPCB(2, 1000, 2, 1, 0), arrivalMS: 0},
	)
	e := NewSchedulerEngine(EngineConfig{Policy: RoundRobin, QuantumMS: 500, Generator: gen})

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	essential, err := e.Run(ctx)
	require.NoError(t, err)

	records := e.Log().Records()
	var executing []string
	for _, r := range records {
		if len(r) > 3 && r[:3] == "[RR" {
			executing = append(executing, r)
		}
	}
	require.GreaterOrEqual(t, len(executing), 4)
	assert.Contains(t, executing[0], "PID 1")
	assert.Contains(t, executing[1], "PID 2")
	assert.Contains(t, essential, "Escalonador terminou execução de todos processos")
}

func TestEnginePriorityPreemptionOnLateArrival(t *testing.T) {
	gen := newFixtureGenerator(
		scriptedArrival{pcb: NewPCB(1, 2000, 3, 1, 0), arrivalMS: 0},
		scriptedArrival{pcb: NewPCB(2, 500, 1, 1, 500), arrivalMS: 500},
	)
	e := NewSchedulerEngine(EngineConfig{Policy: Priority, Generator: gen})

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	essential, err := e.Run(ctx)
	require.NoError(t, err)

	assert.Contains(t, essential, "[PRIORIDADE] Executando processo PID 1 prioridade 3")
	assert.Contains(t, essential, "[PRIORIDADE] Processo PID 1 preemptado por processo de maior prioridade")
	assert.Contains(t, essential, "[PRIORIDADE] Executando processo PID 2 prioridade 1")
	assert.Contains(t, essential, "[PRIORIDADE] Processo PID 2 finalizado")
	assert.Contains(t, essential, "[PRIORIDADE] Processo PID 1 finalizado")
}

func TestEngineCFSFairnessWithUnequalPriorities(t *testing.T) {
	gen := newFixtureGenerator(
		scriptedArrival{pcb: NewPCB(1, 3000, 1, 1, 0), arrivalMS: 0},
		scriptedArrival{pcb: NewPCB(2, 3000, 5, 1, 0), arrivalMS: 0},
	)
	e := NewSchedulerEngine(EngineConfig{Policy: CFS, Generator: gen})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	essential, err := e.Run(ctx)
	require.NoError(t, err)
	assert.Contains(t, essential, "[CFS] Processo PID 1 finalizado")
	assert.Contains(t, essential, "[CFS] Processo PID 2 finalizado")
}

func TestEngineDualCPUFCFSTwoSingleThreadProcesses(t *testing.T) {
	gen := newFixtureGenerator(
		scriptedArrival{pcb: NewPCB(1, 1000, 3, 1, 0), arrivalMS: 0},
		scriptedArrival{pcb: NewPCB(2, 1000, 3, 1, 0), arrivalMS: 0},
	)
	e := NewSchedulerEngine(EngineConfig{Policy: FCFS, DualCPU: true, Generator: gen})

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	essential, err := e.Run(ctx)
	require.NoError(t, err)

	assert.Contains(t, essential, "processador 0")
	assert.Contains(t, essential, "processador 1")
	assert.Contains(t, essential, "[FCFS] Processo PID 1 finalizado")
	assert.Contains(t, essential, "[FCFS] Processo PID 2 finalizado")
}

func TestEngineDualCPURoundRobinSingleProcessExpands(t *testing.T) {
	gen := newFixtureGenerator(
		scriptedArrival{pcb: NewPCB(1, 2000, 3, 1, 0), arrivalMS: 0},
	)
	e := NewSchedulerEngine(EngineConfig{Policy: RoundRobin, QuantumMS: 500, DualCPU: true, Generator: gen})

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	essential, err := e.Run(ctx)
	require.NoError(t, err)

	assert.Contains(t, essential, "processador 0")
	assert.Contains(t, essential, "processador 1")
	assert.Contains(t, essential, "[RR] Processo PID 1 finalizado")
}
