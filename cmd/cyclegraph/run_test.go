package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/cyclegraph/event"
)

func TestRunFinalState(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-auto-approve", "-seed", "3"}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	var out map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	assert.Equal(t, "complete", out["termination"])
	assert.EqualValues(t, 3, out["seed"])
}

func TestRunStream(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-auto-approve", "-seed", "3", "-stream"}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	var types []event.Type
	sc := bufio.NewScanner(&stdout)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		var line streamLine
		require.NoError(t, json.Unmarshal(sc.Bytes(), &line))
		types = append(types, line.Type)
	}
	require.NotEmpty(t, types)
	assert.Equal(t, event.RunStart, types[0])
	assert.Equal(t, event.RunEnd, types[len(types)-1])
	assert.NotContains(t, types, event.StepEnd)

	snapshots := 0
	for _, ty := range types {
		if ty == event.StateSnapshot {
			snapshots++
		}
	}
	assert.Equal(t, 7, snapshots)
}

func TestRunDiagram(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-diagram"}, &stdout, &stderr)
	require.Equal(t, exitOK, code)
	assert.True(t, strings.HasPrefix(stdout.String(), "flowchart TD"))
	assert.Contains(t, stdout.String(), "review -. approved .-> deploy")
}

func TestRunUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"-nope"}},
		{"bad model", []string{"-model", "gemini"}},
		{"zero cycles", []string{"-max-cycles", "0"}},
		{"bad log level", []string{"-log-level", "loud"}},
		{"extra argument", []string{"go"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, exitUsage, run(context.Background(), tt.args, &stdout, &stderr))
			assert.NotEmpty(t, stderr.String())
		})
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	code := run(ctx, []string{"-seed", "1"}, &stdout, &stderr)
	assert.Equal(t, exitCancelled, code)

	var out map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	assert.Equal(t, "cancelled", out["termination"])
}

func TestRunFailure(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-seed", "1", "-source-failure-rate", "1"}, &stdout, &stderr)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr.String(), "ingestion")
}
