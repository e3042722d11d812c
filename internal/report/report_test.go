package report_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"

	"github.com/daap14/clustersmoke/internal/report"
)

func sampleRun() *report.Run {
	run := report.NewRun(report.TriggerCLI)
	run.Results = append(run.Results,
		report.Result{Check: "node-readiness", Status: report.StatusPassed, Duration: 40 * time.Millisecond},
		report.Result{Check: "system-pods", Status: report.StatusFailed, Message: "Pod coredns-abc is not running"},
	)
	run.FinishedAt = run.StartedAt.Add(time.Second)
	return run
}

func TestNewRun(t *testing.T) {
	run := report.NewRun(report.TriggerAPI)

	assert.NotEqual(t, uuid.Nil, run.ID)
	assert.Equal(t, report.TriggerAPI, run.Trigger)
	assert.False(t, run.StartedAt.IsZero())
	assert.Empty(t, run.Results)
	assert.True(t, run.Passed())
}

func TestRun_PassedAndSummary(t *testing.T) {
	run := sampleRun()

	assert.False(t, run.Passed())
	assert.Equal(t, report.Summary{Total: 2, Passed: 1, Failed: 1}, run.Summary())

	run.Results[1].Status = report.StatusPassed
	assert.True(t, run.Passed())
	assert.Equal(t, report.Summary{Total: 2, Passed: 2, Failed: 0}, run.Summary())
}

func TestWrite_JSON(t *testing.T) {
	run := sampleRun()
	var buf bytes.Buffer

	require.NoError(t, report.Write(&buf, run, "json"))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, run.ID.String(), doc["id"])
	assert.Equal(t, false, doc["passed"])

	summary := doc["summary"].(map[string]any)
	assert.Equal(t, float64(1), summary["failed"])

	results := doc["results"].([]any)
	require.Len(t, results, 2)
	failed := results[1].(map[string]any)
	assert.Equal(t, "system-pods", failed["check"])
	assert.Equal(t, "Pod coredns-abc is not running", failed["message"])
}

func TestWrite_YAML(t *testing.T) {
	run := sampleRun()
	var buf bytes.Buffer

	require.NoError(t, report.Write(&buf, run, "yaml"))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "cli", doc["trigger"])
	assert.Equal(t, false, doc["passed"])
	assert.Contains(t, buf.String(), "check: node-readiness")
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer

	err := report.Write(&buf, sampleRun(), "xml")

	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}
