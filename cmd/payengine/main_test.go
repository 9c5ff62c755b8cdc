package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv isolates a test from backend settings of the host environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LOG_LEVEL", "LOG_FORMAT", "LOG_FILE", "OUTPUT_FORMAT", "METRICS_FILE",
		"DATABASE_URL", "REDIS_URL", "KAFKA_BROKERS",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("OUTPUT_FORMAT", "csv")
}

func writeInput(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "transactions.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestReplayCommand_PrintsSnapshot(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	input := writeInput(t, dir, `type, client, tx, amount
deposit, 1, 1, 1.0
deposit, 2, 2, 2.0
deposit, 1, 3, 2.0
withdrawal, 1, 4, 1.5
withdrawal, 2, 5, 3.0
`)
	logFile := filepath.Join(dir, "log.txt")

	out, err := execute(t, "--log-file", logFile, input)
	require.NoError(t, err)

	assert.Equal(t, "client,available,held,total,locked\n"+
		"1,1.5000,0.0000,1.5000,false\n"+
		"2,2.0000,0.0000,2.0000,false\n", out)

	logs, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(logs), "insufficient available funds")
	assert.Contains(t, string(logs), "replay finished")
}

func TestReplayCommand_ChargebackLocksAccount(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	input := writeInput(t, dir, `type,client,tx,amount
deposit,1,1,10
deposit,1,2,5
dispute,1,1,
chargeback,1,1,
deposit,1,3,100
bogus,1,4,1
`)

	out, err := execute(t, "--log-file", filepath.Join(dir, "log.txt"), input)
	require.NoError(t, err)
	assert.Equal(t, "client,available,held,total,locked\n1,5.0000,0.0000,5.0000,true\n", out)
}

func TestReplayCommand_JSONAndMetrics(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	input := writeInput(t, dir, "type,client,tx,amount\ndeposit,3,1,0.12345\n")
	metricsFile := filepath.Join(dir, "metrics.prom")

	out, err := execute(t,
		"--log-file", filepath.Join(dir, "log.txt"),
		"--output", "json",
		"--metrics-file", metricsFile,
		input,
	)
	require.NoError(t, err)
	assert.Contains(t, out, `"available": "0.1235"`)
	assert.Contains(t, out, `"run_id"`)

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `payengine_transactions_total{kind="deposit",outcome="applied"} 1`)
	assert.Contains(t, string(prom), "payengine_accounts 1")
}

func TestReplayCommand_Errors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	logFile := filepath.Join(dir, "log.txt")

	_, err := execute(t, "--log-file", logFile, filepath.Join(dir, "missing.csv"))
	require.Error(t, err)

	badHeader := writeInput(t, dir, "deposit,1,1,1.0\n")
	_, err = execute(t, "--log-file", logFile, badHeader)
	require.Error(t, err)

	_, err = execute(t, "--log-file", logFile, "--output", "xml", badHeader)
	require.ErrorContains(t, err, `unknown output format "xml"`)

	_, err = execute(t)
	require.Error(t, err)
}

func TestMigrateCommand_RequiresDatabaseURL(t *testing.T) {
	clearEnv(t)

	_, err := execute(t, "migrate", "up")
	require.ErrorIs(t, err, errNoDatabase)
}
