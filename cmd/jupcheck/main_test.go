package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/constants"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		offline, runFilter, format = false, "", "text"
		stopMockServer()
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	out, err := execute(t, "list", "--run", "^price/")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, len(scenario.PriceScenarios()))
	for _, l := range lines {
		assert.True(t, strings.HasPrefix(l, "price/"), l)
	}
}

func TestScenariosCommand_Offline(t *testing.T) {
	out, err := execute(t, "scenarios", "--offline", "--run", "^token/", "-o", "json")
	require.NoError(t, err)

	var report scenario.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Len(t, report.Results, len(scenario.TokenScenarios()))
	for _, r := range report.Results {
		assert.True(t, r.Passed, "%s: %s", r.Scenario, r.Error)
	}
}

func TestScenariosCommand_BadFilter(t *testing.T) {
	_, err := execute(t, "scenarios", "--offline", "--run", "([")
	assert.ErrorContains(t, err, "invalid filter")
}

func TestFailedCommandStopsMock(t *testing.T) {
	_, err := execute(t, "scenarios", "--offline", "--run", "([")
	require.Error(t, err)
	assert.Nil(t, stopMock)

	client := &http.Client{Timeout: time.Second}
	_, err = client.Get(cfg.BaseURL + constants.PathPrice + "?ids=" + constants.MintSOL)
	assert.Error(t, err, "mock api still serving at %s", cfg.BaseURL)
}
