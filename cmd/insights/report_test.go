package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dafibh/fortuna/insights-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshotDoc = `{
  "expenses": [
    {"id": 1, "category": {"id": 1, "name": "Food"}, "amount": "100.00", "date": "2026-10-02T09:00:00", "paymentMethod": "Cash"},
    {"id": 2, "category": {"id": 2, "name": "Travel"}, "amount": "50.25", "date": "2026-10-11T18:30:00", "paymentMethod": "UPI"},
    {"id": 3, "category": {"id": 1, "name": "Food"}, "amount": "80", "date": "2026-09-14T12:00:00", "paymentMethod": "Card"}
  ],
  "categories": [
    {"id": 1, "name": "Food", "colorCode": "#ff6b6b", "categoryIcon": 3},
    {"id": 2, "name": "Travel", "colorCode": "#4dabf7", "categoryIcon": 7}
  ],
  "budgets": [
    {"id": 4, "category": {"id": 1, "name": "Food"}, "month": "October 2026", "amount": 300},
    {"id": 5, "category": {"id": 1, "name": "Food"}, "month": "September 2026", "amount": 250}
  ]
}`

func writeSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, os.WriteFile(path, []byte(snapshotDoc), 0o600))
	return path
}

func runCmd(t *testing.T, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	cmd := reportCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return &out, cmd.Execute()
}

func TestReportCmd_Flags(t *testing.T) {
	cmd := reportCmd()

	for _, name := range []string{"file", "upstream", "user", "token", "currency", "kind", "range", "now", "tz", "timeout"} {
		assert.NotNil(t, cmd.Flag(name), "flag %s should exist", name)
	}
	assert.Equal(t, "dashboard", cmd.Flag("kind").DefValue)
	assert.Equal(t, "6", cmd.Flag("range").DefValue)
}

func TestReportCmd_FileDashboard(t *testing.T) {
	out, err := runCmd(t, "--file", writeSnapshot(t), "--now", "2026-10-18")
	require.NoError(t, err)

	var report domain.DashboardReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "Oct 2026", report.Month)
	assert.Equal(t, "150.25", report.Summary.Total.StringFixed(2))
	assert.Equal(t, 2, report.Summary.TransactionCount)
	require.Len(t, report.BudgetProgress, 1)
	assert.Equal(t, "100.00", report.BudgetProgress[0].Spent.StringFixed(2))
}

func TestReportCmd_FileAnalytics(t *testing.T) {
	out, err := runCmd(t, "--file", writeSnapshot(t), "--kind", "analytics", "--range", "1", "--now", "2026-10-18T10:00:00Z")
	require.NoError(t, err)

	var report domain.AnalyticsReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, 1, report.RangeMonths)
	assert.Equal(t, "80.00", report.Summary.Total.StringFixed(2))
	assert.Len(t, report.Trend, 6)
}

func TestReportCmd_FileBudgets(t *testing.T) {
	out, err := runCmd(t, "--file", writeSnapshot(t), "--kind", "budgets", "--now", "2026-10-18")
	require.NoError(t, err)

	var report domain.BudgetsReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "October 2026", report.Month)
	assert.Equal(t, "33.33", report.Overview.OverallPercentage.StringFixed(2))
}

func TestReportCmd_Errors(t *testing.T) {
	path := writeSnapshot(t)

	tests := []struct {
		name string
		args []string
	}{
		{"no source", []string{"--kind", "dashboard"}},
		{"both sources", []string{"--file", path, "--upstream", "http://localhost"}},
		{"unknown kind", []string{"--file", path, "--kind", "weekly"}},
		{"bad range", []string{"--file", path, "--kind", "analytics", "--range", "2"}},
		{"bad now", []string{"--file", path, "--now", "yesterday"}},
		{"bad tz", []string{"--file", path, "--tz", "Mars/Olympus"}},
		{"missing file", []string{"--file", filepath.Join(t.TempDir(), "none.json")}},
		{"upstream without token", []string{"--upstream", "http://localhost", "--user", "42"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCmd(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestReportCmd_InvalidRangeIsDomainError(t *testing.T) {
	_, err := runCmd(t, "--file", writeSnapshot(t), "--kind", "analytics", "--range", "5")
	assert.True(t, errors.Is(err, domain.ErrInvalidRange))
}

func TestReportCmd_Upstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/expenses/getSixMonthsExpenses/42":
			_, _ = w.Write([]byte(`{"data": [{"id": 1, "category": {"id": 1, "name": "Food"}, "amount": 20, "date": "2026-10-05T08:00:00", "paymentMethod": "Cash"}]}`))
		case "/category/getCategories/42":
			_, _ = w.Write([]byte(`{"data": [{"id": 1, "name": "Food"}]}`))
		case "/budgets/getBudgets/42":
			_, _ = w.Write([]byte(`{"data": []}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	out, err := runCmd(t, "--upstream", srv.URL, "--user", "42", "--token", "tok", "--now", "2026-10-18", "--timeout", time.Second.String())
	require.NoError(t, err)

	var report domain.DashboardReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "20.00", report.Summary.Total.StringFixed(2))

	_, err = runCmd(t, "--upstream", srv.URL, "--user", "42", "--token", "wrong", "--now", "2026-10-18")
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}
