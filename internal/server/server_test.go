package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codescope/internal/analysis"
	"github.com/Sumatoshi-tech/codescope/internal/analyzers/builtin"
	"github.com/Sumatoshi-tech/codescope/internal/intake"
	"github.com/Sumatoshi-tech/codescope/internal/pipeline"
	"github.com/Sumatoshi-tech/codescope/internal/server"
	"github.com/Sumatoshi-tech/codescope/internal/session"
	"github.com/Sumatoshi-tech/codescope/internal/store"
)

const pollTimeout = 5 * time.Second

func newTestServer(t *testing.T) (*httptest.Server, *session.Engine) {
	t.Helper()

	pipe := pipeline.New(builtin.Registry(), pipeline.Options{})
	eng := session.New(intake.New(0), pipe, store.NewMemory(), nil)
	t.Cleanup(eng.Close)

	srv := server.New(eng, server.Options{
		CORSOrigins: []string{"*"},
		Defaults:    analysis.DefaultConfig(),
	})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return ts, eng
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)

	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))

	return v
}

func submitBody() map[string]any {
	return map[string]any{
		"files": []map[string]string{
			{"name": "app.js", "content": "const result = eval(userInput);\n"},
		},
	}
}

// submitAndWait posts an analysis and blocks until the run reaches a
// terminal state.
func submitAndWait(t *testing.T, ts *httptest.Server, eng *session.Engine) session.Submission {
	t.Helper()

	resp := postJSON(t, ts.URL+"/v1/analyses", submitBody())
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	sub := decodeBody[session.Submission](t, resp)
	require.NotEmpty(t, sub.RunID)

	ctx, cancel := context.WithTimeout(context.Background(), pollTimeout)
	defer cancel()
	require.NoError(t, eng.Wait(ctx, sub.RunID))

	return sub
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[map[string]string](t, resp)
	assert.Equal(t, "ok", body["status"])
}

func TestServer_SubmitAndFetchReport(t *testing.T) {
	t.Parallel()

	ts, eng := newTestServer(t)
	sub := submitAndWait(t, ts, eng)

	resp, err := http.Get(ts.URL + "/v1/reports/" + sub.RunID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	report := decodeBody[analysis.Result](t, resp)
	assert.Equal(t, sub.RunID, report.ID)
	assert.NotEmpty(t, report.Issues)

	resp, err = http.Get(ts.URL + "/v1/reports/latest")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	latest := decodeBody[analysis.Result](t, resp)
	assert.Equal(t, sub.RunID, latest.ID)
}

func TestServer_ReportSeverityFilter(t *testing.T) {
	t.Parallel()

	ts, eng := newTestServer(t)
	sub := submitAndWait(t, ts, eng)

	resp, err := http.Get(ts.URL + "/v1/reports/" + sub.RunID + "?min_severity=high")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	report := decodeBody[analysis.Result](t, resp)
	for _, issue := range report.Issues {
		assert.Equal(t, analysis.SeverityHigh, issue.Severity)
	}

	resp, err = http.Get(ts.URL + "/v1/reports/" + sub.RunID + "?min_severity=bogus")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_UnknownReportIs404(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/v1/reports/nope")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_SubmitRejectsBadPayloads(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t)

	cases := []struct {
		name string
		body any
	}{
		{"empty object", map[string]any{}},
		{"empty files", map[string]any{"files": []any{}}},
		{"file without content", map[string]any{"files": []map[string]string{{"name": "a.js"}}}},
		{"bad category", map[string]any{
			"files":  []map[string]string{{"name": "a.js", "content": "x"}},
			"config": map[string]any{"categories": []string{"bogus"}},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			resp := postJSON(t, ts.URL+"/v1/analyses", tc.body)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestServer_RunStatusEndpoint(t *testing.T) {
	t.Parallel()

	ts, eng := newTestServer(t)
	sub := submitAndWait(t, ts, eng)

	resp, err := http.Get(ts.URL + "/v1/runs/" + sub.RunID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	item := decodeBody[analysis.HistoryItem](t, resp)
	assert.Equal(t, sub.RunID, item.ID)
	assert.Equal(t, analysis.StatusCompleted, item.Status)

	resp, err = http.Get(ts.URL + "/v1/runs/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_HistoryEndpoints(t *testing.T) {
	t.Parallel()

	ts, eng := newTestServer(t)
	sub := submitAndWait(t, ts, eng)

	resp, err := http.Get(ts.URL + "/v1/history")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	listing := decodeBody[struct {
		Items []analysis.HistoryItem `json:"items"`
	}](t, resp)
	require.Len(t, listing.Items, 1)
	assert.Equal(t, sub.RunID, listing.Items[0].ID)

	resp, err = http.Get(ts.URL + "/v1/history?status=bogus")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/v1/history/stats")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stats := decodeBody[store.Stats](t, resp)
	assert.Equal(t, 1, stats.TotalRuns)

	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/v1/history/%s", ts.URL, sub.RunID), nil)
	require.NoError(t, err)

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	req, err = http.NewRequest(http.MethodDelete, ts.URL+"/v1/history", nil)
	require.NoError(t, err)

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestServer_BatchHistoryDelete(t *testing.T) {
	t.Parallel()

	ts, eng := newTestServer(t)
	sub := submitAndWait(t, ts, eng)

	resp := postJSON(t, ts.URL+"/v1/history/delete", map[string]any{
		"ids": []string{sub.RunID, "missing"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[map[string]int](t, resp)
	assert.Equal(t, 1, body["deleted"])

	resp = postJSON(t, ts.URL+"/v1/history/delete", map[string]any{"ids": []string{}})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	listing, err := http.Get(ts.URL + "/v1/history")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, listing.StatusCode)

	remaining := decodeBody[struct {
		Items []analysis.HistoryItem `json:"items"`
	}](t, listing)
	assert.Empty(t, remaining.Items)
}

func TestServer_Trend(t *testing.T) {
	t.Parallel()

	ts, eng := newTestServer(t)
	submitAndWait(t, ts, eng)

	resp, err := http.Get(ts.URL + "/v1/trend")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[struct {
		Points []analysis.TrendPoint `json:"points"`
	}](t, resp)
	require.Len(t, body.Points, 1)
	assert.NotEmpty(t, body.Points[0].Date)
}
