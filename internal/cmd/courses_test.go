package cmd

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoursesCommand(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/courses", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-access", r.URL.Query().Get("access_token"))
		assert.Equal(t, "current", r.URL.Query().Get("state"))
		_, _ = w.Write([]byte(`[
			{"name":"15213-f26","display_name":"Intro to Computer Systems","semester":"f26"},
			{"name":"15410-f26","display_name":"Operating Systems","semester":"f26"}
		]`))
	})
	setupTestEnv(t, mux)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"courses"}))
	})

	assert.Contains(t, output, "15213-f26")
	assert.Contains(t, output, "Intro to Computer Systems")
	assert.Contains(t, output, "Operating Systems")
}

func TestCoursesCommandEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/courses", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	setupTestEnv(t, mux)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"courses"}))
	})
	assert.Contains(t, output, "No current courses")
}

func TestCoursesCommandJSONQuery(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/courses", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"name":"15213-f26","display_name":"ICS"}]`))
	})
	setupTestEnv(t, mux)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"courses", "--jq", ".[0].name"}))
	})
	assert.Equal(t, `"15213-f26"`, strings.TrimSpace(output))
}

func TestAssessmentsCommand(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/courses/15213-f26/assessments", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"name":"malloclab","category_name":"Labs","due_at":"2026-10-01"}]`))
	})
	setupTestEnv(t, mux)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"assessments", "15213-f26"}))
	})
	assert.Contains(t, output, "malloclab")
	assert.Contains(t, output, "Labs")
}

func TestAssessmentsCommandDetail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/courses/15213-f26/assessments/malloclab", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"name":"malloclab","display_name":"Malloc Lab","category_name":"Labs",
			"due_at":"2026-10-01","max_submissions":10,"max_grace_days":2
		}`))
	})
	setupTestEnv(t, mux)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"assessments", "15213-f26", "malloclab"}))
	})
	assert.Contains(t, output, "Malloc Lab")
	assert.Contains(t, output, "Due:")
	assert.Contains(t, output, "2026-10-01")
	assert.Contains(t, output, "Max submissions:")
	assert.Contains(t, output, "10")
	assert.Contains(t, output, "Grace days:")
}

func TestAssessmentsCommandNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/courses/nope/assessments", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "course not found"}`))
	})
	setupTestEnv(t, mux)

	var execErr error
	stderr := captureStderr(t, func() {
		execErr = Execute(context.Background(), []string{"asmts", "nope"})
	})

	require.Error(t, execErr)
	assert.Equal(t, exitNotFound, ExitCode(execErr))
	assert.Contains(t, stderr, "course not found")
}
