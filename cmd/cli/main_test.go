package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}
	return buf.String()
}

func TestDoRequestPrettyPrintsJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/accounts" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"accounts":[{"code":"1000"}]}`))
	}))
	defer server.Close()

	origURL := baseURL
	baseURL = server.URL
	defer func() { baseURL = origURL }()

	out := captureOutput(t, func() {
		doRequest(http.MethodGet, "/api/v1/accounts", nil)
	})

	if !strings.Contains(out, `"code": "1000"`) {
		t.Fatalf("expected indented json output, got %q", out)
	}
}

func TestCheckConsistencyPasses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"consistent":true}`))
	}))
	defer server.Close()

	origURL := baseURL
	baseURL = server.URL
	defer func() { baseURL = origURL }()

	out := captureOutput(t, func() {
		checkConsistency()
	})

	if !strings.Contains(out, "PASSED") {
		t.Fatalf("expected PASSED, got %q", out)
	}
}

func TestTransactionLifecycleCommands(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	origURL := baseURL
	baseURL = server.URL
	defer func() { baseURL = origURL }()

	cmd := transactionsCmd()
	for _, op := range []string{"submit", "post", "cancel"} {
		cmd.SetArgs([]string{op, "TXN-001"})
		_ = captureOutput(t, func() {
			if err := cmd.Execute(); err != nil {
				t.Fatalf("%s failed: %v", op, err)
			}
		})
	}

	want := []string{
		"POST /api/v1/transactions/TXN-001/submit",
		"POST /api/v1/transactions/TXN-001/post",
		"POST /api/v1/transactions/TXN-001/cancel",
	}
	for i, w := range want {
		if i >= len(paths) || paths[i] != w {
			t.Fatalf("expected request %q at index %d, got %#v", w, i, paths)
		}
	}
}
