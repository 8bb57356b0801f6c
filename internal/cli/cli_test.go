package cli

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/scriptpack-dev/scriptpack/internal/config"
)

var testTree = map[string]string{
	"/billing/invoice/download.py": "from common.helpers import CONST_X, helper_fn\nprint('invoice')\n",
	"/billing/refund/download.py":  "print('refund')\n",
	"/common/helpers.py":           "CONST_X = 1\ndef helper_fn():\n    return 1\n\nCONST_Y = 2\n",
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		content, ok := testTree[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, content)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newPackCmdForTest(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "pack", RunE: RunPack}
	cmd.Flags().Bool("dev", false, "")
	cmd.Flags().StringP("output", "o", "", "")
	cmd.Flags().IntP("jobs", "j", 0, "")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "")
	cmd.SetContext(context.Background())
	return cmd
}

func setupEnv(t *testing.T, rootURL string) {
	t.Helper()
	config.SetConfigDirOverride(t.TempDir())
	t.Cleanup(func() { config.SetConfigDirOverride("") })
	t.Setenv("SCRIPTPACK_ROOT_URL", rootURL)
}

func readArchive(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("failed to open archive: %v", err)
	}
	entries := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open entry %s: %v", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("failed to read entry %s: %v", f.Name, err)
		}
		entries[f.Name] = string(content)
	}
	return entries
}

func TestPackWritesArchiveWithOneEntryPerScript(t *testing.T) {
	srv := newTestServer(t)
	setupEnv(t, srv.URL)

	outPath := filepath.Join(t.TempDir(), "bundle.zip")
	cmd := newPackCmdForTest(t)
	if err := cmd.Flags().Set("output", outPath); err != nil {
		t.Fatalf("failed to set output flag: %v", err)
	}

	if err := RunPack(cmd, []string{"billing", "invoice, refund"}); err != nil {
		t.Fatalf("RunPack failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read archive: %v", err)
	}
	entries := readArchive(t, data)
	if len(entries) != 2 {
		t.Fatalf("expected 2 archive entries, got %d (%v)", len(entries), entries)
	}

	wantInvoice := "CONST_X = 1\ndef helper_fn():\n    return 1\n\nprint('invoice')"
	if entries["invoice.py"] != wantInvoice {
		t.Fatalf("invoice.py: expected %q, got %q", wantInvoice, entries["invoice.py"])
	}
	if entries["refund.py"] != "print('refund')" {
		t.Fatalf("refund.py: expected passthrough, got %q", entries["refund.py"])
	}
}

func TestPackEmitsBase64ToStdout(t *testing.T) {
	srv := newTestServer(t)
	setupEnv(t, srv.URL)

	var out bytes.Buffer
	cmd := newPackCmdForTest(t)
	cmd.SetOut(&out)

	if err := RunPack(cmd, []string{"billing", "refund"}); err != nil {
		t.Fatalf("RunPack failed: %v", err)
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("stdout is not valid base64: %v", err)
	}
	entries := readArchive(t, data)
	if entries["refund.py"] != "print('refund')" {
		t.Fatalf("expected refund.py in decoded archive, got %v", entries)
	}
}

func TestPackKeepsPartialResults(t *testing.T) {
	srv := newTestServer(t)
	setupEnv(t, srv.URL)

	outPath := filepath.Join(t.TempDir(), "bundle.zip")
	cmd := newPackCmdForTest(t)
	if err := cmd.Flags().Set("output", outPath); err != nil {
		t.Fatalf("failed to set output flag: %v", err)
	}

	if err := RunPack(cmd, []string{"billing", "refund,missing"}); err != nil {
		t.Fatalf("expected partial success, got %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read archive: %v", err)
	}
	entries := readArchive(t, data)
	if len(entries) != 1 {
		t.Fatalf("expected only the surviving script, got %v", entries)
	}
	if _, ok := entries["refund.py"]; !ok {
		t.Fatalf("expected refund.py in archive, got %v", entries)
	}
}

func TestPackFailsWhenNoScriptSucceeds(t *testing.T) {
	srv := newTestServer(t)
	setupEnv(t, srv.URL)

	cmd := newPackCmdForTest(t)
	if err := RunPack(cmd, []string{"billing", "missing"}); err == nil {
		t.Fatalf("expected error when every script fails")
	}
}

func TestPackRejectsEmptyScriptList(t *testing.T) {
	setupEnv(t, "https://example.com")

	cmd := newPackCmdForTest(t)
	if err := RunPack(cmd, []string{"billing", " , "}); err == nil {
		t.Fatalf("expected error for empty script list")
	}
}

func TestPackDevModePrintsBundledLines(t *testing.T) {
	srv := newTestServer(t)
	setupEnv(t, srv.URL)

	var out bytes.Buffer
	cmd := newPackCmdForTest(t)
	cmd.SetOut(&out)
	if err := cmd.Flags().Set("dev", "true"); err != nil {
		t.Fatalf("failed to set dev flag: %v", err)
	}
	if err := cmd.Flags().Set("output", filepath.Join(t.TempDir(), "bundle.zip")); err != nil {
		t.Fatalf("failed to set output flag: %v", err)
	}

	if err := RunPack(cmd, []string{"billing", "refund"}); err != nil {
		t.Fatalf("RunPack failed: %v", err)
	}
	if !strings.Contains(out.String(), "print('refund')") {
		t.Fatalf("expected dev output to contain bundled lines, got %q", out.String())
	}
}
