package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestReport_Lifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	dest := filepath.Join(tmpDir, "report.zip")

	logPath := filepath.Join(tmpDir, "final.log")
	if err := os.WriteFile(logPath, []byte("log line\n"), 0644); err != nil {
		t.Fatalf("seed log file: %v", err)
	}

	conf := &ReporterConfig{Destination: dest}
	rpt, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if len(rpt.Name()) == 0 {
		t.Error("Name() returned empty string")
	}

	rpt.StoreData("config/config.yaml", []byte("version: 1\n"))
	rpt.Store("final.log", logPath)
	// absent files are ignored silently on finalize
	rpt.Store("missing.log", filepath.Join(tmpDir, "not-there.log"))

	if err := rpt.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	r, err := zip.OpenReader(dest)
	if err != nil {
		t.Fatalf("open produced report: %v", err)
	}
	defer r.Close()

	found := make(map[string][]byte)
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open archive member %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read archive member %s: %v", f.Name, err)
		}
		found[f.Name] = data
	}

	if _, ok := found["MANIFEST"]; !ok {
		t.Error("report is missing MANIFEST")
	}
	if string(found["config/config.yaml"]) != "version: 1\n" {
		t.Errorf("stored data mismatch: %q", found["config/config.yaml"])
	}
	if string(found["final.log"]) != "log line\n" {
		t.Errorf("stored file mismatch: %q", found["final.log"])
	}
	if _, ok := found["missing.log"]; ok {
		t.Error("absent source file should not appear in report")
	}
}

func TestReport_NilIsSafe(t *testing.T) {
	var rpt *Report

	// all operations must be no-ops on uninitialized reporter
	rpt.Store("name", "path")
	rpt.StoreData("name", []byte("data"))
	if got := rpt.Name(); got != "" {
		t.Errorf("Name() on nil = %q, want empty", got)
	}
	if err := rpt.Close(); err != nil {
		t.Errorf("Close() on nil = %v, want nil", err)
	}
}

func TestReport_StoreConflictPanics(t *testing.T) {
	conf := &ReporterConfig{Destination: filepath.Join(t.TempDir(), "report.zip")}
	rpt, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	defer rpt.Close()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Store() with conflicting path should panic")
		}
	}()
	rpt.Store("same", "/one/path")
	rpt.Store("same", "/other/path")
}
