package main

import (
	"commute-planner/internal/config"
	"commute-planner/internal/ports"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestRunClosesStoreOnPipelineError(t *testing.T) {
	dir := t.TempDir()
	chdirTo(t, dir)

	t.Setenv("COMMUTE_MAP_API_KEY", "AK")
	t.Setenv("COMMUTE_MAP_SECRET_KEY", "SK")
	t.Setenv("COMMUTE_MAP_PREFLIGHT", "false")
	t.Setenv("COMMUTE_ROSTER_PATH", filepath.Join(dir, "missing.xlsx"))
	t.Setenv("COMMUTE_STORE_DRIVER", "sqlite")
	t.Setenv("COMMUTE_STORE_DSN", filepath.Join(dir, "runs.db"))

	closed := false
	storeOpener = func(ctx context.Context, cfg config.StoreConfig) (ports.ResultStore, func(), error) {
		store, closeFn, err := openStore(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			closed = true
			closeFn()
		}, nil
	}
	t.Cleanup(func() { storeOpener = openStore })

	if err := run("", false); err == nil {
		t.Fatal("run() expected error for a missing workbook")
	}
	if !closed {
		t.Fatal("store was not closed after the pipeline failed")
	}
}

func TestRunServeRequiresStore(t *testing.T) {
	chdirTo(t, t.TempDir())
	t.Setenv("COMMUTE_MAP_API_KEY", "AK")
	t.Setenv("COMMUTE_MAP_SECRET_KEY", "SK")
	t.Setenv("COMMUTE_STORE_DRIVER", "none")

	if err := run("", true); err == nil {
		t.Fatal("run() expected error for -serve without a store")
	}
}

// chdirTo changes into dir and restores the previous working directory on cleanup.
func chdirTo(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
