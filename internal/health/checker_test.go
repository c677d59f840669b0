package health

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping() error { return f.err }

func TestChecker_AllHealthy(t *testing.T) {
	c := NewChecker(&fakePinger{}, t.TempDir())
	c.runAll(context.Background())

	if !c.IsHealthy() {
		t.Errorf("expected healthy, got %+v", c.Statuses())
	}
	statuses := c.Statuses()
	if len(statuses) != 2 {
		t.Fatalf("expected store and data_dir checks, got %d", len(statuses))
	}
	if statuses[0].Name != "store" {
		t.Errorf("expected store check first, got %s", statuses[0].Name)
	}
}

func TestChecker_StoreFailure(t *testing.T) {
	c := NewChecker(&fakePinger{err: errors.New("database locked")}, t.TempDir())
	c.runAll(context.Background())

	if c.IsHealthy() {
		t.Error("expected unhealthy on store failure")
	}
	statuses := c.Statuses()
	if statuses[0].Healthy || statuses[0].Error == "" {
		t.Errorf("expected failing store status, got %+v", statuses[0])
	}
}

func TestChecker_StoreWithoutProbe(t *testing.T) {
	c := NewChecker(struct{}{}, t.TempDir())
	c.runAll(context.Background())

	statuses := c.Statuses()
	if len(statuses) != 1 || statuses[0].Name != "data_dir" {
		t.Errorf("expected only the data_dir check, got %+v", statuses)
	}
	if !c.IsHealthy() {
		t.Error("a probe-less store must not fail health")
	}
}

func TestChecker_MissingDirIsFine(t *testing.T) {
	c := NewChecker(struct{}{}, filepath.Join(t.TempDir(), "not-yet"))
	c.runAll(context.Background())

	if !c.IsHealthy() {
		t.Errorf("missing data dir is created lazily, got %+v", c.Statuses())
	}
}

func TestChecker_DataDirIsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "state")
	if err := os.WriteFile(file, []byte("x"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	c := NewChecker(struct{}{}, file)
	c.runAll(context.Background())

	if c.IsHealthy() {
		t.Error("a file in place of the data dir must fail health")
	}
}
