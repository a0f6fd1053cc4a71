package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"obed/internal/core"
)

func TestNewFromFilesFallback(t *testing.T) {
	s := NewFromFiles(t.TempDir())
	wb, err := s.LoadWorkbook(context.Background(), "any")
	if err != nil {
		t.Fatalf("LoadWorkbook: %v", err)
	}
	if len(wb.Orders) == 0 {
		t.Fatal("fallback sample should have orders")
	}
	if len(wb.ScheduleClients()) == 0 {
		t.Fatal("fallback sample should have schedule clients")
	}
}

func TestNewFromFilesSeeds(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "seed_clients.txt"), "Ana\nBoris\n# comment\n")
	writeFile(t, filepath.Join(dir, "seed_orders.txt"), "Ana;Grill;Soup;3,00;;1;3,00\nbad-line-without-client-is-kept-anyway;x;y\n")

	s := NewFromFiles(dir)
	wb, err := s.LoadWorkbook(context.Background(), "doc")
	if err != nil {
		t.Fatalf("LoadWorkbook: %v", err)
	}
	clients := wb.ScheduleClients()
	if len(clients) != 2 || clients[0] != "Ana" {
		t.Fatalf("clients = %v", clients)
	}
	if wb.Orders[0].Client != "Ana" || wb.Orders[0].Total.Cents != 300 {
		t.Fatalf("orders[0] = %+v", wb.Orders[0])
	}
}

func TestLoadWorkbookReturnsCopy(t *testing.T) {
	s := NewFromFiles(t.TempDir())
	wb1, _ := s.LoadWorkbook(context.Background(), "x")
	wb1.Orders[0].Client = "mutated"
	wb2, _ := s.LoadWorkbook(context.Background(), "x")
	if wb2.Orders[0].Client == "mutated" {
		t.Fatal("caller mutation leaked into the store")
	}
}

func TestLastModified(t *testing.T) {
	s := New(core.Workbook{})
	ts, err := s.LastModified(context.Background(), "x")
	if err != nil || ts.IsZero() {
		t.Fatalf("LastModified = %v, %v", ts, err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
