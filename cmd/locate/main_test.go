package main

import (
	"bytes"
	"encoding/json"
	"os"
	"park-locator-service/internal/api/dto"
	"park-locator-service/internal/domain"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestCollectDepotsMergesArgsAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "depots.txt")
	if err := os.WriteFile(path, []byte("1234;abc\n6268\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	depots, failures := collectDepots([]string{"6268", "5678,12"}, path)

	if !slices.Equal(depots, []string{"6268", "5678", "1234"}) {
		t.Fatalf("depots = %v", depots)
	}
	if len(failures) != 2 {
		t.Fatalf("failures = %+v", failures)
	}
	for _, f := range failures {
		if f.Error != domain.ErrKindInvalidDepotNumber {
			t.Fatalf("failure kind = %q", f.Error)
		}
	}
}

func TestCollectDepotsUnreadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.txt")

	depots, failures := collectDepots([]string{"6268"}, path)

	if !slices.Equal(depots, []string{"6268"}) {
		t.Fatalf("depots = %v", depots)
	}
	if len(failures) != 1 {
		t.Fatalf("failures = %+v", failures)
	}
	f := failures[0]
	if f.Error != domain.ErrKindFileRead {
		t.Fatalf("kind = %q", f.Error)
	}
	if f.DepotNumber != "" {
		t.Fatalf("depot number = %q, want empty", f.DepotNumber)
	}
	if !strings.Contains(f.Detail, "missing.txt") {
		t.Fatalf("detail = %q, want file path", f.Detail)
	}
}

func TestWriteResultsSingleArray(t *testing.T) {
	results := []domain.VehicleResolution{
		domain.Failed("", domain.ErrKindFileRead, "open x: no such file"),
		domain.Failed("12", domain.ErrKindInvalidDepotNumber, ""),
	}

	for _, compact := range []bool{false, true} {
		var buf bytes.Buffer
		if err := writeResults(&buf, results, compact); err != nil {
			t.Fatalf("compact=%v: %v", compact, err)
		}

		var got []dto.PositionResponse
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("compact=%v: output is not one JSON array: %v\n%s", compact, err, buf.String())
		}
		if len(got) != 2 || got[0].DepotNumber != "" || got[1].DepotNumber != "12" {
			t.Fatalf("compact=%v: got %+v", compact, got)
		}

		lines := strings.Count(strings.TrimRight(buf.String(), "\n"), "\n")
		if compact && lines != 0 {
			t.Fatalf("compact output spans %d lines", lines+1)
		}
		if !compact && lines == 0 {
			t.Fatal("indented output on a single line")
		}
	}
}
