package sftpclient

import (
	"context"
	"strings"
	"testing"
	"time"
)

// The real upload needs a live SFTP host; these cover the validation and
// naming logic.

func TestUploadValidation(t *testing.T) {
	err := Upload(context.Background(), Config{}, strings.NewReader("x"), "x.csv")
	if err == nil || !strings.Contains(err.Error(), "missing env") {
		t.Fatalf("err = %v, want missing-credentials error", err)
	}
}

func TestUploadFileMissingLocal(t *testing.T) {
	cfg := Config{Host: "h", User: "u", Pass: "p"}
	err := UploadFile(context.Background(), cfg, "does-not-exist.csv", "x.csv")
	if err == nil || !strings.Contains(err.Error(), "open local file") {
		t.Fatalf("err = %v, want open error", err)
	}
}

func TestSnapshotName(t *testing.T) {
	at := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	got := SnapshotName("Maths Olympiad", at, true)
	want := "catalog-maths-olympiad-20260828T120000.csv.br"
	if got != want {
		t.Errorf("name = %q, want %q", got, want)
	}

	got = SnapshotName("Chess!", at, false)
	if got != "catalog-chess-20260828T120000.csv" {
		t.Errorf("name = %q", got)
	}
}
