package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, true, "Document", "Queries", "Status")
	table.AddRow("ActorQuery", "1", "ok")
	table.AddRow("NamedQuery", "0", "failed", "extra")
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}
	if lines[0] != "Document    Queries  Status" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "──────────") {
		t.Errorf("expected separator, got %q", lines[1])
	}
	if lines[2] != "ActorQuery  1        ok" {
		t.Errorf("unexpected row %q", lines[2])
	}
	if strings.Contains(lines[3], "extra") {
		t.Errorf("expected extra cell to be dropped, got %q", lines[3])
	}
}

func TestEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	NewTable(&buf, true, "Document").Render()

	if buf.Len() != 0 {
		t.Errorf("expected no output for empty table, got %q", buf.String())
	}
}

func TestKeyValueTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewKeyValueTable(&buf, true)
	table.AddRow("Documents", "3")
	table.AddRow("Artifacts", "5")
	table.AddRow("Synthetic queries", "2")
	table.Render()

	want := "Documents:         3\nArtifacts:         5\nSynthetic queries: 2\n"
	if buf.String() != want {
		t.Errorf("unexpected output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestHeader(t *testing.T) {
	var buf bytes.Buffer
	Header(&buf, "Metrics", true)

	if buf.String() != "Metrics\n───────\n" {
		t.Errorf("unexpected header output %q", buf.String())
	}
}
