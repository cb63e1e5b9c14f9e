package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestTableAlignsColumns(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, false)

	table := w.NewTable("ITEM", "$/HOUR").AlignRight(1)
	table.AddRow("m5.large", "0.0960")
	table.AddRow("└─ gp3 100GiB", "0.0110")
	table.AddRow("extra", "1", "ignored")
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header, separator and 3 rows, got %d:\n%s", len(lines), buf.String())
	}
	if lines[0] != "ITEM          │ $/HOUR" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[2] != "m5.large      │ 0.0960" {
		t.Errorf("unexpected row %q", lines[2])
	}
	if lines[4] != "extra         │      1" {
		t.Errorf("expected right alignment, got %q", lines[4])
	}
	if strings.Contains(buf.String(), "\033[") {
		t.Error("buffers must not receive color codes")
	}
}

func TestCostSummary(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)

	s := w.NewCostSummary("Basket Total")
	s.Hourly = "$0.2210"
	s.Monthly = "$161.43"
	s.Yearly = "$1935.96"
	s.Lines = 3
	s.Render()

	for _, want := range []string{"Basket Total", "Monthly: $161.43", "Hourly:  $0.2210", "Line items: 3"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %q in:\n%s", want, buf.String())
		}
	}
	if strings.Contains(buf.String(), "Reserved") {
		t.Errorf("reserved line shown without a value:\n%s", buf.String())
	}

	buf.Reset()
	s.Reserved = "$120.50"
	s.Render()
	if !strings.Contains(buf.String(), "Reserved: $120.50") {
		t.Errorf("expected reserved total in:\n%s", buf.String())
	}
}
