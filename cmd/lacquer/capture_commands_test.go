package main

import (
	"strings"
	"testing"
)

func TestParseHints(t *testing.T) {
	hints, err := parseHints([]string{"brand=OPI", "shadeName=Bubble Bath"})
	if err != nil {
		t.Fatalf("parseHints: %v", err)
	}
	if hints["brand"] != "OPI" || hints["shadeName"] != "Bubble Bath" {
		t.Fatalf("hints = %v", hints)
	}

	if _, err := parseHints([]string{"no-equals"}); err == nil {
		t.Fatal("expected error for malformed hint")
	}
	if _, err := parseHints([]string{"brand="}); err == nil {
		t.Fatal("expected error for empty hint value")
	}
}

func TestRenderTableHeadersAndRows(t *testing.T) {
	out := renderTable(
		[]string{"Brand", "Qty"},
		[][]string{{"OPI", "2"}, {"Essie"}},
		[]columnAlignment{alignLeft, alignRight})
	if !strings.Contains(out, "Brand") || !strings.Contains(out, "OPI") {
		t.Fatalf("table output missing content:\n%s", out)
	}
	if !strings.Contains(out, "Essie") {
		t.Fatalf("short row dropped:\n%s", out)
	}
}
