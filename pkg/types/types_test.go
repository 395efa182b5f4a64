package types

import (
	"testing"
)

func TestListItem_FilterValue(t *testing.T) {
	item := ListItem{
		Title:       "svc-a",
		Description: "service",
		Metadata:    map[string]string{"level": "service"},
	}

	if item.FilterValue() != "svc-a" {
		t.Errorf("FilterValue() = %s, want %s", item.FilterValue(), "svc-a")
	}
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelProfile, "profile"},
		{LevelRegion, "region"},
		{LevelCluster, "cluster"},
		{LevelService, "service"},
		{LevelTask, "task"},
		{LevelContainer, "container"},
		{Level(42), "level(42)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("String() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestLevels_Order(t *testing.T) {
	levels := Levels()
	if len(levels) != 6 {
		t.Fatalf("Expected 6 levels, got %d", len(levels))
	}
	for i, l := range levels {
		if int(l) != i {
			t.Errorf("Levels()[%d] = %v, want ordinal %d", i, l, i)
		}
	}
}

func TestResourcePath_WithAndGet(t *testing.T) {
	var p ResourcePath
	for _, l := range Levels() {
		p = p.With(l, l.String()+"-value")
	}

	for _, l := range Levels() {
		if got := p.Get(l); got != l.String()+"-value" {
			t.Errorf("Get(%v) = %s, want %s", l, got, l.String()+"-value")
		}
	}

	if !p.Complete() {
		t.Error("Expected path to be complete")
	}
}

func TestResourcePath_WithReturnsCopy(t *testing.T) {
	original := ResourcePath{Profile: "prod"}
	updated := original.With(LevelRegion, "us-west-2")

	if original.Region != "" {
		t.Errorf("Expected original to be unchanged, got region %s", original.Region)
	}
	if updated.Region != "us-west-2" || updated.Profile != "prod" {
		t.Errorf("Unexpected updated path: %+v", updated)
	}
}

func TestResourcePath_Missing(t *testing.T) {
	p := ResourcePath{Profile: "prod", Region: "us-west-2", Task: "task-1"}
	missing := p.Missing()

	expected := []Level{LevelCluster, LevelService, LevelContainer}
	if len(missing) != len(expected) {
		t.Fatalf("Missing() = %v, want %v", missing, expected)
	}
	for i := range expected {
		if missing[i] != expected[i] {
			t.Errorf("Missing()[%d] = %v, want %v", i, missing[i], expected[i])
		}
	}
	if p.Complete() {
		t.Error("Expected path to be incomplete")
	}
}

func TestResourcePath_String(t *testing.T) {
	p := ResourcePath{Profile: "prod", Region: "us-west-2", Cluster: "web"}
	if got := p.String(); got != "prod / us-west-2 / web" {
		t.Errorf("String() = %q", got)
	}
}
