package types

import (
	"fmt"
	"strings"
	"time"
)

// Level identifies one tier of the ECS resource hierarchy
type Level int

const (
	LevelProfile Level = iota
	LevelRegion
	LevelCluster
	LevelService
	LevelTask
	LevelContainer
)

var levelNames = [...]string{"profile", "region", "cluster", "service", "task", "container"}

// Levels returns every level in resolution order
func Levels() []Level {
	return []Level{LevelProfile, LevelRegion, LevelCluster, LevelService, LevelTask, LevelContainer}
}

func (l Level) String() string {
	if l < LevelProfile || l > LevelContainer {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return levelNames[l]
}

// ResourcePath is the chain of identifiers needed to reach a container.
// An empty field means the level has not been resolved yet.
type ResourcePath struct {
	Profile   string
	Region    string
	Cluster   string
	Service   string
	Task      string
	Container string
}

// Get returns the value bound to a level
func (p ResourcePath) Get(l Level) string {
	switch l {
	case LevelProfile:
		return p.Profile
	case LevelRegion:
		return p.Region
	case LevelCluster:
		return p.Cluster
	case LevelService:
		return p.Service
	case LevelTask:
		return p.Task
	case LevelContainer:
		return p.Container
	}
	return ""
}

// With returns a copy of the path with the level bound to value
func (p ResourcePath) With(l Level, value string) ResourcePath {
	switch l {
	case LevelProfile:
		p.Profile = value
	case LevelRegion:
		p.Region = value
	case LevelCluster:
		p.Cluster = value
	case LevelService:
		p.Service = value
	case LevelTask:
		p.Task = value
	case LevelContainer:
		p.Container = value
	}
	return p
}

// Missing returns the unresolved levels in resolution order
func (p ResourcePath) Missing() []Level {
	var missing []Level
	for _, l := range Levels() {
		if p.Get(l) == "" {
			missing = append(missing, l)
		}
	}
	return missing
}

// Complete reports whether every level is bound
func (p ResourcePath) Complete() bool {
	return len(p.Missing()) == 0
}

func (p ResourcePath) String() string {
	parts := make([]string, 0, 6)
	for _, l := range Levels() {
		if v := p.Get(l); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " / ")
}

// HistoryEntry records one launched session
type HistoryEntry struct {
	ID        string
	Timestamp time.Time
	Path      ResourcePath
	ExitCode  int
	Success   bool
}

// ListItem represents an item that can be selected from a list
type ListItem struct {
	Title       string
	Description string
	Metadata    map[string]string
}

func (i ListItem) FilterValue() string {
	return i.Title
}
