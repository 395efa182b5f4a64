package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"
	"github.com/tapcraft-io/ecsexec/pkg/types"
)

// History keeps a log of launched sessions
type History struct {
	entries  []types.HistoryEntry
	maxSize  int
	filepath string
	mu       sync.RWMutex
}

// NewHistory creates a new history manager
func NewHistory(maxSize int, filepath string) (*History, error) {
	h := &History{
		entries:  make([]types.HistoryEntry, 0, maxSize),
		maxSize:  maxSize,
		filepath: filepath,
	}

	// Try to load existing history
	if err := h.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return h, nil
}

// Add records a launched session and returns its entry
func (h *History) Add(path types.ResourcePath, exitCode int) types.HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	entry := types.HistoryEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Path:      path,
		ExitCode:  exitCode,
		Success:   exitCode == 0,
	}

	// Add to beginning
	h.entries = append([]types.HistoryEntry{entry}, h.entries...)

	// Trim to max size
	if len(h.entries) > h.maxSize {
		h.entries = h.entries[:h.maxSize]
	}

	return entry
}

// Get returns the most recent n entries
func (h *History) Get(n int) []types.HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if n > len(h.entries) {
		n = len(h.entries)
	}

	result := make([]types.HistoryEntry, n)
	copy(result, h.entries[:n])
	return result
}

// GetAll returns all entries
func (h *History) GetAll() []types.HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.getAll()
}

func (h *History) getAll() []types.HistoryEntry {
	result := make([]types.HistoryEntry, len(h.entries))
	copy(result, h.entries)
	return result
}

// Search fuzzy matches query against the rendered resource path
func (h *History) Search(query string) []types.HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if query == "" {
		return h.getAll()
	}

	targets := make([]string, len(h.entries))
	for i, entry := range h.entries {
		targets[i] = entry.Path.String()
	}

	matches := fuzzy.Find(query, targets)

	result := make([]types.HistoryEntry, 0, len(matches))
	for _, match := range matches {
		if match.Index < len(h.entries) {
			result = append(result, h.entries[match.Index])
		}
	}

	return result
}

// Filter filters entries by profile, region, and success
func (h *History) Filter(profile, region string, successOnly bool) []types.HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make([]types.HistoryEntry, 0)
	for _, entry := range h.entries {
		if profile != "" && entry.Path.Profile != profile {
			continue
		}
		if region != "" && entry.Path.Region != region {
			continue
		}
		if successOnly && !entry.Success {
			continue
		}
		result = append(result, entry)
	}

	return result
}

// Delete removes the entry at index, newest first. It reports whether
// index was in range.
func (h *History) Delete(index int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if index < 0 || index >= len(h.entries) {
		return false
	}

	h.entries = append(h.entries[:index], h.entries[index+1:]...)
	return true
}

// Save persists history to disk
func (h *History) Save() error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data, err := json.MarshalIndent(h.entries, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(h.filepath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(h.filepath, data, 0o644)
}

// Load loads history from disk
func (h *History) Load() error {
	data, err := os.ReadFile(h.filepath)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	return json.Unmarshal(data, &h.entries)
}

// Clear removes all entries
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = make([]types.HistoryEntry, 0, h.maxSize)
}

// ToListItems converts history entries to list items for display
func (h *History) ToListItems(entries []types.HistoryEntry) []types.ListItem {
	items := make([]types.ListItem, len(entries))
	for i, entry := range entries {
		desc := entry.Timestamp.Format("2006-01-02 15:04:05")
		desc += " | " + entry.Path.Profile + "/" + entry.Path.Region
		if !entry.Success {
			desc += " | ✗ exit " + strconv.Itoa(entry.ExitCode)
		}

		items[i] = types.ListItem{
			Title:       entry.Path.Service + " › " + entry.Path.Container,
			Description: desc,
			Metadata: map[string]string{
				"id":        entry.ID,
				"timestamp": entry.Timestamp.Format(time.RFC3339),
				"cluster":   entry.Path.Cluster,
				"task":      entry.Path.Task,
				"exit_code": strconv.Itoa(entry.ExitCode),
			},
		}
	}
	return items
}
