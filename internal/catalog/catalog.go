// Package catalog keeps a central, documented inventory of the dispatch keys
// the application fires. Modules define their keys as package-level values
// and register them at init time; the CLI reads the catalog back for
// discovery.
package catalog

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
)

// Key names follow a hierarchical pattern, e.g. "status.connected" or
// "scene.object.moved".
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9]*(\.[a-z][a-z0-9]*)*$`)

// Catalog manages the collection of registered key definitions.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		entries: make(map[string]Entry),
	}
}

var defaultCatalog = New()

// Default returns the process-wide catalog that package-level key
// definitions register with.
func Default() *Catalog {
	return defaultCatalog
}

// Register adds a key definition to the catalog. It fails on invalid
// definitions and duplicate names.
func (c *Catalog) Register(info KeyInfo) error {
	if err := validate(info); err != nil {
		return &Error{
			Type:    ErrorValidationFailed,
			Key:     info.Name,
			Message: err.Error(),
			Cause:   err,
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[info.Name]; exists {
		return &Error{
			Type:    ErrorDuplicateRegistration,
			Key:     info.Name,
			Message: fmt.Sprintf("key already registered: %s", info.Name),
		}
	}

	c.entries[info.Name] = Entry{
		Info:         info,
		RegisteredAt: time.Now(),
	}
	return nil
}

// MustRegister registers a key definition and panics on failure. Keys are
// usually defined at package level, so a failure here is a programming
// error that should stop startup.
func (c *Catalog) MustRegister(info KeyInfo) KeyInfo {
	if err := c.Register(info); err != nil {
		panic(err)
	}
	return info
}

// Get retrieves a key definition by name.
func (c *Catalog) Get(name string) (KeyInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[name]
	if !ok {
		return KeyInfo{}, false
	}
	return entry.Info, true
}

// Lookup retrieves a key definition by name, returning a typed error when
// no such key is registered.
func (c *Catalog) Lookup(name string) (KeyInfo, error) {
	info, ok := c.Get(name)
	if !ok {
		return KeyInfo{}, &Error{
			Type:    ErrorKeyNotFound,
			Key:     name,
			Message: fmt.Sprintf("key not registered: %s", name),
		}
	}
	return info, nil
}

// List returns all registered key definitions sorted by name.
func (c *Catalog) List() []KeyInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	infos := make([]KeyInfo, 0, len(c.entries))
	for _, entry := range c.entries {
		infos = append(infos, entry.Info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos
}

// ListByModule returns the key definitions owned by a specific module,
// sorted by name.
func (c *Catalog) ListByModule(module string) []KeyInfo {
	var infos []KeyInfo
	for _, info := range c.List() {
		if info.Module == module {
			infos = append(infos, info)
		}
	}
	return infos
}

// Len returns the number of registered keys.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func validate(info KeyInfo) error {
	if !namePattern.MatchString(info.Name) {
		return fmt.Errorf("invalid key name: %q", info.Name)
	}
	if strings.TrimSpace(info.Description) == "" {
		return fmt.Errorf("key description cannot be empty")
	}
	return nil
}
