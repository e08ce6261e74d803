package logger

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Component names used by gatekit packages. Dotted names inherit the level
// of their nearest configured parent, so "auth" also covers "auth.memory".
const (
	ComponentAuth          = "auth"
	ComponentAuthMemory    = "auth.memory"
	ComponentHTTP          = "http"
	ComponentHTTPAuth      = "http.auth"
	ComponentResilience    = "resilience"
	ComponentConfig        = "config"
	ComponentObservability = "observability"
)

var registry = &componentRegistry{
	loggers: make(map[string]*Logger),
	levels:  make(map[string]zerolog.Level),
}

type componentRegistry struct {
	mu      sync.RWMutex
	loggers map[string]*Logger
	levels  map[string]zerolog.Level
}

// Register stores an explicit logger for a component. It takes precedence
// over configured levels.
func Register(name string, l *Logger) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.loggers[strings.ToLower(name)] = l
}

// SetLevels replaces the per-component level overrides. Keys are component
// names; values are zerolog level names.
func SetLevels(levels map[string]string) error {
	parsed := make(map[string]zerolog.Level, len(levels))
	for name, lvl := range levels {
		level, err := zerolog.ParseLevel(strings.ToLower(lvl))
		if err != nil || lvl == "" {
			return fmt.Errorf("logging.components.%s: unknown level %q", name, lvl)
		}
		parsed[strings.ToLower(name)] = level
	}
	registry.mu.Lock()
	registry.levels = parsed
	registry.mu.Unlock()
	return nil
}

// Components returns the component names that have a level override,
// sorted.
func Components() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	names := make([]string, 0, len(registry.levels))
	for name := range registry.levels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the logger for a component. A registered logger is returned
// as is. Otherwise the global logger is tagged with the component name and
// filtered at the level of the component or its nearest dotted parent.
func Get(name string) *Logger {
	key := strings.ToLower(name)

	registry.mu.RLock()
	l, ok := registry.loggers[key]
	level, hasLevel := lookupLevel(registry.levels, key)
	registry.mu.RUnlock()
	if ok {
		return l
	}

	l = GetGlobalLogger().WithComponent(name)
	if hasLevel {
		l = l.withLevel(level)
	}
	return l
}

func lookupLevel(levels map[string]zerolog.Level, name string) (zerolog.Level, bool) {
	for {
		if level, ok := levels[name]; ok {
			return level, true
		}
		i := strings.LastIndexByte(name, '.')
		if i < 0 {
			return zerolog.NoLevel, false
		}
		name = name[:i]
	}
}

func (l *Logger) withLevel(level zerolog.Level) *Logger {
	return &Logger{logger: l.logger.Level(level), service: l.service}
}
