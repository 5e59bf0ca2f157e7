package snapshots

import (
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// SourceConfig holds the connection settings of a snapshot source
type SourceConfig struct {
	DSN            string        `json:"dsn"`
	TimeZone       string        `json:"time_zone,omitempty"`
	ConnectTimeout time.Duration `json:"connect_timeout,omitempty"`
	UseTLS         bool          `json:"use_tls,omitempty"`
	SkipVerifyTLS  bool          `json:"skip_verify_tls,omitempty"`
}

// Factory creates a Snapshotter from its configuration
type Factory func(cfg *SourceConfig) (Snapshotter, error)

var (
	ErrUnknownSource = errors.New("unknown snapshot source")

	registryMutex = &sync.RWMutex{}
	registry      = make(map[string]Factory)
)

// Register makes a snapshot source available under the given name. Sources
// register themselves from their package init.
func Register(name string, factory Factory) {
	registryMutex.Lock()
	defer registryMutex.Unlock()

	if factory == nil {
		panic("snapshots: Register factory is nil")
	}

	if _, ok := registry[name]; ok {
		panic("snapshots: Register called twice for source " + name)
	}

	registry[name] = factory
}

// New creates the snapshot source registered under name
func New(name string, cfg *SourceConfig) (Snapshotter, error) {
	registryMutex.RLock()
	factory, ok := registry[name]
	registryMutex.RUnlock()

	if !ok {
		return nil, errors.Wrapf(ErrUnknownSource, "'%s'", name)
	}

	if cfg == nil {
		return nil, errors.New("snapshot source config cannot be nil")
	}

	s, err := factory(cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to create snapshot source '%s'", name)
	}

	return s, nil
}

// Sources returns the names of all registered snapshot sources
func Sources() []string {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	names := make([]string, 0, len(registry))

	for name := range registry {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
