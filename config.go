package permits

import (
	"encoding/json"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete engine configuration: the policy set, the route
// table and the cache knobs. The surrounding system decides where it comes
// from (file, environment, remote store); this package only consumes the
// parsed form.
type Config struct {
	Version  uint16       `json:"version" yaml:"version"`
	Policies []*Policy    `json:"policies" yaml:"policies"`
	Routes   []RouteEntry `json:"routes,omitempty" yaml:"routes,omitempty"`
	Engine   EngineConfig `json:"engine" yaml:"engine"`
}

// RouteEntry is the serializable form of one action-table row.
type RouteEntry struct {
	Method   string `json:"method" yaml:"method"`
	Template string `json:"template" yaml:"template"`
	Action   Action `json:"action" yaml:"action"`
}

type EngineConfig struct {
	DecisionCacheTTL    int64 `json:"decision_cache_ttl_ms" yaml:"decision_cache_ttl_ms"`
	RistrettoNumCounter int64 `json:"ristretto_num_counter" yaml:"ristretto_num_counter"`
	RistrettoMaxCost    int64 `json:"ristretto_max_cost" yaml:"ristretto_max_cost"`
	RistrettoBuffer     int64 `json:"ristretto_buffer" yaml:"ristretto_buffer"`
}

// ConfigLoader loads configuration from the supported formats
type ConfigLoader struct{}

func NewConfigLoader() *ConfigLoader {
	return &ConfigLoader{}
}

func (l *ConfigLoader) LoadYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *ConfigLoader) LoadJSON(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ToYAML exports config to YAML
func (c *Config) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// ToJSON exports config to JSON
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// RouteTable converts the configured routes to the resolver's table form.
// An empty route section falls back to the default petstore table.
func (c *Config) RouteTable() map[RouteKey]Action {
	if len(c.Routes) == 0 {
		return DefaultRouteTable()
	}
	table := make(map[RouteKey]Action, len(c.Routes))
	for _, r := range c.Routes {
		table[RouteKey{Method: r.Method, Template: r.Template}] = r.Action
	}
	return table
}

// Build validates the configuration and assembles the store, engine and
// action resolver. Configuration errors are returned before anything is
// wired: a process must not serve requests over an invalid policy or route
// table.
func (c *Config) Build(opts ...EngineOption) (*Store, *Engine, *ActionResolver, error) {
	store, err := NewStore(c.Policies)
	if err != nil {
		return nil, nil, nil, err
	}
	resolver, err := NewActionResolver(c.RouteTable())
	if err != nil {
		return nil, nil, nil, err
	}
	if c.Engine.DecisionCacheTTL > 0 {
		cache, err := NewDecisionCache(CacheConfig{
			TTL:         time.Duration(c.Engine.DecisionCacheTTL) * time.Millisecond,
			NumCounters: c.Engine.RistrettoNumCounter,
			MaxCost:     c.Engine.RistrettoMaxCost,
			BufferItems: c.Engine.RistrettoBuffer,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		opts = append(opts, WithDecisionCache(cache))
	}
	engine, err := NewEngine(store, opts...)
	if err != nil {
		return nil, nil, nil, err
	}
	return store, engine, resolver, nil
}
