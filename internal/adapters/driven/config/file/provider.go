// Package file loads connector-instance configuration from a TOML
// file. Each [[sources]] block names one instance, binds it to a
// connector kind, and carries the kind-specific settings.
package file

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/chorus-search/chorus/internal/core/domain"
	"github.com/chorus-search/chorus/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.ConfigProvider = (*Provider)(nil)

// sourceBlock is one [[sources]] entry in the config file.
type sourceBlock struct {
	Name   string            `toml:"name"`
	Kind   string            `toml:"kind"`
	Config map[string]string `toml:"config"`
}

// configFile is the top-level TOML document.
type configFile struct {
	Sources []sourceBlock `toml:"sources"`
}

// Provider is a file-based implementation of driven.ConfigProvider.
// The file is read once at construction; instances are immutable for
// the provider's lifetime.
type Provider struct {
	instances map[string]domain.Instance
	byKind    map[string][]string
	kinds     []string
}

// NewProvider loads a TOML configuration file.
func NewProvider(path string) (*Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrConfig, path, err)
	}

	var cfg configFile
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", domain.ErrConfig, path, err)
	}
	return NewProviderFromInstances(blocksToInstances(cfg.Sources))
}

// NewProviderFromInstances builds a provider from in-memory instances.
// Used by tests and embedding callers.
func NewProviderFromInstances(instances []domain.Instance) (*Provider, error) {
	p := &Provider{
		instances: make(map[string]domain.Instance, len(instances)),
		byKind:    make(map[string][]string),
	}
	for _, inst := range instances {
		if inst.Name == "" {
			return nil, fmt.Errorf("%w: source with empty name", domain.ErrConfig)
		}
		if inst.Kind == "" {
			return nil, fmt.Errorf("%w: source %q has no kind", domain.ErrConfig, inst.Name)
		}
		if _, dup := p.instances[inst.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate source name %q", domain.ErrConfig, inst.Name)
		}
		if inst.Config == nil {
			inst.Config = map[string]string{}
		}
		p.instances[inst.Name] = inst
		if _, seen := p.byKind[inst.Kind]; !seen {
			p.kinds = append(p.kinds, inst.Kind)
		}
		p.byKind[inst.Kind] = append(p.byKind[inst.Kind], inst.Name)
	}
	return p, nil
}

func blocksToInstances(blocks []sourceBlock) []domain.Instance {
	instances := make([]domain.Instance, 0, len(blocks))
	for _, b := range blocks {
		instances = append(instances, domain.Instance{Name: b.Name, Kind: b.Kind, Config: b.Config})
	}
	return instances
}

// ActiveKinds returns kinds in order of first appearance in the file.
func (p *Provider) ActiveKinds() []string {
	kinds := make([]string, len(p.kinds))
	copy(kinds, p.kinds)
	return kinds
}

// InstancesForKind returns instance names for a kind in file order.
func (p *Provider) InstancesForKind(kind string) []string {
	names := p.byKind[kind]
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Instance returns the configuration block for a named instance.
func (p *Provider) Instance(name string) (domain.Instance, error) {
	inst, ok := p.instances[name]
	if !ok {
		return domain.Instance{}, fmt.Errorf("%w: unknown source %q", domain.ErrConfig, name)
	}
	return inst, nil
}
