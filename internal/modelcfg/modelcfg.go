// Package modelcfg reads per-model configuration. Each model directory in
// the repository carries a config.yaml describing its platform, instance
// placement and artifact naming.
package modelcfg

import (
	"fmt"
	"os"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// PlatformONNX is the platform identifier served by this daemon.
const PlatformONNX = "onnxruntime_onnx"

// DefaultModelFilename is the artifact a model loads when its config names
// no other.
const DefaultModelFilename = "model.onnx"

// ConfigFileName is the per-model config file looked up in each model
// directory.
const ConfigFileName = "config.yaml"

// Kind selects the device class an instance group runs on.
type Kind string

const (
	KindCPU Kind = "cpu"
	KindGPU Kind = "gpu"
)

// InstanceGroup places Count execution contexts on a device class. For GPU
// groups an empty GPUs list means every visible device.
type InstanceGroup struct {
	Name          string `yaml:"name"`
	Kind          Kind   `yaml:"kind"`
	Count         int    `yaml:"count"`
	GPUs          []int  `yaml:"gpus"`
	ModelFilename string `yaml:"model_filename"`
}

// Config is the parsed form of a model's config.yaml.
type Config struct {
	Name                 string          `yaml:"name"`
	Platform             string          `yaml:"platform"`
	MaxBatchSize         int             `yaml:"max_batch_size"`
	DefaultModelFilename string          `yaml:"default_model_filename"`
	InstanceGroups       []InstanceGroup `yaml:"instance_groups"`
}

// Default returns the values merged into every loaded config.
func Default() Config {
	return Config{
		DefaultModelFilename: DefaultModelFilename,
		InstanceGroups:       []InstanceGroup{{Kind: KindCPU, Count: 1}},
	}
}

// Load reads and parses a model config file and applies defaults.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := c.ApplyDefaults(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ApplyDefaults merges Default into unset fields and normalizes instance
// groups. mergo only fills zero-valued top-level fields, so group entries
// get their own fixup pass.
func (c *Config) ApplyDefaults() error {
	def := Default()
	if err := mergo.Merge(c, def); err != nil {
		return fmt.Errorf("merge defaults: %w", err)
	}
	for i := range c.InstanceGroups {
		g := &c.InstanceGroups[i]
		if g.Count == 0 {
			g.Count = 1
		}
		if g.Kind == "" {
			g.Kind = KindCPU
		}
		if g.Name == "" {
			g.Name = fmt.Sprintf("group%d", i)
		}
	}
	return nil
}

// ValidateForModel checks the config against the model directory it was
// loaded from. An omitted name is filled from the directory; a conflicting
// one is an error.
func (c *Config) ValidateForModel(dirName string) error {
	if c.Name == "" {
		c.Name = dirName
	} else if c.Name != dirName {
		return fmt.Errorf("config name %q does not match model directory %q", c.Name, dirName)
	}
	if c.Platform == "" {
		return fmt.Errorf("model %s: platform is required", c.Name)
	}
	if c.MaxBatchSize < 0 {
		return fmt.Errorf("model %s: max_batch_size must not be negative", c.Name)
	}
	for _, g := range c.InstanceGroups {
		if g.Kind != KindCPU && g.Kind != KindGPU {
			return fmt.Errorf("model %s: instance group %s: unknown kind %q", c.Name, g.Name, g.Kind)
		}
		if g.Count < 0 {
			return fmt.Errorf("model %s: instance group %s: count must not be negative", c.Name, g.Name)
		}
		for _, id := range g.GPUs {
			if id < 0 {
				return fmt.Errorf("model %s: instance group %s: bad gpu id %d", c.Name, g.Name, id)
			}
		}
	}
	return nil
}

// ArtifactFor returns the artifact name an instance group loads.
func (c *Config) ArtifactFor(g InstanceGroup) string {
	if g.ModelFilename != "" {
		return g.ModelFilename
	}
	return c.DefaultModelFilename
}
