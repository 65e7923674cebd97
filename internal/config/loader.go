package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the daemon.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr                 string  `json:"addr" yaml:"addr" toml:"addr"`
	RepositoryDir        string  `json:"repository_dir" yaml:"repository_dir" toml:"repository_dir"`
	ScratchDir           string  `json:"scratch_dir" yaml:"scratch_dir" toml:"scratch_dir"`
	MinComputeCapability float64 `json:"min_compute_capability" yaml:"min_compute_capability" toml:"min_compute_capability"`
	OrtLibrary           string  `json:"ort_library" yaml:"ort_library" toml:"ort_library"`
	IntraOpThreads       int     `json:"intra_op_threads" yaml:"intra_op_threads" toml:"intra_op_threads"`
	InterOpThreads       int     `json:"inter_op_threads" yaml:"inter_op_threads" toml:"inter_op_threads"`
	Watch                bool    `json:"watch" yaml:"watch" toml:"watch"`
	S3Region             string  `json:"s3_region" yaml:"s3_region" toml:"s3_region"`
	S3Endpoint           string  `json:"s3_endpoint" yaml:"s3_endpoint" toml:"s3_endpoint"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
