package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/GoSim-25-26J-441/seed-api/internal/nodes"
	"github.com/GoSim-25-26J-441/seed-api/internal/rest"
	"github.com/GoSim-25-26J-441/seed-api/internal/tags"
)

// KnownResources lists the resource names a resources file may configure.
var KnownResources = []string{nodes.Name, tags.Name}

// ResourcesConfig holds per-resource overrides read from RESOURCES_FILE.
//
//	resources:
//	  nodes:
//	    url: /paragraphs
//	    forbidden_methods: [DELETE]
type ResourcesConfig struct {
	Resources map[string]ResourceConfig `yaml:"resources"`
}

type ResourceConfig struct {
	URL              string   `yaml:"url"`
	ForbiddenMethods []string `yaml:"forbidden_methods"`
}

// LoadResources reads the YAML file at path. An empty path yields no overrides.
func LoadResources(path string) (ResourcesConfig, error) {
	var rc ResourcesConfig
	if path == "" {
		return rc, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return rc, fmt.Errorf("read resources file: %w", err)
	}
	if err := yaml.Unmarshal(b, &rc); err != nil {
		return rc, fmt.Errorf("parse resources file %s: %w", path, err)
	}
	return rc, nil
}

func (rc ResourcesConfig) Validate() error {
	for name, r := range rc.Resources {
		if !slices.Contains(KnownResources, name) {
			return fmt.Errorf("unknown resource %q (known: %s)", name, strings.Join(KnownResources, ", "))
		}
		if _, err := rest.ParseMethods(r.ForbiddenMethods); err != nil {
			return fmt.Errorf("resource %s: %w", name, err)
		}
	}
	return nil
}

// Resource builds the rest.Resource for name, applying any configured overrides.
func (rc ResourcesConfig) Resource(name string) (rest.Resource, error) {
	r := rc.Resources[name]
	forbidden, err := rest.ParseMethods(r.ForbiddenMethods)
	if err != nil {
		return rest.Resource{}, fmt.Errorf("resource %s: %w", name, err)
	}
	return rest.Resource{Name: name, URL: r.URL, Forbidden: forbidden}, nil
}
