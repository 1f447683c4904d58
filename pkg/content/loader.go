package content

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a JSON or YAML content file. Keys present in the file
// replace the built-in copy; lists are replaced wholesale.
func LoadFile(path string) (Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Site{}, fmt.Errorf("content: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS is LoadFile against fsys.
func LoadFS(fsys fs.FS, path string) (Site, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Site{}, fmt.Errorf("content: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse overlays data on Default and validates the result. source is only
// used in error messages.
func Parse(data []byte, source string) (Site, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Site{}, fmt.Errorf("content: file %s is empty", source)
	}

	site := Default()
	if err := json.Unmarshal(data, &site); err != nil {
		site = Default()
		if yerr := yaml.Unmarshal(data, &site); yerr != nil {
			return Site{}, fmt.Errorf("content: parse %s: invalid JSON or YAML: %w", source, yerr)
		}
	}

	if err := site.Validate(); err != nil {
		return Site{}, fmt.Errorf("content: %s: %w", source, err)
	}
	return site, nil
}
