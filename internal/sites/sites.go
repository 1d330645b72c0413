// Package sites holds the list of monitored endpoints. The list is loaded
// from YAML, kept in a Registry and optionally reloaded when the file
// changes on disk.
package sites

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hamed0406/uptimehistory/internal/domain"
)

// Site is one monitored endpoint.
type Site struct {
	Name               string `yaml:"name" json:"name"`
	URL                string `yaml:"url" json:"url"`
	Description        string `yaml:"description,omitempty" json:"description,omitempty"`
	ExpectedStatusCode int    `yaml:"expectedStatusCode,omitempty" json:"expectedStatusCode,omitempty"`
	TimeoutMS          int    `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// Timeout is the per-probe timeout, zero when unset.
func (s Site) Timeout() time.Duration {
	return time.Duration(s.TimeoutMS) * time.Millisecond
}

type file struct {
	Sites []Site `yaml:"sites"`
}

// Defaults is the built-in list used when no sites file exists.
func Defaults() []Site {
	return []Site{
		{Name: "Camera", URL: "https://camera.pku.edu.cn", Description: "PKU Camera System", ExpectedStatusCode: 200, TimeoutMS: 5000},
		{Name: "CI.IDM", URL: "https://ci.idm.pku.edu.cn", Description: "PKU CI IDM System", ExpectedStatusCode: 200, TimeoutMS: 5000},
		{Name: "AIIC", URL: "https://aiic.pku.edu.cn", Description: "PKU AIIC Website", ExpectedStatusCode: 200, TimeoutMS: 5000},
		{Name: "MLIC", URL: "https://mlic.pku.edu.cn", Description: "PKU MLIC Website", ExpectedStatusCode: 200, TimeoutMS: 5000},
	}
}

// Load reads a sites file. An empty path or a missing file yields Defaults.
func Load(path string) ([]Site, error) {
	if path == "" {
		return Defaults(), nil
	}
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read sites: %w", err)
	}
	return Parse(content)
}

// Parse decodes and validates a YAML sites document.
func Parse(content []byte) ([]Site, error) {
	var f file
	if err := yaml.Unmarshal(content, &f); err != nil {
		return nil, fmt.Errorf("parse sites: %w", err)
	}
	seen := make(map[string]string, len(f.Sites))
	out := make([]Site, 0, len(f.Sites))
	for i, s := range f.Sites {
		if !domain.ValidHTTPURL(s.URL) {
			return nil, fmt.Errorf("site %d (%s): invalid url %q", i, s.Name, s.URL)
		}
		if s.TimeoutMS < 0 || s.ExpectedStatusCode < 0 {
			return nil, fmt.Errorf("site %d (%s): negative timeout or status", i, s.Name)
		}
		s.URL = domain.NormalizeURL(s.URL)
		if s.Name == "" {
			s.Name = s.URL
		}
		if prev, dup := seen[s.URL]; dup {
			return nil, fmt.Errorf("site %q duplicates %q (%s)", s.Name, prev, s.URL)
		}
		seen[s.URL] = s.Name
		out = append(out, s)
	}
	return out, nil
}
