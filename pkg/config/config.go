/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package config

import (
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"
)

// EntityType is a DIS entity type record. Named entries are injected
// through the configuration file and referenced by the entity state
// builder.
type EntityType struct {
	EntityKind  uint8  `json:"entityKind"`
	Domain      uint8  `json:"domain"`
	Country     uint16 `json:"country"`
	Category    uint8  `json:"category"`
	Subcategory uint8  `json:"subcategory"`
	Specific    uint8  `json:"specific"`
	Extra       uint8  `json:"extra"`
}

type TransportConfig struct {
	Groups    []string `json:"groups,omitempty"`
	Port      int      `json:"port,omitempty"`
	HostAddr  string   `json:"hostAddr,omitempty"`
	TimeoutMs int      `json:"timeoutMs,omitempty"`
	BufSize   int      `json:"bufSize,omitempty"`
}

type Config struct {
	SiteID        uint16                `json:"siteId"`
	ApplicationID uint16                `json:"applicationId"`
	ExerciseID    uint8                 `json:"exerciseId"`
	Transport     *TransportConfig      `json:"transport,omitempty"`
	EntityTypes   map[string]EntityType `json:"entityTypes,omitempty"`
	DBPath        string                `json:"dbPath,omitempty"`
	LogLevel      string                `json:"logLevel,omitempty"`
	filepath      string
}

func (c *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(c.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: c.filepath}
	}

	data, err := yaml.Marshal(&c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.filepath)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	return os.WriteFile(c.filepath, data, 0644)
}

// Load reads the config file if it exists. A missing file leaves the
// defaults untouched.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, ConfigFile)
}

func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, CaptureDBFile)
}

// NewDefaultConfig returns a config preloaded with the EMSN custom
// entity types for generic container-class ships.
func NewDefaultConfig() *Config {
	return &Config{
		SiteID:        DefaultSiteID,
		ApplicationID: DefaultApplicationID,
		ExerciseID:    DefaultExerciseID,
		Transport: &TransportConfig{
			Groups:    []string{DefaultGroup},
			Port:      DefaultPort,
			HostAddr:  DefaultHostAddr,
			TimeoutMs: DefaultTimeoutMs,
			BufSize:   DefaultBufSize,
		},
		EntityTypes: map[string]EntityType{
			"generic_ship_container_class_medium": {
				EntityKind:  1,
				Domain:      3,
				Country:     0,
				Category:    61,
				Subcategory: 2,
				Specific:    1,
				Extra:       0,
			},
			"generic_ship_container_class_small": {
				EntityKind:  1,
				Domain:      3,
				Country:     0,
				Category:    61,
				Subcategory: 1,
				Specific:    3,
				Extra:       0,
			},
		},
		DBPath:   DefaultDBPath(),
		LogLevel: DefaultLogLevel,
		filepath: DefaultConfigPath(),
	}
}
