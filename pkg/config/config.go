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
	"fmt"
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"
)

type ErrConfigFileExists struct {
	Path string
}

func (e ErrConfigFileExists) Error() string {
	return fmt.Sprintf("Config file already exists: %s", e.Path)
}

type Config struct {
	// Server is the vendor API endpoint
	Server  string `json:"server,omitempty"`
	Country string `json:"country,omitempty"`
	Version int    `json:"version,omitempty"`
	// DBPath is the bbolt file holding the crawled catalog
	DBPath string `json:"dbpath,omitempty"`
	// Output is the directory export files are written to
	Output string `json:"output,omitempty"`
	// DefaultFrequency is the carrier in Hz assumed when a pattern has none
	DefaultFrequency int    `json:"default_frequency,omitempty"`
	LogLevel         string `json:"log_level,omitempty"`
	ApiPort          int    `json:"api_port,omitempty"`

	filepath string
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

	err = os.WriteFile(c.filepath, data, 0644)
	if err != nil {
		return err
	}

	return nil
}

// Load overrides the defaults with the persisted config if there is one
func (c *Config) Load() error {
	data, err := os.ReadFile(c.filepath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) String() string {
	result, err := yaml.Marshal(c)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("---\n%s", string(result))
}

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, ConfigFile)
}

func NewDefaultConfig() *Config {
	return &Config{
		Server:           DefaultServer,
		Country:          DefaultCountry,
		Version:          DefaultVersion,
		DBPath:           DefaultDBFile,
		Output:           DefaultOutput,
		DefaultFrequency: DefaultFrequency,
		LogLevel:         DefaultLogLevel,
		ApiPort:          DefaultApiPort,
		filepath:         DefaultConfigPath(),
	}
}
