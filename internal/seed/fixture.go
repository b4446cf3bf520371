package seed

import (
	"embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/*.yaml
var fixtureFiles embed.FS

// Fixture describes the data seeded for one user. Folders nest; categories and
// charts reference folders by slash-separated name path ("Work/Coding").
type Fixture struct {
	Folders    []FolderSpec   `yaml:"folders"`
	Categories []CategorySpec `yaml:"categories"`
	Charts     []ChartSpec    `yaml:"charts"`
}

type FolderSpec struct {
	Name    string       `yaml:"name"`
	Emoji   string       `yaml:"emoji"`
	Color   string       `yaml:"color"`
	Folders []FolderSpec `yaml:"folders"`
	Tasks   []TaskSpec   `yaml:"tasks"`
}

type TaskSpec struct {
	Description string      `yaml:"description"`
	Entries     []EntrySpec `yaml:"entries"`
}

type EntrySpec struct {
	Start   time.Time `yaml:"start"`
	Minutes int       `yaml:"minutes"`
}

type CategorySpec struct {
	Name    string   `yaml:"name"`
	Emoji   string   `yaml:"emoji"`
	Color   string   `yaml:"color"`
	Folders []string `yaml:"folders"`
}

type ChartSpec struct {
	Name       string   `yaml:"name"`
	Folders    []string `yaml:"folders"`
	Categories []string `yaml:"categories"`
}

// ParseFixture decodes a YAML fixture
func ParseFixture(data []byte) (*Fixture, error) {
	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fixture: %w", err)
	}
	return &fixture, nil
}

// LoadFixture reads a fixture from path, or the embedded demo fixture when path is empty
func LoadFixture(path string) (*Fixture, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = fixtureFiles.ReadFile("fixtures/demo.yaml")
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	return ParseFixture(data)
}
