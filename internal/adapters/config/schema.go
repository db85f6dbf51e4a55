package config

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// SchemaVersion is the only stage.yaml schema version this loader reads.
// An absent version means this one.
const SchemaVersion = "1"

// Stagefile represents the structure of the stage.yaml configuration file.
type Stagefile struct {
	Version      string            `yaml:"version"`
	Project      string            `yaml:"project"`
	Source       string            `yaml:"source"`
	AnswerName   string            `yaml:"answerName"`
	Interpreter  string            `yaml:"interpreter"`
	Encoding     string            `yaml:"encoding"`
	Channels     []string          `yaml:"channels"`
	Variables    map[string]string `yaml:"variables"`
	Dependencies []DependencyDTO   `yaml:"dependencies"`
	Tooling      []DependencyDTO   `yaml:"tooling"`
	Fixtures     []FixtureDTO      `yaml:"fixtures"`
	Matrix       []EntryDTO        `yaml:"matrix"`
	Commands     CommandsDTO       `yaml:"commands"`
}

// DependencyDTO represents a dependency record. It accepts either a mapping or a
// scalar in the "name>=min" form.
type DependencyDTO struct {
	Name         string `yaml:"name"`
	Min          string `yaml:"min"`
	Optional     bool   `yaml:"optional"`
	Purpose      string `yaml:"purpose"`
	Interpreters string `yaml:"interpreters"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *DependencyDTO) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		name, minVersion, _ := strings.Cut(node.Value, ">=")
		d.Name = strings.TrimSpace(name)
		d.Min = strings.TrimSpace(minVersion)
		return nil
	}
	type plain DependencyDTO
	return node.Decode((*plain)(d))
}

// FixtureDTO represents a fixture archive.
type FixtureDTO struct {
	Name   string `yaml:"name"`
	URL    string `yaml:"url"`
	Dir    string `yaml:"dir"`
	SHA256 string `yaml:"sha256"`
}

// EntryDTO represents a matrix entry.
type EntryDTO struct {
	Name        string            `yaml:"name"`
	Interpreter string            `yaml:"interpreter"`
	Coverage    bool              `yaml:"coverage"`
	Variables   map[string]string `yaml:"variables"`
}

// CommandsDTO holds the step command templates.
type CommandsDTO struct {
	Build    []string `yaml:"build"`
	Test     []string `yaml:"test"`
	Coverage []string `yaml:"coverage"`
}
