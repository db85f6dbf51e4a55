// Package config provides the configuration loader for stage.
package config

import (
	"errors"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/stage/internal/core/domain"
	"go.trai.ch/stage/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var (
	// DefaultBuildCommand installs the project in development mode without touching its dependencies.
	DefaultBuildCommand = []string{"python", "-m", "pip", "install", "--no-deps", "-e", "."}

	// DefaultTestCommand runs the answer tests against the extracted fixtures.
	DefaultTestCommand = []string{
		"python", "-m", "pytest", "--local-dir={fixtures}", "--answer-name={answer_name}",
	}
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load finds stage.yaml in cwd or a parent directory and returns the validated project.
func (l *Loader) Load(cwd string) (*domain.Project, error) {
	configPath, err := findConfiguration(cwd)
	if err != nil {
		return nil, err
	}

	var stagefile Stagefile
	if err := readAndUnmarshalYAML(configPath, &stagefile); err != nil {
		return nil, err
	}

	project, err := l.buildProject(filepath.Dir(configPath), &stagefile)
	if err != nil {
		return nil, zerr.With(err, "config", configPath)
	}
	return project, nil
}

func findConfiguration(cwd string) (string, error) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.StageFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}
	return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "searched up from cwd"), "cwd", cwd)
}

func readAndUnmarshalYAML(path string, v any) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is discovered by findConfiguration
	if err != nil {
		return zerr.With(errors.Join(domain.ErrConfigReadFailed, err), "path", path)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return zerr.With(errors.Join(domain.ErrConfigParseFailed, err), "path", path)
	}
	return nil
}

func (l *Loader) buildProject(root string, sf *Stagefile) (*domain.Project, error) {
	if sf.Version != "" && sf.Version != SchemaVersion {
		err := zerr.Wrap(domain.ErrInvalidProject, "unsupported config version")
		return nil, zerr.With(err, "version", sf.Version)
	}

	name := sf.Project
	if name == "" {
		name = filepath.Base(root)
	}
	if !domain.IsPathElement(name) {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidProject, "invalid project name"), "project", name)
	}
	if len(sf.Channels) == 0 {
		return nil, domain.ErrNoChannels
	}

	manifest := domain.Manifest{
		Interpreter:  sf.Interpreter,
		Dependencies: toRecords(sf.Dependencies),
		Tooling:      toRecords(sf.Tooling),
	}
	if err := manifest.Validate(); err != nil {
		return nil, err
	}

	fixtures := make([]domain.FixtureArchive, 0, len(sf.Fixtures))
	for _, f := range sf.Fixtures {
		fixtures = append(fixtures, domain.FixtureArchive{
			Name: f.Name, URL: f.URL, Dir: f.Dir, SHA256: strings.ToLower(f.SHA256),
		})
	}
	if err := domain.ValidateFixtures(fixtures); err != nil {
		return nil, err
	}

	entries := make([]domain.MatrixEntry, 0, len(sf.Matrix))
	for _, e := range sf.Matrix {
		entries = append(entries, domain.MatrixEntry{
			Name:        domain.NewIdent(e.Name),
			Interpreter: e.Interpreter,
			Variables:   e.Variables,
			Coverage:    e.Coverage,
		})
	}
	matrix, err := domain.NewMatrix(entries...)
	if err != nil {
		return nil, err
	}
	if matrix.Len() == 0 {
		return nil, zerr.Wrap(domain.ErrInvalidProject, "matrix is empty")
	}

	variables := maps.Clone(sf.Variables)
	if variables == nil {
		variables = map[string]string{}
	}
	if sf.Encoding != "" {
		variables[domain.EncodingVariable] = sf.Encoding
	}

	commands := domain.Commands{
		Build:    sf.Commands.Build,
		Test:     sf.Commands.Test,
		Coverage: sf.Commands.Coverage,
	}
	if len(commands.Build) == 0 {
		commands.Build = DefaultBuildCommand
	}
	if len(commands.Test) == 0 {
		commands.Test = DefaultTestCommand
	}
	if hasCoverageEntry(matrix) && len(commands.Coverage) == 0 {
		l.Logger.Warn("matrix enables coverage but no coverage command is configured; coverage will not run")
	}

	answerName := sf.AnswerName
	if answerName == "" {
		answerName = name + "_answers"
	}

	source, err := resolveSource(root, sf.Source)
	if err != nil {
		return nil, err
	}

	return &domain.Project{
		Name:       name,
		Root:       root,
		Source:     source,
		AnswerName: answerName,
		Channels:   sf.Channels,
		Manifest:   manifest,
		Fixtures:   fixtures,
		Matrix:     matrix,
		Commands:   commands,
		Variables:  variables,
	}, nil
}

func toRecords(dtos []DependencyDTO) []domain.DependencyRecord {
	records := make([]domain.DependencyRecord, 0, len(dtos))
	for _, d := range dtos {
		records = append(records, domain.DependencyRecord{
			Name:         domain.NewIdent(d.Name),
			MinVersion:   d.Min,
			Optional:     d.Optional,
			Purpose:      d.Purpose,
			Interpreters: d.Interpreters,
		})
	}
	return records
}

func hasCoverageEntry(m *domain.Matrix) bool {
	for _, e := range m.Entries() {
		if e.Coverage {
			return true
		}
	}
	return false
}

func resolveSource(root, source string) (string, error) {
	if source == "" {
		return root, nil
	}
	if !filepath.IsAbs(source) {
		source = filepath.Join(root, source)
	}
	info, err := os.Stat(source)
	if err != nil {
		return "", zerr.With(errors.Join(domain.ErrInvalidProject, err), "source", source)
	}
	if !info.IsDir() {
		return "", zerr.With(zerr.Wrap(domain.ErrInvalidProject, "source is not a directory"), "source", source)
	}
	return filepath.Clean(source), nil
}
