package ports

import "go.trai.ch/stage/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load finds stage.yaml by walking up from cwd and returns the validated project.
	Load(cwd string) (*domain.Project, error)
}
