package pipeline

import (
	"context"
	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed stages.yaml
var defaultStagesYAML []byte

type stageSeed struct {
	Stages []struct {
		Name  string `yaml:"name"`
		Color string `yaml:"color"`
	} `yaml:"stages"`
}

// SeedDefaultStages creates the default board columns on first run. A board
// that already has stages is left untouched.
func (s *Service) SeedDefaultStages(ctx context.Context) error {
	count, err := s.repo.CountStages(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var seed stageSeed
	if err := yaml.Unmarshal(defaultStagesYAML, &seed); err != nil {
		return err
	}

	for position, stage := range seed.Stages {
		if _, err := s.repo.CreateStage(ctx, stage.Name, stage.Color, position, true); err != nil {
			return err
		}
	}
	s.log.Info("seeded default pipeline stages", "count", len(seed.Stages))
	return nil
}
