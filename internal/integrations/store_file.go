package integrations

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// YAMLStore implements the Store interface using a local YAML file.
// YAMLStore 使用本地 YAML 文件实现 Store 接口。
type YAMLStore struct {
	mu   sync.Mutex
	path string
}

// NewYAMLStore creates a new YAML-backed storage provider.
func NewYAMLStore(path string) *YAMLStore {
	return &YAMLStore{path: path}
}

// fileData is the on-disk document shape.
type fileData struct {
	Integrations []SinkIntegration `yaml:"integrations"`
}

func (s *YAMLStore) Put(integration SinkIntegration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.updateFile(func(data *fileData) {
		for i, existing := range data.Integrations {
			if existing.ID == integration.ID {
				data.Integrations[i] = integration
				return
			}
		}
		data.Integrations = append(data.Integrations, integration)
	})
}

func (s *YAMLStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.updateFile(func(data *fileData) {
		kept := data.Integrations[:0]
		for _, existing := range data.Integrations {
			if existing.ID != id {
				kept = append(kept, existing)
			}
		}
		data.Integrations = kept
	})
}

func (s *YAMLStore) LoadAll() ([]SinkIntegration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readFile()
	if err != nil {
		return nil, err
	}
	return data.Integrations, nil
}

func (s *YAMLStore) readFile() (*fileData, error) {
	data := &fileData{}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return data, nil
		}
		return nil, fmt.Errorf("failed to read integration store %s: %w", s.path, err)
	}
	if err := yaml.Unmarshal(raw, data); err != nil {
		return nil, fmt.Errorf("failed to parse integration store %s: %w", s.path, err)
	}
	return data, nil
}

func (s *YAMLStore) updateFile(mutate func(*fileData)) error {
	data, err := s.readFile()
	if err != nil {
		return err
	}
	mutate(data)

	raw, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal integration store: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	return os.WriteFile(s.path, raw, 0600)
}
