package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"park-locator-service/internal/domain"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type parkFile struct {
	Parks []parkEntry `json:"parks" yaml:"parks"`
}

type parkEntry struct {
	Name       string      `json:"name" yaml:"name"`
	Polygon    [][]float64 `json:"polygon" yaml:"polygon"`
	ToleranceM float64     `json:"tolerance_m" yaml:"tolerance_m"`
}

// FileParkRepository reads parks from a JSON or YAML file on every call,
// so edits take effect without a restart.
type FileParkRepository struct {
	Path string
}

func NewFileParkRepository(path string) *FileParkRepository {
	return &FileParkRepository{Path: path}
}

func (r *FileParkRepository) ListParks(ctx context.Context) ([]domain.Park, error) {
	return LoadParksFile(r.Path)
}

// LoadParksFile parses a park file. Files ending in .yaml or .yml are read
// as YAML, anything else as JSON.
func LoadParksFile(path string) ([]domain.Park, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load parks: read %q: %w", path, err)
	}

	var f parkFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &f)
	default:
		err = json.Unmarshal(b, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("load parks: parse %q: %w", path, err)
	}

	parks := make([]domain.Park, 0, len(f.Parks))
	for i, e := range f.Parks {
		p, err := domain.NewPark(e.Name, e.Polygon, e.ToleranceM)
		if err != nil {
			return nil, fmt.Errorf("load parks: entry %d: %w", i+1, err)
		}
		parks = append(parks, p)
	}

	if err := domain.ValidateParks(parks); err != nil {
		return nil, fmt.Errorf("load parks: %w", err)
	}

	return parks, nil
}
