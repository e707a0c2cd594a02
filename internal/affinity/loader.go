// Package affinity carga la matriz de afinidad elemento/rasgo desde un recurso estatico.
package affinity

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"gamify-hexad/internal/domain"
)

//go:embed default_matrix.json
var defaultMatrixJSON []byte

// Source entrega la matriz de afinidad al iniciar el proceso.
type Source interface {
	Load() (domain.AffinityMatrix, error)
}

// FileSource lee la matriz desde Path; si Path esta vacio usa la matriz embebida.
type FileSource struct {
	Path string
}

func NewFileSource(path string) FileSource {
	return FileSource{Path: strings.TrimSpace(path)}
}

func (s FileSource) Load() (domain.AffinityMatrix, error) {
	if s.Path == "" {
		return Default()
	}
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read affinity matrix %s: %w", s.Path, err)
	}
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".yaml", ".yml":
		return ParseYAML(raw)
	default:
		return ParseJSON(raw)
	}
}

// Default devuelve la matriz que viene con el binario.
func Default() (domain.AffinityMatrix, error) {
	return ParseJSON(defaultMatrixJSON)
}

// ParseJSON interpreta {"elemento": {"rasgo": peso}}.
func ParseJSON(raw []byte) (domain.AffinityMatrix, error) {
	var doc map[string]map[string]float64
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse affinity matrix: %w", err)
	}
	return build(doc)
}

// ParseYAML acepta la misma estructura que ParseJSON en formato YAML.
func ParseYAML(raw []byte) (domain.AffinityMatrix, error) {
	var doc map[string]map[string]float64
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse affinity matrix: %w", err)
	}
	return build(doc)
}

func build(doc map[string]map[string]float64) (domain.AffinityMatrix, error) {
	matrix := make(domain.AffinityMatrix, len(doc))
	for elementName, row := range doc {
		element, err := domain.ParseElementType(elementName)
		if err != nil {
			return nil, err
		}
		weights := make(map[domain.Trait]float64, len(row))
		for traitName, w := range row {
			trait, err := domain.ParseTrait(traitName)
			if err != nil {
				return nil, fmt.Errorf("element %s: %w", element, err)
			}
			weights[trait] = w
		}
		matrix[element] = weights
	}
	if err := matrix.Validate(); err != nil {
		return nil, err
	}
	return matrix, nil
}
