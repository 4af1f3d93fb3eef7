package requests

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/brettbedarf/memtree"
	"github.com/brettbedarf/memtree/internal/util"
)

// Format of a manifest document
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// decodeFunc decodes one manifest entry into v
type decodeFunc func(v any) error

// LoadFile reads a manifest, choosing the format by extension
// (.json, .yaml, .yml).
func LoadFile(path string) ([]memtree.NodeRequestor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var format Format
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		format = FormatJSON
	case ".yaml", ".yml":
		format = FormatYAML
	default:
		return nil, fmt.Errorf("unknown manifest file extension: %s", path)
	}
	return Parse(data, format)
}

// Parse decodes a manifest: a JSON array or YAML sequence of node requests.
// Any malformed entry fails the whole manifest.
func Parse(data []byte, format Format) ([]memtree.NodeRequestor, error) {
	logger := util.GetLogger("requests.Parse")

	var entries []decodeFunc
	switch format {
	case FormatJSON:
		var rawNodes []json.RawMessage
		if err := json.Unmarshal(data, &rawNodes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
		}
		for _, raw := range rawNodes {
			entries = append(entries, func(v any) error { return json.Unmarshal(raw, v) })
		}
	case FormatYAML:
		var yamlNodes []yaml.Node
		if err := yaml.Unmarshal(data, &yamlNodes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
		}
		for i := range yamlNodes {
			entries = append(entries, yamlNodes[i].Decode)
		}
	default:
		return nil, fmt.Errorf("unknown manifest format: %d", format)
	}

	reqs := make([]memtree.NodeRequestor, 0, len(entries))
	for i, decode := range entries {
		req, err := unmarshalRequest(decode)
		if err != nil {
			return nil, fmt.Errorf("manifest entry %d: %w", i, err)
		}
		logger.Trace().Str("path", req.GetRequest().Path).Str("type", string(req.GetRequest().Type)).Msg("Processed request")
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func unmarshalRequest(decode decodeFunc) (memtree.NodeRequestor, error) {
	var meta struct {
		Type memtree.NodeCreateRequestType `json:"type" yaml:"type"`
	}
	if err := decode(&meta); err != nil {
		return nil, err
	}

	switch meta.Type {
	case memtree.FileNodeType:
		return unmarshalFileRequest(decode)
	case memtree.DirNodeType:
		return unmarshalDirRequest(decode)
	default:
		return nil, fmt.Errorf("unknown node type: %q", meta.Type)
	}
}

// unmarshalFileRequest handles file-specific unmarshaling with contents
func unmarshalFileRequest(decode decodeFunc) (*memtree.FileCreateRequest, error) {
	var dto FileRequestDTO
	if err := decode(&dto); err != nil {
		return nil, err
	}

	node, err := convertNodeDTO(dto.NodeRequestDTO)
	if err != nil {
		return nil, err
	}
	contents, err := decodeContents(dto.Contents, dto.Encoding)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dto.Path, err)
	}

	return &memtree.FileCreateRequest{
		NodeRequest: node,
		Contents:    contents,
	}, nil
}

// unmarshalDirRequest handles directory unmarshaling (no contents)
func unmarshalDirRequest(decode decodeFunc) (*memtree.DirCreateRequest, error) {
	var dto DirRequestDTO
	if err := decode(&dto); err != nil {
		return nil, err
	}

	node, err := convertNodeDTO(dto.NodeRequestDTO)
	if err != nil {
		return nil, err
	}
	return &memtree.DirCreateRequest{NodeRequest: node}, nil
}

func decodeContents(s string, enc EncodingType) ([]byte, error) {
	switch enc {
	case "", TextEncoding:
		return []byte(s), nil
	case Base64Encoding:
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("bad base64 contents: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown contents encoding: %q", enc)
	}
}

// Conversion logic with defaults in the unmarshaling layer. Paths are passed
// through untouched; the tree validates them.
func convertNodeDTO(dto NodeRequestDTO) (memtree.NodeRequest, error) {
	id := util.ValueOrDefault(dto.UUID, "")
	if id == "" {
		id = uuid.New().String()
	} else if _, err := uuid.Parse(id); err != nil {
		return memtree.NodeRequest{}, fmt.Errorf("bad uuid %q: %w", id, err)
	}

	return memtree.NodeRequest{
		Path: dto.Path,
		Type: dto.Type,
		UUID: id,
	}, nil
}
