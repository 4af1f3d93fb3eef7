package requests

import "github.com/brettbedarf/memtree"

// NodeRequestDTO is the manifest representation of [memtree.NodeRequest]
type NodeRequestDTO struct {
	Path string                        `json:"path" yaml:"path"`
	Type memtree.NodeCreateRequestType `json:"type" yaml:"type"`
	UUID *string                       `json:"uuid,omitempty" yaml:"uuid,omitempty"` // Optional; generated when absent
}

// FileRequestDTO is the manifest representation of [memtree.FileCreateRequest]
type FileRequestDTO struct {
	NodeRequestDTO `yaml:",inline"`
	Contents       string       `json:"contents,omitempty" yaml:"contents,omitempty"`
	Encoding       EncodingType `json:"encoding,omitempty" yaml:"encoding,omitempty"` // Default "text"
}

type DirRequestDTO struct {
	NodeRequestDTO `yaml:",inline"`
}

// EncodingType says how FileRequestDTO.Contents maps to bytes
type EncodingType string

const (
	TextEncoding   EncodingType = "text"
	Base64Encoding EncodingType = "base64"
)
