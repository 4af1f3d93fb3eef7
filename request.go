package memtree

// NodeRequest has common fields embedded in concrete request types
type NodeRequest struct {
	Path string
	Type NodeCreateRequestType
	UUID string // Caller supplied ID used to correlate results; generated when absent
}

// NodeCreateRequestType valid types are FileNodeType "file", DirNodeType "dir"
type NodeCreateRequestType string

const (
	FileNodeType NodeCreateRequestType = "file"
	DirNodeType  NodeCreateRequestType = "dir"
)

// NodeRequestor is implemented by all node request types
type NodeRequestor interface {
	GetRequest() *NodeRequest
	// Apply performs the request against b
	Apply(b TreeBuilder) error
}

type FileCreateRequest struct {
	NodeRequest
	Contents []byte
}

func (r *FileCreateRequest) GetRequest() *NodeRequest {
	return &r.NodeRequest
}

func (r *FileCreateRequest) Apply(b TreeBuilder) error {
	return b.CreateFile(r.Path, r.Contents)
}

type DirCreateRequest struct {
	NodeRequest
}

func (r *DirCreateRequest) GetRequest() *NodeRequest {
	return &r.NodeRequest
}

func (r *DirCreateRequest) Apply(b TreeBuilder) error {
	return b.CreateDirectory(r.Path)
}
