package requests

import (
	"github.com/brettbedarf/memtree"
	"github.com/brettbedarf/memtree/internal/util"
)

// Result pairs a request with the error its application produced, if any
type Result struct {
	Request memtree.NodeRequestor
	Err     error
}

// Apply runs every directory request and then every file request against b,
// each group in manifest order, so files may be listed before the directories
// that hold them. A failing request is recorded and the batch continues.
func Apply(b memtree.TreeBuilder, reqs []memtree.NodeRequestor) []Result {
	logger := util.GetLogger("requests.Apply")

	results := make([]Result, 0, len(reqs))
	run := func(want memtree.NodeCreateRequestType) {
		for _, req := range reqs {
			if req.GetRequest().Type != want {
				continue
			}
			err := req.Apply(b)
			if err != nil {
				logger.Debug().Err(err).Str("uuid", req.GetRequest().UUID).Str("path", req.GetRequest().Path).Msg("Failed to apply request")
			}
			results = append(results, Result{Request: req, Err: err})
		}
	}
	run(memtree.DirNodeType)
	run(memtree.FileNodeType)

	s := Summarize(results)
	logger.Info().Int("directories", s.Dirs).Int("files", s.Files).Int("failed", s.Failed).Msg("Applied manifest")
	return results
}

// Summary counts successful requests by type and all failures
type Summary struct {
	Dirs   int
	Files  int
	Failed int
}

func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch {
		case r.Err != nil:
			s.Failed++
		case r.Request.GetRequest().Type == memtree.DirNodeType:
			s.Dirs++
		default:
			s.Files++
		}
	}
	return s
}
