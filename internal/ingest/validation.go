package ingest

import (
	"path"
	"strings"

	"github.com/akolanti/JobMatch/internal/config"
	"github.com/akolanti/JobMatch/internal/domain/matchModel"
	"github.com/akolanti/JobMatch/internal/textproc"
)

// Decision is the outcome of checking a triggering key. Skip is a normal
// result, not an error.
type Decision int

const (
	Skip Decision = iota
	Process
)

func (d Decision) String() string {
	if d == Process {
		return "process"
	}
	return "skip"
}

// Validate accepts keys under resumes/ ending in .pdf. The extension check
// ignores case, the prefix check does not.
func Validate(key string) Decision {
	if !strings.HasPrefix(key, config.ResumePrefix) {
		return Skip
	}
	if !strings.HasSuffix(strings.ToLower(key), config.ResumeExtension) {
		return Skip
	}
	return Process
}

// AssembleText joins LINE blocks in the order given and normalizes the result.
func AssembleText(blocks []matchModel.TextBlock) string {
	lines := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b.Type == matchModel.BlockTypeLine {
			lines = append(lines, b.Text)
		}
	}
	return textproc.Normalize(strings.Join(lines, "\n"))
}

// ResultKey is results/<basename>.json; the basename keeps its extension.
func ResultKey(key string) string {
	return config.ResultPrefix + path.Base(key) + config.ResultExtension
}
