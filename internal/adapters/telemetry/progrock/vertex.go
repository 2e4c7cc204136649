package progrock

import (
	"fmt"
	"io"

	"github.com/vito/progrock"
	"go.trai.ch/assetmap/internal/core/domain"
)

// Vertex implements ports.Vertex on top of a progrock vertex recorder.
type Vertex struct {
	vertex *progrock.VertexRecorder
}

// Log writes msg to the vertex. Warnings and errors go to its stderr stream.
func (v *Vertex) Log(level domain.LogLevel, msg string) {
	var w io.Writer = v.vertex.Stdout()
	if level >= domain.LogLevelWarn {
		w = v.vertex.Stderr()
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", level, msg)
}

// Complete marks the phase finished; a non-nil err marks it failed.
func (v *Vertex) Complete(err error) {
	v.vertex.Done(err)
}

// Cached marks the phase as satisfied from the graph cache.
func (v *Vertex) Cached() {
	v.vertex.Cached()
}
