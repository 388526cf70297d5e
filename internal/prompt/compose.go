// Package prompt composes the per-assistant instruction document from
// layered text fragments and maintains the instruction symlink at the
// project root.
//
// Layers are concatenated in fixed scope order: protected prefix, universal,
// user base, assistant, user assistant, project base, project assistant,
// protected suffix. Each present layer is appended verbatim followed by one
// blank line; absent optional layers are skipped without disturbing the
// order of the rest. A metadata footer records the assistant, the
// composition timestamp, and the byte length of each present part, so
// composing twice with unchanged layers is byte-identical except for the
// timestamp line.
package prompt

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gantrylabs/gantry/internal/assistant"
	"github.com/gantrylabs/gantry/internal/layer"
	"github.com/gantrylabs/gantry/internal/log"
)

// OutputFileName returns the deterministic per-assistant output filename
// inside the project's .gantry directory.
func OutputFileName(assistantName string) string {
	return "prompt." + assistantName + ".md"
}

// Section records the byte length of one present layer in the composition.
type Section struct {
	Scope layer.Scope
	Bytes int
}

// Composed is the result of one composition pass.
type Composed struct {
	Assistant string
	Path      string // output file under <project>/.gantry/
	Link      string // instruction symlink at the project root
	Sections  []Section
	Timestamp time.Time
	Body      []byte // full document including the footer
}

// Composer builds instruction documents for one project.
type Composer struct {
	Store layer.Store
}

// Compose reads all layers for the assistant, concatenates them, writes the
// output file, and re-points the project-root instruction symlink. A missing
// protected layer aborts before anything is written.
func (c Composer) Compose(ctx context.Context, a assistant.Assistant) (*Composed, error) {
	logger := log.FromContext(ctx)

	var buf bytes.Buffer
	var sections []Section

	for _, l := range c.Store.Layers(a.Name) {
		data, present, err := c.Store.Read(l)
		if err != nil {
			return nil, err
		}
		if !present {
			logger.Debug("layer absent", "scope", l.Scope.String(), "path", l.Path)
			continue
		}
		logger.Debug("layer read", "scope", l.Scope.String(), "bytes", strconv.Itoa(len(data)))

		buf.Write(data)
		if len(data) > 0 && data[len(data)-1] != '\n' {
			buf.WriteByte('\n')
		}
		buf.WriteByte('\n') // one blank line after every layer

		sections = append(sections, Section{Scope: l.Scope, Bytes: len(data)})
	}

	now := time.Now().UTC()
	writeFooter(&buf, a.Name, now, sections)

	outDir := filepath.Join(c.Store.ProjectDir, ".gantry")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", outDir, err)
	}

	outPath := filepath.Join(outDir, OutputFileName(a.Name))
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write composed prompt: %w", err)
	}

	linkPath := filepath.Join(c.Store.ProjectDir, a.InstructionFile())
	if err := relink(linkPath, filepath.Join(".gantry", OutputFileName(a.Name))); err != nil {
		return nil, err
	}

	return &Composed{
		Assistant: a.Name,
		Path:      outPath,
		Link:      linkPath,
		Sections:  sections,
		Timestamp: now,
		Body:      buf.Bytes(),
	}, nil
}

// writeFooter appends the metadata block: assistant name, composition
// timestamp, and the byte length of each present part.
func writeFooter(buf *bytes.Buffer, assistantName string, ts time.Time, sections []Section) {
	buf.WriteString("---\n")
	fmt.Fprintf(buf, "assistant: %s\n", assistantName)
	fmt.Fprintf(buf, "composed: %s\n", ts.Format(time.RFC3339))
	for _, s := range sections {
		fmt.Fprintf(buf, "part: %s %d bytes\n", s.Scope, s.Bytes)
	}
}
