package document

import (
	"bytes"
	"fmt"
)

// Builder accumulates layout blocks synchronously. Finalize renders them
// exactly once; afterwards the builder accepts no more blocks.
type Builder struct {
	blocks    []Block
	section   Section
	finalized bool
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Section sets the section stamped on subsequent blocks.
func (b *Builder) Section(s Section) *Builder {
	b.section = s
	return b
}

// Add appends a block in the current section.
func (b *Builder) Add(block Block) *Builder {
	if b.finalized {
		return b
	}
	block.Section = b.section
	b.blocks = append(b.blocks, block)
	return b
}

// Text appends a text block.
func (b *Builder) Text(text string, style Style, align Align) *Builder {
	return b.Add(Block{Kind: KindText, Text: text, Style: style, Align: align})
}

// Heading appends a section heading.
func (b *Builder) Heading(text string, style Style) *Builder {
	return b.Add(Block{Kind: KindText, Heading: true, Text: text, Style: style, Align: AlignLeft})
}

// Rule appends a horizontal line of the given thickness.
func (b *Builder) Rule(x, width, thickness float64, color Color) *Builder {
	return b.Add(Block{Kind: KindRule, X: x, Width: width, Height: thickness, Fill: color})
}

// Shade appends a filled background rectangle at the cursor.
func (b *Builder) Shade(x, width, height float64, color Color) *Builder {
	return b.Add(Block{Kind: KindShade, X: x, Width: width, Height: height, Fill: color})
}

// Space appends a vertical gap of n line heights.
func (b *Builder) Space(n float64) *Builder {
	return b.Add(Block{Kind: KindSpace, Lines: n})
}

// Blocks returns a copy of the blocks accumulated so far.
func (b *Builder) Blocks() []Block {
	out := make([]Block, len(b.blocks))
	copy(out, b.blocks)
	return out
}

// Finalize renders the accumulated blocks into a closed buffer and returns
// the immutable artifact. It fails with ErrFinalized on a second call.
func (b *Builder) Finalize(r Renderer, meta Meta) (*Artifact, error) {
	if b.finalized {
		return nil, ErrFinalized
	}
	b.finalized = true

	var buf bytes.Buffer
	if err := r.Render(&buf, meta, b.blocks); err != nil {
		return nil, fmt.Errorf("document: render: %w", err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("document: render produced no output")
	}

	return &Artifact{
		blocks:      b.Blocks(),
		data:        buf.Bytes(),
		generatedAt: meta.GeneratedAt,
	}, nil
}
