// Package document turns a validated submission into the pre-consultation
// PDF. Composition produces an ordered list of layout blocks; a Renderer
// rasterizes them once the Builder is finalized.
package document

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"time"
)

// Page geometry in points (US Letter, 50pt margins).
const (
	PageWidth    = 612.0
	PageMargin   = 50.0
	ContentWidth = PageWidth - 2*PageMargin
)

// ErrFinalized is returned when a Builder is finalized or extended twice.
var ErrFinalized = errors.New("document: builder already finalized")

// Kind is the type of a layout block.
type Kind int

const (
	KindText  Kind = iota // flowing text, wrapped to Width
	KindRule              // horizontal line at the cursor
	KindShade             // filled rectangle anchored at the cursor; does not move it
	KindSpace             // vertical gap measured in current line heights
)

// Section groups blocks by the part of the document they belong to.
type Section string

const (
	SectionHeader   Section = "header"
	SectionDivider  Section = "divider"
	SectionPersonal Section = "personal"
	SectionReason   Section = "reason"
	SectionHistory  Section = "history"
	SectionReferral Section = "referral"
	SectionFooter   Section = "footer"
)

// Align is a text alignment understood by the renderer.
type Align string

const (
	AlignLeft    Align = "L"
	AlignCenter  Align = "C"
	AlignJustify Align = "J"
)

// Color is an RGB color.
type Color struct {
	R, G, B int
}

// Hex parses "#rrggbb" or "#rgb". Invalid input yields black.
func Hex(s string) Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return Color{}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}
	}
	return Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}
}

// Style is the font styling of a text block.
type Style struct {
	Size      float64
	Bold      bool
	Underline bool
	Color     Color
}

// Block is one layout instruction. X and Width default to the left margin
// and the remaining content width when zero.
type Block struct {
	Kind    Kind
	Section Section
	Heading bool
	Text    string
	Style   Style
	Align   Align
	X       float64
	Width   float64
	Height  float64 // shade height or rule thickness
	Lines   float64 // KindSpace only
	Fill    Color   // rule stroke or shade fill
	Offset  float64 // extra vertical offset before the block
}

// Meta is document-level metadata written by the renderer.
type Meta struct {
	Title       string
	Creator     string
	GeneratedAt time.Time
}

//go:generate mockgen -source=layout.go -destination=mocks/renderer-mock.go -package=mocks Renderer

// Renderer writes blocks as a finished document to w. Render must return
// only after the document stream is complete.
type Renderer interface {
	Render(w io.Writer, meta Meta, blocks []Block) error
}

// Artifact is a finalized document. It is immutable; accessors return
// copies.
type Artifact struct {
	blocks      []Block
	data        []byte
	generatedAt time.Time
}

// Bytes returns a copy of the rendered document.
func (a *Artifact) Bytes() []byte {
	out := make([]byte, len(a.data))
	copy(out, a.data)
	return out
}

// Size is the rendered document length in bytes.
func (a *Artifact) Size() int {
	return len(a.data)
}

// GeneratedAt is the wall-clock time embedded in the footer.
func (a *Artifact) GeneratedAt() time.Time {
	return a.generatedAt
}

// Blocks returns a copy of the layout the document was rendered from.
func (a *Artifact) Blocks() []Block {
	out := make([]Block, len(a.blocks))
	copy(out, a.blocks)
	return out
}

// SectionLines returns the non-heading text of a section, in order.
func (a *Artifact) SectionLines(s Section) []string {
	return sectionLines(a.blocks, s)
}

func sectionLines(blocks []Block, s Section) []string {
	var lines []string
	for _, b := range blocks {
		if b.Kind == KindText && b.Section == s && !b.Heading {
			lines = append(lines, b.Text)
		}
	}
	return lines
}
