package document

import (
	"context"
	"strings"
	"time"

	"intake/internal/intake"
	"intake/internal/locale"
	dErrors "intake/pkg/domain-errors"
)

var (
	colorTitle   = Hex("#2e2e1f")
	colorAccent  = Hex("#4CAF50")
	colorShade   = Hex("#f7f7f7")
	colorText    = Hex("#000")
	colorFaint   = Hex("#ddd")
	colorMuted   = Hex("#999")
	styleTitle   = Style{Size: 24, Bold: true, Color: colorTitle}
	styleHeading = Style{Size: 14, Bold: true, Underline: true, Color: colorAccent}
	styleBody    = Style{Size: 12, Color: colorText}
	styleFooter  = Style{Size: 10, Color: colorMuted}
)

// Personal info panel geometry.
const (
	panelX      = PageMargin - 5
	panelWidth  = ContentWidth + 20
	panelHeight = 160.0
	panelInset  = 10.0
)

// Composer renders submissions with a fixed catalog and renderer.
type Composer struct {
	catalog  locale.Catalog
	renderer Renderer
}

// NewComposer creates a Composer.
func NewComposer(catalog locale.Catalog, renderer Renderer) *Composer {
	return &Composer{catalog: catalog, renderer: renderer}
}

// Compose lays out sub and renders it. at is the generation time shown in
// the footer and embedded in the document metadata.
func (c *Composer) Compose(ctx context.Context, sub *intake.Submission, at time.Time) (*Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeRender, "composition cancelled")
	}
	art, err := Layout(sub, at, c.catalog).Finalize(c.renderer, Meta{
		Title:       c.catalog.Title + " - " + sub.FullName,
		Creator:     c.catalog.FromName,
		GeneratedAt: at,
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeRender, "failed to render document")
	}
	return art, nil
}

// Layout builds the fixed section sequence for sub. Optional lines whose
// source field is empty are omitted entirely.
func Layout(sub *intake.Submission, at time.Time, cat locale.Catalog) *Builder {
	b := NewBuilder()

	b.Section(SectionHeader).
		Text(cat.Title, styleTitle, AlignCenter).
		Space(1.5)

	b.Section(SectionDivider).
		Rule(PageMargin, ContentWidth, 2, colorAccent).
		Space(1.5)

	email := sub.Email
	if email == "" {
		email = cat.NotInformed
	}
	personal := []string{
		cat.Label(cat.LabelName, sub.FullName),
		cat.Label(cat.LabelBirthDate, cat.FormatDate(sub.BirthDate)),
		cat.Label(cat.LabelCPF, intake.FormatCPF(sub.CPF)),
		cat.Label(cat.LabelAddress, sub.Address),
		cat.Label(cat.LabelCity, sub.City),
		cat.Label(cat.LabelPhone, intake.FormatPhone(sub.Phone)),
		cat.Label(cat.LabelEmail, email),
	}
	b.Section(SectionPersonal).Shade(panelX, panelWidth, panelHeight, colorShade)
	for i, line := range personal {
		block := Block{Kind: KindText, Text: line, Style: styleBody, Align: AlignLeft, X: PageMargin + 5}
		if i == 0 {
			block.Offset = panelInset
		}
		b.Add(block)
	}
	b.Space(6)

	b.Section(SectionReason).
		Heading(cat.HeadingReason, styleHeading).
		Space(0.5).
		Add(Block{Kind: KindText, Text: sub.Reason, Style: styleBody, Align: AlignJustify, Width: ContentWidth}).
		Space(1.5)

	conditions := cat.None
	if len(sub.Conditions) > 0 {
		conditions = strings.Join(sub.Conditions, ", ")
	}
	b.Section(SectionHistory).
		Heading(cat.HeadingHistory, styleHeading).
		Space(0.5).
		Text(conditions, styleBody, AlignLeft)
	if sub.OtherCondition != "" {
		b.Text(cat.Label(cat.LabelOtherConditions, sub.OtherCondition), styleBody, AlignLeft)
	}
	if sub.Procedures != "" {
		b.Text(cat.Label(cat.LabelProcedures, sub.Procedures), styleBody, AlignLeft)
	}
	biopsy := sub.Biopsy
	if biopsy == "" {
		biopsy = cat.NotInformed
	}
	b.Text(cat.Label(cat.LabelBiopsy, biopsy), styleBody, AlignLeft)
	if sub.HasPriorBiopsy() && sub.BiopsyResult != "" {
		b.Text(cat.Label(cat.LabelBiopsyResult, sub.BiopsyResult), styleBody, AlignLeft)
	}
	b.Space(1.5)

	b.Section(SectionReferral).
		Heading(cat.HeadingReferral, styleHeading).
		Space(0.5).
		Text(cat.Label(cat.LabelSource, sub.SourceChannel), styleBody, AlignLeft)
	if sub.IsOtherSource() && sub.OtherSource != "" {
		b.Text(cat.Label(cat.LabelSpecification, sub.OtherSource), styleBody, AlignLeft)
	}
	b.Space(2)

	b.Section(SectionFooter).
		Add(Block{Kind: KindRule, X: PageMargin, Width: ContentWidth, Height: 1, Fill: colorFaint, Offset: 20}).
		Add(Block{Kind: KindText, Text: cat.GeneratedOn(at), Style: styleFooter, Align: AlignCenter,
			X: PageMargin, Width: ContentWidth, Offset: 10})

	return b
}
