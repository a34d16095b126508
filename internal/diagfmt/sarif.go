package diagfmt

import (
	"fmt"
	"io"

	"fortio.org/safecast"
	"github.com/owenrumney/go-sarif/v2/sarif"

	"typelayout/internal/diag"
	"typelayout/internal/source"
)

// Sarif writes diagnostics as a SARIF 2.1.0 log with one run.
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("sarif: %w", err)
	}

	run := sarif.NewRunWithInformationURI(meta.ToolName, meta.InformationURI)
	if meta.ToolVersion != "" {
		v := meta.ToolVersion
		run.Tool.Driver.Version = &v
	}

	for _, d := range bag.Items() {
		id := d.Code.ID()
		run.AddRule(id).WithDescription(d.Code.Title())

		region, err := sarifRegion(fs, d.Primary)
		if err != nil {
			return err
		}
		loc := sarif.NewLocationWithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewSimpleArtifactLocation(fs.Get(d.Primary.File).Path)).
				WithRegion(region),
		)
		result := run.CreateResultForRule(id).
			WithLevel(d.Severity.SARIFLevel()).
			WithMessage(sarif.NewTextMessage(d.Message))
		result.AddLocation(loc)
	}

	report.AddRun(run)
	return report.PrettyWrite(w)
}

func sarifRegion(fs *source.FileSet, span source.Span) (*sarif.Region, error) {
	start, end := fs.Resolve(span)
	sl, err := safecast.Conv[int](start.Line)
	if err != nil {
		return nil, fmt.Errorf("sarif: start line: %w", err)
	}
	sc, err := safecast.Conv[int](start.Col)
	if err != nil {
		return nil, fmt.Errorf("sarif: start column: %w", err)
	}
	el, err := safecast.Conv[int](end.Line)
	if err != nil {
		return nil, fmt.Errorf("sarif: end line: %w", err)
	}
	ec, err := safecast.Conv[int](end.Col)
	if err != nil {
		return nil, fmt.Errorf("sarif: end column: %w", err)
	}
	return sarif.NewRegion().WithStartLine(sl).WithStartColumn(sc).WithEndLine(el).WithEndColumn(ec), nil
}
