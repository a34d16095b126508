// Package fix applies the edits attached to diagnostics back to the files
// they came from.
package fix

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"typelayout/internal/diag"
	"typelayout/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	Title string
	Code  diag.Code
	Path  string
}

// SkippedFix captures a fix that was not applied and why.
type SkippedFix struct {
	Title  string
	Reason string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	EditCount int
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply takes the first fix of every diagnostic, drops those that overlap an
// earlier one or point into virtual files, and rewrites the affected files.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic) (*ApplyResult, error) {
	result := &ApplyResult{}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	var cands []candidate
	for i, d := range diagnostics {
		if len(d.Fixes) == 0 {
			continue
		}
		cands = append(cands, candidate{diag: d, fix: d.Fixes[0], order: i})
	}
	if len(cands) == 0 {
		return result, ErrNoFixes
	}
	sort.SliceStable(cands, func(i, j int) bool {
		pi, pj := cands[i].diag.Primary, cands[j].diag.Primary
		if pi.File != pj.File {
			return pi.File < pj.File
		}
		if pi.Start != pj.Start {
			return pi.Start < pj.Start
		}
		return cands[i].order < cands[j].order
	})

	accepted := make(map[source.FileID][]diag.FixEdit)
	for _, cand := range cands {
		if reason := check(fs, accepted, cand.fix); reason != "" {
			result.Skipped = append(result.Skipped, SkippedFix{Title: cand.fix.Title, Reason: reason})
			continue
		}
		for _, e := range cand.fix.Edits {
			accepted[e.Span.File] = append(accepted[e.Span.File], e)
		}
		result.Applied = append(result.Applied, AppliedFix{
			Title: cand.fix.Title,
			Code:  cand.diag.Code,
			Path:  fs.Get(cand.diag.Primary.File).Path,
		})
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}

	ids := make([]source.FileID, 0, len(accepted))
	for id := range accepted {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		file := fs.Get(id)
		buf := applyEdits(file.Content, accepted[id])

		mode := os.FileMode(0o644)
		if info, err := os.Stat(file.Path); err == nil {
			mode = info.Mode()
		}
		if err := os.WriteFile(file.Path, buf, mode); err != nil {
			return result, fmt.Errorf("write %s: %w", file.Path, err)
		}
		result.FileChanges = append(result.FileChanges, FileChange{Path: file.Path, EditCount: len(accepted[id])})
	}
	return result, nil
}

// check returns why f cannot be applied, or "" when it can.
func check(fs *source.FileSet, accepted map[source.FileID][]diag.FixEdit, f diag.Fix) string {
	if len(f.Edits) == 0 {
		return "fix has no edits"
	}
	for i, e := range f.Edits {
		if int(e.Span.File) >= fs.Len() {
			return "edit points to an unknown file"
		}
		file := fs.Get(e.Span.File)
		if file.Flags&source.FileVirtual != 0 {
			return "target file is virtual"
		}
		if e.Span.End < e.Span.Start || int(e.Span.End) > len(file.Content) {
			return "edit span out of range"
		}
		for _, prev := range accepted[e.Span.File] {
			if overlaps(prev.Span, e.Span) {
				return "conflicts with previously applied edits"
			}
		}
		for _, other := range f.Edits[:i] {
			if other.Span.File == e.Span.File && overlaps(other.Span, e.Span) {
				return "fix has overlapping edits"
			}
		}
	}
	return ""
}

func overlaps(a, b source.Span) bool {
	if a.Start == a.End || b.Start == b.End {
		// вставки конфликтуют только в одной точке
		return a.Start == b.Start
	}
	return a.Start < b.End && b.Start < a.End
}

// applyEdits rewrites content back to front so earlier offsets stay valid.
func applyEdits(content []byte, edits []diag.FixEdit) []byte {
	sorted := append([]diag.FixEdit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Span.Start > sorted[j].Span.Start })
	out := append([]byte(nil), content...)
	for _, e := range sorted {
		tail := append([]byte(nil), out[e.Span.End:]...)
		out = append(append(out[:e.Span.Start], e.NewText...), tail...)
	}
	return out
}
