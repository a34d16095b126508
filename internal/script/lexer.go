package script

import "typelayout/internal/source"

// Word is one whitespace-separated token.
type Word struct {
	Text string
	Span source.Span
}

// line is the words of one non-empty source line.
type line struct {
	words []Word
	span  source.Span // first word start to last word end
	end   source.Span // empty span at end of line, for missing-argument reports
}

// splitLines tokenises f into lines of words, dropping comments and blank lines.
func splitLines(f *source.File) []line {
	c := newCursor(f)
	var out []line
	var cur line

	flush := func() {
		if len(cur.words) > 0 {
			first, last := cur.words[0].Span, cur.words[len(cur.words)-1].Span
			cur.span = first.Cover(last)
			cur.end = source.Span{File: f.ID, Start: c.off, End: c.off}
			out = append(out, cur)
		}
		cur = line{}
	}

	for !c.eof() {
		b := c.peek()
		switch {
		case b == '\n':
			flush()
			c.bump()
		case isBlank(b):
			c.bump()
		case b == '#':
			for !c.eof() && c.peek() != '\n' {
				c.bump()
			}
		default:
			start := c.off
			for !c.eof() {
				b := c.peek()
				if b == '\n' || b == '#' || isBlank(b) {
					break
				}
				c.bump()
			}
			cur.words = append(cur.words, Word{
				Text: string(f.Content[start:c.off]),
				Span: source.Span{File: f.ID, Start: start, End: c.off},
			})
		}
	}
	flush()
	return out
}
