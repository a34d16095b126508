package source

type (
	// FileID identifies a script or schema file within a FileSet.
	FileID uint32
	// FileFlags encodes how the content was obtained.
	FileFlags uint8
)

const (
	// FileVirtual marks content added from memory (REPL line, stdin, test).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File is one loaded input.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of every '\n'
	Flags   FileFlags
}

// LineCol represents a human-readable position in a file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
