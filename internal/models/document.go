package models

// BlockKind identifies the structural role of a parsed content block.
type BlockKind string

const (
	BlockTitle           BlockKind = "title"
	BlockMajorHeading    BlockKind = "major_heading"
	BlockSubHeading      BlockKind = "sub_heading_bold"
	BlockSubHeadingPlain BlockKind = "sub_heading"
	BlockContent         BlockKind = "content"
	BlockSection         BlockKind = "section"
	BlockParagraph       BlockKind = "paragraph"
	BlockList            BlockKind = "list"
	BlockTable           BlockKind = "table"
)

// ContentBlock is a single structural unit of a parsed document. Text holds
// the resolved body: citation tags replaced with inline reference markers and
// formatting tags replaced with renderer-neutral emphasis markers.
type ContentBlock struct {
	Kind         BlockKind `json:"kind"`
	Text         string    `json:"text"`
	SourceOffset int       `json:"source_offset"` // Byte offset of the opening tag in the trimmed source
}

// Citation is a resolved source reference. DisplayName is capped at 50
// characters with an ellipsis; FullName keeps the untruncated original.
type Citation struct {
	Number      int    `json:"number"`
	DisplayName string `json:"display_name"`
	URL         string `json:"url"`
	FullName    string `json:"full_name"`
}

// DocumentModel is the parsed form of a markup report: a title, ordered
// content blocks and the document-wide citation table keyed by citation
// number.
type DocumentModel struct {
	Title     string           `json:"title"`
	Blocks    []ContentBlock   `json:"blocks"`
	Citations map[int]Citation `json:"citations"`
}

// ParseResult distinguishes a parsed document from input that contained no
// markup tags at all. Empty means the caller got prose (or garbage) rather
// than a malformed report; malformed reports still parse to Ok with whatever
// blocks could be recovered.
type ParseResult struct {
	Model DocumentModel
	Empty bool
}

// Ok reports whether the result carries a parsed document.
func (r ParseResult) Ok() bool {
	return !r.Empty
}
