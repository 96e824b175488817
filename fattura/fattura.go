// Package fattura locates and decodes attachments embedded in Italian
// electronic invoice ("Fattura Elettronica") XML documents.
//
// Invoices found in the wild are frequently truncated or not well-formed, so
// instead of a strict XML parser we match tag pairs textually - a partially
// damaged document still yields every attachment that survived. Tag names are
// matched case-sensitively but whitespace around them is tolerated
// (e.g. "< Allegati >").
package fattura

import (
	"regexp"
)

var (
	// container tag - content spans multiple lines
	reAllegati = regexp.MustCompile(`(?s)<\s*Allegati\s*>(.*?)<\s*/\s*Allegati\s*>`)
	// per SDI specification NomeAttachment holds up to 60 characters
	reNome      = regexp.MustCompile(`<\s*NomeAttachment\s*>\s*(.{1,60}?)\s*<\s*/\s*NomeAttachment\s*>`)
	reAlgoritmo = regexp.MustCompile(`<\s*AlgoritmoCompressione\s*>\s*(.{1,10}?)\s*<\s*/\s*AlgoritmoCompressione\s*>`)
	reFormato   = regexp.MustCompile(`<\s*FormatoAttachment\s*>\s*(.{1,10}?)\s*<\s*/\s*FormatoAttachment\s*>`)
	reDescr     = regexp.MustCompile(`<\s*DescrizioneAttachment\s*>(.{1,100}?)<\s*/\s*DescrizioneAttachment\s*>`)
	// base64 alphabet plus whitespace - encoded payloads are usually wrapped
	// across multiple lines
	reAttachment = regexp.MustCompile(`<\s*Attachment\s*>([a-zA-Z0-9+/=\s]*?)<\s*/\s*Attachment\s*>`)
)

// Document is a single source invoice read into memory.
type Document struct {
	Path string // absolute path to the source file
	Text string
}

// Block is the raw inner text of one <Allegati> container.
type Block struct {
	Source string // path of the document the block came from
	Index  int    // 1-based position among the document's blocks
	Text   string
}

// Blocks returns all <Allegati> containers found in the document, in document
// order. A document without attachments yields an empty slice - no
// well-formedness checks are made beyond the tag pair match.
func (d Document) Blocks() []Block {
	found := reAllegati.FindAllStringSubmatch(d.Text, -1)
	blocks := make([]Block, 0, len(found))
	for i, m := range found {
		blocks = append(blocks, Block{Source: d.Path, Index: i + 1, Text: m[1]})
	}
	return blocks
}
