package fattura

import (
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/h2non/filetype"
)

// Fallback file extension when payload bytes are not recognized and the
// invoice carries no format tag.
const unknownFormat = "formatoSconosciuto"

// Attachment is a decoded attachment ready to be written out.
type Attachment struct {
	Dir      string // directory of the source document
	Filename string // <name>.<extension>
	Data     []byte

	// Informational tags - captured for consumers and debug output, the
	// pipeline takes no decision based on them.
	Compression string
	Description string
}

// Decode extracts and decodes the attachment payload of a single block.
//
// Returns (nil, nil) when the payload decodes to zero bytes - an empty
// attachment is not an error, there is simply nothing to write. A missing
// payload tag or a base64 failure is an error naming the resolved attachment
// and its source document.
func Decode(b Block) (*Attachment, error) {
	base := filepath.Base(b.Source)

	// NomeAttachment is mandatory per specification but we prefer to have a
	// fallback over dropping a decodable payload
	name := strings.TrimSuffix(base, filepath.Ext(base)) + fmt.Sprintf("_allegato_%d", b.Index)
	if m := reNome.FindStringSubmatch(b.Text); m != nil {
		name = m[1]
	}

	m := reAttachment.FindStringSubmatch(b.Text)
	if m == nil {
		return nil, fmt.Errorf("error decoding %q in %q: attachment payload not found", name, base)
	}
	data, err := base64.StdEncoding.DecodeString(normalizeBase64(m[1]))
	if err != nil {
		return nil, fmt.Errorf("error decoding %q in %q: %w", name, base, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	att := &Attachment{
		Dir:      filepath.Dir(b.Source),
		Filename: name + "." + extension(data, b.Text),
		Data:     data,
	}
	if m := reAlgoritmo.FindStringSubmatch(b.Text); m != nil {
		att.Compression = m[1]
	}
	if m := reDescr.FindStringSubmatch(b.Text); m != nil {
		att.Description = m[1]
	}
	return att, nil
}

// extension derives output file extension from decoded bytes, falling back to
// the FormatoAttachment tag. Content signature wins over the declared format.
func extension(data []byte, block string) string {
	// filetype only checks the first four bytes - require the full "%PDF-"
	// prefix before ignoring the declared format
	if filetype.Is(data, "pdf") && len(data) >= 5 && data[4] == '-' {
		return "pdf"
	}
	if m := reFormato.FindStringSubmatch(block); m != nil {
		return strings.ToLower(m[1])
	}
	return unknownFormat
}

func normalizeBase64(input string) string {
	var builder strings.Builder
	builder.Grow(len(input))
	for _, r := range input {
		if !unicode.IsSpace(r) {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
