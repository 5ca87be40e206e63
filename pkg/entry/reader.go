package entry

import (
	"encoding/xml"
	"fmt"
	"io"
)

// Reader yields the records of an exported document one at a time, in
// document order. It decodes incrementally: the document is never held in
// memory as a whole.
//
// The reader does not own the underlying byte stream and never closes it;
// the caller that opened the stream must release it after the sequence is
// consumed. Reading after the stream is closed is undefined.
type Reader struct {
	dec *xml.Decoder
}

// NewReader creates a reader over an exported document stream.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: xml.NewDecoder(r)}
}

// Next returns the next record, or io.EOF when the document is exhausted.
// Top-level children that are not records (the copyright trailer and other
// wrapper elements) are skipped.
func (r *Reader) Next() (*Entry, error) {
	for {
		tok, err := r.dec.Token()
		if err != nil {
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("decode export document: %w", err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch se.Name.Local {
		case "entry":
			var e Entry
			if err := r.dec.DecodeElement(&e, &se); err != nil {
				return nil, fmt.Errorf("decode entry: %w", err)
			}
			return &e, nil
		case "uniprot":
			// Document root: descend into its children.
		default:
			if err := r.dec.Skip(); err != nil {
				return nil, fmt.Errorf("skip %s element: %w", se.Name.Local, err)
			}
		}
	}
}
