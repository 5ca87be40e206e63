// Package entry decodes exported UniProt XML documents into navigable
// records. The reader is lazy and single-pass; each yielded Entry is a
// read-only view whose lifetime is bounded by the underlying byte stream.
package entry

import (
	"fmt"
	"strings"
	"unicode"
)

// Entry is one decoded sequence record from the exported document.
type Entry struct {
	Dataset  string `xml:"dataset,attr"`
	Created  string `xml:"created,attr"`
	Modified string `xml:"modified,attr"`
	Version  int    `xml:"version,attr"`

	Accessions []string         `xml:"accession"`
	Names      []string         `xml:"name"`
	Protein    Protein          `xml:"protein"`
	Genes      []Gene           `xml:"gene"`
	Organism   Organism         `xml:"organism"`
	References []CrossReference `xml:"dbReference"`
	Seq        SequenceData     `xml:"sequence"`
}

// Protein holds the recommended and alternative naming of a record.
type Protein struct {
	RecommendedName  ProteinName   `xml:"recommendedName"`
	AlternativeNames []ProteinName `xml:"alternativeName"`
}

// ProteinName is one naming block.
type ProteinName struct {
	FullName   string   `xml:"fullName"`
	ShortNames []string `xml:"shortName"`
}

// Gene holds the gene naming of a record.
type Gene struct {
	Names []GeneName `xml:"name"`
}

// GeneName is one typed gene name (primary, synonym, ...).
type GeneName struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

// Organism describes the source organism.
type Organism struct {
	Names      []OrganismName   `xml:"name"`
	References []CrossReference `xml:"dbReference"`
}

// OrganismName is one typed organism name (scientific, common, ...).
type OrganismName struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

// CrossReference is one cross-reference entry: a type, an identifier, and
// zero or more property key/value pairs.
type CrossReference struct {
	Type       string     `xml:"type,attr"`
	ID         string     `xml:"id,attr"`
	Properties []Property `xml:"property"`
}

// Property is one key/value pair on a cross-reference.
type Property struct {
	Type  string `xml:"type,attr"`
	Value string `xml:"value,attr"`
}

// SequenceData carries the raw residues and their metadata.
type SequenceData struct {
	Length   int    `xml:"length,attr"`
	Mass     int    `xml:"mass,attr"`
	Checksum string `xml:"checksum,attr"`
	Modified string `xml:"modified,attr"`
	Version  int    `xml:"version,attr"`
	Value    string `xml:",chardata"`
}

// Accession returns the primary accession, or "" for a record without one.
func (e *Entry) Accession() string {
	if len(e.Accessions) == 0 {
		return ""
	}
	return e.Accessions[0]
}

// Name returns the entry name (mnemonic), or "".
func (e *Entry) Name() string {
	if len(e.Names) == 0 {
		return ""
	}
	return e.Names[0]
}

// ProteinName returns the recommended full protein name.
func (e *Entry) ProteinName() string {
	return e.Protein.RecommendedName.FullName
}

// AlternativeNames returns the alternative full protein names.
func (e *Entry) AlternativeNames() []string {
	var names []string
	for _, n := range e.Protein.AlternativeNames {
		if n.FullName != "" {
			names = append(names, n.FullName)
		}
	}
	return names
}

// GeneName returns the primary gene name, or "".
func (e *Entry) GeneName() string {
	for _, g := range e.Genes {
		for _, n := range g.Names {
			if n.Type == "primary" {
				return n.Value
			}
		}
	}
	return ""
}

// OrganismName returns the scientific organism name, or "".
func (e *Entry) OrganismName() string {
	return e.organismName("scientific")
}

// CommonOrganismName returns the common organism name, or "".
func (e *Entry) CommonOrganismName() string {
	return e.organismName("common")
}

func (e *Entry) organismName(typ string) string {
	for _, n := range e.Organism.Names {
		if n.Type == typ {
			return n.Value
		}
	}
	return ""
}

// TaxonomyID returns the NCBI Taxonomy identifier of the source organism,
// or "".
func (e *Entry) TaxonomyID() string {
	for _, ref := range e.Organism.References {
		if ref.Type == "NCBI Taxonomy" {
			return ref.ID
		}
	}
	return ""
}

// Sequence returns the residues with all whitespace padding stripped.
func (e *Entry) Sequence() string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, e.Seq.Value)
}

// CrossReferences returns all cross-reference entries of the record.
func (e *Entry) CrossReferences() []CrossReference {
	return e.References
}

// CrossReferencesByType returns the cross-references of one database type.
func (e *Entry) CrossReferencesByType(typ string) []CrossReference {
	var refs []CrossReference
	for _, ref := range e.References {
		if ref.Type == typ {
			refs = append(refs, ref)
		}
	}
	return refs
}

// Property returns the value of the named property, or "".
func (r CrossReference) Property(typ string) string {
	for _, p := range r.Properties {
		if p.Type == typ {
			return p.Value
		}
	}
	return ""
}

// Description returns a FASTA-style one-line description of the record.
//
// Example:
//
//	>P12345|AATM_RABIT Aspartate aminotransferase [Oryctolagus cuniculus]
func (e *Entry) Description() string {
	return fmt.Sprintf(">%s|%s %s [%s]",
		e.Accession(), e.Name(), e.ProteinName(), e.OrganismName())
}
