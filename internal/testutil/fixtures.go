package testutil

import (
	"fmt"
	"strings"
)

// EntryXML returns one record element for the given accession, carrying the
// attributes and children the accessors read: names, organism, sequence,
// cross-references.
func EntryXML(accession string) string {
	return fmt.Sprintf(`<entry dataset="Swiss-Prot" created="2001-01-11" modified="2024-01-24" version="152">
  <accession>%[1]s</accession>
  <name>%[1]s_HUMAN</name>
  <protein>
    <recommendedName>
      <fullName>Test protein %[1]s</fullName>
    </recommendedName>
    <alternativeName>
      <fullName>Alternate %[1]s</fullName>
    </alternativeName>
  </protein>
  <gene>
    <name type="primary">GENE%[1]s</name>
  </gene>
  <organism>
    <name type="scientific">Homo sapiens</name>
    <name type="common">Human</name>
    <dbReference type="NCBI Taxonomy" id="9606"/>
  </organism>
  <dbReference type="EMBL" id="X%[1]s">
    <property type="molecule type" value="mRNA"/>
    <property type="protein sequence ID" value="CAA%[1]s"/>
  </dbReference>
  <dbReference type="PDB" id="1ABC"/>
  <sequence length="40" mass="4321" checksum="ABCDEF0123456789" modified="2001-01-11" version="1">MKTAYIAKQR QISFVKSHFS
RQLEERLGLI EVQAPILSRV</sequence>
</entry>`, accession)
}

// DocumentXML wraps record elements for the given accessions in the export
// document root, including the copyright trailer the stream reader must
// skip.
func DocumentXML(accessions ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<uniprot xmlns="http://uniprot.org/uniprot">` + "\n")
	for _, acc := range accessions {
		b.WriteString(EntryXML(acc))
		b.WriteString("\n")
	}
	b.WriteString(`<copyright>Copyrighted by the UniProt Consortium. Distributed under the Creative Commons Attribution 4.0 License.</copyright>` + "\n")
	b.WriteString(`</uniprot>` + "\n")
	return b.String()
}
