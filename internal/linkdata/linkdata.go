package linkdata

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/limenVTech/UDCS-Packer/internal/record"
)

const (
	// RDFName is the RDF/XML rendering written beside each metadata record.
	RDFName = "metadata.xml"
	// JSONName is the JSON-LD rendering written beside each metadata record.
	JSONName = "metadata.json"
)

var rdfTemplate = template.Must(template.New("rdf").Funcs(template.FuncMap{
	"esc": escapeXML,
}).Parse(`<?xml version="1.0" encoding="utf-8"?>
<rdf:RDF
    xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
    xmlns:dc="http://dublincore.org/2012/06/14/dcelements.rdf#"
    xmlns:dcterms="http://purl.org/dc/terms#"
    xmlns:foaf="http://xmlns.com/foaf/spec/index.rdf#"
    xmlns:mets="http://www.loc.gov/standards/mets/mets.xsd#">
  <rdf:Description rdf:about="{{esc .ObjectURI}}">
    <dcterms:identifier>{{esc .SystemUUID}}</dcterms:identifier>
    <mets:OBJID>{{esc .SystemUUID}}</mets:OBJID>
    <mets:altRecordID>{{esc .LocalID}}</mets:altRecordID>
    <dcterms:description>{{esc .Description}}</dcterms:description>
    <dc:contributor rdf:parseType="Resource">
      <rdf:type rdf:resource="http://xmlns.com/foaf/spec/index.rdf#Group"/>
      <mets:ROLE rdf:resource="http://www.loc.gov/standards/mets/mets.xsd#CUSTODIAN"/>
      <foaf:name>{{esc .Department}}</foaf:name>
    </dc:contributor>
    <dc:contributor rdf:parseType="Resource">
      <rdf:type rdf:resource="http://xmlns.com/foaf/spec/index.rdf#Person"/>
      <mets:ROLE rdf:resource="http://www.loc.gov/standards/mets/mets.xsd#CUSTODIAN"/>
      <foaf:mbox>{{esc .Person}}</foaf:mbox>
    </dc:contributor>
    <dcterms:isPartOf rdf:resource="{{esc .CollectionURI}}"/>
  </rdf:Description>
  <rdf:Description rdf:about="{{esc .CollectionURI}}">
    <foaf:name>{{esc .Collection}}</foaf:name>
  </rdf:Description>
</rdf:RDF>
`))

// Render writes both secondary renderings (RDF/XML and JSON-LD) of the
// record into dir. A failure in either leaves the CSV record untouched; the
// caller decides whether to count or report it.
func Render(rec record.Record, dir string) error {
	if err := renderRDF(rec, filepath.Join(dir, RDFName)); err != nil {
		return err
	}
	return renderJSONLD(rec, filepath.Join(dir, JSONName))
}

// RemoveStale deletes any existing renderings in dir so registration can
// re-render them from the updated record. Missing files are fine.
func RemoveStale(dir string) error {
	for _, name := range []string{RDFName, JSONName} {
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove stale rendering %s: %w", name, err)
		}
	}
	return nil
}

func renderRDF(rec record.Record, path string) error {
	var buf bytes.Buffer
	if err := rdfTemplate.Execute(&buf, rec); err != nil {
		return fmt.Errorf("render rdf: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func renderJSONLD(rec record.Record, path string) error {
	doc := map[string]any{
		"@context": map[string]string{
			"dcterms": "http://purl.org/dc/terms/",
			"foaf":    "http://xmlns.com/foaf/0.1/",
			"mets":    "http://www.loc.gov/standards/mets/mets.xsd#",
		},
		"@id":                 rec.ObjectURI,
		"dcterms:identifier":  rec.SystemUUID,
		"mets:altRecordID":    rec.LocalID,
		"dcterms:description": rec.Description,
		"dcterms:isPartOf": map[string]any{
			"@id":       rec.CollectionURI,
			"foaf:name": rec.Collection,
		},
		"dcterms:contributor": []map[string]any{
			{"@type": "foaf:Group", "foaf:name": rec.Department},
			{"@type": "foaf:Person", "foaf:mbox": rec.Person},
		},
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("render json-ld: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func escapeXML(value string) string {
	var buf strings.Builder
	if err := xml.EscapeText(&buf, []byte(value)); err != nil {
		return ""
	}
	return buf.String()
}
