// Package linkdata renders the secondary, linked-data views of a metadata
// record: an RDF/XML file and a JSON-LD file written beside the CSV record.
// Renderings are derived artifacts; they are deleted and rebuilt whenever
// the record's identifier changes.
package linkdata
