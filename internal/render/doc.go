// Package render turns a TravelPack into the documents handed to applicants:
// indented JSON, a Markdown brief with tables and a checklist, or a printable
// PDF.
package render
