// Package sheet turns raw spreadsheet exports into normalized signup rows.
//
// A published signup sheet can arrive as a Google Visualization (gviz) JSON
// response, a published HTML table, a CSV export or an XLSX workbook. Every
// format is decoded into a RawTable and then passed through Normalize, which
// resolves column labels and drops rows that carry no data. Malformed input
// never produces an error from Normalize; it degrades to an empty Payload.
package sheet
