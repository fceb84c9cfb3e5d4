// Package scraper fetches a published signup sheet over HTTP.
//
// The sheet is requested either as a Google Visualization (gviz) JSON
// response or as the published HTML page, which is parsed with goquery.
// Transient failures (network errors, 429 and 5xx responses) are retried with
// exponential backoff; other 4xx responses fail immediately.
package scraper
