// Package server exposes the current catalog over a read-only JSON HTTP API.
//
// Every request is answered from the catalog snapshot taken when the request
// arrived; a concurrent refresh never changes the data a request sees.
package server
