// Package http provides the HTTP transport layer: chi handlers that accept
// multipart CSV uploads, run them through the analysis service, and render
// JSON reports or an Excel download.
package http
