// Package httputil centralizes the JSON request/response conventions of the
// HTTP layer: success and error writers for the status codes the API uses,
// body decoding, and path/query parameter extraction over gorilla/mux.
//
// Error responses always carry a single "error" field; 500 responses never
// include the underlying error text (handlers log it server-side instead).
package httputil
