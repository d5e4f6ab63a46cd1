// Package httpstore provides a recipebook.Storage backed by a remote HTTP object endpoint.
//
// Records live at {baseURL}/{namespace}/{id}.{ext}:
//
//	GET    reads a record (404 → recipebook.ErrObjectNotFound)
//	PUT    creates or replaces a record
//	DELETE removes a record
//	HEAD   tests existence
//
// GET {baseURL}/{namespace}/ must return a JSON array of record keys ("id.ext").
// Concurrent reads of the same record share one request.
package httpstore
