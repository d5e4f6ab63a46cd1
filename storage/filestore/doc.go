// Package filestore provides a filesystem-backed recipebook.Storage.
// Each record lives at {root}/{namespace}/{id}.{json|yaml}; namespaces are created on first write.
// Use New to create a Store.
package filestore
