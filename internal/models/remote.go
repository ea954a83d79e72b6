// Package models contains the data structures used throughout the application.
package models

import "strings"

// RemoteFile is an opaque handle to a playable audio resource. The preview
// subsystem constructs these from URLs and hands them to the playback layer;
// it never reads the payload behind the handle.
type RemoteFile struct {
	url string
}

// NewRemoteFile creates a handle for the resource at url.
func NewRemoteFile(url string) *RemoteFile {
	return &RemoteFile{url: url}
}

// URL returns the URL the handle points at.
func (f *RemoteFile) URL() string {
	return f.url
}

// Resident reports whether the resource is already in memory, meaning its
// URL carries the payload itself rather than a network location.
func (f *RemoteFile) Resident() bool {
	return strings.HasPrefix(f.url, "data:") || strings.HasPrefix(f.url, "blob:")
}
