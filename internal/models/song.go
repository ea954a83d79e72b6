// Package models contains the data structures used throughout the application.
package models

// MutedSource is the sentinel value a song record uses in place of an audio
// reference when the track is intentionally silent.
const MutedSource = "muted"

// Song represents a song record as stored by the catalog server. The preview
// subsystem only consumes PreviewMusic; the remaining fields mirror the wire
// format songs are served with.
type Song struct {
	// ID is the unique identifier for the song.
	ID string `json:"id" validate:"omitempty,max=128"`

	// Title is the display title of the song.
	Title string `json:"title" validate:"omitempty,max=200"`

	// Category is the catalog category the song belongs to.
	Category string `json:"category,omitempty"`

	// MusicType is the file extension of the full track (e.g. "ogg", "mp3").
	MusicType string `json:"music_type,omitempty"`

	// Preview is the offset in seconds at which the preview starts.
	Preview float64 `json:"preview,omitempty"`

	// PreviewMusic points at the song's preview audio. It may be absent, the
	// muted sentinel, a URL string, a *RemoteFile, or an object carrying a
	// "url" field; the preview resolver classifies it.
	PreviewMusic any `json:"previewMusic,omitempty"`
}

// SongPreviewResponse represents the outcome of a preview resolution.
type SongPreviewResponse struct {
	// URL is the URL of the preview resource that was verified reachable.
	URL string `json:"url"`

	// Resident indicates the resource is already in memory (data/blob URL)
	// and needs no fetch.
	Resident bool `json:"resident"`
}
