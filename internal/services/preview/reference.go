// Package preview resolves a song's preview audio reference to a concrete,
// reachable resource, probing candidate URLs over HTTP in a fixed priority
// order.
package preview

import (
	"norelock.dev/drumline/backend/internal/models"
)

// ResolveAudioSrc is an externally supplied hook that projects an arbitrary
// audio reference to a URL. A hook error means "not recognized" and falls
// through to the built-in projection.
type ResolveAudioSrc func(ref any) (string, error)

// ToRemoteFile is an externally supplied hook that converts an arbitrary
// audio reference to a remote-file handle. A hook error falls through to the
// built-in conversion.
type ToRemoteFile func(ref any) (*models.RemoteFile, error)

// RefKind identifies the shape of a song's audio reference.
type RefKind int

const (
	// RefAbsent means no usable reference was supplied.
	RefAbsent RefKind = iota
	// RefMuted means the song explicitly carries the muted sentinel.
	RefMuted
	// RefURLString means the reference is a plain URL string.
	RefURLString
	// RefRemote means the reference is an existing remote-file handle.
	RefRemote
	// RefURLObject means the reference is an object exposing a url field.
	RefURLObject
)

// AudioRef is the normalized form of a song's preview reference.
type AudioRef struct {
	Kind   RefKind
	URL    string
	Remote *models.RemoteFile
}

// urlCarrier matches reference objects that expose their URL through a
// method, such as decoded provider records.
type urlCarrier interface {
	URL() string
}

// Classify normalizes an arbitrary reference value. toRemote, when non-nil,
// is consulted for string references first; its result is used unless it
// fails or yields the muted sentinel. Classify performs no I/O.
func Classify(ref any, toRemote ToRemoteFile) AudioRef {
	switch v := ref.(type) {
	case nil:
		return AudioRef{Kind: RefAbsent}

	case string:
		if v == "" {
			return AudioRef{Kind: RefAbsent}
		}
		if v == models.MutedSource {
			return AudioRef{Kind: RefMuted}
		}
		if toRemote != nil {
			if handle, err := toRemote(v); err == nil && handle != nil && handle.URL() != models.MutedSource {
				return AudioRef{Kind: RefRemote, URL: handle.URL(), Remote: handle}
			}
		}
		return AudioRef{Kind: RefURLString, URL: v}

	case *models.RemoteFile:
		if v == nil {
			return AudioRef{Kind: RefAbsent}
		}
		return AudioRef{Kind: RefRemote, URL: v.URL(), Remote: v}

	case map[string]any:
		if u, ok := v["url"].(string); ok && u != "" {
			return AudioRef{Kind: RefURLObject, URL: u}
		}
		return AudioRef{Kind: RefAbsent}

	default:
		if carrier, ok := ref.(urlCarrier); ok && carrier.URL() != "" {
			return AudioRef{Kind: RefURLObject, URL: carrier.URL()}
		}
		return AudioRef{Kind: RefAbsent}
	}
}

// SourceURL projects a reference to a fetchable URL, or "" when the
// reference is unusable. resolveSrc, when non-nil, is tried first; its
// result is used unless it fails, is empty, or is the muted sentinel.
// SourceURL performs no I/O.
func SourceURL(ref any, resolveSrc ResolveAudioSrc) string {
	if resolveSrc != nil {
		if u, err := resolveSrc(ref); err == nil && u != "" && u != models.MutedSource {
			return u
		}
	}

	switch v := ref.(type) {
	case string:
		if v == models.MutedSource {
			return ""
		}
		return v
	case *models.RemoteFile:
		if v == nil {
			return ""
		}
		return v.URL()
	case map[string]any:
		u, _ := v["url"].(string)
		return u
	default:
		if carrier, ok := ref.(urlCarrier); ok {
			return carrier.URL()
		}
		return ""
	}
}
