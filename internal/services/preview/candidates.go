package preview

import (
	"strings"

	"github.com/samber/lo"
	"norelock.dev/drumline/backend/internal/models"
)

// DefaultCandidateFilenames is the fixed priority order of preview filenames
// tried in place of the base reference's basename. Lossless ogg is preferred
// over mp3 when both exist.
var DefaultCandidateFilenames = []string{"preview.ogg", "preview.mp3"}

// Candidate is a trial handle/URL pair considered during fallback search.
// Candidates are built fresh per resolution attempt and never cached.
type Candidate struct {
	Handle *models.RemoteFile
	URL    string
}

// buildCandidates derives the ordered candidate list for a preview
// reference. An empty result means no preview is available; no network
// activity happens here.
func (r *Resolver) buildCandidates(ref any) []Candidate {
	base := SourceURL(ref, r.resolveSrc)
	if base == "" {
		return nil
	}

	// Split off the query suffix at the first '?' so it survives the
	// filename substitution untouched.
	path := base
	query := ""
	if idx := strings.Index(base, "?"); idx >= 0 {
		path = base[:idx]
		query = base[idx:]
	}

	dir := ""
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		dir = path[:idx+1]
	}

	urls := lo.Map(r.filenames, func(name string, _ int) string {
		return dir + name + query
	})
	urls = lo.Uniq(urls)

	candidates := make([]Candidate, 0, len(urls))
	for _, u := range urls {
		// When the derived URL is exactly the base reference, keep the
		// original value so an existing richer handle is not lost.
		source := any(u)
		if u == base {
			source = ref
		}

		handle := r.remoteFile(source)
		if handle == nil || handle.URL() == "" {
			continue
		}
		candidates = append(candidates, Candidate{Handle: handle, URL: handle.URL()})
	}

	return candidates
}

// remoteFile converts a reference into a remote-file handle, consulting the
// injected ToRemoteFile hook first.
func (r *Resolver) remoteFile(ref any) *models.RemoteFile {
	if r.toRemote != nil {
		if handle, err := r.toRemote(ref); err == nil && handle != nil {
			return handle
		}
	}

	switch v := ref.(type) {
	case *models.RemoteFile:
		return v
	case string:
		if v == "" || v == models.MutedSource {
			return nil
		}
		return models.NewRemoteFile(v)
	default:
		if u := SourceURL(ref, nil); u != "" {
			return models.NewRemoteFile(u)
		}
		return nil
	}
}
