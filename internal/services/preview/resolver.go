package preview

import (
	"context"
	"fmt"
	"strings"

	"norelock.dev/drumline/backend/internal/models"
	"norelock.dev/drumline/backend/internal/utils"
)

// Resolution outcomes as reported to metrics.
const (
	ResolutionResolved  = "resolved"
	ResolutionNone      = "none"
	ResolutionCancelled = "cancelled"
)

// Resolver walks a song's candidate preview URLs in priority order and
// returns the first one the prober finds reachable.
type Resolver struct {
	prober       *Prober
	logger       *utils.Logger
	metrics      Metrics
	filenames    []string
	songsBaseURL string
	resolveSrc   ResolveAudioSrc
	toRemote     ToRemoteFile
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithCandidateFilenames overrides the candidate filename priority order.
func WithCandidateFilenames(filenames []string) ResolverOption {
	return func(r *Resolver) {
		if len(filenames) > 0 {
			r.filenames = filenames
		}
	}
}

// WithSongsBaseURL sets the base URL under which song directories are
// served. A song with no preview reference but an ID gets
// "<base>/<id>/preview.mp3" derived as its reference before resolution.
func WithSongsBaseURL(base string) ResolverOption {
	return func(r *Resolver) {
		r.songsBaseURL = strings.TrimSuffix(base, "/")
	}
}

// WithResolveAudioSrc sets the external URL-resolution hook.
func WithResolveAudioSrc(hook ResolveAudioSrc) ResolverOption {
	return func(r *Resolver) {
		r.resolveSrc = hook
	}
}

// WithToRemoteFile sets the external reference-to-handle converter.
func WithToRemoteFile(hook ToRemoteFile) ResolverOption {
	return func(r *Resolver) {
		r.toRemote = hook
	}
}

// WithResolverMetrics sets the metrics sink for resolution outcomes.
func WithResolverMetrics(m Metrics) ResolverOption {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// NewResolver creates a new preview resolver.
func NewResolver(prober *Prober, logger *utils.Logger, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		prober:    prober,
		logger:    logger.Named("preview_resolver"),
		filenames: DefaultCandidateFilenames,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// ResolvePreview resolves the song's preview reference to a reachable
// remote-file handle. It returns (nil, nil) when the song has no usable
// preview or no candidate is reachable; the only error is a cancellation,
// which aborts the candidate walk.
func (r *Resolver) ResolvePreview(ctx context.Context, song *models.Song) (*models.RemoteFile, error) {
	if song == nil {
		return nil, nil
	}

	ref := song.PreviewMusic
	if Classify(ref, r.toRemote).Kind == RefAbsent && song.ID != "" && r.songsBaseURL != "" {
		ref = fmt.Sprintf("%s/%s/preview.mp3", r.songsBaseURL, song.ID)
	}

	candidates := r.buildCandidates(ref)
	if len(candidates) == 0 {
		r.logger.Debug("No preview candidates", "song", song.ID)
		r.recordResolution(ResolutionNone)
		return nil, nil
	}

	// Candidates are tried strictly in order; the next one is never probed
	// before the current outcome is known.
	for _, candidate := range candidates {
		available, err := r.prober.IsAvailable(ctx, candidate.URL)
		if err != nil {
			r.recordResolution(ResolutionCancelled)
			return nil, err
		}
		if available {
			r.logger.Debug("Preview resolved", "song", song.ID, "url", candidate.URL)
			r.recordResolution(ResolutionResolved)
			return candidate.Handle, nil
		}
	}

	r.logger.Debug("No reachable preview candidate", "song", song.ID)
	r.recordResolution(ResolutionNone)
	return nil, nil
}

// ClearCache drops all settled availability outcomes and returns how many
// were dropped. Callers use it on catalog reloads and test resets.
func (r *Resolver) ClearCache() int {
	return r.prober.ClearCache()
}

func (r *Resolver) recordResolution(outcome string) {
	if r.metrics != nil {
		r.metrics.RecordResolution(outcome)
	}
}
