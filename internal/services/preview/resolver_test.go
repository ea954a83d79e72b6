package preview

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"norelock.dev/drumline/backend/internal/models"
)

func TestResolvePreviewNilSong(t *testing.T) {
	r := NewResolver(NewProber(testLogger()), testLogger())

	handle, err := r.ResolvePreview(context.Background(), nil)
	if err != nil {
		t.Fatalf("ResolvePreview error: %v", err)
	}
	if handle != nil {
		t.Errorf("handle = %v, want nil", handle)
	}
}

func TestResolvePreviewMutedSong(t *testing.T) {
	server := newProbeServer(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	defer server.Close()

	prober := NewProber(testLogger(), WithHTTPClient(server.Client()))
	r := NewResolver(prober, testLogger())

	handle, err := r.ResolvePreview(context.Background(), &models.Song{
		ID:           "song-1",
		PreviewMusic: models.MutedSource,
	})
	if err != nil {
		t.Fatalf("ResolvePreview error: %v", err)
	}
	if handle != nil {
		t.Errorf("handle = %v, want nil for muted song", handle)
	}
	if n := server.count(); n != 0 {
		t.Errorf("muted song issued %d requests, want 0", n)
	}
}

func TestResolvePreviewPrefersOgg(t *testing.T) {
	server := newProbeServer(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	defer server.Close()

	prober := NewProber(testLogger(), WithHTTPClient(server.Client()))
	r := NewResolver(prober, testLogger())

	handle, err := r.ResolvePreview(context.Background(), &models.Song{
		ID:           "song-1",
		PreviewMusic: server.URL + "/songs/song-1/preview.flac",
	})
	if err != nil {
		t.Fatalf("ResolvePreview error: %v", err)
	}
	if handle == nil {
		t.Fatal("handle = nil, want resolved preview")
	}
	if want := server.URL + "/songs/song-1/preview.ogg"; handle.URL() != want {
		t.Errorf("handle url = %q, want %q", handle.URL(), want)
	}

	// The first candidate answered, so the mp3 fallback is never probed.
	want := []string{"HEAD /songs/song-1/preview.ogg"}
	if got := server.log(); len(got) != 1 || got[0] != want[0] {
		t.Errorf("requests = %v, want %v", got, want)
	}
}

func TestResolvePreviewFallsBackToMP3(t *testing.T) {
	server := newProbeServer(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/songs/song-1/preview.mp3" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
	defer server.Close()

	prober := NewProber(testLogger(), WithHTTPClient(server.Client()))
	r := NewResolver(prober, testLogger())

	handle, err := r.ResolvePreview(context.Background(), &models.Song{
		ID:           "song-1",
		PreviewMusic: server.URL + "/songs/song-1/preview.flac",
	})
	if err != nil {
		t.Fatalf("ResolvePreview error: %v", err)
	}
	if handle == nil {
		t.Fatal("handle = nil, want mp3 fallback")
	}
	if want := server.URL + "/songs/song-1/preview.mp3"; handle.URL() != want {
		t.Errorf("handle url = %q, want %q", handle.URL(), want)
	}

	want := []string{
		"HEAD /songs/song-1/preview.ogg",
		"HEAD /songs/song-1/preview.mp3",
	}
	got := server.log()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("requests = %v, want %v", got, want)
	}
}

func TestResolvePreviewNoReachableCandidate(t *testing.T) {
	server := newProbeServer(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer server.Close()

	prober := NewProber(testLogger(), WithHTTPClient(server.Client()))
	r := NewResolver(prober, testLogger())

	handle, err := r.ResolvePreview(context.Background(), &models.Song{
		ID:           "song-1",
		PreviewMusic: server.URL + "/songs/song-1/preview.flac",
	})
	if err != nil {
		t.Fatalf("ResolvePreview error: %v", err)
	}
	if handle != nil {
		t.Errorf("handle = %v, want nil when nothing is reachable", handle)
	}
	if n := server.count(); n != 2 {
		t.Errorf("issued %d requests, want 2", n)
	}
}

func TestResolvePreviewResidentReference(t *testing.T) {
	prober := NewProber(testLogger())
	r := NewResolver(prober, testLogger())

	ref := "data:audio/mpeg;base64,SUQz"
	handle, err := r.ResolvePreview(context.Background(), &models.Song{
		ID:           "song-1",
		PreviewMusic: ref,
	})
	if err != nil {
		t.Fatalf("ResolvePreview error: %v", err)
	}
	if handle == nil {
		t.Fatal("handle = nil, want resident preview")
	}
	if !handle.Resident() {
		t.Error("handle.Resident() = false, want true")
	}
}

func TestResolvePreviewDerivesFromSongsBaseURL(t *testing.T) {
	server := newProbeServer(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	defer server.Close()

	prober := NewProber(testLogger(), WithHTTPClient(server.Client()))
	r := NewResolver(prober, testLogger(), WithSongsBaseURL(server.URL+"/songs/"))

	handle, err := r.ResolvePreview(context.Background(), &models.Song{ID: "song-7"})
	if err != nil {
		t.Fatalf("ResolvePreview error: %v", err)
	}
	if handle == nil {
		t.Fatal("handle = nil, want preview derived from the song ID")
	}
	if want := server.URL + "/songs/song-7/preview.ogg"; handle.URL() != want {
		t.Errorf("handle url = %q, want %q", handle.URL(), want)
	}
}

func TestResolvePreviewWithoutBaseURLSkipsDerivation(t *testing.T) {
	prober := NewProber(testLogger())
	r := NewResolver(prober, testLogger())

	handle, err := r.ResolvePreview(context.Background(), &models.Song{ID: "song-7"})
	if err != nil {
		t.Fatalf("ResolvePreview error: %v", err)
	}
	if handle != nil {
		t.Errorf("handle = %v, want nil without a songs base URL", handle)
	}
}

func TestResolvePreviewCancellationAbortsWalk(t *testing.T) {
	release := make(chan struct{})
	server := newProbeServer(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	})
	defer server.Close()
	defer close(release)

	prober := NewProber(testLogger(), WithHTTPClient(server.Client()))
	r := NewResolver(prober, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := r.ResolvePreview(ctx, &models.Song{
			ID:           "song-1",
			PreviewMusic: server.URL + "/songs/song-1/preview.flac",
		})
		errCh <- err
	}()

	deadline := time.Now().Add(2 * time.Second)
	for server.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("ResolvePreview error = %v, want context.Canceled", err)
	}

	// The walk stopped at the first candidate; the mp3 fallback was never
	// reached.
	if n := server.count(); n != 1 {
		t.Errorf("issued %d requests, want 1", n)
	}
}
