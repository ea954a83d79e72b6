package preview

import (
	"errors"
	"testing"

	"norelock.dev/drumline/backend/internal/models"
)

type namedCarrier struct {
	url string
}

func (c namedCarrier) URL() string { return c.url }

func TestClassify(t *testing.T) {
	handle := models.NewRemoteFile("https://host/song/preview.ogg")

	tests := []struct {
		name    string
		ref     any
		want    RefKind
		wantURL string
	}{
		{"nil", nil, RefAbsent, ""},
		{"empty string", "", RefAbsent, ""},
		{"muted sentinel", models.MutedSource, RefMuted, ""},
		{"url string", "https://host/song/preview.mp3", RefURLString, "https://host/song/preview.mp3"},
		{"remote handle", handle, RefRemote, "https://host/song/preview.ogg"},
		{"nil remote handle", (*models.RemoteFile)(nil), RefAbsent, ""},
		{"url object", map[string]any{"url": "https://host/x.ogg"}, RefURLObject, "https://host/x.ogg"},
		{"url object empty", map[string]any{"url": ""}, RefAbsent, ""},
		{"url object wrong type", map[string]any{"url": 7}, RefAbsent, ""},
		{"url carrier", namedCarrier{url: "https://host/y.mp3"}, RefURLObject, "https://host/y.mp3"},
		{"unusable value", 42, RefAbsent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.ref, nil)
			if got.Kind != tt.want {
				t.Errorf("Classify kind = %d, want %d", got.Kind, tt.want)
			}
			if got.URL != tt.wantURL {
				t.Errorf("Classify url = %q, want %q", got.URL, tt.wantURL)
			}
		})
	}
}

func TestClassifyWithConverterHook(t *testing.T) {
	hook := func(ref any) (*models.RemoteFile, error) {
		s, ok := ref.(string)
		if !ok {
			return nil, errors.New("unsupported reference")
		}
		switch s {
		case "catalog:42":
			return models.NewRemoteFile("https://cdn/42/preview.ogg"), nil
		case "catalog:muted":
			return models.NewRemoteFile(models.MutedSource), nil
		default:
			return nil, errors.New("unknown catalog entry")
		}
	}

	got := Classify("catalog:42", hook)
	if got.Kind != RefRemote {
		t.Errorf("hook-recognized ref kind = %d, want RefRemote", got.Kind)
	}
	if got.URL != "https://cdn/42/preview.ogg" {
		t.Errorf("hook-recognized ref url = %q", got.URL)
	}

	// A hook error falls through to the plain-string classification.
	got = Classify("https://host/a.mp3", hook)
	if got.Kind != RefURLString || got.URL != "https://host/a.mp3" {
		t.Errorf("hook-rejected ref = %+v, want plain url string", got)
	}

	// A hook result carrying the muted sentinel is ignored.
	got = Classify("catalog:muted", hook)
	if got.Kind != RefURLString || got.URL != "catalog:muted" {
		t.Errorf("muted hook result = %+v, want fallthrough to url string", got)
	}
}

func TestSourceURL(t *testing.T) {
	tests := []struct {
		name string
		ref  any
		want string
	}{
		{"nil", nil, ""},
		{"muted", models.MutedSource, ""},
		{"url string", "https://host/a.ogg", "https://host/a.ogg"},
		{"remote handle", models.NewRemoteFile("https://host/b.mp3"), "https://host/b.mp3"},
		{"nil remote handle", (*models.RemoteFile)(nil), ""},
		{"url object", map[string]any{"url": "https://host/c.ogg"}, "https://host/c.ogg"},
		{"url carrier", namedCarrier{url: "https://host/d.mp3"}, "https://host/d.mp3"},
		{"unusable value", 3.14, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SourceURL(tt.ref, nil); got != tt.want {
				t.Errorf("SourceURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSourceURLWithResolveHook(t *testing.T) {
	hook := func(ref any) (string, error) {
		switch ref {
		case "catalog:42":
			return "https://cdn/42/preview.ogg", nil
		case "catalog:silent":
			return models.MutedSource, nil
		case "catalog:empty":
			return "", nil
		default:
			return "", errors.New("unknown catalog entry")
		}
	}

	if got := SourceURL("catalog:42", hook); got != "https://cdn/42/preview.ogg" {
		t.Errorf("hook-resolved url = %q", got)
	}

	// Muted and empty hook results fall through to the built-in projection.
	if got := SourceURL("catalog:silent", hook); got != "catalog:silent" {
		t.Errorf("muted hook result url = %q, want fallthrough", got)
	}
	if got := SourceURL("catalog:empty", hook); got != "catalog:empty" {
		t.Errorf("empty hook result url = %q, want fallthrough", got)
	}

	// So does a hook error.
	if got := SourceURL("https://host/a.mp3", hook); got != "https://host/a.mp3" {
		t.Errorf("hook-rejected url = %q, want fallthrough", got)
	}
}
