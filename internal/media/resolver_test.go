package media

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/framecut/framecut/internal/timeline"
)

func TestCachingResolverPrefersLocalURL(t *testing.T) {
	r := NewCachingResolver(func(string) bool { return true }, nil)
	r.PutLocal("a1", "blob://local")

	asset := &timeline.Asset{ID: "a1", RemoteURL: "https://cdn/clip.mp4"}
	got, err := r.Resolve(context.Background(), asset)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !got.Local || got.URL != "blob://local" {
		t.Errorf("Resolve() = %+v, want local blob URL", got)
	}
}

func TestCachingResolverRevalidatesOnEveryResolve(t *testing.T) {
	alive := true
	r := NewCachingResolver(func(string) bool { return alive }, nil)
	r.PutLocal("a1", "blob://local")
	asset := &timeline.Asset{ID: "a1", RemoteURL: "https://cdn/clip.mp4"}

	// The host evicts the cached blob; the next resolve falls back to
	// the remote URL and drops the stale entry.
	alive = false
	got, err := r.Resolve(context.Background(), asset)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.Local || got.URL != "https://cdn/clip.mp4" {
		t.Errorf("Resolve() = %+v, want remote fallback", got)
	}

	// The stale entry is gone even once the probe recovers.
	alive = true
	got, _ = r.Resolve(context.Background(), asset)
	if got.Local {
		t.Error("stale local entry survived a failed probe")
	}
}

func TestCachingResolverUnresolvable(t *testing.T) {
	r := NewCachingResolver(nil, nil)
	asset := &timeline.Asset{ID: "a1"}

	if _, err := r.Resolve(context.Background(), asset); !errors.Is(err, ErrUnresolvable) {
		t.Errorf("Resolve() error = %v, want ErrUnresolvable", err)
	}
}

func TestUploadStateTransitions(t *testing.T) {
	tests := []struct {
		status       UploadStatus
		wantInFlight bool
		wantErrored  bool
	}{
		{UploadPending, true, false},
		{UploadInProgress, true, false},
		{UploadDone, false, false},
		{UploadFailed, false, true},
	}
	for _, tt := range tests {
		st := UploadState{Status: tt.status}
		if got := st.InFlight(); got != tt.wantInFlight {
			t.Errorf("%s InFlight = %v, want %v", tt.status, got, tt.wantInFlight)
		}
		if got := st.Errored(); got != tt.wantErrored {
			t.Errorf("%s Errored = %v, want %v", tt.status, got, tt.wantErrored)
		}
	}
}

func TestStubUploadService(t *testing.T) {
	svc := NewStubUploadService(nil)
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, "clip.mp4", "video/mp4", 1024)
	if err != nil {
		t.Fatalf("CreateTicket() error = %v", err)
	}
	if ticket.FileKey == "" || ticket.ReadURL == "" {
		t.Errorf("ticket = %+v, want key and read URL", ticket)
	}

	var done, total int64
	err = svc.Upload(ctx, ticket, strings.NewReader("0123456789"), func(d, tot int64) {
		done, total = d, tot
	})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if done != 10 || total != 10 {
		t.Errorf("progress = (%d, %d), want (10, 10)", done, total)
	}
}
