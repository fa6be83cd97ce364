// Package steamfakes provides a scripted profile fetcher for tests.
package steamfakes

import (
	"context"
	"sync"

	"github.com/jrsteele09/ghub-api/steam"
)

// FakeProfileFetcher returns a fixed profile or error and records requested ids.
type FakeProfileFetcher struct {
	mu       sync.Mutex
	profile  steam.Profile
	err      error
	requests []string
}

func NewFakeProfileFetcher(profile steam.Profile, err error) *FakeProfileFetcher {
	return &FakeProfileFetcher{profile: profile, err: err}
}

func (f *FakeProfileFetcher) FetchProfile(_ context.Context, steamID string) (steam.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, steamID)
	if f.err != nil {
		return steam.Profile{}, f.err
	}
	p := f.profile
	if p.SteamID == "" {
		p.SteamID = steamID
	}
	return p, nil
}

// Requests returns the Steam ids FetchProfile was called with
func (f *FakeProfileFetcher) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}
