// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-16
// Last Modified: 2026-10-16

package git

import (
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGitHubURL(t *testing.T) {
	tests := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{"https://github.com/mendable/firecrawl.git", "mendable/firecrawl", true},
		{"https://github.com/mendable/firecrawl", "mendable/firecrawl", true},
		{"git@github.com:similigh/simili-bot.git", "similigh/simili-bot", true},
		{"ssh://git@github.com/similigh/simili-bot.git", "similigh/simili-bot", true},
		{"https://gitlab.com/group/project.git", "", false},
		{"https://github.com/only-owner", "", false},
		{"not a url", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseGitHubURL(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectRepository(t *testing.T) {
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"git@github.com:acme/widgets.git"},
	})
	require.NoError(t, err)

	got, err := DetectRepository(dir, "origin")
	require.NoError(t, err)
	assert.Equal(t, "acme/widgets", got)
}

func TestDetectRepository_NonGitHubRemote(t *testing.T) {
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"https://gitlab.com/acme/widgets.git"},
	})
	require.NoError(t, err)

	_, err = DetectRepository(dir, "origin")
	assert.ErrorIs(t, err, ErrNoGitHubRemote)
}

func TestDetectRepository_NotARepository(t *testing.T) {
	_, err := DetectRepository(t.TempDir(), "origin")
	assert.Error(t, err)
}
