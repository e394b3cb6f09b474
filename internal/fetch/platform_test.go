package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	tests := map[string]Platform{
		"https://job-boards.greenhouse.io/acme/jobs/7063751": PlatformGreenhouse,
		"https://jobs.lever.co/acme/2b1f":                    PlatformLever,
		"https://acme.wd5.myworkdayjobs.com/en-US/External":  PlatformWorkday,
		"https://www.indeed.com/viewjob?jk=abc":              PlatformIndeed,
		"https://app.joinhandshake.com/stu/jobs/9001":        PlatformHandshake,
		"https://careers.example.com/jobs/1":                 PlatformUnknown,
		"https://notlever.co.example.com/jobs/1":             PlatformUnknown,
		"https://www.indeed.com.evil.example/viewjob?jk=abc": PlatformUnknown,
		"://bad":                                             PlatformUnknown,
	}

	for rawURL, want := range tests {
		t.Run(rawURL, func(t *testing.T) {
			assert.Equal(t, want, DetectPlatform(rawURL))
		})
	}
}

func TestSelectorsFor(t *testing.T) {
	lever := SelectorsFor("https://jobs.lever.co/acme/1")
	assert.Contains(t, lever.Content, ".posting-description")
	assert.Contains(t, lever.Noise, ".posting-apply")
	assert.Contains(t, lever.Noise, "form")

	generic := SelectorsFor("https://careers.example.com/jobs/1")
	assert.Equal(t, JobPostingSelectors(), generic.Content)
	assert.Equal(t, commonNoise, generic.Noise)
}

func TestSelectorsFor_DoesNotShareBacking(t *testing.T) {
	first := SelectorsFor("https://jobs.lever.co/acme/1")
	first.Noise[0] = "mutated"
	first.Content[0] = "mutated"

	second := SelectorsFor("https://jobs.lever.co/acme/2")
	assert.Equal(t, "form", second.Noise[0])
	assert.Equal(t, ".posting-page", second.Content[0])
}
