package fetch

import (
	"net/url"
	"strings"
)

// Platform is a job board whose markup needs dedicated selectors
type Platform string

// Known job boards
const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformIndeed     Platform = "indeed"
	PlatformHandshake  Platform = "handshake"
	PlatformUnknown    Platform = "unknown"
)

// Selectors tell MainText where a page keeps its content and what to cut
type Selectors struct {
	Content []string
	Noise   []string
}

type board struct {
	platform Platform
	domains  []string
	content  []string
	noise    []string
}

// boards is matched in order against the posting host
var boards = []board{
	{
		platform: PlatformGreenhouse,
		domains:  []string{"greenhouse.io"},
		content:  []string{".job__description.body", ".job__description", ".job-post-container", "#content"},
		noise:    []string{".application--wrapper", ".voluntary-self-id", "#usa_self_id_section"},
	},
	{
		platform: PlatformLever,
		domains:  []string{"lever.co"},
		content:  []string{".posting-page", ".posting-description", ".content"},
		noise:    []string{".apply-section", ".posting-apply"},
	},
	{
		platform: PlatformWorkday,
		domains:  []string{"myworkdayjobs.com", "workday.com"},
		content:  []string{"[data-automation-id='jobDescription']", ".job-description"},
		noise:    []string{"[data-automation-id='applyButton']"},
	},
	{
		platform: PlatformIndeed,
		domains:  []string{"indeed.com"},
		content:  []string{"#jobDescriptionText", ".jobsearch-JobComponent-description", ".job-snippet"},
	},
	{
		platform: PlatformHandshake,
		domains:  []string{"joinhandshake.com"},
		content:  []string{"[data-hook='job-description']", ".job-description"},
		noise:    []string{"[data-hook='apply-button']"},
	},
}

// commonNoise is stripped from every posting regardless of board
var commonNoise = []string{
	"form",
	".application-form",
	".apply-button-container",
	".eeo-statement",
	".voluntary-disclosure",
	".social-share",
	".cookie-consent",
}

// DetectPlatform identifies the job board from a posting URL
func DetectPlatform(rawURL string) Platform {
	if b, ok := lookupBoard(rawURL); ok {
		return b.platform
	}
	return PlatformUnknown
}

// SelectorsFor returns the selectors for a posting URL. Unknown hosts get
// the generic job posting selectors.
func SelectorsFor(rawURL string) Selectors {
	noise := append([]string(nil), commonNoise...)
	b, ok := lookupBoard(rawURL)
	if !ok {
		return Selectors{Content: JobPostingSelectors(), Noise: noise}
	}
	return Selectors{
		Content: append([]string(nil), b.content...),
		Noise:   append(noise, b.noise...),
	}
}

func lookupBoard(rawURL string) (board, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return board{}, false
	}
	host := strings.ToLower(parsed.Hostname())
	for _, b := range boards {
		for _, domain := range b.domains {
			if host == domain || strings.HasSuffix(host, "."+domain) {
				return b, true
			}
		}
	}
	return board{}, false
}
