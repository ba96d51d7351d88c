// Package content parses blog post bodies: Markdown text with images and
// embedded videos on lines of their own.
package content

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"net/url"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Video providers.
const (
	ProviderYouTube = "youtube"
	ProviderVimeo   = "vimeo"
	ProviderFile    = "file"
)

const wordsPerMinute = 200

// Block is one piece of a post body. Text blocks carry Markdown in Text.
type Block struct {
	Kind     Kind
	Text     string
	Alt      string
	URL      string
	Provider string
	EmbedURL string
}

var (
	imageLine = regexp.MustCompile(`^!\[([^\]]*)\]\(\s*(\S+?)\s*\)$`)
	videoLine = regexp.MustCompile(`^\[video\]\(\s*(\S+?)\s*\)$`)
	vimeoID   = regexp.MustCompile(`^/(?:video/)?(\d+)`)
	youtubeID = regexp.MustCompile(`^[A-Za-z0-9_-]{6,}$`)
)

// Parse splits body into blocks. A line holding only an image, a
// [video](url) link or a bare YouTube/Vimeo URL becomes a block of its own;
// the text between such lines stays one Markdown block, blank lines included.
// Lines inside fenced or indented code are always text.
func Parse(body string) []Block {
	var (
		blocks []Block
		text   []string
		fence  string
	)
	flush := func() {
		if t := trimBlankLines(text); t != "" {
			blocks = append(blocks, Block{Kind: KindText, Text: t})
		}
		text = nil
	}

	for _, raw := range strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case fence != "":
			if closesFence(line, fence) {
				fence = ""
			}
		case openFence(line) != "":
			fence = openFence(line)
		case line != "" && !indentedCode(raw):
			if b, ok := mediaBlock(line); ok {
				flush()
				blocks = append(blocks, b)
				continue
			}
		}
		text = append(text, raw)
	}
	flush()
	return blocks
}

func openFence(line string) string {
	for _, marker := range []string{"```", "~~~"} {
		if strings.HasPrefix(line, marker) {
			return line[:len(line)-len(strings.TrimLeft(line, marker[:1]))]
		}
	}
	return ""
}

func closesFence(line, fence string) bool {
	return strings.HasPrefix(line, fence) && strings.TrimLeft(line, fence[:1]) == ""
}

func indentedCode(raw string) bool {
	return strings.HasPrefix(raw, "    ") || strings.HasPrefix(raw, "\t")
}

func trimBlankLines(lines []string) string {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// safeURL accepts http(s) and scheme-less (relative) URLs only.
func safeURL(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return u.Scheme == "" || u.Scheme == "http" || u.Scheme == "https"
}

func mediaBlock(line string) (Block, bool) {
	if m := imageLine.FindStringSubmatch(line); m != nil {
		if !safeURL(m[2]) {
			return Block{}, false
		}
		return Block{Kind: KindImage, Alt: m[1], URL: m[2]}, true
	}
	if m := videoLine.FindStringSubmatch(line); m != nil {
		if b, ok := videoBlock(m[1]); ok {
			return b, true
		}
		if !safeURL(m[1]) {
			return Block{}, false
		}
		return Block{Kind: KindVideo, URL: m[1], Provider: ProviderFile, EmbedURL: m[1]}, true
	}
	if strings.ContainsAny(line, " \t") {
		return Block{}, false
	}
	return videoBlock(line)
}

// videoBlock recognises YouTube and Vimeo links.
func videoBlock(link string) (Block, bool) {
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return Block{}, false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")

	switch host {
	case "youtube.com", "youtube-nocookie.com":
		id := u.Query().Get("v")
		if id == "" {
			for _, prefix := range []string{"/embed/", "/shorts/", "/live/"} {
				if strings.HasPrefix(u.Path, prefix) {
					id = strings.Trim(strings.TrimPrefix(u.Path, prefix), "/")
					break
				}
			}
		}
		return youtube(link, id)
	case "youtu.be":
		return youtube(link, strings.Trim(u.Path, "/"))
	case "vimeo.com", "player.vimeo.com":
		m := vimeoID.FindStringSubmatch(u.Path)
		if m == nil {
			return Block{}, false
		}
		return Block{
			Kind:     KindVideo,
			URL:      link,
			Provider: ProviderVimeo,
			EmbedURL: "https://player.vimeo.com/video/" + m[1],
		}, true
	}
	return Block{}, false
}

func youtube(link, id string) (Block, bool) {
	if !youtubeID.MatchString(id) {
		return Block{}, false
	}
	return Block{
		Kind:     KindVideo,
		URL:      link,
		Provider: ProviderYouTube,
		EmbedURL: "https://www.youtube.com/embed/" + id,
	}, true
}

// policy is applied to everything RenderHTML emits: user-generated content
// plus the figure, video and embed markup produced for media blocks.
var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("figure")
	p.AllowAttrs("loading").Matching(regexp.MustCompile(`^lazy$`)).OnElements("img")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^video-embed$`)).OnElements("div")
	p.AllowAttrs("src", "controls").OnElements("video")
	p.AllowAttrs("src").Matching(regexp.MustCompile(`^https://(www\.youtube\.com/embed|player\.vimeo\.com/video)/[A-Za-z0-9_-]+$`)).OnElements("iframe")
	p.AllowAttrs("frameborder", "allowfullscreen").OnElements("iframe")
	return p
}

// RenderHTML renders body to sanitized HTML. Text goes through Markdown;
// images and videos get fixed markup.
func RenderHTML(body string) string {
	var buf bytes.Buffer
	for _, b := range Parse(body) {
		switch b.Kind {
		case KindText:
			buf.Write(blackfriday.Run([]byte(b.Text)))
		case KindImage:
			fmt.Fprintf(&buf, "<figure><img src=\"%s\" alt=\"%s\" loading=\"lazy\"></figure>\n",
				html.EscapeString(b.URL), html.EscapeString(b.Alt))
		case KindVideo:
			if b.Provider == ProviderFile {
				fmt.Fprintf(&buf, "<video controls src=\"%s\"></video>\n", html.EscapeString(b.EmbedURL))
				continue
			}
			fmt.Fprintf(&buf, "<div class=\"video-embed\"><iframe src=\"%s\" frameborder=\"0\" allowfullscreen></iframe></div>\n",
				html.EscapeString(b.EmbedURL))
		}
	}
	return policy.Sanitize(buf.String())
}

// ReadTime estimates reading minutes for body, never less than one.
func ReadTime(body string) int {
	words := 0
	for _, b := range Parse(body) {
		if b.Kind == KindText {
			words += len(strings.Fields(b.Text))
		}
	}
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}
