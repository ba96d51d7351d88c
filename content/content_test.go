package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_MixedBody(t *testing.T) {
	body := "Intro line one\nline two\n\n" +
		"![Calm lake](https://cdn.example.com/lake.jpg)\n" +
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ\n" +
		"[video](https://vimeo.com/76979871)\n" +
		"[video](/uploads/clip.mp4)\n\n" +
		"Closing words"

	blocks := Parse(body)
	require.Len(t, blocks, 6)

	assert.Equal(t, Block{Kind: KindText, Text: "Intro line one\nline two"}, blocks[0])
	assert.Equal(t, Block{Kind: KindImage, Alt: "Calm lake", URL: "https://cdn.example.com/lake.jpg"}, blocks[1])
	assert.Equal(t, ProviderYouTube, blocks[2].Provider)
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", blocks[2].EmbedURL)
	assert.Equal(t, "https://player.vimeo.com/video/76979871", blocks[3].EmbedURL)
	assert.Equal(t, Block{Kind: KindVideo, URL: "/uploads/clip.mp4", Provider: ProviderFile, EmbedURL: "/uploads/clip.mp4"}, blocks[4])
	assert.Equal(t, "Closing words", blocks[5].Text)
}

func TestParse_YouTubeShapes(t *testing.T) {
	for _, link := range []string{
		"https://youtu.be/dQw4w9WgXcQ",
		"https://youtube.com/embed/dQw4w9WgXcQ",
		"https://m.youtube.com/watch?v=dQw4w9WgXcQ&t=10",
		"https://www.youtube.com/shorts/dQw4w9WgXcQ",
	} {
		blocks := Parse(link)
		require.Len(t, blocks, 1, link)
		assert.Equal(t, KindVideo, blocks[0].Kind, link)
		assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", blocks[0].EmbedURL, link)
	}
}

func TestParse_InlineLinksStayText(t *testing.T) {
	blocks := Parse("Watch https://youtu.be/dQw4w9WgXcQ later\nhttps://example.com/page")
	require.Len(t, blocks, 1)
	assert.Equal(t, KindText, blocks[0].Kind)
}

func TestRenderHTML(t *testing.T) {
	out := RenderHTML("# Title\n\n**bold** text\n\n![a \"q\"](/uploads/x.png)\nhttps://vimeo.com/1234")

	assert.Contains(t, out, "<h1>Title</h1>")
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.Contains(t, out, `<img src="/uploads/x.png" alt="a &#34;q&#34;"`)
	assert.Contains(t, out, `<iframe src="https://player.vimeo.com/video/1234"`)
}

func TestParse_FencedCodeStaysOneTextBlock(t *testing.T) {
	body := "Setup:\n\n```\nfirst\n\nhttps://youtu.be/dQw4w9WgXcQ\n```\n\n~~~~\n![x](/a.png)\n~~~~\n\n    https://vimeo.com/1234"
	blocks := Parse(body)
	require.Len(t, blocks, 1)
	assert.Equal(t, KindText, blocks[0].Kind)
	assert.Equal(t, body, blocks[0].Text)
}

func TestParse_LooseListStaysTogether(t *testing.T) {
	blocks := Parse("- one\n\n- two\n\n![pic](/p.png)")
	require.Len(t, blocks, 2)
	assert.Equal(t, "- one\n\n- two", blocks[0].Text)
	assert.Equal(t, KindImage, blocks[1].Kind)
}

func TestParse_UnsafeMediaURLsStayText(t *testing.T) {
	for _, line := range []string{"![x](javascript:alert(1))", "[video](javascript:alert(1))", "[video](data:video/mp4;base64,AAAA)"} {
		blocks := Parse(line)
		require.Len(t, blocks, 1, line)
		assert.Equal(t, KindText, blocks[0].Kind, line)
	}
}

func TestRenderHTML_FencedCode(t *testing.T) {
	out := RenderHTML("```\nfirst\n\nsecond\nhttps://youtu.be/dQw4w9WgXcQ\n```")

	assert.Contains(t, out, "<pre><code>first\n\nsecond\nhttps://youtu.be/dQw4w9WgXcQ\n</code></pre>")
	assert.NotContains(t, out, "<iframe")
	assert.NotContains(t, out, "<p>")
}

func TestRenderHTML_StripsScriptsAndUnsafeURLs(t *testing.T) {
	out := RenderHTML("Hi <script>alert(1)</script>\n\n![x](javascript:alert(1))\n\n[click](javascript:alert(2))\n\n<iframe src=\"https://evil.example.com/\"></iframe>")

	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "javascript:")
	assert.NotContains(t, out, "evil.example.com")
	assert.Contains(t, out, "Hi")
}

func TestRenderHTML_KeepsMediaMarkup(t *testing.T) {
	out := RenderHTML("https://youtu.be/dQw4w9WgXcQ\n[video](/uploads/clip.mp4)")

	assert.Contains(t, out, `<iframe src="https://www.youtube.com/embed/dQw4w9WgXcQ"`)
	assert.Contains(t, out, `src="/uploads/clip.mp4"`)
	assert.Contains(t, out, "<video")
}

func TestReadTime(t *testing.T) {
	assert.Equal(t, 1, ReadTime(""))
	assert.Equal(t, 1, ReadTime("just a few words"))
	assert.Equal(t, 2, ReadTime(strings.Repeat("word ", 201)))
	assert.Equal(t, 1, ReadTime("![img](/a.png)\nhttps://youtu.be/dQw4w9WgXcQ"))
}
