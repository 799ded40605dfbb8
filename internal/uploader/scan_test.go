package uploader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanImageTokens(t *testing.T) {
	text := `# Post

![first](./a.png)
Some prose ![inline](images/b.jpg "With title") here.
![](no-alt.png)
Not an image: [link](./c.png)
![spaced](<./my shot.png>)
![encoded](./my%20shot.png)
`

	tokens := scanImageTokens(text)
	require.Len(t, tokens, 5)

	assert.Equal(t, "./a.png", tokens[0].original)
	assert.Equal(t, "./a.png", tokens[0].target)

	assert.Equal(t, `images/b.jpg "With title"`, tokens[1].original)
	assert.Equal(t, "images/b.jpg", tokens[1].target)

	assert.Equal(t, "no-alt.png", tokens[2].original)

	assert.Equal(t, "<./my shot.png>", tokens[3].original)
	assert.Equal(t, "./my shot.png", tokens[3].target)

	assert.Equal(t, "./my%20shot.png", tokens[4].original)
	assert.Equal(t, "./my shot.png", tokens[4].target)
}

func TestScanImageTokens_DuplicatesKept(t *testing.T) {
	tokens := scanImageTokens("![a](x.png) ![b](x.png)")
	require.Len(t, tokens, 2)
	assert.Equal(t, tokens[0].original, tokens[1].original)
}

func TestStripTarget(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"./a.png", "./a.png"},
		{`./a.png "title"`, "./a.png"},
		{`./a.png 'title'`, "./a.png"},
		{"<./my shot.png>", "./my shot.png"},
		{`<./my shot.png> "title"`, "./my shot.png"},
		{"  ./a.png  ", "./a.png"},
		{`./with "quote" inside.png`, `./with "quote" inside.png`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripTarget(tt.in), "input %q", tt.in)
	}
}

func TestDecodeTarget(t *testing.T) {
	assert.Equal(t, "./my shot.png", decodeTarget("./my%20shot.png"))
	assert.Equal(t, "./plain.png", decodeTarget("./plain.png"))
	// A malformed escape keeps the raw string.
	assert.Equal(t, "./bad%zz.png", decodeTarget("./bad%zz.png"))
}

func TestIsRemote(t *testing.T) {
	assert.True(t, isRemote("http://example.com/a.png"))
	assert.True(t, isRemote("https://example.com/a.png"))
	assert.True(t, isRemote("HTTPS://EXAMPLE.COM/a.png"))
	assert.False(t, isRemote("./a.png"))
	assert.False(t, isRemote("/abs/a.png"))
	assert.False(t, isRemote("ftp://example.com/a.png"))
}
