package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	cases := map[string]string{
		"plain   text\n here":                           "plain text here",
		"<b>Go</b> is &amp; fun":                        "Go is & fun",
		"AT&T news":                                     "AT&T news",
		"keep <script>alert(1)</script>visible":         "keep visible",
		"Rock &#39;n&#39; roll<br/>tonight":             "Rock 'n' roll tonight",
		"<style>p{}</style><p>Para one</p><p>two</p>": "Para one two",
		"": "",
	}
	for in, want := range cases {
		assert.Equal(t, want, CleanText(in), in)
	}
}
