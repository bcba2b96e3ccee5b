package sanitize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestString_StripsMarkupAndTrims(t *testing.T) {
	req := require.New(t)

	req.Equal("hello", String("  <b>hello</b>  "))
	req.Equal("hi there", String("<script>alert(1)</script>hi there"))
	req.Equal("plain", String("plain"))
	req.Equal("", String("   <img src=x>   "))
}

func TestString_Idempotent(t *testing.T) {
	req := require.New(t)

	inputs := []string{
		"  <b>hello</b>  ",
		"a & b < c",
		"a &amp; b",
		"<a href=\"x\">link</a> & more",
		"&lt;script&gt;alert(1)&lt;/script&gt;",
		"&amp;lt;b&amp;gt;hi",
		"já sanitizado",
		"",
	}
	for _, in := range inputs {
		once := String(in)
		req.Equal(once, String(once), "input %q", in)
	}
}

func TestString_EncodedMarkupDoesNotSurvive(t *testing.T) {
	req := require.New(t)

	req.Equal("", String("&lt;script&gt;alert(1)&lt;/script&gt;"))
	req.Equal("hi", String("&lt;b&gt;hi&lt;/b&gt;"))
	req.Equal("hi", String("&amp;lt;b&amp;gt;hi"))
}

func TestMap_OnlyTouchesStrings(t *testing.T) {
	req := require.New(t)

	in := map[string]any{
		"name":       " <i>Alice</i> ",
		"lastStatus": int64(123456),
		"active":     true,
	}
	out := Map(in)

	req.Equal("Alice", out["name"])
	req.Equal(int64(123456), out["lastStatus"])
	req.Equal(true, out["active"])

	// source record untouched
	req.Equal(" <i>Alice</i> ", in["name"])
}
