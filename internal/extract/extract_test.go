package extract

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalize_CollapsesWhitespace(t *testing.T) {
	in := "  one\t\ttwo\n\n  three  "
	if got := Normalize(in); got != "one two three" {
		t.Fatalf("Normalize = %q, want %q", got, "one two three")
	}
}

func TestNormalize_TruncatesToLimit(t *testing.T) {
	in := strings.Repeat("a", MaxTextLen+500)
	got := Normalize(in)
	if len(got) != MaxTextLen {
		t.Fatalf("len = %d, want %d", len(got), MaxTextLen)
	}
}

func TestNormalize_Empty(t *testing.T) {
	if got := Normalize("   \n\t "); got != "" {
		t.Fatalf("Normalize = %q, want empty", got)
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	in := "The  same \n document."
	if Normalize(in) != Normalize(in) {
		t.Fatal("Normalize not deterministic")
	}
}

func TestFromHTML_ExtractsVisibleText(t *testing.T) {
	doc := `<html><head><title>T</title></head>
	<body><h1>Heading</h1><p>First paragraph.</p><p>Second one.</p></body></html>`

	got, err := FromHTML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Heading", "First paragraph.", "Second one."} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q missing %q", got, want)
		}
	}
}

func TestFromHTML_SkipsScriptAndStyle(t *testing.T) {
	doc := `<html><body>
	<script>var secret = "hidden";</script>
	<style>.x { color: red }</style>
	<noscript>enable js</noscript>
	<p>Visible prose.</p>
	</body></html>`

	got, err := FromHTML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "Visible prose.") {
		t.Fatalf("output %q missing visible text", got)
	}
	for _, banned := range []string{"secret", "color: red", "enable js"} {
		if strings.Contains(got, banned) {
			t.Errorf("output %q contains skipped content %q", got, banned)
		}
	}
}

func TestFromHTML_NestedSkippedElements(t *testing.T) {
	doc := `<body><svg><style>.a{}</style><text>chart label</text></svg><p>kept</p></body>`

	got, err := FromHTML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "kept" {
		t.Fatalf("output = %q, want %q", got, "kept")
	}
}

func TestFromHTML_NoContent(t *testing.T) {
	doc := `<html><head><script>only code</script></head><body></body></html>`

	_, err := FromHTML(strings.NewReader(doc))
	if !errors.Is(err, ErrNoContent) {
		t.Fatalf("err = %v, want ErrNoContent", err)
	}
}

func TestFromHTML_TruncatesLongDocument(t *testing.T) {
	long := "<body><p>" + strings.Repeat("word ", 5000) + "</p></body>"

	got, err := FromHTML(strings.NewReader(long))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) > MaxTextLen {
		t.Fatalf("len = %d, exceeds cap %d", len(got), MaxTextLen)
	}
}

func TestTitle(t *testing.T) {
	doc := `<html><head><title>  The Page Title </title></head><body>x</body></html>`
	if got := Title(strings.NewReader(doc)); got != "The Page Title" {
		t.Fatalf("Title = %q", got)
	}
}

func TestTitle_Missing(t *testing.T) {
	if got := Title(strings.NewReader(`<body>no title here</body>`)); got != "" {
		t.Fatalf("Title = %q, want empty", got)
	}
}
