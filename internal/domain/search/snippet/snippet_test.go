package snippet

import (
	"strings"
	"testing"
)

func ptr(s string) *string { return &s }

func TestSanitize_Nil(t *testing.T) {
	if Sanitize(nil) != nil {
		t.Fatal("nil headline must pass through as nil")
	}
}

func TestSanitize_KeepsHighlight(t *testing.T) {
	got := Sanitize(ptr("met <mark>Anna</mark> at the conference"))
	if got == nil || *got != "met <mark>Anna</mark> at the conference" {
		t.Fatalf("Sanitize = %v", got)
	}
}

func TestSanitize_StripsMarkup(t *testing.T) {
	inputs := []string{
		`<mark>Anna</mark><script>alert(1)</script>`,
		`<img src=x onerror=alert(1)><mark>Anna</mark>`,
		`<mark onclick="steal()">Anna</mark>`,
		`<mark style="color:red" class="x">Anna</mark>`,
		`<a href="javascript:alert(1)"><mark>Anna</mark></a>`,
		`<div><b>bold</b> <mark>Anna</mark> <iframe src="//evil"></iframe></div>`,
		`<svg onload=alert(1)><mark>Anna</mark></svg>`,
		`<MARK>Anna</MARK><ScRiPt>alert(1)</ScRiPt>`,
	}
	forbidden := []string{"<script", "onerror", "onclick", "onload", "style=", "class=", "href", "<img", "<a ", "<iframe", "<svg", "<b>", "<div", "alert("}

	for _, in := range inputs {
		got := Sanitize(ptr(in))
		if got == nil {
			t.Fatalf("Sanitize(%q) = nil", in)
		}
		lower := strings.ToLower(*got)
		for _, f := range forbidden {
			if strings.Contains(lower, f) {
				t.Errorf("Sanitize(%q) = %q contains %q", in, *got, f)
			}
		}
		if !strings.Contains(lower, "<mark>anna</mark>") {
			t.Errorf("Sanitize(%q) = %q lost the highlight", in, *got)
		}
	}
}

func TestSanitize_OnlyMarkTagsRemain(t *testing.T) {
	got := Sanitize(ptr(`<p>x</p><mark>y</mark><span>z</span><table><tr><td>w</td></tr></table>`))
	if got == nil {
		t.Fatal("Sanitize = nil, want text")
	}
	rest := strings.NewReplacer(StartSel, "", StopSel, "").Replace(*got)
	if strings.ContainsAny(rest, "<>") {
		t.Errorf("unexpected markup left: %q", *got)
	}
}

func TestSanitize_BlankBecomesNil(t *testing.T) {
	if got := Sanitize(ptr("<script>alert(1)</script>")); got != nil {
		t.Errorf("Sanitize = %q, want nil", *got)
	}
}
