package ast

import "testing"

func TestNewStringLiteralScansSpans(t *testing.T) {
	lit := NewStringLiteral("deploy ${env} to ${host}")
	if len(lit.Interps) != 2 {
		t.Fatalf("got %d spans, want 2: %#v", len(lit.Interps), lit.Interps)
	}

	first := lit.Interps[0]
	if first.Name != "env" || first.Start != 7 || first.End != 13 {
		t.Fatalf("first span = %#v, want env at [7,13)", first)
	}
	second := lit.Interps[1]
	if second.Name != "host" || lit.Value[second.Start:second.End] != "${host}" {
		t.Fatalf("second span = %#v", second)
	}
}

func TestNewStringLiteralSpanOrder(t *testing.T) {
	lit := NewStringLiteral("${a}${b}${c}")
	names := []string{"a", "b", "c"}
	for i, span := range lit.Interps {
		if span.Name != names[i] {
			t.Fatalf("span %d name = %q, want %q", i, span.Name, names[i])
		}
		if i > 0 && span.Start < lit.Interps[i-1].End {
			t.Fatalf("spans out of order: %#v", lit.Interps)
		}
	}
}

func TestNewStringLiteralArgForms(t *testing.T) {
	lit := NewStringLiteral("args ${@} count ${#} first ${1}")
	if len(lit.Interps) != 3 {
		t.Fatalf("got %d spans, want 3", len(lit.Interps))
	}
	if lit.Interps[0].Name != "@" || lit.Interps[1].Name != "#" || lit.Interps[2].Name != "1" {
		t.Fatalf("span names = %#v", lit.Interps)
	}
}

func TestNewStringLiteralIgnoresMalformed(t *testing.T) {
	for _, text := range []string{"$name", "${}", "${no space", "plain", "${a-b}"} {
		lit := NewStringLiteral(text)
		if len(lit.Interps) != 0 {
			t.Fatalf("NewStringLiteral(%q) recorded spans: %#v", text, lit.Interps)
		}
	}
}
