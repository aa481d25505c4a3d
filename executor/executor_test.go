package executor

import "testing"

func TestIsCommentOnly(t *testing.T) {
	cases := []struct {
		stmt string
		want bool
	}{
		{"-- unsupported: drop column on sqlite < 3.35", true},
		{"  -- indented comment", true},
		{"", true},
		{"   ", true},
		{`ALTER TABLE "t" ADD COLUMN "c" text;`, false},
		{"X", false},
	}
	for _, c := range cases {
		if got := isCommentOnly(c.stmt); got != c.want {
			t.Errorf("isCommentOnly(%q) = %v, want %v", c.stmt, got, c.want)
		}
	}
}
