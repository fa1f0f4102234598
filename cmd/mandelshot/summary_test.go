package main

import (
	"strings"
	"testing"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/fractal"
)

func TestSummary(t *testing.T) {
	out := summary(message.NewPrinter(language.English), 3, 700000, 1500*time.Millisecond, fractal.DefaultViewport)

	for _, want := range []string{"frames", "700,000 per frame", "1,500 ms", fractal.DefaultViewport.String()} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if lines := strings.Count(out, "\n") + 1; lines != 4 {
		t.Errorf("summary has %d lines, want 4", lines)
	}
}
