package embedding

import (
	"context"
	"math"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/recruitflow/recruitflow/internal/fault"
)

func TestCosine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		a, b   Vector
		expect float64
	}{
		{
			name:   "identical vectors",
			a:      Vector{1, 2, 3},
			b:      Vector{1, 2, 3},
			expect: 1,
		},
		{
			name:   "orthogonal vectors",
			a:      Vector{1, 0},
			b:      Vector{0, 1},
			expect: 0,
		},
		{
			name:   "opposite vectors",
			a:      Vector{1, 0},
			b:      Vector{-1, 0},
			expect: -1,
		},
		{
			name:   "zero norm yields zero",
			a:      Vector{0, 0, 0},
			b:      Vector{1, 2, 3},
			expect: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Cosine(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.expect) > 1e-9 {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestCosineDimensionMismatch(t *testing.T) {
	_, err := Cosine(Vector{1, 2}, Vector{1, 2, 3})
	if err == nil {
		t.Fatalf("expected error for mismatched dimensions")
	}
	if !fault.Is(err, fault.DimensionMismatch) {
		t.Fatalf("expected dimension mismatch kind, got %q", fault.KindOf(err))
	}
}

func TestGeminiProviderRequiresAPIKey(t *testing.T) {
	provider := NewGeminiProvider("", "", 0, nil)

	_, err := provider.Embed(context.Background(), "some text")
	if err == nil {
		t.Fatalf("expected initialization error without api key")
	}
	if !fault.Is(err, fault.ModelUnavailable) {
		t.Fatalf("expected model unavailable kind, got %q", fault.KindOf(err))
	}
}

func TestGeminiProviderInitFailureIsSticky(t *testing.T) {
	provider := NewGeminiProvider("", "", 0, nil)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = provider.EmbedBatch(context.Background(), []string{"a"})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if !fault.Is(err, fault.ModelUnavailable) {
			t.Fatalf("call %d: expected model unavailable, got %v", i, err)
		}
	}
}

func TestGeminiProviderBlankTextsSkipTheAPI(t *testing.T) {
	// No api key: any remote call would fail, so a result proves the
	// blank inputs never left the process.
	provider := NewGeminiProvider("", "", 4, nil)

	vectors, err := provider.EmbedBatch(context.Background(), []string{"", "   ", "\t\n"})
	if err != nil {
		t.Fatalf("unexpected error for blank texts: %v", err)
	}
	if len(vectors) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(vectors))
	}

	for i, v := range vectors {
		if len(v) != provider.Dimension() {
			t.Fatalf("vector %d: expected dimension %d, got %d", i, provider.Dimension(), len(v))
		}
		score, err := Cosine(v, Vector{1, 1, 1, 1})
		if err != nil {
			t.Fatalf("vector %d: unexpected cosine error: %v", i, err)
		}
		if score != 0 {
			t.Fatalf("vector %d: expected zero similarity, got %v", i, score)
		}
	}
}

func TestGeminiProviderEmbedBlankText(t *testing.T) {
	provider := NewGeminiProvider("", "", 8, nil)

	vector, err := provider.Embed(context.Background(), "   ")
	if err != nil {
		t.Fatalf("unexpected error for blank text: %v", err)
	}
	if len(vector) != 8 {
		t.Fatalf("expected dimension 8, got %d", len(vector))
	}
}

func TestTruncateTextKeepsRuneBoundaries(t *testing.T) {
	text := "héllo wörld"
	for limit := 0; limit <= len(text); limit++ {
		got := truncateText(text, limit)
		if len(got) > limit {
			t.Fatalf("limit %d: result too long: %d bytes", limit, len(got))
		}
		if !utf8.ValidString(got) {
			t.Fatalf("limit %d: invalid utf-8 after truncation: %q", limit, got)
		}
	}

	if got := truncateText("short", 100); got != "short" {
		t.Fatalf("expected text under the limit untouched, got %q", got)
	}
}

func TestGeminiProviderDefaults(t *testing.T) {
	provider := NewGeminiProvider("key", "  ", -1, nil)
	if provider.Model() != "text-embedding-004" {
		t.Fatalf("unexpected default model: %q", provider.Model())
	}
	if provider.Dimension() != 768 {
		t.Fatalf("unexpected default dimension: %d", provider.Dimension())
	}
}
