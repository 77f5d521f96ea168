package rewrite

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"
)

// Compile-time interface compliance check.
var _ Rewriter = (*DummyRewriter)(nil)

// dummyReplacements are simple word swaps applied in one pass. The output is
// low quality but guaranteed different from the original, which is the only
// hard requirement when no LLM is available.
var dummyReplacements = strings.NewReplacer(
	"I ", "So I ",
	"said", "told me",
	"asked", "wanted to know",
	"told", "mentioned to",
	"went", "headed",
	"got", "ended up with",
	"was", "seemed",
	"were", "appeared to be",
	"because", "since",
	"but", "however",
	"and", "plus",
	"very", "really",
	"really", "totally",
	"just", "literally",
	"think", "believe",
	"know", "realize",
	"want", "need",
	"like", "similar to",
	"good", "great",
	"bad", "terrible",
	"big", "huge",
	"small", "tiny",
)

// dummyHooks open the script with an attention grab, picked at random.
var dummyHooks = []string{
	"You won't believe what happened to me.",
	"So this is absolutely insane.",
	"Let me tell you about the craziest thing.",
	"Okay so this story is wild.",
	"I still can't believe this actually happened.",
}

// redditMarkers match Reddit-specific noise that must not reach narration.
var redditMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^AITA\s+(for|if|when)\s+`),
	regexp.MustCompile(`(?i)^WIBTA\s+(for|if|when)\s+`),
	regexp.MustCompile(`(?i)^TIFU\s+by\s+`),
	regexp.MustCompile(`\[.*?\]`), // bracketed tags like [M25]
	regexp.MustCompile(`(?im)edit:.*$`),
	regexp.MustCompile(`(?im)update:.*$`),
	regexp.MustCompile(`(?i)throwaway\s+because.*?\.`),
	regexp.MustCompile(`(?i)using\s+a\s+throwaway.*?\.`),
	regexp.MustCompile(`(?im)tldr:.*$`),
	regexp.MustCompile(`(?im)tl;dr:.*$`),
	regexp.MustCompile(`https?://\S+`),
	regexp.MustCompile(`u/\w+`),
	regexp.MustCompile(`r/\w+`),
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// DummyRewriter is the no-API fallback. It strips Reddit markers, swaps
// common words, truncates to the target length, and wraps the result in a
// hook and an engagement question.
type DummyRewriter struct {
	rng *rand.Rand
}

// DummyOption configures a DummyRewriter.
type DummyOption func(*DummyRewriter)

// WithDummySeed fixes the hook selection (for testing).
func WithDummySeed(seed int64) DummyOption {
	return func(d *DummyRewriter) {
		d.rng = rand.New(rand.NewSource(seed))
	}
}

// NewDummyRewriter creates a DummyRewriter.
func NewDummyRewriter(opts ...DummyOption) *DummyRewriter {
	d := &DummyRewriter{}
	for _, opt := range opts {
		opt(d)
	}
	if d.rng == nil {
		d.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return d
}

// Rewrite performs the offline transformation. It never contacts a network.
func (d *DummyRewriter) Rewrite(_ context.Context, originalText string, targetWords int) (string, error) {
	if strings.TrimSpace(originalText) == "" {
		return "", ErrEmptyStory
	}
	if targetWords <= 0 {
		targetWords = DefaultTargetWords
	}

	text := cleanRedditText(originalText)
	text = dummyReplacements.Replace(text)
	text = truncateAtSentence(text, targetWords)

	hook := dummyHooks[d.rng.Intn(len(dummyHooks))]
	text = fmt.Sprintf("%s %s", hook, text)

	if s := strings.TrimRight(text, " "); !strings.HasSuffix(s, ".") &&
		!strings.HasSuffix(s, "!") && !strings.HasSuffix(s, "?") {
		text = s + "."
	}
	return text + " What would you have done?", nil
}

// cleanRedditText removes Reddit-specific markers and collapses whitespace.
func cleanRedditText(text string) string {
	for _, re := range redditMarkers {
		text = re.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}

// truncateAtSentence cuts text to at most targetWords words, preferring to
// end on a sentence boundary when one falls in the last 30% of the cut.
func truncateAtSentence(text string, targetWords int) string {
	words := strings.Fields(text)
	if len(words) <= targetWords {
		return text
	}

	text = strings.Join(words[:targetWords], " ")
	if last := strings.LastIndex(text, "."); last > int(float64(len(text))*0.7) {
		text = text[:last+1]
	}
	return text
}
