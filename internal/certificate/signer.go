package certificate

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Phase records which resolution pass produced a signer.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseContextual
	PhaseGlobal
)

// Signer is the resolved signing official.
type Signer struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Phase Phase  `json:"phase"`
}

// Composite renders the signer as "name - title", or whichever part is
// known when the other is empty.
func (s Signer) Composite() string {
	switch {
	case s.Name != "" && s.Title != "":
		return s.Name + " - " + s.Title
	case s.Name != "":
		return s.Name
	default:
		return s.Title
	}
}

const (
	titleChair           = "CHỦ TỊCH"
	titleViceChair       = "PHÓ CHỦ TỊCH"
	titleActingViceChair = "KT. CHỦ TỊCH - PHÓ CHỦ TỊCH"

	contextWindow = 5
	maxNameWords  = 5
	minNameWords  = 2
)

var (
	titleLinePattern = regexp.MustCompile(`(?i)(KT\.|CHỦ TỊCH|PHÓ CHỦ TỊCH)`)
	signerContext    = regexp.MustCompile(`(?i)(CHỦ TỊCH|PHÓ CHỦ TỊCH|KT\.)`)
	nameWordPattern  = regexp.MustCompile(`^[A-ZÀ-Ỹ][a-zà-ỹ]*$`)
	forbiddenInName  = regexp.MustCompile(`[\d.,:;!?()\[\]{}]`)

	// checked in order, first hit decides
	titlePatterns = []struct {
		re    *regexp.Regexp
		title string
	}{
		{regexp.MustCompile(`KT\.\s*CHỦ TỊCH\s*PHÓ CHỦ TỊCH`), titleActingViceChair},
		{regexp.MustCompile(`PHÓ CHỦ TỊCH`), titleViceChair},
		{regexp.MustCompile(`CHỦ TỊCH`), titleChair},
	}
)

// Resolver finds the signer's personal name and title in raw text.
type Resolver struct {
	blacklist []string
	surnames  map[string]struct{}
}

// NewResolver builds a resolver from the lexicon. Blacklist entries are
// compared against upper-cased text.
func NewResolver(lex Lexicon) *Resolver {
	r := &Resolver{
		blacklist: make([]string, 0, len(lex.Blacklist)),
		surnames:  make(map[string]struct{}, len(lex.Surnames)),
	}
	for _, b := range lex.Blacklist {
		if b = strings.TrimSpace(b); b != "" {
			r.blacklist = append(r.blacklist, strings.ToUpper(b))
		}
	}
	for _, s := range lex.Surnames {
		r.surnames[strings.TrimSpace(s)] = struct{}{}
	}
	return r
}

// IsPlausibleName reports whether s looks like a personal name: two to five
// capitalised words, no punctuation or digits, no administrative term.
func (r *Resolver) IsPlausibleName(s string) bool {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) < 3 {
		return false
	}

	upper := strings.ToUpper(s)
	for _, term := range r.blacklist {
		if strings.Contains(upper, term) {
			return false
		}
	}

	words := strings.Fields(s)
	if len(words) < minNameWords || len(words) > maxNameWords {
		return false
	}
	for _, w := range words {
		if !nameWordPattern.MatchString(w) {
			return false
		}
	}

	return !forbiddenInName.MatchString(s)
}

// Resolve runs the contextual pass and falls back to the global pass only if
// the contextual pass finds nothing.
func (r *Resolver) Resolve(text string) Signer {
	lines := splitLines(text)
	title := detectTitle(text)

	if name := r.resolveContextual(lines); name != "" {
		return Signer{Name: name, Title: title, Phase: PhaseContextual}
	}
	if name := r.resolveGlobal(lines); name != "" {
		return Signer{Name: name, Title: title, Phase: PhaseGlobal}
	}
	return Signer{Title: title}
}

// resolveContextual anchors on the last line containing a title marker and
// returns the first plausible name among the next lines.
func (r *Resolver) resolveContextual(lines []string) string {
	anchor := -1
	for i, line := range lines {
		if titleLinePattern.MatchString(line) {
			anchor = i
		}
	}
	if anchor < 0 {
		return ""
	}

	end := anchor + 1 + contextWindow
	if end > len(lines) {
		end = len(lines)
	}
	for _, line := range lines[anchor+1 : end] {
		if r.IsPlausibleName(line) {
			return strings.TrimSpace(line)
		}
	}
	return ""
}

type nameCandidate struct {
	name string
	line string
}

// resolveGlobal scores every plausible contiguous word span on every line.
// Only a strictly higher score replaces the current best, so the first
// discovered candidate wins ties.
func (r *Resolver) resolveGlobal(lines []string) string {
	firstIndex := make(map[string]int, len(lines))
	for i, line := range lines {
		if _, ok := firstIndex[line]; !ok {
			firstIndex[line] = i
		}
	}

	var (
		best      string
		bestScore int
		found     bool
	)
	for _, line := range lines {
		words := strings.Fields(line)
		for i := range words {
			for j := i + minNameWords; j <= len(words) && j <= i+maxNameWords; j++ {
				name := strings.Join(words[i:j], " ")
				if !r.IsPlausibleName(name) {
					continue
				}
				score := r.score(nameCandidate{name: name, line: line}, firstIndex[line], len(lines))
				if !found || score > bestScore {
					best, bestScore, found = name, score, true
				}
			}
		}
	}
	return best
}

func (r *Resolver) score(c nameCandidate, lineIndex, total int) int {
	score := 10

	switch {
	case lineIndex >= total-3:
		score += 20
	case lineIndex >= total-5:
		score += 10
	}

	if signerContext.MatchString(c.line) {
		score += 15
	}

	words := strings.Fields(c.name)
	switch len(words) {
	case 3:
		score += 15
	case 2:
		score += 10
	case 4:
		score += 5
	}

	switch n := utf8.RuneCountInString(c.name); {
	case n < 6:
		score -= 5
	case n > 25:
		score -= 10
	}

	if len(words) > 0 {
		if _, ok := r.surnames[words[0]]; ok {
			score += 10
		}
	}
	return score
}

func detectTitle(text string) string {
	for _, tp := range titlePatterns {
		if tp.re.MatchString(text) {
			return tp.title
		}
	}
	return ""
}

func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
