// pathregex.go - the OVAL pattern_match entity compiled for the walker
//
// Licensing Terms: GPLv2

package walk

// Outcome classifies a match attempt against a path prefix the driver has
// built so far but may still extend by descending further.
type Outcome int

const (
	// NoMatch means the prefix, and therefore nothing the driver could
	// append to it, can ever match the pattern. The subtree is safe to
	// prune.
	NoMatch Outcome = iota
	// Partial means the prefix does not yet satisfy the pattern but
	// some extension of it might; the driver must keep descending.
	Partial
	// Full means the prefix itself already satisfies the pattern.
	Full
	// MatchErr means the pattern could not be evaluated at all.
	MatchErr
)

// PathRegex is a compiled pattern_match entity together with the one bit
// of static analysis that makes pruning worthwhile: whether the pattern
// begins with '/' or '^', and therefore whether a partial prefix's
// failure to match at all is actually informative.
type PathRegex struct {
	matcher  *partialMatcher
	prunable bool
	raw      string
}

// CompilePattern compiles pattern for use as a path, filename, or
// filepath comparator with OVAL's pattern match operation. The returned
// PathRegex additionally supports partial-prefix evaluation so the driver
// can prune subtrees that can never satisfy the pattern.
func CompilePattern(pattern string) (*PathRegex, error) {
	m, err := newPartialMatcher(pattern)
	if err != nil {
		return nil, err
	}

	pr := &PathRegex{
		matcher: m,
		raw:     pattern,
	}
	pr.prunable = len(pattern) > 0 && (pattern[0] == '/' || pattern[0] == '^')
	return pr, nil
}

// Match evaluates text against the compiled pattern. When allowPartial is
// true, text is treated as a prefix that the caller may still extend and
// the result may be Partial; when false, text is the complete candidate
// and the result is only ever Full or NoMatch (or MatchErr).
func (p *PathRegex) Match(text string, allowPartial bool) Outcome {
	if p == nil || p.matcher == nil {
		return MatchErr
	}

	if !allowPartial {
		matched, _ := p.matcher.run(text, true)
		if matched {
			return Full
		}
		return NoMatch
	}

	matched, alive := p.matcher.run(text, false)
	if matched {
		return Full
	}
	if !p.prunable {
		// An unanchored pattern can match at any offset; a prefix
		// never rules out a suffix we have not built yet.
		return Partial
	}
	if alive {
		return Partial
	}
	return NoMatch
}

// String returns the source pattern.
func (p *PathRegex) String() string {
	return p.raw
}
