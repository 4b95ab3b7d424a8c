// partialmatch.go - partial-match simulation over a compiled regex program
//
// Licensing Terms: GPLv2
//
// No library in the dependency set speaks PCRE or exposes a partial-match
// (can-this-prefix-still-become-a-match) primitive, so this hand-rolls a
// Pike-VM style Thompson NFA simulation on top of regexp/syntax.Prog, the
// same intermediate form the standard library's own regexp engine runs.
// The only contract that matters for correctness is: a prefix must never
// be reported dead (NoMatch) if some extension of it could match the full
// pattern. Ambiguous lookaround-style assertions - a word boundary, or an
// end-of-text/end-of-line anchor evaluated short of the real end of the
// string - are resolved in the permissive direction: treated as satisfied.
// Declining to prune is always safe; pruning incorrectly is not.
package walk

import "regexp/syntax"

type partialMatcher struct {
	prog *syntax.Prog
}

func newPartialMatcher(pattern string) (*partialMatcher, error) {
	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return nil, err
	}
	re = re.Simplify()
	prog, err := syntax.Compile(re)
	if err != nil {
		return nil, err
	}
	return &partialMatcher{prog: prog}, nil
}

// threadList is a sparse set of program counters, deduplicated by
// generation stamp so reset is O(1) instead of O(n).
type threadList struct {
	dense  []uint32
	gen    []uint32
	curGen uint32
}

func newThreadList(n int) *threadList {
	return &threadList{gen: make([]uint32, n)}
}

func (l *threadList) reset() {
	l.curGen++
	l.dense = l.dense[:0]
}

func (l *threadList) has(pc uint32) bool {
	return l.gen[pc] == l.curGen
}

func (l *threadList) add(pc uint32) {
	l.gen[pc] = l.curGen
	l.dense = append(l.dense, pc)
}

// addThread follows the epsilon closure of pc - alternations, captures,
// nops, and satisfied empty-width assertions - depositing every
// rune-consuming or terminal instruction it reaches onto list.
func (m *partialMatcher) addThread(list *threadList, pc uint32, runes []rune, pos int, final bool) {
	if list.has(pc) {
		return
	}
	list.add(pc)

	inst := &m.prog.Inst[pc]
	switch inst.Op {
	case syntax.InstAlt, syntax.InstAltMatch:
		m.addThread(list, inst.Out, runes, pos, final)
		m.addThread(list, inst.Arg, runes, pos, final)
	case syntax.InstCapture, syntax.InstNop:
		m.addThread(list, inst.Out, runes, pos, final)
	case syntax.InstEmptyWidth:
		if m.emptyOK(syntax.EmptyOp(inst.Arg), runes, pos, final) {
			m.addThread(list, inst.Out, runes, pos, final)
		}
	case syntax.InstFail:
		// dead end; nothing propagates
	default:
		// InstRune, InstRune1, InstRuneAny, InstRuneAnyNotNL, InstMatch
	}
}

// emptyOK decides whether an empty-width assertion is satisfied at pos,
// given that runes beyond len(runes) are not yet known because the text
// fed in may only be a path prefix built so far by the driver.
func (m *partialMatcher) emptyOK(op syntax.EmptyOp, runes []rune, pos int, final bool) bool {
	if op&syntax.EmptyBeginText != 0 && pos != 0 {
		return false
	}
	if op&syntax.EmptyBeginLine != 0 {
		if !(pos == 0 || runes[pos-1] == '\n') {
			return false
		}
	}
	if op&syntax.EmptyEndText != 0 {
		if pos < len(runes) {
			return false
		}
		// pos == len(runes): either the real end (final) or unknown
		// (not final) - permissive in both cases.
	}
	if op&syntax.EmptyEndLine != 0 {
		if pos < len(runes) && runes[pos] != '\n' {
			return false
		}
	}
	// EmptyWordBoundary / EmptyNoWordBoundary: always treated as satisfied.
	return true
}

// run simulates the program against text. matched reports whether the
// pattern matches some substring terminating at or before len(text).
// alive reports whether any thread survived to the end of text, meaning
// some extension of text could still complete a match. final indicates
// text is known to be the complete candidate string; emptyOK treats an
// end-of-text/end-of-line assertion at len(text) as satisfied whether or
// not final is set, so final does not change the result.
func (m *partialMatcher) run(text string, final bool) (matched bool, alive bool) {
	runes := []rune(text)
	n := len(m.prog.Inst)
	clist := newThreadList(n)
	nlist := newThreadList(n)

	clist.reset()
	m.addThread(clist, uint32(m.prog.Start), runes, 0, final)

	for pos := 0; ; pos++ {
		for _, pc := range clist.dense {
			if m.prog.Inst[pc].Op == syntax.InstMatch {
				matched = true
			}
		}
		if pos == len(runes) {
			// Only a rune-consuming or match instruction can still make
			// progress; an empty-width assertion left on the list failed.
			for _, pc := range clist.dense {
				switch m.prog.Inst[pc].Op {
				case syntax.InstRune, syntax.InstRune1, syntax.InstRuneAny, syntax.InstRuneAnyNotNL, syntax.InstMatch:
					alive = true
				}
			}
			return matched, alive
		}

		nlist.reset()
		for _, pc := range clist.dense {
			inst := &m.prog.Inst[pc]
			switch inst.Op {
			case syntax.InstRune, syntax.InstRune1, syntax.InstRuneAny, syntax.InstRuneAnyNotNL:
				if inst.MatchRune(runes[pos]) {
					m.addThread(nlist, inst.Out, runes, pos+1, final)
				}
			}
		}
		if !matched {
			// unanchored search: a fresh attempt may still start here
			m.addThread(nlist, uint32(m.prog.Start), runes, pos+1, final)
		}
		clist, nlist = nlist, clist
		if len(clist.dense) == 0 {
			return matched, false
		}
	}
}
