package typing

// CharState describes how a passage character should be drawn.
type CharState int

const (
	StatePending CharState = iota
	StateTyped
	StateCurrent
	StateWrong
)

// Char is one rune of a wrapped line with its state.
type Char struct {
	Rune  rune
	State CharState
}

// span is a [start, end) range of passage runes forming one wrapped line.
type span struct {
	start, end int
}

// wrap breaks the text into lines no longer than width, splitting after
// spaces where possible. Trailing spaces stay on their line.
func wrap(text []rune, width int) []span {
	if width <= 0 {
		width = 1
	}

	var lines []span
	start := 0
	for start < len(text) {
		end := start + width
		if end >= len(text) {
			lines = append(lines, span{start, len(text)})
			break
		}

		// Break after the last space inside the line.
		brk := -1
		for i := end - 1; i > start; i-- {
			if text[i] == ' ' {
				brk = i + 1
				break
			}
		}
		if brk < 0 {
			brk = end
		}
		lines = append(lines, span{start, brk})
		start = brk
	}
	return lines
}

// Window returns up to height wrapped lines of at most width runes, scrolled
// so the cursor sits on the second line once past the first.
func (p *Passage) Window(width, height int) [][]Char {
	if height <= 0 || len(p.text) == 0 {
		return nil
	}

	lines := wrap(p.text, width)

	cursorLine := len(lines) - 1
	for i, l := range lines {
		if p.cursor < l.end {
			cursorLine = i
			break
		}
	}

	first := cursorLine - 1
	if first < 0 {
		first = 0
	}
	if last := len(lines) - height; first > last && last >= 0 {
		first = last
	}

	var out [][]Char
	for i := first; i < len(lines) && len(out) < height; i++ {
		l := lines[i]
		row := make([]Char, 0, l.end-l.start)
		for j := l.start; j < l.end; j++ {
			row = append(row, Char{Rune: p.text[j], State: p.stateAt(j)})
		}
		out = append(out, row)
	}
	return out
}

func (p *Passage) stateAt(i int) CharState {
	switch {
	case i < p.cursor:
		return StateTyped
	case i == p.cursor && p.hasWrong:
		return StateWrong
	case i == p.cursor:
		return StateCurrent
	default:
		return StatePending
	}
}
