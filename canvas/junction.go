package canvas

// Connection bits of a box-drawing character.
const (
	north = 1 << iota
	east
	south
	west
)

// runeMask maps line characters to the directions they connect.
var runeMask = map[rune]int{
	'─': east | west,
	'│': north | south,
	'┌': east | south,
	'╭': east | south,
	'┐': south | west,
	'╮': south | west,
	'└': north | east,
	'╰': north | east,
	'┘': north | west,
	'╯': north | west,
	'├': north | south | east,
	'┤': north | south | west,
	'┬': east | south | west,
	'┴': north | east | west,
	'┼': north | east | south | west,
}

// maskRune is the square-cornered character for each connection set.
var maskRune = map[int]rune{
	east:                        '─',
	west:                        '─',
	east | west:                 '─',
	north:                       '│',
	south:                       '│',
	north | south:               '│',
	east | south:                '┌',
	south | west:                '┐',
	north | east:                '└',
	north | west:                '┘',
	north | south | east:        '├',
	north | south | west:        '┤',
	east | south | west:         '┬',
	north | east | west:         '┴',
	north | east | south | west: '┼',
}

// pathCorner is the rounded character used for a bend in a route.
var pathCorner = map[int]rune{
	east | south: '╭',
	south | west: '╮',
	north | east: '╰',
	north | west: '╯',
}

// CharacterMerger handles the merging of two characters at the same position.
type CharacterMerger struct{}

// NewCharacterMerger creates a merger with standard box-drawing merge rules.
func NewCharacterMerger() *CharacterMerger {
	return &CharacterMerger{}
}

// Merge combines two characters according to box-drawing rules.
func (m *CharacterMerger) Merge(existing, new rune) rune {
	if existing == ' ' || existing == '\x00' {
		return new
	}
	if existing == new {
		return existing
	}

	// Arrows are never overwritten, and win over lines.
	if isArrow(existing) {
		return existing
	}
	if isArrow(new) {
		return new
	}

	a, okA := runeMask[existing]
	b, okB := runeMask[new]
	if okA && okB {
		return maskRune[a|b]
	}
	return existing
}

// runeForMask returns the character drawn for a path cell that connects the
// given directions.
func runeForMask(mask int) rune {
	if r, ok := pathCorner[mask]; ok {
		return r
	}
	return maskRune[mask]
}

// isArrow checks if a character is an arrow.
func isArrow(r rune) bool {
	switch r {
	case '▶', '◀', '▲', '▼':
		return true
	}
	return false
}

// arrowFor returns the arrow pointing along the step from a to b.
func arrowFor(a, b Cell) rune {
	switch {
	case b.X > a.X:
		return '▶'
	case b.X < a.X:
		return '◀'
	case b.Y > a.Y:
		return '▼'
	default:
		return '▲'
	}
}
