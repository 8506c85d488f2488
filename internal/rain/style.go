package rain

import "fmt"

// Style is the visual intensity variant of a drop. The renderer decides what
// each one looks like.
type Style int

const (
	Front Style = iota
	Middle
	Back
	Fading
	Gradient
)

var styleNames = [...]string{
	Front:    "front",
	Middle:   "middle",
	Back:     "back",
	Fading:   "fading",
	Gradient: "gradient",
}

func (s Style) String() string {
	if s < Front || s > Gradient {
		return fmt.Sprintf("style(%d)", int(s))
	}
	return styleNames[s]
}

// styleTable partitions a roll in [1,100]: 10% front, 10% middle, 20% back,
// 10% fading, 50% gradient.
var styleTable = []struct {
	upper int
	style Style
}{
	{10, Front},
	{20, Middle},
	{40, Back},
	{50, Fading},
	{100, Gradient},
}

// RandomStyle picks a style according to styleTable.
func RandomStyle(rng Rand) Style {
	return styleForRoll(intRange(rng, 1, 100))
}

func styleForRoll(roll int) Style {
	for _, entry := range styleTable {
		if roll <= entry.upper {
			return entry.style
		}
	}
	return Gradient
}
