package rain

import (
	"errors"
	"sort"
	"sync"

	"github.com/mattn/go-runewidth"
)

// ErrEmptyPool is returned when a character pool ends up with no usable runes.
var ErrEmptyPool = errors.New("character pool is empty")

// Default categories of the matrix look. Wide glyphs are left out, they
// break the terminal grid.
var defaultCategories = map[string]string{
	"digits":      "012345789",
	"punctuation": `:."=*+-<>`,
	"katakana":    "ﾊﾐﾋｰｳｼﾅﾓﾆｻﾜﾂｵﾘｱﾎﾃﾏｹﾒｴｶｷﾑﾕﾗｾﾈｽﾀﾇﾍ",
	"other":       "¦çﾘｸ",
}

// charsets is the catalog of named character sets offered on the command line.
var charsets = map[string]map[string]string{
	"matrix": defaultCategories,
	"ascii": {
		"upper":  "ABCDEFGHIJKLMNOPQRSTUVWXYZ",
		"lower":  "abcdefghijklmnopqrstuvwxyz",
		"digits": "0123456789",
	},
	"binary":   {"binary": "01"},
	"hex":      {"hex": "0123456789ABCDEF"},
	"greek":    {"greek": "αβγδεζηθικλμνξοπρστυφχψωΑΒΓΔΕΖΗΘΙΚΛΜΝΞΟΠΡΣΤΥΦΧΨΩ"},
	"cyrillic": {"cyrillic": "абвгдежзийклмнопрстуфхцчшщъыьэюяАБВГДЕЖЗИЙКЛМНОПРСТУФХЦЧШЩЪЫЬЭЮЯ"},
	"symbols":  {"symbols": `!@#$%^&*()_+-=[]{}|;':",./<>?`},
	"braille":  {"braille": "⠁⠂⠃⠄⠅⠆⠇⠈⠉⠊⠋⠌⠍⠎⠏⠐⠑⠒⠓⠔⠕⠖⠗⠘⠙⠚⠛⠜⠝⠞⠟"},
	"math":     {"math": "∀∂∃∅∆∇∈∉∋∏∑−∓∗∘∙√∝∞∟∠∧∨∩∪"},
	"arrows":   {"arrows": "←↑→↓↖↗↘↙⇐⇑⇒⇓"},
	"dna":      {"dna": "ATCG"},
	"minimal":  {"minimal": ".*+"},
}

// cellWidth measures glyphs with ambiguous East Asian characters as narrow,
// independent of the locale.
var cellWidth = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

// CharacterPool is an immutable set of candidate characters grouped into
// named categories. Selection draws from the concatenation of all
// categories, so larger categories come up proportionally more often.
type CharacterPool struct {
	labels     []string
	categories map[string]string
	chars      []rune
}

var defaultPool = sync.OnceValue(func() *CharacterPool {
	pool, err := NewCharacterPool(defaultCategories)
	if err != nil {
		panic(err)
	}
	return pool
})

// DefaultPool returns the shared matrix pool. It is built on first use.
func DefaultPool() *CharacterPool {
	return defaultPool()
}

// NewCharacterPool flattens categories in label order. Runes wider than one
// cell are skipped.
func NewCharacterPool(categories map[string]string) (*CharacterPool, error) {
	labels := make([]string, 0, len(categories))
	for label := range categories {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	p := &CharacterPool{
		labels:     labels,
		categories: make(map[string]string, len(categories)),
	}
	for _, label := range labels {
		chars := categories[label]
		p.categories[label] = chars
		for _, r := range chars {
			if cellWidth.RuneWidth(r) != 1 {
				continue
			}
			p.chars = append(p.chars, r)
		}
	}
	if len(p.chars) == 0 {
		return nil, ErrEmptyPool
	}
	return p, nil
}

// Charset resolves a catalog name to a pool. Any other non-empty string is
// used literally as a custom set.
func Charset(name string) (*CharacterPool, error) {
	if name == "matrix" {
		return DefaultPool(), nil
	}
	if categories, ok := charsets[name]; ok {
		return NewCharacterPool(categories)
	}
	if name == "" {
		return nil, ErrEmptyPool
	}
	return NewCharacterPool(map[string]string{"custom": name})
}

// CharsetNames lists the catalog in alphabetical order.
func CharsetNames() []string {
	names := make([]string, 0, len(charsets))
	for name := range charsets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Random returns one character drawn uniformly from the flattened pool.
func (p *CharacterPool) Random(rng Rand) rune {
	return p.chars[rng.Intn(len(p.chars))]
}

// Labels returns the category labels in flattening order.
func (p *CharacterPool) Labels() []string {
	return append([]string(nil), p.labels...)
}

// Category returns the characters registered under label.
func (p *CharacterPool) Category(label string) (string, bool) {
	chars, ok := p.categories[label]
	return chars, ok
}

// Len is the size of the flattened pool.
func (p *CharacterPool) Len() int {
	return len(p.chars)
}

// Contains reports whether r can be drawn from the pool.
func (p *CharacterPool) Contains(r rune) bool {
	for _, c := range p.chars {
		if c == r {
			return true
		}
	}
	return false
}
