package languageutil

import (
	"fmt"
	"math/rand"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var TitleCaser = cases.Title(language.English)
var LowerCaser = cases.Lower(language.English)

var Adjs []string = []string{
	"crimson",
	"velvet",
	"faded",
	"breezy",
	"cozy",
	"sleek",
	"vintage",
	"pastel",
	"bold",
	"quiet",
	"golden",
	"midnight",
	"dusty",
	"ivory",
	"emerald",
	"satin",
	"woolen",
	"linen",
	"polished",
	"slouchy",
}

var Nouns []string = []string{
	"piece",
	"layer",
	"staple",
	"find",
	"favorite",
	"classic",
	"essential",
	"treasure",
	"number",
	"gem",
}

// DefaultItemName produces a friendly placeholder like "Velvet Staple"
// for uploads that arrive without a name.
func DefaultItemName() string {
	adj := Adjs[rand.Intn(len(Adjs))]
	noun := Nouns[rand.Intn(len(Nouns))]
	return TitleCaser.String(fmt.Sprintf("%s %s", adj, noun))
}
