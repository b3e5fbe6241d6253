package geocoder

// streetSynonyms lists normalized words that commonly accompany a street
// name without being part of it. When a street layer commits, one stray
// synonym elsewhere in the query is pulled into the layer so it does not
// dangle as an unconsumed token.
var streetSynonyms = map[string]struct{}{
	// English
	"street": {}, "st": {}, "str": {},
	"avenue": {}, "ave": {}, "av": {},
	"road": {}, "rd": {},
	"lane": {}, "ln": {},
	"boulevard": {}, "blvd": {},
	"drive": {}, "dr": {},
	"court": {}, "ct": {},
	"place": {}, "pl": {},
	"square": {}, "sq": {},
	"highway": {}, "hwy": {},
	"terrace": {}, "ter": {},
	"crescent": {}, "cres": {},
	"way": {}, "alley": {},
	// Romance
	"rue": {}, "calle": {}, "via": {}, "rua": {}, "avenida": {},
	// Germanic
	"strasse": {}, "gasse": {}, "straat": {},
	// Slavic transliterations
	"ulitsa": {}, "ul": {}, "ulica": {},
	"prospekt": {}, "pr": {},
	"pereulok": {}, "per": {},
	"shosse": {},
	"naberezhnaya": {}, "nab": {},
}

// IsStreetSynonym reports whether a normalized token is a street-word
// synonym. Pure and deterministic.
func IsStreetSynonym(token string) bool {
	_, ok := streetSynonyms[token]
	return ok
}
