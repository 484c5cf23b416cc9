package schema

// reservedWords are identifiers with meaning in the BAML schema language.
// Generated class and enum names must not collide with them.
var reservedWords = map[string]struct{}{
	"class":           {},
	"enum":            {},
	"function":        {},
	"client":          {},
	"generator":       {},
	"retry_policy":    {},
	"template_string": {},
	"test":            {},
	"prompt":          {},
	"string":          {},
	"int":             {},
	"float":           {},
	"bool":            {},
	"image":           {},
	"audio":           {},
	"map":             {},
	"null":            {},
	"true":            {},
	"false":           {},
}

func isReserved(name string) bool {
	_, ok := reservedWords[name]
	return ok
}
