package region

// DisplayInfo carries presentation metadata for a region label
type DisplayInfo struct {
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
	FullName    string `json:"full_name"`
}

// curated holds display metadata for the regions the discovery surface
// advertises; labels outside this set fall back to a generic globe
var curated = map[Label]DisplayInfo{
	Bollywood: {Emoji: "🇮🇳", Description: "Indian Cinema"},
	Hollywood: {Emoji: "🇺🇸", Description: "American Cinema"},
	British:   {Emoji: "🇬🇧", Description: "British Cinema"},
	Korean:    {Emoji: "🇰🇷", Description: "Korean Cinema"},
	Japanese:  {Emoji: "🇯🇵", Description: "Japanese Cinema"},
	French:    {Emoji: "🇫🇷", Description: "French Cinema"},
	German:    {Emoji: "🇩🇪", Description: "German Cinema"},
	Spanish:   {Emoji: "🇪🇸", Description: "Spanish Cinema"},
	Italian:   {Emoji: "🇮🇹", Description: "Italian Cinema"},
	Chinese:   {Emoji: "🇨🇳", Description: "Chinese Cinema"},
}

// curatedOrder fixes the order the discovery surface lists regions in
var curatedOrder = []Label{
	Bollywood, Hollywood, British, Korean, Japanese,
	French, German, Spanish, Italian, Chinese,
}

// Display returns presentation metadata for a label. Labels without
// curated metadata get a globe glyph and the raw label as description.
func Display(label Label) DisplayInfo {
	info, ok := curated[label]
	if !ok {
		return DisplayInfo{
			Emoji:       "🌍",
			Description: string(label),
			FullName:    "🌍 " + string(label),
		}
	}
	info.FullName = info.Emoji + " " + string(label)
	return info
}

// Curated returns the advertised region labels in display order
func Curated() []Label {
	out := make([]Label, len(curatedOrder))
	copy(out, curatedOrder)
	return out
}

// proxyTerms lists the country/city/demonym search terms used to
// discover movies from a region; the catalog has no regional filter so
// these act as a recall mechanism
var proxyTerms = map[Label][]string{
	Bollywood: {"India", "Hindi", "Bollywood", "Mumbai", "Delhi"},
	Hollywood: {"America", "USA", "Hollywood", "California", "New York"},
	British:   {"Britain", "England", "London", "Manchester", "Liverpool"},
	Korean:    {"Korea", "Seoul", "Korean", "South Korea", "Busan"},
	Japanese:  {"Japan", "Tokyo", "Japanese", "Osaka", "Kyoto"},
	German:    {"Germany", "Berlin", "German", "Munich", "Hamburg"},
	French:    {"France", "Paris", "French", "Lyon", "Marseille"},
	Spanish:   {"Spain", "Madrid", "Spanish", "Barcelona", "Mexico"},
	Italian:   {"Italy", "Rome", "Italian", "Milan", "Naples"},
	Chinese:   {"China", "Beijing", "Chinese", "Hong Kong", "Taiwan"},
}

// ProxyTerms returns the proxy search terms for a region, falling back
// to the label itself for regions without a curated list
func ProxyTerms(label Label) []string {
	terms, ok := proxyTerms[label]
	if !ok {
		return []string{string(label)}
	}
	out := make([]string, len(terms))
	copy(out, terms)
	return out
}
