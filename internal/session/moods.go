package session

// Mood pairs a display name with the genres it maps to. The first genre
// is the one a mood search actually runs with.
type Mood struct {
	Name   string
	Genres []string
}

var moods = []Mood{
	{"😄 Funny", []string{"Comedy", "Comedy-Drama"}},
	{"💕 Romantic", []string{"Romance", "Romantic Comedy"}},
	{"💥 Action-Packed", []string{"Action", "Adventure", "Thriller"}},
	{"👻 Scary", []string{"Horror", "Thriller"}},
	{"🎭 Dramatic", []string{"Drama", "Biography"}},
	{"🚀 Sci-Fi", []string{"Sci-Fi", "Fantasy"}},
	{"🎵 Musical", []string{"Music", "Musical"}},
	{"🕵️ Mystery", []string{"Mystery", "Crime"}},
	{"🏆 Inspiring", []string{"Biography", "Drama", "Sport"}},
	{"🎨 Artistic", []string{"Drama", "Biography", "Film-Noir"}},
}

// Moods returns the mood taxonomy in display order.
func Moods() []Mood {
	out := make([]Mood, len(moods))
	copy(out, moods)
	return out
}

// MoodGenres returns the genre candidates for a mood name.
func MoodGenres(name string) ([]string, bool) {
	for _, m := range moods {
		if m.Name == name {
			return m.Genres, true
		}
	}
	return nil, false
}
