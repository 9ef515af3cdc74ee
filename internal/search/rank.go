package search

import (
	"math/rand"
	"sort"

	"github.com/glefebvre/cinescout/internal/models"
)

// popularSearchTerms maps each genre to seed titles that reliably pull
// well-known, highly rated results out of the catalog.
var popularSearchTerms = map[string][]string{
	"Action": {
		"The Dark Knight", "Inception", "Mad Max", "John Wick", "Mission Impossible",
		"Avengers", "Fast and Furious", "Terminator", "Die Hard", "Matrix",
	},
	"Comedy": {
		"The Hangover", "Superbad", "Anchorman", "Step Brothers", "Tropic Thunder",
		"Dumb and Dumber", "Meet the Parents", "Rush Hour", "Austin Powers", "Borat",
	},
	"Horror": {
		"The Conjuring", "Get Out", "Hereditary", "A Quiet Place", "The Babadook",
		"It", "The Shining", "Halloween", "Scream", "A Nightmare on Elm Street",
	},
	"Drama": {
		"The Shawshank Redemption", "Forrest Gump", "The Godfather", "Pulp Fiction", "Schindler's List",
		"Goodfellas", "Casablanca", "Citizen Kane", "The Wizard of Oz", "Gone with the Wind",
	},
	"Romance": {
		"The Notebook", "Titanic", "Casablanca", "When Harry Met Sally", "Pretty Woman",
		"Sleepless in Seattle", "You've Got Mail", "The Princess Bride", "Ghost", "Dirty Dancing",
	},
	"Sci-Fi": {
		"Star Wars", "Blade Runner", "Alien", "The Matrix", "Interstellar",
		"Avatar", "Terminator", "Back to the Future", "E.T.", "Close Encounters",
	},
	"Thriller": {
		"Se7en", "Silence of the Lambs", "Psycho", "The Usual Suspects", "Memento",
		"Zodiac", "Gone Girl", "No Country for Old Men", "The Sixth Sense", "Vertigo",
	},
	"Animation": {
		"Toy Story", "Finding Nemo", "The Lion King", "Spirited Away", "Up",
		"WALL-E", "Inside Out", "Coco", "Moana", "Frozen",
	},
	"Adventure": {
		"Indiana Jones", "Pirates of the Caribbean", "Jurassic Park", "The Lord of the Rings", "Avatar",
		"Star Wars", "Back to the Future", "National Treasure", "Jumanji", "The Mummy",
	},
	"Crime": {
		"The Godfather", "Goodfellas", "Pulp Fiction", "Casino", "Scarface",
		"Heat", "The Departed", "L.A. Confidential", "Chinatown", "The Usual Suspects",
	},
	"Biography": {
		"Schindler's List", "Forrest Gump", "The Pursuit of Happyness", "The Social Network", "Catch Me If You Can",
		"A Beautiful Mind", "The King's Speech", "Lincoln", "The Theory of Everything", "Hidden Figures",
	},
	"Family": {
		"The Lion King", "Finding Nemo", "Toy Story", "Up", "Moana",
		"Frozen", "Inside Out", "Coco", "The Incredibles", "Ratatouille",
	},
	"Fantasy": {
		"The Lord of the Rings", "Harry Potter", "The Chronicles of Narnia", "Pan's Labyrinth", "Big Fish",
		"The Princess Bride", "Edward Scissorhands", "Beetlejuice", "The Nightmare Before Christmas", "Labyrinth",
	},
	"History": {
		"Schindler's List", "Saving Private Ryan", "Braveheart", "Gladiator", "The Patriot",
		"Lincoln", "Dunkirk", "Apollo 13", "The Last Samurai", "Master and Commander",
	},
	"Music": {
		"Bohemian Rhapsody", "A Star Is Born", "La La Land", "Mamma Mia", "The Greatest Showman",
		"Rocketman", "Whiplash", "Begin Again", "Sing Street", "Pitch Perfect",
	},
	"Musical": {
		"The Sound of Music", "West Side Story", "Grease", "Mamma Mia", "La La Land",
		"The Greatest Showman", "Chicago", "Moulin Rouge", "Hairspray", "Les Misérables",
	},
	"Mystery": {
		"The Sixth Sense", "The Usual Suspects", "Gone Girl", "Shutter Island", "Prisoners",
		"Zodiac", "Memento", "The Prestige", "Se7en", "Vertigo",
	},
	"Sport": {
		"Rocky", "Remember the Titans", "Rudy", "The Blind Side", "Moneyball",
		"Field of Dreams", "Chariots of Fire", "Seabiscuit", "Miracle", "Invictus",
	},
	"War": {
		"Saving Private Ryan", "Apocalypse Now", "Full Metal Jacket", "The Hurt Locker", "Dunkirk",
		"1917", "Platoon", "Black Hawk Down", "We Were Soldiers", "Letters from Iwo Jima",
	},
	"Western": {
		"The Good, the Bad and the Ugly", "Once Upon a Time in the West", "Unforgiven", "True Grit", "Django Unchained",
		"The Magnificent Seven", "High Noon", "Shane", "Butch Cassidy and the Sundance Kid", "The Searchers",
	},
	"Documentary": {
		"Bowling for Columbine", "Fahrenheit 9/11", "March of the Penguins", "An Inconvenient Truth", "Super Size Me",
		"The Cove", "Blackfish", "Amy", "OJ: Made in America", "13th",
	},
	"Film-Noir": {
		"Double Indemnity", "The Maltese Falcon", "Casablanca", "Sunset Boulevard", "The Third Man",
		"Touch of Evil", "The Big Sleep", "Mildred Pierce", "Out of the Past", "Gilda",
	},
}

// Genres returns all genres with a curated term pool, sorted alphabetically.
func Genres() []string {
	genres := make([]string, 0, len(popularSearchTerms))
	for genre := range popularSearchTerms {
		genres = append(genres, genre)
	}
	sort.Strings(genres)
	return genres
}

// HasTermPool reports whether a curated term pool exists for the genre.
func HasTermPool(genre string) bool {
	_, ok := popularSearchTerms[genre]
	return ok
}

// SampleTerms picks up to n random seed terms for a genre. A genre with
// no pool falls back to the genre name itself as the single term.
func SampleTerms(genre string, n int) []string {
	pool, ok := popularSearchTerms[genre]
	if !ok {
		return []string{genre}
	}
	if n > len(pool) {
		n = len(pool)
	}
	shuffled := make([]string, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n]
}

// Dedupe removes repeated IMDb ids, keeping the first occurrence of each.
func Dedupe(movies []models.MovieSummary) []models.MovieSummary {
	seen := make(map[string]struct{}, len(movies))
	unique := make([]models.MovieSummary, 0, len(movies))
	for _, m := range movies {
		if _, ok := seen[m.ImdbID]; ok {
			continue
		}
		seen[m.ImdbID] = struct{}{}
		unique = append(unique, m)
	}
	return unique
}

// RankByRating orders movies by rating, highest first. Ratings that do
// not parse (including "N/A") sort as zero. Equal ratings keep their
// incoming order.
func RankByRating(movies []models.EnrichedMovie) []models.EnrichedMovie {
	sort.SliceStable(movies, func(i, j int) bool {
		return movies[i].RatingValue() > movies[j].RatingValue()
	})
	return movies
}

// TopN returns at most n movies from the front of the slice.
func TopN(movies []models.EnrichedMovie, n int) []models.EnrichedMovie {
	if n <= 0 {
		return nil
	}
	if len(movies) <= n {
		return movies
	}
	return movies[:n]
}
