package library

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"tunedeck/internal/core"
)

// bucketLetters is the fixed display order of favorite groups: the
// non-letter bucket first, then A through Z.
const bucketLetters = "#ABCDEFGHIJKLMNOPQRSTUVWXYZ"

var upper = cases.Upper(language.Und)

// LetterGroup is one displayed bucket of favorites.
type LetterGroup struct {
	Letter string
	Tracks []core.Track
}

// GroupedFavorites buckets favorites by the uppercased first character of
// the title: A-Z for letters, "#" for everything else. Buckets come back in
// fixed alphabetical order with "#" first, empty buckets suppressed, and
// tracks keeping their favorites-sequence order within each bucket.
func (s *Store) GroupedFavorites() []LetterGroup {
	buckets := make(map[string][]core.Track, len(bucketLetters))
	for _, t := range s.favorites {
		letter := bucketFor(t.Title)
		buckets[letter] = append(buckets[letter], t)
	}

	groups := make([]LetterGroup, 0, len(buckets))
	for _, r := range bucketLetters {
		letter := string(r)
		if tracks := buckets[letter]; len(tracks) > 0 {
			groups = append(groups, LetterGroup{Letter: letter, Tracks: tracks})
		}
	}
	return groups
}

func bucketFor(title string) string {
	runes := []rune(title)
	if len(runes) == 0 {
		return "#"
	}
	first := upper.String(string(runes[0]))
	if len(first) == 1 && first[0] >= 'A' && first[0] <= 'Z' {
		return first
	}
	return "#"
}
