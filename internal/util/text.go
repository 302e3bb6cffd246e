package util

import "strings"

// MakeTextList gives a nice comma/oxford-comma joined list of items based on
// their display name.
func MakeTextList(items []string) string {
	if len(items) < 1 {
		return ""
	}

	if len(items) == 1 {
		return items[0]
	}
	if len(items) == 2 {
		return items[0] + " and " + items[1]
	}

	cp := make([]string, len(items))
	copy(cp, items)
	cp[len(cp)-1] = "and " + cp[len(cp)-1]
	return strings.Join(cp, ", ")
}

// ArticleFor returns "a" or "an" depending on whether the given word begins
// with a vowel sound. If capital is true, the article is capitalized.
func ArticleFor(word string, capital bool) string {
	article := "a"
	if len(word) > 0 {
		switch strings.ToLower(word)[0] {
		case 'a', 'e', 'i', 'o', 'u':
			article = "an"
		}
	}
	if capital {
		return strings.ToUpper(article[:1]) + article[1:]
	}
	return article
}
