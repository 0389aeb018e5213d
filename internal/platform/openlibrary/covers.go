package openlibrary

const (
	coversBaseURL = "https://covers.openlibrary.org/b/isbn/"
	mediumSuffix  = "-M.jpg"
)

// CoverURL returns the medium cover image URL for an ISBN. The ISBN is not
// validated or escaped; an unknown ISBN simply fails to load in the browser.
func CoverURL(isbn string) string {
	return coversBaseURL + isbn + mediumSuffix
}

// CoverURLs maps each ISBN to its cover URL, preserving order.
func CoverURLs(isbns []string) []string {
	out := make([]string, len(isbns))
	for i, isbn := range isbns {
		out[i] = CoverURL(isbn)
	}
	return out
}
