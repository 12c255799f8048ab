package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoDescription is returned when the description carries nothing a code
// could be built from. Such a row is rejected at validation time.
var ErrNoDescription = errors.New("description required for code generation")

// Packaging and filler words skipped when picking significant words.
var stopWords = map[string]struct{}{
	"JAR": {}, "BOTTLE": {}, "POUCH": {}, "PACK": {}, "PACKET": {},
	"BOX": {}, "TIN": {}, "CARTON": {}, "CTN": {}, "BAG": {}, "PET": {},
	"CAN": {}, "CASE": {}, "DRUM": {}, "BUCKET": {}, "TRAY": {},
	"OF": {}, "IN": {}, "WITH": {}, "AND": {}, "THE": {},
}

var unitWords = map[string]struct{}{
	"KG": {}, "GM": {}, "GMS": {}, "G": {}, "ML": {}, "LTR": {}, "L": {},
	"PCS": {}, "PC": {}, "NOS": {}, "OZ": {}, "LB": {},
}

var (
	// "2 x 5 Kg", "12*200 GM"
	multiSizePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*[X*]\s*(\d+(?:\.\d+)?)\s*(KG|GMS|GM|G|ML|LTR|L|PCS|PC|NOS|OZ|LB)\b`)
	// "20 Kg", "500GM"
	singleSizePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(KG|GMS|GM|G|ML|LTR|L|PCS|PC|NOS|OZ|LB)\b`)

	nonLetter = regexp.MustCompile(`[^A-Z]+`)
)

// GenerateUniqueCode derives a short item code from a free-text
// description: a brand token from the first significant word, up to three
// consonant-led initials from the following significant words, and a
// weight/size token when the description carries one. If the base code
// collides with the supplied set, -1, -2, ... is appended until unique.
//
// Pure function: the caller supplies every known code, including any
// allocated earlier in the same batch.
func GenerateUniqueCode(description string, existing map[string]struct{}) (string, error) {
	base, err := baseCode(description)
	if err != nil {
		return "", err
	}

	if _, taken := existing[base]; !taken {
		return base, nil
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if _, taken := existing[candidate]; !taken {
			return candidate, nil
		}
	}
}

func baseCode(description string) (string, error) {
	desc := strings.ToUpper(strings.TrimSpace(description))
	if desc == "" {
		return "", ErrNoDescription
	}

	desc, size := extractSizeToken(desc)

	var brand string
	var initials []string
	for _, word := range strings.Fields(nonLetter.ReplaceAllString(desc, " ")) {
		if _, skip := stopWords[word]; skip {
			continue
		}
		if _, skip := unitWords[word]; skip {
			continue
		}
		if brand == "" {
			if len(word) > 3 {
				word = word[:3]
			}
			brand = word
			continue
		}
		if len(initials) < 3 && !isVowel(word[0]) {
			initials = append(initials, word[:1])
		}
	}

	if brand == "" {
		return "", ErrNoDescription
	}

	return brand + strings.Join(initials, "") + size, nil
}

// extractSizeToken pulls the first "N x SIZE UNIT" or "SIZE UNIT" form out
// of the description and returns the remaining text plus the compact token
// ("2X5KG", "20KG"). The multi form is tried first so "2 x 5 Kg" never
// degrades to "5KG".
func extractSizeToken(desc string) (string, string) {
	if m := multiSizePattern.FindStringSubmatchIndex(desc); m != nil {
		groups := multiSizePattern.FindStringSubmatch(desc)
		token := groups[1] + "X" + groups[2] + groups[3]
		return desc[:m[0]] + " " + desc[m[1]:], token
	}
	if m := singleSizePattern.FindStringSubmatchIndex(desc); m != nil {
		groups := singleSizePattern.FindStringSubmatch(desc)
		token := groups[1] + groups[2]
		return desc[:m[0]] + " " + desc[m[1]:], token
	}
	return desc, ""
}

func isVowel(b byte) bool {
	switch b {
	case 'A', 'E', 'I', 'O', 'U':
		return true
	}
	return false
}
