// Package grade classifies the catalog's free-text grade strings into a
// small closed set of canonical buckets. Adjacent school grades are paired
// ("Grade 5", "grade 5-6", "5th & 6th grade" all land in grade5-6).
package grade

import "strings"

// Bucket is a canonical grade bucket id.
type Bucket string

const (
	Preschool   Bucket = "preschool"
	Grade1To2   Bucket = "grade1-2"
	Grade3To4   Bucket = "grade3-4"
	Grade5To6   Bucket = "grade5-6"
	Grade7To8   Bucket = "grade7-8"
	Grade9To10  Bucket = "grade9-10"
	Grade11To12 Bucket = "grade11-12"
	UGAndPG     Bucket = "undergraduate-graduate"
)

var labels = map[Bucket]string{
	Preschool:   "Preschool",
	Grade1To2:   "Grade 1-2",
	Grade3To4:   "Grade 3-4",
	Grade5To6:   "Grade 5-6",
	Grade7To8:   "Grade 7-8",
	Grade9To10:  "Grade 9-10",
	Grade11To12: "Grade 11-12",
	UGAndPG:     "Undergraduate & Graduate",
}

// Label returns the display label for the bucket.
func (b Bucket) Label() string {
	if l, ok := labels[b]; ok {
		return l
	}
	return string(b)
}

// All lists the buckets in school order.
func All() []Bucket {
	return []Bucket{
		Preschool, Grade1To2, Grade3To4, Grade5To6,
		Grade7To8, Grade9To10, Grade11To12, UGAndPG,
	}
}

var gradePairs = map[string]Bucket{
	"1": Grade1To2, "2": Grade1To2,
	"3": Grade3To4, "4": Grade3To4,
	"5": Grade5To6, "6": Grade5To6,
	"7": Grade7To8, "8": Grade7To8,
	"9": Grade9To10, "10": Grade9To10,
	"11": Grade11To12, "12": Grade11To12,
}

// Classify maps a raw grade string to its bucket. ok=false means no bucket
// matched; callers exclude such records from grade aggregation instead of
// treating it as an error.
func Classify(raw string) (Bucket, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", false
	}

	switch {
	case strings.Contains(s, "preschool"),
		strings.Contains(s, "pre-school"),
		strings.Contains(s, "pre school"),
		strings.Contains(s, "kindergarten"):
		return Preschool, true
	case strings.Contains(s, "undergraduate"),
		strings.Contains(s, "graduate"),
		strings.Contains(s, "college"):
		return UGAndPG, true
	}

	// two-letter aliases match whole tokens only; a substring scan would
	// fire on words like "august" or "upgrade"
	for _, tok := range strings.FieldsFunc(s, isSep) {
		if tok == "ug" || tok == "pg" {
			return UGAndPG, true
		}
	}

	// highest grade number mentioned wins, so "grade 1" inside
	// "grade 10-12" cannot misfire
	best := ""
	for _, tok := range strings.FieldsFunc(s, isSep) {
		n := digits(tok)
		if n == "" {
			continue
		}
		if _, ok := gradePairs[n]; !ok {
			continue
		}
		if len(n) > len(best) || (len(n) == len(best) && n > best) {
			best = n
		}
	}
	if best != "" {
		return gradePairs[best], true
	}

	return "", false
}

func isSep(r rune) bool {
	return r == ' ' || r == '-' || r == ',' || r == '&' || r == '/' || r == '(' || r == ')'
}

func digits(tok string) string {
	var b strings.Builder
	for _, r := range tok {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
