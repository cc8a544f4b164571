package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var levelRangeRe = regexp.MustCompile(`^(\d+)\s*-(\d+)$`)
var digitsRe = regexp.MustCompile(`\d+`)

// ParseLevel resolves a raw level value into a bucket label and its bounds.
// "101-150" keeps its label; a single level becomes a degenerate bucket; an
// unparseable value keeps its trimmed label with (-1, -1) bounds.
func ParseLevel(v any) (bucket string, min, max int) {
	bucket = strings.TrimSpace(stringify(v))
	min, max = -1, -1
	if bucket == "" {
		return "", -1, -1
	}
	if m := levelRangeRe.FindStringSubmatch(bucket); m != nil {
		min, _ = strconv.Atoi(m[1])
		max, _ = strconv.Atoi(m[2])
		return bucket, min, max
	}
	if d := digitsRe.FindString(bucket); d != "" {
		n, err := strconv.Atoi(d)
		if err == nil {
			return strconv.Itoa(n), n, n
		}
	}
	return bucket, -1, -1
}

// LevelBuckets is the fixed bucket ladder offered for level edits: four
// starter ranges, 50-wide buckets up to level 1000, then 100-wide up to 2000.
func LevelBuckets() []string {
	buckets := []string{"8-25", "26-50", "51-75", "76-100"}
	for start := 101; start <= 951; start += 50 {
		buckets = append(buckets, fmt.Sprintf("%d-%d", start, start+49))
	}
	for start := 1001; start <= 1901; start += 100 {
		buckets = append(buckets, fmt.Sprintf("%d-%d", start, start+99))
	}
	return buckets
}
