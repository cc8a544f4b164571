package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// BalanceParser turns pasted party-hunt or transfer text into the balance
// actually attributable to one character. Pluggable so the keyword heuristics
// below can be swapped without touching the classifier.
type BalanceParser interface {
	Parse(text string) int
}

var (
	transferPosRe = regexp.MustCompile(`(?i)(received|get|from|credit|deposit)`)
	transferNegRe = regexp.MustCompile(`(?i)(paid|sent|to|debit|withdraw)`)
	numberRe      = regexp.MustCompile(`[-+]?\d{1,3}(?:[.,]\d{3})*(?:[.,]\d+)?|[-+]?\d+`)
	balanceLineRe = regexp.MustCompile(`(?i)Balance\s*:\s*([-+]?\d{1,3}(?:[.,]\d{3})*(?:[.,]\d+)?|[-+]?\d+)`)
)

// KeywordBalanceParser is the default strategy. Two formats are recognized:
//
//  1. A party-hunt summary: the first unindented "Balance:" line is the
//     session total, indented "Balance:" lines belong to members, and the
//     per-character balance is total divided by member count.
//  2. Free-text transfers: lines mentioning received/credit/... add their
//     first number, lines mentioning paid/sent/... subtract it.
type KeywordBalanceParser struct{}

func (KeywordBalanceParser) Parse(text string) int {
	lines := strings.Split(text, "\n")

	var sessionTotal *int
	memberCount := 0
	for _, line := range lines {
		m := balanceLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		val := plainInt(m[1])
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent == 0 && sessionTotal == nil {
			sessionTotal = &val
		} else {
			memberCount++
		}
	}
	if sessionTotal != nil {
		divisor := memberCount
		if divisor == 0 {
			divisor = 1
		}
		return int(math.Round(float64(*sessionTotal) / float64(divisor)))
	}

	total := 0
	for _, line := range lines {
		hasPos := transferPosRe.MatchString(line)
		hasNeg := transferNegRe.MatchString(line)
		if !hasPos && !hasNeg {
			continue
		}
		num := numberRe.FindString(line)
		if num == "" {
			continue
		}
		amount := plainInt(num)
		if hasNeg && !hasPos {
			total -= amount
		} else {
			total += amount
		}
	}
	return total
}

// plainInt parses a number string after dropping thousand separators.
func plainInt(s string) int {
	s = strings.NewReplacer(".", "", ",", "", "+", "").Replace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
