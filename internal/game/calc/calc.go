// Package calc is the chat calculator: it evaluates the first "a op b" it
// finds in a message and answers overflow with a joke instead of an error.
package calc

import (
	"math"
	"regexp"
	"strconv"
)

var exprPattern = regexp.MustCompile(`\s*(\d+)\s*([+\-*/])\s*(\d+)`)

// Replies for results that do not fit or cannot be parsed.
const (
	MulOverflowText = "Um... no, but nice try."
	DivFailText     = "153. xD"
	SubOverflowText = "...why."
	AddOverflowText = "Great work, you rolled a 255!"
	ParseFailText   = "Parse failure..."
)

// Eval evaluates the first binary expression in s.
//
// Postcondition: Returns the decimal result or one of the reply constants.
func Eval(s string) string {
	m := exprPattern.FindStringSubmatch(s)
	if m == nil {
		return ParseFailText
	}
	a, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return ParseFailText
	}
	b, err := strconv.ParseInt(m[3], 10, 64)
	if err != nil {
		return ParseFailText
	}
	var (
		v        int64
		ok       bool
		fallback string
	)
	switch m[2] {
	case "*":
		v, ok = checkedMul(a, b)
		fallback = MulOverflowText
	case "/":
		v, ok = checkedDiv(a, b)
		fallback = DivFailText
	case "-":
		v, ok = checkedSub(a, b)
		fallback = SubOverflowText
	default:
		v, ok = checkedAdd(a, b)
		fallback = AddOverflowText
	}
	if !ok {
		return fallback
	}
	return strconv.FormatInt(v, 10)
}

// Reply formats the chat answer for the expression args.
func Reply(args string) string {
	return args + " -> " + Eval(args)
}

func checkedAdd(a, b int64) (int64, bool) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, false
	}
	return a + b, true
}

func checkedSub(a, b int64) (int64, bool) {
	if (b < 0 && a > math.MaxInt64+b) || (b > 0 && a < math.MinInt64+b) {
		return 0, false
	}
	return a - b, true
}

func checkedMul(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	c := a * b
	if c/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	return c, true
}

func checkedDiv(a, b int64) (int64, bool) {
	if b == 0 || (a == math.MinInt64 && b == -1) {
		return 0, false
	}
	return a / b, true
}
