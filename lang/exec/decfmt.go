package exec

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// decimalPattern is a parsed decimal format pattern such as "#,##0.00" or
// "0.###%". Only the positive subpattern is used; a negative number is
// rendered with a leading minus sign.
type decimalPattern struct {
	prefix, suffix string
	minInt         int
	minFrac        int
	maxFrac        int
	maxInt         int
	grouping       int
	minExp         int // exponent digits; 0 for plain notation
	alwaysPoint    bool
	percent        bool
}

// parseDecimalPattern parses the subset of decimal patterns made of literal
// prefix and suffix text, the digit placeholders '0' and '#', the grouping
// separator ',', the decimal separator '.', an exponent 'E' followed by its
// minimum digit count as '0's, and '%'. Text inside single
// quotes is literal, and two adjacent single quotes stand for one.
func parseDecimalPattern(pattern string) (decimalPattern, error) {
	var (
		p       decimalPattern
		pre     strings.Builder
		suf     strings.Builder
		phase   int // 0 prefix, 1 number, 2 suffix
		quoted  bool
		digits  int
		comma   = -1
		inFrac  bool
		optFrac bool
	)

	bad := func(reason string) (decimalPattern, error) {
		return decimalPattern{}, ErrDecimalPattern.With(
			slog.String("pattern", pattern),
			slog.String("reason", reason),
		)
	}

	rs := []rune(pattern)
	if i := strings.IndexRune(pattern, ';'); i >= 0 {
		rs = []rune(pattern[:i])
	}

	for i := 0; i < len(rs); i++ {
		c := rs[i]

		literal := &pre
		if phase == 2 {
			literal = &suf
		}

		if c == '\'' {
			if i+1 < len(rs) && rs[i+1] == '\'' {
				i++
				literal.WriteRune('\'')

				continue
			}

			if phase == 1 {
				phase = 2
				literal = &suf
			}

			quoted = !quoted

			continue
		}

		if quoted {
			literal.WriteRune(c)

			continue
		}

		if c == '%' {
			if p.percent {
				return bad("multiple percent signs")
			}

			p.percent = true

			if phase == 1 {
				phase = 2
				literal = &suf
			}

			literal.WriteRune(c)

			continue
		}

		if c == 'E' && phase == 1 {
			for i+1 < len(rs) && rs[i+1] == '0' {
				p.minExp++
				i++
			}

			if p.minExp == 0 {
				return bad("exponent without digits")
			}

			phase = 2

			continue
		}

		isNum := strings.ContainsRune("0#,.", c)

		switch {
		case isNum && phase == 2:
			return bad("digit after suffix")

		case !isNum && phase == 1:
			phase = 2
			suf.WriteRune(c)

			continue

		case !isNum:
			pre.WriteRune(c)

			continue
		}

		phase = 1

		switch c {
		case '0':
			if inFrac {
				if optFrac {
					return bad("'0' after '#' in fraction")
				}

				p.minFrac++
				p.maxFrac++
			} else {
				p.minInt++
				digits++
			}

		case '#':
			if inFrac {
				optFrac = true
				p.maxFrac++
			} else {
				if p.minInt > 0 {
					return bad("'#' after '0' in integer part")
				}

				digits++
			}

		case ',':
			if inFrac {
				return bad("grouping separator in fraction")
			}

			comma = digits

		case '.':
			if inFrac {
				return bad("multiple decimal separators")
			}

			inFrac = true
		}
	}

	if quoted {
		return bad("unterminated quote")
	}

	if digits == 0 && p.maxFrac == 0 {
		return bad("no digit placeholders")
	}

	if comma >= 0 && p.minExp > 0 {
		return bad("grouping separator with exponent")
	}

	p.maxInt = digits

	if comma >= 0 {
		if p.grouping = digits - comma; p.grouping == 0 {
			return bad("grouping separator at end of integer part")
		}
	}

	p.alwaysPoint = inFrac && p.maxFrac == 0
	p.prefix, p.suffix = pre.String(), suf.String()

	return p, nil
}

// format renders f. Fraction digits are rounded half-even on the shortest
// decimal representation of f.
func (p decimalPattern) format(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}

	sign := ""
	if math.Signbit(f) {
		sign = "-"
	}

	if p.percent {
		f *= 100
	}

	if math.IsInf(f, 0) {
		return sign + p.prefix + "∞" + p.suffix
	}

	if p.minExp > 0 {
		return sign + p.prefix + p.scientific(math.Abs(f)) + p.suffix
	}

	whole, frac := p.digits(math.Abs(f))

	if len(frac) < p.minFrac {
		frac += strings.Repeat("0", p.minFrac-len(frac))
	}

	if len(whole) < p.minInt {
		whole = strings.Repeat("0", p.minInt-len(whole)) + whole
	}

	if whole == "" && frac == "" {
		whole = "0"
	}

	var b strings.Builder

	b.WriteString(sign)
	b.WriteString(p.prefix)
	b.WriteString(group(whole, p.grouping))

	if frac != "" || p.alwaysPoint {
		b.WriteByte('.')
		b.WriteString(frac)
	}

	b.WriteString(p.suffix)

	return b.String()
}

// digits returns the integer digits of f without leading zeros and the
// fraction digits of f rounded to maxFrac places without trailing zeros.
func (p decimalPattern) digits(f float64) (string, string) {
	if f == 0 {
		return "", ""
	}

	mant, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	ds := strings.Replace(mant, ".", "", 1)

	e, _ := strconv.Atoi(exp)
	point := e + 1 // number of digits before the decimal point

	if keep := point + p.maxFrac; keep < len(ds) {
		if keep < 0 {
			return "", ""
		}

		ds, point = roundHalfEven(ds, keep, point)
	}

	var whole, frac string

	switch {
	case point <= 0:
		frac = strings.Repeat("0", -point) + ds
	case point >= len(ds):
		whole = ds + strings.Repeat("0", point-len(ds))
	default:
		whole, frac = ds[:point], ds[point:]
	}

	whole = strings.TrimLeft(whole, "0")
	frac = strings.TrimRight(frac, "0")

	return whole, frac
}

// scientific renders f, which is finite and not negative, as a mantissa
// and an exponent. When the integer part allows more digits than it requires
// and more than one, the exponent is a multiple of that maximum and the
// mantissa keeps minInt+maxFrac significant digits. Otherwise the mantissa
// has exactly minInt integer digits.
func (p decimalPattern) scientific(f float64) string {
	ds, point := "0", 1
	if f != 0 {
		mant, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
		ds = strings.Replace(mant, ".", "", 1)

		e, _ := strconv.Atoi(exp)
		point = e + 1
	}

	engineering := p.maxInt > p.minInt && p.maxInt > 1

	var intDigits, exp int

	if engineering {
		sig := max(p.minInt, 1) + p.maxFrac
		if sig < len(ds) {
			ds, point = roundHalfEven(ds, sig, point)
		}

		exp = floorDiv(point-1, p.maxInt) * p.maxInt
		intDigits = point - exp
	} else {
		intDigits = p.minInt
		if keep := intDigits + p.maxFrac; keep < len(ds) {
			ds, point = roundHalfEven(ds, max(keep, 1), point)
		}

		exp = point - intDigits
	}

	if f == 0 {
		exp = 0
	}

	if len(ds) < intDigits {
		ds += strings.Repeat("0", intDigits-len(ds))
	}

	whole, frac := ds[:intDigits], strings.TrimRight(ds[intDigits:], "0")
	if len(frac) > p.maxFrac {
		frac = frac[:p.maxFrac]
	}

	if len(frac) < p.minFrac {
		frac += strings.Repeat("0", p.minFrac-len(frac))
	}

	if whole == "" && frac == "" {
		whole = "0"
	}

	var b strings.Builder

	b.WriteString(whole)

	if frac != "" || p.alwaysPoint {
		b.WriteByte('.')
		b.WriteString(frac)
	}

	b.WriteByte('E')

	if exp < 0 {
		b.WriteByte('-')
		exp = -exp
	}

	e := strconv.Itoa(exp)
	if len(e) < p.minExp {
		b.WriteString(strings.Repeat("0", p.minExp-len(e)))
	}

	b.WriteString(e)

	return b.String()
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}

	return q
}

// roundHalfEven rounds the digit string ds to its first keep digits. point
// is the position of the decimal point within ds and is adjusted when
// rounding carries into a new leading digit.
func roundHalfEven(ds string, keep, point int) (string, int) {
	kept, rest := []byte(ds[:keep]), ds[keep:]

	up := false

	switch {
	case rest[0] > '5':
		up = true
	case rest[0] < '5':
		up = false
	case strings.TrimRight(rest[1:], "0") != "":
		up = true
	default:
		up = keep > 0 && (kept[keep-1]-'0')%2 == 1
	}

	if !up {
		return string(kept), point
	}

	for i := len(kept) - 1; i >= 0; i-- {
		if kept[i] < '9' {
			kept[i]++

			return string(kept), point
		}

		kept[i] = '0'
	}

	return "1" + string(kept), point + 1
}

// group inserts a comma every size digits from the right of s.
func group(s string, size int) string {
	if size <= 0 || len(s) <= size {
		return s
	}

	var b strings.Builder

	lead := len(s) % size
	if lead > 0 {
		b.WriteString(s[:lead])
	}

	for i := lead; i < len(s); i += size {
		if b.Len() > 0 {
			b.WriteByte(',')
		}

		b.WriteString(s[i : i+size])
	}

	return b.String()
}

// FormatDecimal formats f according to a decimal pattern.
func FormatDecimal(pattern string, f float64) (string, error) {
	p, err := parseDecimalPattern(pattern)
	if err != nil {
		return "", err
	}

	return p.format(f), nil
}
