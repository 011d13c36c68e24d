package validation

// checkCpf runs the two-stage CPF check-digit algorithm. Each stage is a
// weighted sum taken mod 11, with a remainder of 10 or 11 mapped to 0.
// Sequences of 11 identical digits are rejected even when the arithmetic
// happens to hold.
func checkCpf(cpf string) Result {
	digits, ok := toDigits(cpf, 11)
	if !ok {
		return fail("CPF must be an 11-digit numeric string")
	}
	if allSame(digits) {
		return fail("CPF cannot be a sequence of identical digits")
	}
	if cpfDigit(digits[:9], 10) != digits[9] {
		return fail("CPF first check digit is invalid")
	}
	if cpfDigit(digits[:10], 11) != digits[10] {
		return fail("CPF second check digit is invalid")
	}
	return pass()
}

// cpfDigit computes one check digit over the leading digits, weighting the
// first digit by firstWeight and descending to 2.
func cpfDigit(digits []int, firstWeight int) int {
	sum := 0
	for i, d := range digits {
		sum += d * (firstWeight - i)
	}
	rem := sum * 10 % 11
	if rem >= 10 {
		rem = 0
	}
	return rem
}

func toDigits(s string, length int) ([]int, bool) {
	if len(s) != length {
		return nil, false
	}
	digits := make([]int, length)
	for i, c := range s {
		if c < '0' || c > '9' {
			return nil, false
		}
		digits[i] = int(c - '0')
	}
	return digits, true
}

func allSame(digits []int) bool {
	for _, d := range digits[1:] {
		if d != digits[0] {
			return false
		}
	}
	return true
}
