package validation

var (
	cnpjWeightsFirst  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeightsSecond = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// checkCnpj runs the two CNPJ check-digit passes. A remainder below 2 yields
// digit 0, otherwise the digit is 11 minus the remainder. Sequences of 14
// identical digits are rejected.
func checkCnpj(cnpj string) Result {
	digits, ok := toDigits(cnpj, 14)
	if !ok {
		return fail("CNPJ must be a 14-digit numeric string")
	}
	if allSame(digits) {
		return fail("CNPJ cannot be a sequence of identical digits")
	}
	if cnpjDigit(digits[:12], cnpjWeightsFirst) != digits[12] {
		return fail("CNPJ first check digit is invalid")
	}
	if cnpjDigit(digits[:13], cnpjWeightsSecond) != digits[13] {
		return fail("CNPJ second check digit is invalid")
	}
	return pass()
}

func cnpjDigit(digits []int, weights []int) int {
	sum := 0
	for i, d := range digits {
		sum += d * weights[i]
	}
	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}
