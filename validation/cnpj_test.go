package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumina-markets/credenza/core"
)

// 11222333000181 carries correct CNPJ check digits (8 and 1).
const validCnpj = "11222333000181"

func cnpjData(cnpj string) map[string]string {
	return map[string]string{FieldCnpj: cnpj}
}

func TestCnpjValid(t *testing.T) {
	assert.True(t, Validate(core.CredentialBrazilianCnpj, cnpjData(validCnpj)).Passed)
}

func TestCnpjFlippedCheckDigitsFail(t *testing.T) {
	for _, pos := range []int{12, 13} {
		flipped := []byte(validCnpj)
		flipped[pos] = '0' + (flipped[pos]-'0'+1)%10
		result := Validate(core.CredentialBrazilianCnpj, cnpjData(string(flipped)))
		assert.False(t, result.Passed, "flipping digit %d must fail", pos)
		assert.Contains(t, result.Reason, "check digit")
	}
}

func TestCnpjRepeatedDigitsFail(t *testing.T) {
	result := Validate(core.CredentialBrazilianCnpj, cnpjData(strings.Repeat("7", 14)))
	assert.False(t, result.Passed)
	assert.Contains(t, result.Reason, "identical digits")
}

func TestCnpjShapeRejected(t *testing.T) {
	for _, cnpj := range []string{"", "1122233300018", "112223330001811", "1122233300018x"} {
		result := Validate(core.CredentialBrazilianCnpj, cnpjData(cnpj))
		assert.False(t, result.Passed)
		assert.Contains(t, result.Reason, "14-digit")
	}
}
