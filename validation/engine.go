// Package validation checks submitted identity data against the rules for
// each credential type. It performs no I/O: every rule is a pure function of
// the submitted fields, which keeps the engine independently testable.
package validation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lumina-markets/credenza/core"
)

// Field keys accepted in session data.
const (
	FieldFullName       = "fullName"
	FieldDateOfBirth    = "dateOfBirth"
	FieldCountry        = "country"
	FieldDocumentType   = "documentType"
	FieldDocumentNumber = "documentNumber"
	FieldCpf            = "cpf"
	FieldCnpj           = "cnpj"
	FieldAnnualIncome   = "annualIncome"
	FieldNetWorth       = "netWorth"
)

// highScrutinyCountry triggers the income/net-worth gate for accredited
// investor checks.
const highScrutinyCountry = "US"

var (
	accreditedIncomeFloor   = decimal.NewFromInt(200_000)
	accreditedNetWorthFloor = decimal.NewFromInt(1_000_000)
	qualifiedNetWorthFloor  = decimal.NewFromInt(5_000_000)
)

// Result is the outcome of validating one data set.
type Result struct {
	Passed bool
	Reason string
}

func pass() Result { return Result{Passed: true} }

func fail(reason string) Result { return Result{Reason: reason} }

// Validate applies the type-specific rules, short-circuiting on the first
// violation. Unknown credential types always fail.
func Validate(t core.CredentialType, data map[string]string) Result {
	switch t {
	case core.CredentialKycBasic:
		return validateKycBasic(data)
	case core.CredentialKycFull:
		return validateKycFull(data)
	case core.CredentialBrazilianCpf:
		return validateBrazilianCpf(data)
	case core.CredentialBrazilianCnpj:
		return validateBrazilianCnpj(data)
	case core.CredentialAccreditedInvestor:
		return validateAccreditedInvestor(data)
	case core.CredentialQualifiedPurchaser:
		return validateQualifiedPurchaser(data)
	}
	return fail(fmt.Sprintf("unknown credential type %q", t))
}

func validateKycBasic(data map[string]string) Result {
	if len(data[FieldFullName]) < 2 {
		return fail("full name must be at least 2 characters")
	}
	if data[FieldDateOfBirth] == "" {
		return fail("date of birth is required")
	}
	if data[FieldCountry] == "" {
		return fail("country code is required")
	}
	return pass()
}

func validateKycFull(data map[string]string) Result {
	if r := validateKycBasic(data); !r.Passed {
		return r
	}
	if data[FieldDocumentType] == "" {
		return fail("document type is required")
	}
	if data[FieldDocumentNumber] == "" {
		return fail("document number is required")
	}
	return pass()
}

func validateBrazilianCpf(data map[string]string) Result {
	if data[FieldFullName] == "" {
		return fail("full name is required")
	}
	return checkCpf(data[FieldCpf])
}

func validateBrazilianCnpj(data map[string]string) Result {
	return checkCnpj(data[FieldCnpj])
}

func validateAccreditedInvestor(data map[string]string) Result {
	if data[FieldFullName] == "" {
		return fail("full name is required")
	}
	country := data[FieldCountry]
	if country == "" {
		return fail("country code is required")
	}
	if country != highScrutinyCountry {
		return pass()
	}
	income, incomeOK := parseAmount(data[FieldAnnualIncome])
	if incomeOK && income.GreaterThanOrEqual(accreditedIncomeFloor) {
		return pass()
	}
	netWorth, netWorthOK := parseAmount(data[FieldNetWorth])
	if netWorthOK && netWorth.GreaterThanOrEqual(accreditedNetWorthFloor) {
		return pass()
	}
	return fail("US accreditation requires annual income of at least 200000 or net worth of at least 1000000")
}

func validateQualifiedPurchaser(data map[string]string) Result {
	netWorth, ok := parseAmount(data[FieldNetWorth])
	if !ok || netWorth.LessThan(qualifiedNetWorthFloor) {
		return fail("qualified purchaser requires net worth of at least 5000000")
	}
	return pass()
}

func parseAmount(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
