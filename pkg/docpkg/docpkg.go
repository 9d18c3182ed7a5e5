// Package docpkg validates Brazilian taxpayer documents (CPF and CNPJ)
// by their check digits.
package docpkg

// Normalize strips every non-digit character from the document.
func Normalize(doc string) string {
	digits := make([]byte, 0, len(doc))

	for i := 0; i < len(doc); i++ {
		if doc[i] >= '0' && doc[i] <= '9' {
			digits = append(digits, doc[i])
		}
	}

	return string(digits)
}

// IsValid reports whether doc is a valid CPF (11 digits) or CNPJ (14 digits),
// ignoring punctuation.
func IsValid(doc string) bool {
	digits := Normalize(doc)

	switch len(digits) {
	case 11:
		return validCPF(digits)
	case 14:
		return validCNPJ(digits)
	}

	return false
}

func allSame(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}

	return true
}

func validCPF(digits string) bool {
	if allSame(digits) {
		return false
	}

	return cpfCheckDigit(digits, 9) == int(digits[9]-'0') &&
		cpfCheckDigit(digits, 10) == int(digits[10]-'0')
}

func cpfCheckDigit(digits string, n int) int {
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(digits[i]-'0') * (n + 1 - i)
	}

	return sum * 10 % 11 % 10
}

var (
	cnpjWeightsFirst  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeightsSecond = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

func validCNPJ(digits string) bool {
	if allSame(digits) {
		return false
	}

	return cnpjCheckDigit(digits, cnpjWeightsFirst) == int(digits[12]-'0') &&
		cnpjCheckDigit(digits, cnpjWeightsSecond) == int(digits[13]-'0')
}

func cnpjCheckDigit(digits string, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}

	if rem := sum % 11; rem >= 2 {
		return 11 - rem
	}

	return 0
}
