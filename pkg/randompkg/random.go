// Package randompkg provides functionality for generating random application common items.
package randompkg

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/payflux/payflux/pkg/moneypkg"
	"github.com/shopspring/decimal"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// Intn is a shortcut for generating a random integer between 0 and max using crypto/rand.
func Intn(max int) int64 {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic(err)
	}

	return nBig.Int64()
}

// Float64 is a shortcut for generating a random float between 0 and 1 using crypto/rand.
func Float64() float64 {
	return float64(Intn(1<<32)) / (1 << 32)
}

// FloatBetween generates a random number between min and max rounded to 2 decimals.
func FloatBetween(min, max float64) float64 {
	numInRange := min + Float64()*(max-min)
	return math.Floor(numInRange*100) / 100
}

// String generates a random string of length n.
func String(n int) string {
	var sb strings.Builder

	k := len(alphabet)

	for i := 0; i < n; i++ {
		c := alphabet[Intn(k)]

		_ = sb.WriteByte(c) // The returned err is always nil.
	}

	return sb.String()
}

// FullName generates a random wallet owner name.
func FullName() string {
	return String(6) + " " + String(8)
}

// Email generates a random email.
func Email() string {
	return fmt.Sprintf("%s@email.com", String(10))
}

// MoneyBetween generates a random amount of money between min and max.
func MoneyBetween(min, max float64) moneypkg.Money {
	s := decimal.NewFromFloat(FloatBetween(min, max)).StringFixed(moneypkg.Scale)
	return moneypkg.MustFromString(s)
}

// Document generates a random valid CPF document number.
func Document() string {
	digits := make([]int, 11)
	for i := 0; i < 9; i++ {
		digits[i] = int(Intn(10))
	}

	digits[9] = cpfDigit(digits[:9], 10)
	digits[10] = cpfDigit(digits[:10], 11)

	var sb strings.Builder
	for _, d := range digits {
		sb.WriteString(strconv.Itoa(d))
	}

	return sb.String()
}

func cpfDigit(digits []int, startWeight int) int {
	sum := 0
	for i, d := range digits {
		sum += d * (startWeight - i)
	}

	return sum * 10 % 11 % 10
}
