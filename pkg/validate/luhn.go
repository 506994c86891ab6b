package validate

import (
	"github.com/ShiraazMoollatjie/goluhn"
)

func IsLuhn(s string) bool {
	err := goluhn.Validate(s)
	return err == nil
}

// AccountNumber returns a fresh Luhn-valid 12-digit account number.
func AccountNumber() string {
	return goluhn.Generate(12)
}
