package auth

import "golang.org/x/crypto/bcrypt"

// Cost 8 keeps PIN checks around 25ms. PINs are short and the login route is
// rate limited, so the lower cost is an acceptable trade for scan-station
// devices with weak CPUs.
const bcryptCost = 8

// HashPin generates a bcrypt hash of a staff PIN.
func HashPin(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPin checks a PIN against its stored hash.
func VerifyPin(hashedPin, pin string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPin), []byte(pin))
	return err == nil
}
