package auth

import "golang.org/x/crypto/bcrypt"

// HashServiceKey hashes a plaintext service key with the configured cost.
// Used by operators to produce AUTH_SERVICE_KEY_HASH.
func HashServiceKey(key string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(key), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyServiceKey checks the key presented on the token endpoint against the
// configured hash.
func VerifyServiceKey(hashed, key string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(key))
}
