package fetcher

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"strings"
)

// DecryptFeatures decrypts an encrypted feature payload. The wire format is
// shared across the SDK family: AES-128-CBC with PKCS#7 padding, encoded as
// "base64(iv).base64(ciphertext)", keyed by the base64-encoded decryption
// key issued alongside the client key.
func DecryptFeatures(encrypted, key string) ([]byte, error) {
	ivPart, cipherPart, found := strings.Cut(encrypted, ".")
	if !found {
		return nil, errors.Join(ErrDecryptionFailed, errors.New("payload is not iv.ciphertext"))
	}

	keyBytes, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}
	iv, err := base64.StdEncoding.DecodeString(ivPart)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(cipherPart)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}

	block, err := aes.NewCipher(keyBytes)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}
	if len(iv) != aes.BlockSize || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, errors.Join(ErrDecryptionFailed, errors.New("ciphertext is not block-aligned"))
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	return stripPKCS7(plaintext)
}

func stripPKCS7(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.Join(ErrDecryptionFailed, errors.New("empty plaintext"))
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > aes.BlockSize || padding > len(data) {
		return nil, errors.Join(ErrDecryptionFailed, errors.New("invalid padding"))
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, errors.Join(ErrDecryptionFailed, errors.New("invalid padding"))
		}
	}
	return data[:len(data)-padding], nil
}
