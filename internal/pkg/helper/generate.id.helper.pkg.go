package helper

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	urlAlphabet    = "useandom-26T198340PX75pxJACKVERYMINDBUSHWOLF_GQZbfghjklqvwyzrict"
	suffixAlphabet = "1234567890abcdefghijklmnopqrstuvwxyz"
)

func GenerateID() (string, error) {
	id, err := gonanoid.Generate(urlAlphabet, 16)
	if err != nil {
		return "", err
	}
	return id, nil
}

// GenerateSuffix returns a short lowercase alphanumeric token, safe inside file names.
func GenerateSuffix(size int) (string, error) {
	return gonanoid.Generate(suffixAlphabet, size)
}
