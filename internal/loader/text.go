package loader

import "os"

// TextExtractor treats a whole text file as a single page.
type TextExtractor struct{}

func (TextExtractor) Extract(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return []string{string(data)}, nil
}
