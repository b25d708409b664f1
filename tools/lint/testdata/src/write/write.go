package write

import "os"

func bad(path, content string) {
	os.WriteFile(path, []byte(content), 0o644) // want "unchecked error"
}

func good(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
