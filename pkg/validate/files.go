package validate

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var imageMIMEs = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/bmp":     true,
	"image/svg+xml": true,
	"image/webp":    true,
}

// detect sniffs the uploaded content; the client-supplied Content-Type is ignored.
func detect(f field) (*mimetype.MIME, error) {
	src, err := f.file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return mimetype.DetectReader(src)
}

func imageRule(f field) (string, error) {
	msg := fmt.Sprintf("The %s must be an image.", f.name)
	if f.file == nil {
		return msg, nil
	}
	m, err := detect(f)
	if err != nil {
		return msg, nil
	}
	for ; m != nil; m = m.Parent() {
		base, _, _ := strings.Cut(m.String(), ";")
		if imageMIMEs[base] {
			return "", nil
		}
	}
	return msg, nil
}

func mimesRule(f field, param string) (string, error) {
	msg := fmt.Sprintf("The %s must be a file of type: %s.", f.name, strings.ReplaceAll(param, ",", ", "))
	if f.file == nil {
		return msg, nil
	}
	m, err := detect(f)
	if err != nil {
		return msg, nil
	}

	ext := strings.TrimPrefix(m.Extension(), ".")
	for _, allowed := range strings.Split(param, ",") {
		allowed = strings.ToLower(strings.TrimSpace(allowed))
		if allowed == ext || (allowed == "jpeg" && ext == "jpg") || (allowed == "jpg" && ext == "jpeg") {
			return "", nil
		}
	}
	return msg, nil
}
