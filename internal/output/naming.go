package output

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"
)

const (
	Prefix      = "output/"
	Extension   = ".txt"
	ContentType = "text/plain; charset=utf-8"
)

var ErrEmptyName = errors.New("nom de fichier vide")

func EnsureDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("répertoire de sortie vide")
	}
	return os.MkdirAll(dir, 0o755)
}

// Key derives the result location from the uploaded table: every leading
// directory is replaced by "output/" and the extension becomes ".txt".
// Folder keys (trailing "/") have no base name and are rejected.
func Key(inputKey string) (string, error) {
	name := inputKey
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if ext := path.Ext(name); ext != "" && ext != name {
		name = strings.TrimSuffix(name, ext)
	}
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%q : %w", inputKey, ErrEmptyName)
	}
	return Prefix + name + Extension, nil
}

// DecodeEventKey undoes the form encoding S3 applies to object keys in
// notifications ("+" for spaces, percent escapes).
func DecodeEventKey(raw string) (string, error) {
	key, err := url.QueryUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("clé d'objet mal encodée %q : %w", raw, err)
	}
	return key, nil
}
