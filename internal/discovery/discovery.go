package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type Result struct {
	Files    []string
	Warnings []string
}

// Discover expands the inputs into a sorted, de-duplicated list of CSV files.
// Files named explicitly are taken as-is; directories are walked for *.csv,
// skipping hidden directories and empty files.
func Discover(inputs []string) (Result, error) {
	if len(inputs) == 0 {
		return Result{}, fmt.Errorf("aucun chemin d'entrée fourni")
	}
	set := map[string]struct{}{}
	warnings := []string{}

	for _, in := range inputs {
		if strings.TrimSpace(in) == "" {
			continue
		}
		st, err := os.Stat(in)
		if err != nil {
			return Result{}, fmt.Errorf("chemin d'entrée invalide (%s) : %w", in, err)
		}
		if st.IsDir() {
			found, warns, err := scanDir(in)
			if err != nil {
				return Result{}, err
			}
			warnings = append(warnings, warns...)
			for _, p := range found {
				set[p] = struct{}{}
			}
			continue
		}
		set[in] = struct{}{}
	}

	files := make([]string, 0, len(set))
	for p := range set {
		files = append(files, p)
	}
	sort.Strings(files)
	if len(files) == 0 {
		return Result{}, fmt.Errorf("aucun fichier CSV trouvé")
	}
	return Result{Files: files, Warnings: warnings}, nil
}

func scanDir(root string) ([]string, []string, error) {
	out := []string{}
	warnings := []string{}

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.ToLower(filepath.Ext(path)) != ".csv" {
			return nil
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			warnings = append(warnings, fmt.Sprintf("fichier illisible ignoré : %s", path))
			return nil
		}
		if info.Size() == 0 {
			warnings = append(warnings, fmt.Sprintf("fichier vide ignoré : %s", path))
			return nil
		}
		out = append(out, path)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("parcours du répertoire impossible (%s) : %w", root, err)
	}
	return out, warnings, nil
}
