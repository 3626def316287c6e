//go:build mage

// Package main contains Mage build targets for filing-engine developer tooling.
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories a fetch run expects.
var projectDirs = []string{
	".secrets",
	"filings/index",
}

// Init creates the working directories and a placeholder for the EDGAR
// User-Agent secret.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	uaPath := filepath.Join(".secrets", "sec-user-agent")
	if _, err := os.Stat(uaPath); os.IsNotExist(err) {
		fmt.Printf("   remember to write \"Company email@example.com\" to %s\n", uaPath)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "filing-engine"
	cmdPkg  = "./cmd/filing-engine"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Fetch builds the CLI and downloads filings for the default company list.
func Fetch() error {
	mg.Deps(Init, Build)
	return sh.RunV(filepath.Join(binDir, binName), "fetch")
}

// filingsRoot is where fetch writes filings with the default output directory.
var filingsRoot = filepath.Join("filings", "sec-edgar-filings")

// Stats prints project metrics: Go production/test LOC and the filings
// downloaded under the default output directory.
func Stats() error {
	prodLines, err := countGoLines(".", false)
	if err != nil {
		return err
	}
	testLines, err := countGoLines(".", true)
	if err != nil {
		return err
	}
	st, err := countFilings(filingsRoot)
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	fmt.Printf("Companies on disk:              %d\n", st.companies)
	fmt.Printf("Filings (complete):             %d\n", st.complete)
	fmt.Printf("Filings (incomplete):           %d\n", st.incomplete)
	return nil
}

// skipDirs are not walked when counting Go lines.
var skipDirs = map[string]bool{
	".git":      true,
	"_examples": true,
	"bin":       true,
	"filings":   true,
}

// countGoLines walks the directory tree and counts non-blank lines in Go files.
// If testOnly is true, count only _test.go files; otherwise count non-test .go files.
func countGoLines(root string, testOnly bool) (int, error) {
	total := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		if strings.HasSuffix(path, "_test.go") != testOnly {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) != "" {
				total++
			}
		}
		return nil
	})
	return total, err
}

type filingStats struct {
	companies  int
	complete   int
	incomplete int
}

// countFilings counts accession directories under root, laid out as
// <cik>/<form>/<accession>/. A filing is complete once its metadata.yaml
// exists. A missing root counts as empty.
func countFilings(root string) (filingStats, error) {
	var st filingStats
	ciks, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("reading %s: %w", root, err)
	}
	for _, cik := range ciks {
		if !cik.IsDir() {
			continue
		}
		st.companies++
		accessions, err := filepath.Glob(filepath.Join(root, cik.Name(), "*", "*"))
		if err != nil {
			return st, err
		}
		for _, dir := range accessions {
			if _, err := os.Stat(filepath.Join(dir, "metadata.yaml")); err == nil {
				st.complete++
			} else {
				st.incomplete++
			}
		}
	}
	return st, nil
}
