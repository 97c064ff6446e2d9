// Package brewfile parses Homebrew bundle manifests into tagged entries
// so OS filtering works on structure rather than raw line prefixes.
package brewfile

import (
	"strings"

	"github.com/arthur-debert/homelink/pkg/errors"
	"github.com/arthur-debert/homelink/pkg/filesystem"
	"github.com/arthur-debert/homelink/pkg/platform"
)

// Kind is the directive type of a Brewfile entry.
type Kind string

const (
	KindTap  Kind = "tap"
	KindBrew Kind = "brew"
	KindCask Kind = "cask"
	KindMas  Kind = "mas"

	// KindOther covers directives brew bundle understands but this
	// package does not model (vscode, cask_args, whalebrew, ...). They
	// pass through filtering untouched.
	KindOther Kind = "other"
)

// DarwinOnly reports whether this kind of entry can only be installed
// on macOS.
func (k Kind) DarwinOnly() bool {
	return k == KindCask || k == KindMas
}

// Entry is one directive in a Brewfile.
type Entry struct {
	Kind Kind
	Name string
	// Raw preserves the original line so a filtered manifest renders
	// byte-identically for the entries it keeps.
	Raw string
}

// Parse reads Brewfile content into entries. Blank lines and comments
// are skipped. Directives this package does not model become KindOther
// and survive round-tripping; brew owns the manifest dialect, so an
// unknown directive is never fatal. Only a modeled directive missing
// its name is a parse error.
func Parse(content []byte) ([]Entry, error) {
	var entries []Entry

	for i, line := range strings.Split(string(content), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		fields := strings.SplitN(trimmed, " ", 2)
		kind := Kind(fields[0])
		switch kind {
		case KindTap, KindBrew, KindCask, KindMas:
		default:
			entries = append(entries, Entry{Kind: KindOther, Raw: trimmed})
			continue
		}
		if len(fields) < 2 {
			return nil, errors.Newf(errors.ErrManifestParse,
				"line %d: %s directive without a name", i+1, kind)
		}

		name := unquote(strings.TrimSpace(strings.SplitN(fields[1], ",", 2)[0]))
		entries = append(entries, Entry{Kind: kind, Name: name, Raw: trimmed})
	}

	return entries, nil
}

// Load reads and parses the Brewfile at path.
func Load(fs filesystem.FS, path string) ([]Entry, error) {
	content, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(content)
}

// Filter returns the entries installable on the given OS. On macOS the
// manifest passes through untouched; elsewhere the darwin-only kinds
// are dropped.
func Filter(entries []Entry, os platform.OS) []Entry {
	if os == platform.Darwin {
		return entries
	}

	var kept []Entry
	for _, e := range entries {
		if e.Kind.DarwinOnly() {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

// Render writes entries back out as Brewfile content.
func Render(entries []Entry) []byte {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.Raw)
		b.WriteString("\n")
	}
	return []byte(b.String())
}

// unquote strips one layer of single or double quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
