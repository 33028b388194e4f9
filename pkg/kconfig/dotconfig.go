package kconfig

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// LoadConfig reads a .config file, replacing all user values. Unknown
// symbols and malformed lines are reported and skipped; only failure to
// read the file is an error.
func (c *Config) LoadConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	c.ResetUserValues()

	setRE := regexp.MustCompile(`^` + regexp.QuoteMeta(c.Prefix) + `([^=]+)=(.*)$`)
	unsetRE := regexp.MustCompile(`^# ` + regexp.QuoteMeta(c.Prefix) + `([^ ]+) is not set$`)

	seen := make(map[*Symbol]bool)
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), " \t\r")
		loc := fmt.Sprintf("%s:%d", path, lineNo)

		var name, val string
		if m := setRE.FindStringSubmatch(line); m != nil {
			name, val = m[1], m[2]
		} else if m := unsetRE.FindStringSubmatch(line); m != nil {
			name, val = m[1], "n"
		} else {
			if line != "" && !strings.HasPrefix(line, "#") {
				c.warn("%s: ignoring malformed line '%s'", loc, line)
			}
			continue
		}

		sym, ok := c.Syms[name]
		if !ok || len(sym.Nodes) == 0 || sym.typ == Unknown {
			if !strings.HasPrefix(line, "#") {
				c.warn("%s: attempt to assign the value '%s' to the undefined symbol %s", loc, val, name)
			}
			continue
		}

		switch sym.typ {
		case Bool, Tristate:
			if _, ok := StrToTri[val]; !ok || (sym.typ == Bool && val == "m") {
				c.warn("%s: the value '%s' is invalid for %s, which has type %s", loc, val, sym.Name, sym.typ)
				continue
			}
		case String:
			if strings.HasPrefix(line, "#") {
				continue
			}
			s, ok := unquote(val)
			if !ok {
				c.warn("%s: malformed string literal in assignment to %s", loc, sym.Name)
				continue
			}
			val = s
		default:
			if strings.HasPrefix(line, "#") {
				continue
			}
			if !sym.validFormat(val) {
				sym.warnInvalid(val)
				continue
			}
		}

		if seen[sym] {
			if old, _ := sym.UserValue(); old != val {
				c.warn("%s: %s set more than once. Old value '%s', new value '%s'.", loc, sym.Name, old, val)
			}
		}
		seen[sym] = true
		c.loadValue(sym, val)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	c.invalidate()
	return nil
}

// loadValue stores a value read from .config. Unlike SetValue it does not
// check assignability: dependencies may not be settled until the whole file
// has been read.
func (c *Config) loadValue(sym *Symbol, val string) {
	if sym.typ != Bool && sym.typ != Tristate {
		sym.userSet, sym.userStr = true, val
		return
	}
	tri := StrToTri[val]
	sym.userSet, sym.userTri = true, tri
	if ch := sym.Choice; ch != nil && tri != No {
		if ch.userSet && ch.userMode != tri {
			c.logger.Debug("assignment changes choice mode", "symbol", sym.Name, "mode", TriToStr[tri])
		}
		ch.userSet, ch.userMode = true, tri
		if tri == Yes {
			ch.userSelection = sym
		}
	}
}

// ConfigString returns the .config text for the current values.
func (c *Config) ConfigString() string {
	var sb strings.Builder
	if c.Header != "" {
		fmt.Fprintf(&sb, "# %s\n", c.Header)
	}
	written := make(map[*Symbol]bool)
	c.forEachNode(c.Top, func(n *MenuNode) {
		sym, ok := n.Item.(*Symbol)
		if !ok || written[sym] {
			return
		}
		written[sym] = true
		sb.WriteString(sym.configString())
	})
	return sb.String()
}

// forEachNode visits the tree below node in document order.
func (c *Config) forEachNode(node *MenuNode, fn func(*MenuNode)) {
	for n := node.List; n != nil; n = n.Next {
		fn(n)
		if n.List != nil {
			c.forEachNode(n, fn)
		}
	}
}

func (s *Symbol) configString() string {
	if !s.writesToConfig() {
		return ""
	}
	prefix := s.cfg.Prefix
	val := s.StrValue()
	switch s.typ {
	case Bool, Tristate:
		if val == "n" {
			return fmt.Sprintf("# %s%s is not set\n", prefix, s.Name)
		}
		return fmt.Sprintf("%s%s=%s\n", prefix, s.Name, val)
	case String:
		return fmt.Sprintf("%s%s=\"%s\"\n", prefix, s.Name, escape(val))
	}
	return fmt.Sprintf("%s%s=%s\n", prefix, s.Name, val)
}

// writeConfigFile is replaced in tests to simulate a failing disk.
var writeConfigFile = os.WriteFile

// WriteConfig writes the configuration to path, replacing any existing
// file. The data goes to a temporary file in the same directory first and
// is renamed into place, so an interrupted write never leaves a truncated
// configuration behind.
func (c *Config) WriteConfig(path string) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))
	if err := writeConfigFile(tmp, []byte(c.ConfigString()), 0o644); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

func unquote(s string) (string, bool) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", false
	}
	var sb strings.Builder
	body := s[1 : len(s)-1]
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '\\':
			if i+1 == len(body) {
				return "", false
			}
			i++
			sb.WriteByte(body[i])
		case '"':
			return "", false
		default:
			sb.WriteByte(body[i])
		}
	}
	return sb.String(), true
}
