package oldconfig

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Bibi40k/kconfig-oldconfig/pkg/kconfig"
)

// sampleKconfig is the tree of the reference oldconfig session. Line
// numbers in prompts depend on its exact layout.
const sampleKconfig = `config MODULES
	def_bool y
	option modules

config BOOL_SYM
	bool "BOOL_SYM prompt"
	default y

config TRISTATE_SYM
	tristate "TRISTATE_SYM prompt"
	default m

config STRING_SYM
	string "STRING_SYM prompt"
	default "foo"

config INT_SYM
	int "INT_SYM prompt"

config HEX_SYM
	hex "HEX_SYM prompt"

choice
	bool "A choice that defaults to CHOICE_B"
	default CHOICE_B

config CHOICE_A
	bool "CHOICE_A's prompt"

config CHOICE_B
	bool "CHOICE_B's prompt"

config CHOICE_C
	bool "CHOICE_C's prompt"

endchoice
`

func parseSample(t *testing.T, src string) (*kconfig.Config, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	cfg, err := kconfig.Parse("Kconfig", strings.NewReader(src), kconfig.Options{
		Prefix: "CONFIG_",
		Header: "test",
		Logger: slog.New(slog.NewTextHandler(&logs, nil)),
	})
	require.NoError(t, err)
	return cfg, &logs
}

func writeDotConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".config")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// scriptedInput answers prompts from a fixed list and records the exchange
// the way a terminal would show it. Once the answers run out it reports
// io.EOF.
type scriptedInput struct {
	answers    []string
	transcript io.Writer
}

func (s *scriptedInput) ReadLine(prompt string) (string, error) {
	if len(s.answers) == 0 {
		fmt.Fprintln(s.transcript, prompt)
		return "", io.EOF
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]
	fmt.Fprintf(s.transcript, "%s%s\n", prompt, answer)
	return answer, nil
}

func transcriptLines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
