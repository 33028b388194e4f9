package kconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const selectKconfig = modulesKconfig + `
config SELECTOR
	tristate "selector"
	select TARGET

config IMPLIER
	bool "implier"
	imply TARGET

config TARGET
	tristate "target"

config PLAIN_BOOL
	bool "plain bool"

config HIDDEN
	bool "hidden" if n

config NAME
	string "name"
`

func TestAssignable(t *testing.T) {
	tests := []struct {
		name     string
		selector string // value for SELECTOR, "" to leave it unset
		implier  string
		symbol   string
		want     []int
	}{
		{"plain bool", "", "", "PLAIN_BOOL", []int{No, Yes}},
		{"plain tristate", "", "", "TARGET", []int{No, Mod, Yes}},
		{"selected to y", "y", "", "TARGET", []int{Yes}},
		{"selected to m", "m", "", "TARGET", []int{Mod, Yes}},
		{"implied to y", "", "y", "TARGET", []int{No, Yes}},
		{"invisible", "", "", "HIDDEN", nil},
		{"string", "", "", "NAME", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, _ := parseString(t, selectKconfig)
			if tt.selector != "" {
				require.True(t, sym(t, cfg, "SELECTOR").SetValue(tt.selector))
			}
			if tt.implier != "" {
				require.True(t, sym(t, cfg, "IMPLIER").SetValue(tt.implier))
			}
			assert.Equal(t, tt.want, sym(t, cfg, tt.symbol).Assignable())
		})
	}
}

func TestUnselectedSymbolsStayOpen(t *testing.T) {
	cfg, _ := parseString(t, modulesKconfig+`
config B
	bool "b"

config T
	tristate "t"
	default n
`)
	tests := []struct {
		name       string
		want       int
		assignable []int
	}{
		{"B", No, []int{No, Yes}},
		{"T", No, []int{No, Mod, Yes}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sym(t, cfg, tt.name)
			assert.Equal(t, tt.want, s.TriValue(), "nothing selects or implies %s", tt.name)
			assert.Equal(t, tt.assignable, s.Assignable())
		})
	}

	require.True(t, sym(t, cfg, "T").SetValue("m"))
	assert.Equal(t, "m", sym(t, cfg, "T").StrValue())
}

func TestBoolRejectsModAsTypeError(t *testing.T) {
	cfg, logs := parseString(t, selectKconfig)
	b := sym(t, cfg, "PLAIN_BOOL")
	assert.False(t, b.SetTriValue(Mod))
	assert.Contains(t, logs.String(), "the value 'm' is invalid for PLAIN_BOOL (defined at Kconfig:18), which has type bool")
	assert.NotContains(t, logs.String(), "not assignable")
	_, set := b.UserValue()
	assert.False(t, set)
}

func TestSelectForcesValue(t *testing.T) {
	cfg, logs := parseString(t, selectKconfig)
	target := sym(t, cfg, "TARGET")
	require.True(t, target.SetValue("n"))
	assert.Equal(t, No, target.TriValue())

	require.True(t, sym(t, cfg, "SELECTOR").SetValue("y"))
	assert.Equal(t, Yes, target.TriValue(), "select overrides the user value")

	assert.False(t, target.SetValue("n"))
	assert.Contains(t, logs.String(), "the value n is not assignable to TARGET")
}

func TestImplyRaisesDefault(t *testing.T) {
	cfg, _ := parseString(t, selectKconfig)
	target := sym(t, cfg, "TARGET")
	require.True(t, sym(t, cfg, "IMPLIER").SetValue("y"))
	assert.Equal(t, Yes, target.TriValue())

	require.True(t, target.SetValue("n"), "imply leaves the symbol assignable")
	assert.Equal(t, No, target.TriValue())
}

func TestModulesOffDemotesTristate(t *testing.T) {
	cfg, _ := parseString(t, modulesKconfig+`
config DRIVER
	tristate "driver"
	default m
`)
	drv := sym(t, cfg, "DRIVER")
	assert.Equal(t, Tristate, drv.Type())
	assert.Equal(t, Mod, drv.TriValue())
	assert.Equal(t, []int{No, Mod, Yes}, drv.Assignable())

	require.True(t, sym(t, cfg, "MODULES").SetValue("n"))
	assert.Equal(t, Bool, drv.Type())
	assert.Equal(t, Tristate, drv.OrigType())
	assert.Equal(t, Yes, drv.TriValue(), "m is promoted to y for bool")
	assert.Equal(t, []int{No, Yes}, drv.Assignable())
	assert.False(t, drv.SetValue("m"))
}

const choiceKconfig = `
config FEATURE
	bool "feature"

choice
	bool "A choice that defaults to CHOICE_B"
	default CHOICE_B if FEATURE
	default CHOICE_C

config CHOICE_A
	bool "CHOICE_A's prompt"

config CHOICE_B
	bool "CHOICE_B's prompt"

config CHOICE_C
	bool "CHOICE_C's prompt"
	depends on FEATURE

endchoice
`

func choiceOf(t *testing.T, cfg *Config) *Choice {
	t.Helper()
	require.Len(t, cfg.Choices, 1)
	return cfg.Choices[0]
}

func TestChoiceSelection(t *testing.T) {
	cfg, _ := parseString(t, choiceKconfig)
	ch := choiceOf(t, cfg)

	assert.Equal(t, Yes, ch.TriValue())
	// CHOICE_B's default is off and CHOICE_C is invisible: first visible member.
	assert.Equal(t, "CHOICE_A", ch.Selection().Name)

	require.True(t, sym(t, cfg, "FEATURE").SetValue("y"))
	assert.Equal(t, "CHOICE_B", ch.Selection().Name)
	assert.Equal(t, Yes, sym(t, cfg, "CHOICE_B").TriValue())
	assert.Equal(t, No, sym(t, cfg, "CHOICE_A").TriValue())

	require.True(t, sym(t, cfg, "CHOICE_C").SetValue("y"))
	assert.Equal(t, "CHOICE_C", ch.UserSelection().Name)
	assert.Equal(t, "CHOICE_C", ch.Selection().Name)
	assert.Equal(t, No, sym(t, cfg, "CHOICE_B").TriValue())

	// An invisible user selection gives way to the defaults.
	require.True(t, sym(t, cfg, "FEATURE").SetValue("n"))
	assert.Equal(t, "CHOICE_C", ch.UserSelection().Name)
	assert.Equal(t, "CHOICE_A", ch.Selection().Name)
}

func TestChoiceMembersOnlyAssignableToY(t *testing.T) {
	cfg, logs := parseString(t, choiceKconfig)
	a := sym(t, cfg, "CHOICE_A")
	assert.Equal(t, []int{Yes}, a.Assignable())
	assert.False(t, a.SetValue("n"))
	assert.Contains(t, logs.String(), "not assignable to CHOICE_A")
}

func TestOptionalChoice(t *testing.T) {
	cfg, _ := parseString(t, `
choice
	bool "optional choice"
	optional

config OPT_A
	bool "a"

endchoice
`)
	ch := choiceOf(t, cfg)
	assert.Equal(t, No, ch.TriValue())
	assert.Nil(t, ch.Selection())
	assert.Equal(t, No, sym(t, cfg, "OPT_A").Visibility())
}

func TestNumberRange(t *testing.T) {
	cfg, logs := parseString(t, `
config LIMIT
	int "limit"
	range 1 10
	default 20

config ADDR
	hex "address"
	range 0x10 0x20
	default 0x18
`)
	limit := sym(t, cfg, "LIMIT")
	assert.Equal(t, "10", limit.StrValue(), "default clamped to the range")

	assert.False(t, limit.SetValue("11"))
	assert.Contains(t, logs.String(), "the value 11 is outside the range [1, 10] of LIMIT (defined at Kconfig:2)")
	assert.True(t, limit.SetValue("5"))
	assert.Equal(t, "5", limit.StrValue())

	addr := sym(t, cfg, "ADDR")
	assert.Equal(t, "0x18", addr.StrValue())
	assert.False(t, addr.SetValue("0x30"))
	assert.True(t, addr.SetValue("0x1f"))
	assert.Equal(t, "0x1f", addr.StrValue())
}

func TestSetValueValidation(t *testing.T) {
	tests := []struct {
		name   string
		symbol string
		value  string
		ok     bool
	}{
		{"bool y", "B", "y", true},
		{"bool rejects m", "B", "m", false},
		{"bool rejects junk", "B", "yes", false},
		{"tristate m", "T", "m", true},
		{"tristate is case sensitive", "T", "Y", false},
		{"int decimal", "I", "123", true},
		{"int negative", "I", "-4", true},
		{"int rejects hex", "I", "0x123", false},
		{"hex with prefix", "H", "0x123", true},
		{"hex upper prefix", "H", "0XfF", true},
		{"hex without prefix", "H", "123", false},
		{"hex junk", "H", "0xzz", false},
		{"string anything", "S", `with "quotes"`, true},
		{"string empty", "S", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, logs := parseString(t, modulesKconfig+`
config B
	bool "b"
config T
	tristate "t"
config I
	int "i"
config H
	hex "h"
config S
	string "s"
`)
			s := sym(t, cfg, tt.symbol)
			assert.Equal(t, tt.ok, s.SetValue(tt.value))
			_, set := s.UserValue()
			assert.Equal(t, tt.ok, set)
			if !tt.ok {
				assert.Contains(t, logs.String(), "Assignment ignored.")
			}
		})
	}
}

func TestInvalidValueWarning(t *testing.T) {
	cfg, logs := parseString(t, `
config INT_SYM
	int "INT_SYM prompt"
`)
	assert.False(t, sym(t, cfg, "INT_SYM").SetValue("0x123"))
	assert.Contains(t, logs.String(),
		"the value '0x123' is invalid for INT_SYM (defined at Kconfig:2), which has type int. Assignment ignored.")
}

func TestUnsetValue(t *testing.T) {
	cfg, _ := parseString(t, `
config NAME
	string "name"
	default "fallback"
`)
	name := sym(t, cfg, "NAME")
	require.True(t, name.SetValue("custom"))
	assert.Equal(t, "custom", name.StrValue())

	name.UnsetValue()
	_, set := name.UserValue()
	assert.False(t, set)
	assert.Equal(t, "fallback", name.StrValue())
}

func TestDependentDefaultsFollowAssignments(t *testing.T) {
	cfg, _ := parseString(t, `
config BASE
	int "base"
	default 4

config DOUBLE
	int
	default 8 if BASE = 4
	default 0
`)
	double := sym(t, cfg, "DOUBLE")
	assert.Equal(t, "8", double.StrValue())
	require.True(t, sym(t, cfg, "BASE").SetValue("5"))
	assert.Equal(t, "0", double.StrValue())
}
