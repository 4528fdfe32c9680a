package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kptv-cli/kptv/color"
	"github.com/kptv-cli/kptv/constant"
	"github.com/kptv-cli/kptv/style"
	"github.com/spf13/viper"
)

// Field is a registered setting with its default value.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Env is the environment variable that overrides the field.
func (f *Field) Env() string {
	return strings.ToUpper(constant.Kptv + "_" + EnvKeyReplacer.Replace(f.Key))
}

// Type names the kind of value the field holds.
func (f *Field) Type() string {
	return fmt.Sprintf("%T", f.Value)
}

func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.Type(),
	})
}

// highlight colors booleans by truth and strings yellow.
func highlight(v any) string {
	switch value := v.(type) {
	case bool:
		if value {
			return style.Fg(color.Green)("true")
		}
		return style.Fg(color.Red)("false")
	case string:
		return style.Fg(color.Yellow)(fmt.Sprintf("%q", value))
	default:
		return fmt.Sprint(value)
	}
}

// Pretty renders the field with its current value for the terminal.
func (f *Field) Pretty() string {
	label := style.Fg(color.Blue)
	rows := [][2]string{
		{"Key:", style.Fg(color.Purple)(f.Key)},
		{"Env:", f.Env()},
		{"Value:", highlight(viper.Get(f.Key))},
		{"Default:", highlight(f.Value)},
		{"Type:", f.Type()},
	}

	var b strings.Builder
	b.WriteString(style.Faint(f.Description))
	for _, row := range rows {
		fmt.Fprintf(&b, "\n%s %s", label(fmt.Sprintf("%-8s", row[0])), row[1])
	}
	return b.String()
}
