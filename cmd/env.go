package cmd

import (
	"os"

	"github.com/kptv-cli/kptv/auth"
	"github.com/kptv-cli/kptv/color"
	"github.com/kptv-cli/kptv/config"
	"github.com/kptv-cli/kptv/style"
	"github.com/kptv-cli/kptv/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

// secretEnvs are reported as set without printing their value.
var secretEnvs = []string{auth.EnvToken}

func supportedEnvs() []string {
	envs := lo.Map(config.EnvExposed, func(k string, _ int) string {
		field := config.Default[k]
		return field.Env()
	})
	envs = append(envs, where.EnvConfigPath, auth.EnvToken)
	slices.Sort(envs)
	return envs
}

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Only variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "Only variables that are not set")
	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the environment variables kptv reads",
	Long:  "List the environment variables kptv reads, with their values in this process.",
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))
		name := style.New().Bold(true).Foreground(color.Purple).Render

		for _, env := range supportedEnvs() {
			value, present := os.LookupEnv(env)
			present = present && value != ""
			if (setOnly && !present) || (unsetOnly && present) {
				continue
			}

			switch {
			case !present:
				value = style.Fg(color.Red)("unset")
			case slices.Contains(secretEnvs, env):
				value = style.Fg(color.Green)("set")
			default:
				value = style.Fg(color.Green)(value)
			}
			cmd.Println(name(env) + "=" + value)
		}
	},
}
