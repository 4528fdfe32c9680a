package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/kptv-cli/kptv/auth"
	"github.com/kptv-cli/kptv/color"
	"github.com/kptv-cli/kptv/icon"
	"github.com/kptv-cli/kptv/key"
	"github.com/kptv-cli/kptv/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

func init() {
	rootCmd.AddCommand(authCmd)
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the media API access token",
	Long: fmt.Sprintf(`Manage the media API access token.

The token is kept in the system keyring. %s takes precedence when set.`, auth.EnvToken),
}

func init() {
	authCmd.AddCommand(authSetCmd)
}

var authSetCmd = &cobra.Command{
	Use:   "set [token]",
	Short: "Save the access token, reading it from the terminal when not given",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var token string
		if len(args) > 0 {
			token = args[0]
		} else {
			var err error
			token, err = readToken()
			handleErr(err)
		}

		handleErr(auth.SetToken(token))
		fmt.Printf("%s token saved\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

func readToken() (string, error) {
	fmt.Printf("%s Access token: ", icon.Get(icon.Key))
	defer fmt.Println()

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		token, err := term.ReadPassword(fd)
		return string(token), err
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(line), err
}

func init() {
	authCmd.AddCommand(authRemoveCmd)
}

var authRemoveCmd = &cobra.Command{
	Use:     "remove",
	Aliases: []string{"delete", "logout"},
	Short:   "Remove the access token from the keyring",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(auth.DeleteToken())
		fmt.Printf("%s token removed\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

func init() {
	authCmd.AddCommand(authStatusCmd)
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Tell whether a token is available",
	Run: func(cmd *cobra.Command, args []string) {
		_, err := auth.Token()
		if err != nil {
			fmt.Printf("%s %v\n", style.Fg(color.Red)(icon.Get(icon.Fail)), err)
			return
		}
		source := lo.Ternary(os.Getenv(auth.EnvToken) != "", auth.EnvToken, "keyring")
		fmt.Printf(
			"%s token found in %s, requests go to %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(source),
			style.Fg(color.Yellow)(viper.GetString(key.APIBaseURL)),
		)
	},
}
