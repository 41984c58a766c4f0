package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jrsteele09/go-shop-client/services"
	"github.com/jrsteele09/go-shop-client/token"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	email string
	phone string
	role  string
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword(cmd)
		if err != nil {
			return err
		}
		req := services.SignupRequest{Email: email, Password: password, Phone: phone, Role: role}
		if err := shop.Client.Account.Signup(cmd.Context(), req); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Account created for %s, now run: shop login --email %s\n", email, email)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if shop.Sessions.Session().IsAuthenticated {
			return errors.New("already logged in, run: shop logout")
		}
		password, err := readPassword(cmd)
		if err != nil {
			return err
		}
		if err := shop.Login(cmd.Context(), services.Credentials{Email: email, Password: password}); err != nil {
			return err
		}
		sess := shop.Sessions.Session()
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", sess.Email(), sess.User.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := shop.Sessions.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess := shop.Sessions.Session()
		if !sess.IsAuthenticated {
			fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s), session ends %s\n", sess.Email(), sess.User.Role, sess.User.ExpiresAt.Local().Format("2006-01-02 15:04"))
		return nil
	},
}

func init() {
	signupCmd.Flags().StringVar(&email, "email", "", "Account email")
	signupCmd.Flags().StringVar(&phone, "phone", "", "Contact phone number")
	signupCmd.Flags().StringVar(&role, "role", token.RoleBuyer, "Buyer or Seller")
	_ = signupCmd.MarkFlagRequired("email")

	loginCmd.Flags().StringVar(&email, "email", "", "Account email")
	_ = loginCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(signupCmd, loginCmd, logoutCmd, whoamiCmd)
}

// readPassword prompts on the terminal without echo, or reads one line from
// stdin when it is not a terminal.
func readPassword(cmd *cobra.Command) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", errors.Wrap(err, "read password")
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", errors.Wrap(err, "read password")
	}
	return strings.TrimRight(line, "\r\n"), nil
}
