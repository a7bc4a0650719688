package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/meetslot/internal/calendar"
	"github.com/teemow/meetslot/internal/google"
)

func newAuthCmd() *cobra.Command {
	var (
		account string
		code    string
		check   bool
	)

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize read access to a Google Calendar account",
		Long: `Authorize meetslot to read free/busy data from Google Calendar.

The OAuth client is taken from GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET.
Open the printed URL, grant access and paste the authorization code back.
Tokens are stored per account, so several accounts (e.g. work, personal)
can be authorized side by side.`,
		Example: `  meetslot auth
  meetslot auth --account work
  meetslot auth --account work --check`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if account == "" {
				account = appConfig.GoogleAccount
			}
			if check {
				return checkAuth(cmd.Context(), cmd.OutOrStdout(), account)
			}
			return runAuth(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), account, code)
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Account name to store the token under (default: MEETSLOT_GOOGLE_ACCOUNT)")
	cmd.Flags().StringVar(&code, "code", "", "Authorization code; prompted for when omitted")
	cmd.Flags().BoolVar(&check, "check", false, "Verify the stored token by reading the primary calendar")
	return cmd
}

func runAuth(ctx context.Context, in io.Reader, out io.Writer, account, code string) error {
	if os.Getenv(google.EnvClientID) == "" || os.Getenv(google.EnvClientSecret) == "" {
		return fmt.Errorf("%s and %s must be set", google.EnvClientID, google.EnvClientSecret)
	}

	if code == "" {
		fmt.Fprintf(out, "Visit this URL to authorize account %q:\n\n  %s\n\n", account, google.GetAuthURL())
		fmt.Fprint(out, "Authorization code: ")

		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read authorization code: %w", err)
		}
		code = strings.TrimSpace(line)
		if code == "" {
			return errors.New("no authorization code given")
		}
	}

	if err := google.SaveTokenForAccount(ctx, account, code); err != nil {
		return err
	}
	fmt.Fprintf(out, "Token saved for account %q.\n", account)

	return checkAuth(ctx, out, account)
}

func checkAuth(ctx context.Context, out io.Writer, account string) error {
	if !calendar.HasTokenForAccount(account) {
		return errors.New(google.GetAuthenticationErrorMessage(account))
	}
	client, err := calendar.NewClientForAccount(ctx, account, calendar.WithLogger(logger))
	if err != nil {
		return err
	}
	info, err := client.GetCalendar(ctx, "primary")
	if err != nil {
		return fmt.Errorf("token for account %q cannot read the primary calendar: %w", account, err)
	}
	fmt.Fprintf(out, "Account %q can read %s (time zone %s).\n", account, info.Summary, info.TimeZone)
	return nil
}
