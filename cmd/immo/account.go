package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"immo-client/internal/app"
	"immo-client/internal/model"
	"immo-client/internal/session"
	"immo-client/internal/verify"
	"immo-client/pkg/apierror"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

// password prefers the flag, then IMMO_PASSWORD so it stays out of shell
// history.
func password(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("IMMO_PASSWORD")
}

func runStatus(_ context.Context, a *app.App, _ []string, out io.Writer) error {
	if !a.Session.HasToken() {
		fmt.Fprintln(out, "not logged in")
		return nil
	}

	user, ok := a.Session.CurrentUser()
	if !ok {
		fmt.Fprintln(out, "not logged in")
		return nil
	}

	state := "valid"
	if a.Session.IsTokenExpired() {
		state = "expired, run `immo refresh`"
	}
	fmt.Fprintf(out, "logged in as %s <%s> (%s), token %s\n", user.DisplayName(), user.Email, user.Role, state)
	return nil
}

func runLogin(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("login")
	email := fs.String("email", "", "account email")
	pass := fs.String("password", "", "account password (or IMMO_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	decision := a.Guards.GuestOnly(guardRoute("/login"))
	if !decision.Allow {
		fmt.Fprintln(out, "already logged in")
		return nil
	}

	user, err := a.Session.Login(ctx, model.LoginRequest{Email: *email, Password: password(*pass)})
	if err != nil {
		return errors.New(apierror.MessageOr(err, session.FallbackLogin))
	}

	fmt.Fprintf(out, "welcome %s\n", user.DisplayName())
	return nil
}

func runLogout(_ context.Context, a *app.App, _ []string, out io.Writer) error {
	a.Session.Logout()
	fmt.Fprintln(out, "logged out")
	return nil
}

func runRefresh(ctx context.Context, a *app.App, _ []string, out io.Writer) error {
	if _, err := a.Session.RefreshToken(ctx); err != nil {
		if errors.Is(err, model.ErrNoRefreshToken) {
			return errors.New("no refresh token stored, log in again")
		}
		return err
	}

	fmt.Fprintln(out, "access token refreshed")
	return nil
}

func runRegister(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("register")
	req := model.RegisterRequest{}
	fs.StringVar(&req.Email, "email", "", "account email")
	pass := fs.String("password", "", "account password (or IMMO_PASSWORD)")
	fs.StringVar(&req.FirstName, "first-name", "", "first name")
	fs.StringVar(&req.LastName, "last-name", "", "last name")
	fs.StringVar(&req.Phone, "phone", "", "phone number")
	fs.StringVar(&req.Role, "role", "particulier", "particulier or entreprise")
	if err := fs.Parse(args); err != nil {
		return err
	}
	req.Password = password(*pass)

	resp, err := a.Session.Register(ctx, req)
	if err != nil {
		return errors.New(apierror.MessageOr(err, session.FallbackRegister))
	}

	message := resp.Message
	if message == "" {
		message = "account created, check your inbox to activate it"
	}
	fmt.Fprintln(out, message)
	return nil
}

func runVerify(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("verify")
	token := fs.String("token", "", "activation token from the email link")
	resend := fs.Bool("resend", false, "request a new email when the link has expired")
	if err := fs.Parse(args); err != nil {
		return err
	}

	flow := a.NewVerifyFlow()
	state := flow.Start(ctx, *token)

	switch state.Status {
	case verify.StatusSuccess:
		fmt.Fprintf(out, "%s\nnext: %s\n", state.Message, flow.LoginTarget(a.Config.LoginPath))
		return nil
	case verify.StatusExpired:
		fmt.Fprintln(out, state.Message)
		if !*resend {
			fmt.Fprintf(out, "run `immo resend -email %s` or pass -resend\n", state.ResendEmail)
			return nil
		}
		if err := flow.Resend(ctx); err != nil {
			return resendError(flow, err)
		}
		fmt.Fprintln(out, flow.State().ResendMessage)
		return nil
	default:
		return errors.New(state.Message)
	}
}

func runResend(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := newFlagSet("resend")
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	flow := a.NewVerifyFlow()
	flow.SetResendEmail(*email)
	if msg := flow.State().EmailError; msg != "" {
		return errors.New(msg)
	}

	if err := flow.Resend(ctx); err != nil {
		return resendError(flow, err)
	}

	fmt.Fprintln(out, flow.State().ResendMessage)
	return nil
}

func resendError(flow *verify.Flow, err error) error {
	if errors.Is(err, model.ErrInvalidInput) {
		return errors.New("an email is required")
	}
	if msg := flow.State().ResendMessage; msg != "" {
		return errors.New(msg)
	}
	return err
}
