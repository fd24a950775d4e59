package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the account used for video analysis",
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Create a new account and sign in",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "display name", Required: true},
					&cli.StringFlag{Name: "email", Usage: "email address", Required: true},
					&cli.StringFlag{Name: "password", Usage: "account password", Required: true},
				},
				Action: r.AuthRegister,
			},
			{
				Name:  "login",
				Usage: "Sign in to an existing account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Usage: "email address", Required: true},
					&cli.StringFlag{Name: "password", Usage: "account password", Required: true},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show the current sign-in state",
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Sign out and discard saved credentials",
				Action: r.AuthLogout,
			},
		},
	}
}

// AuthRegister creates an account and signs the user in with the returned token.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	resp, err := r.svc.Register(ctx, cmd.String("name"), cmd.String("email"), cmd.String("password"))
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	if err := r.gate.SignIn(resp.Identity()); err != nil {
		return err
	}

	return r.writePlainln("✓ Account created. Signed in as %s <%s>", resp.Name, resp.Email)
}

// AuthLogin signs in to an existing account.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	resp, err := r.svc.Login(ctx, cmd.String("email"), cmd.String("password"))
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := r.gate.SignIn(resp.Identity()); err != nil {
		return err
	}

	return r.writePlainln("✓ Signed in as %s <%s>", resp.Name, resp.Email)
}

// AuthStatus reports the sign-in state and whether the analysis server is reachable.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	identity, ok := r.gate.Identity()
	if !ok {
		return r.writePlainln("Not signed in. Run 'squatx auth login' or 'squatx auth register'.")
	}

	if err := r.writePlainln("Signed in as %s <%s>", identity.UserName, identity.Email); err != nil {
		return err
	}

	if err := r.svc.Health(ctx); err != nil {
		return r.writePlain("Analysis server: unreachable (%v)\n", err)
	}

	return r.writePlain("Analysis server: ok\n")
}

// AuthLogout discards the in-memory identity and saved credentials.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if _, ok := r.gate.Identity(); !ok {
		return r.writePlainln("Not signed in.")
	}

	if err := r.gate.SignOut(); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}

	return r.writePlainln("✓ Signed out")
}
