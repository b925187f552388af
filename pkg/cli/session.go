package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/chzyer/readline"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/virtualvitae/vitae/pkg/model"
	"github.com/virtualvitae/vitae/pkg/usecase/vent"
	"github.com/virtualvitae/vitae/pkg/utils/logging"
)

func sessionCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "session",
		Usage: "Start an interactive reflecting session",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.load(c); err != nil {
				return err
			}

			logger := logging.New(cfg.logLevel, os.Stderr)
			logging.SetDefault(logger)
			ctx = logging.With(ctx, logger)

			repo, err := cfg.newRepository()
			if err != nil {
				return err
			}
			defer repo.Close()

			responder, err := cfg.newResponder(ctx)
			if err != nil {
				return err
			}

			rl, err := readline.New("> ")
			if err != nil {
				return goerr.Wrap(err, "failed to initialize terminal input")
			}
			defer rl.Close()

			ctrl := vent.NewController(vent.NewControllerInput{
				Repo:      repo,
				Responder: responder,
				Confirm:   confirmWith(rl),
				Pattern:   cfg.emailPattern(),
			})

			return runSession(ctx, c.Root().Writer, rl, ctrl, &cfg)
		},
	}
}

// runSession drives the onboarding/composing/archive loop until the user
// quits or input ends.
func runSession(ctx context.Context, w io.Writer, rl *readline.Instance, ctrl *vent.Controller, cfg *config) error {
	fmt.Fprintf(w, "Virtual Vitae: student reflecting space. Type :help for commands.\n\n")

	for {
		switch ctrl.State().View {
		case vent.ViewOnboarding:
			if done := runOnboarding(ctx, w, rl, ctrl, cfg); done {
				return nil
			}

		case vent.ViewComposing:
			if done, err := runComposing(ctx, w, rl, ctrl, cfg); done || err != nil {
				return err
			}

		case vent.ViewArchive:
			if done, err := runArchive(ctx, w, rl, ctrl); done || err != nil {
				return err
			}
		}
	}
}

// runOnboarding collects the identity fields. It reports true when input
// ended and the session should stop.
func runOnboarding(ctx context.Context, w io.Writer, rl *readline.Instance, ctrl *vent.Controller, cfg *config) bool {
	fmt.Fprintf(w, "This space is private and stored only on this device, keyed to your email.\n")

	first, ok := promptField(rl, "First name: ")
	if !ok {
		return true
	}
	last, ok := promptField(rl, "Last name: ")
	if !ok {
		return true
	}
	email, ok := promptField(rl, "School email (@"+cfg.domain+"): ")
	if !ok {
		return true
	}

	identity := model.Identity{FirstName: first, LastName: last, Email: email}
	if err := ctrl.Enter(ctx, identity); err != nil {
		if errors.Is(err, vent.ErrInvalidEmail) {
			fmt.Fprintf(w, "Please use a valid @%s address.\n\n", cfg.domain)
		}
		return false
	}

	st := ctrl.State()
	fmt.Fprintf(w, "\nWelcome, %s. %d earlier reflection(s) found for %s.\n\n",
		st.Identity.FirstName, len(st.History), st.Identity.Email)
	return false
}

// runComposing reads one line: a command, or free text submitted as a
// reflection. It reports (done, err).
func runComposing(ctx context.Context, w io.Writer, rl *readline.Instance, ctrl *vent.Controller, cfg *config) (bool, error) {
	rl.SetPrompt("> ")
	line, err := rl.Readline()
	if err != nil {
		// interrupt or closed input ends the session
		return true, nil
	}

	switch strings.TrimSpace(line) {
	case "":
		return false, nil

	case ":quit", ":q":
		return true, nil

	case ":help":
		printComposeHelp(w)
		return false, nil

	case ":archive":
		if err := ctrl.OpenArchive(ctx); err != nil {
			return false, err
		}
		printHistory(w, ctrl.State())
		return false, nil

	case ":reset":
		ctrl.Reset()
		fmt.Fprintf(w, "Space cleared.\n")
		return false, nil

	case ":switch":
		ctrl.SwitchIdentity()
		return false, nil

	case ":email":
		printAdvisorHandoff(w, ctrl.State(), cfg.advisor)
		return false, nil

	default:
		ctrl.EditDraft(line)

		sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond,
			spinner.WithWriter(os.Stderr), spinner.WithSuffix(" reflecting..."))
		sp.Start()
		submitErr := ctrl.Submit(ctx)
		sp.Stop()
		if submitErr != nil {
			return false, submitErr
		}

		fmt.Fprintf(w, "\n%s\n\n", ctrl.State().LastResponse)
		return false, nil
	}
}

// runArchive handles the read-only archive view.
func runArchive(ctx context.Context, w io.Writer, rl *readline.Instance, ctrl *vent.Controller) (bool, error) {
	rl.SetPrompt("archive> ")
	line, err := rl.Readline()
	if err != nil {
		return true, nil
	}

	switch strings.TrimSpace(line) {
	case ":quit", ":q":
		return true, nil

	case ":return", "":
		ctrl.ReturnToCompose()
		return false, nil

	case ":purge":
		if err := ctrl.Purge(ctx); err != nil {
			return false, err
		}
		printHistory(w, ctrl.State())
		return false, nil

	case ":switch":
		ctrl.SwitchIdentity()
		return false, nil

	default:
		fmt.Fprintf(w, "Commands: :return :purge :switch :quit\n")
		return false, nil
	}
}

// promptField keeps asking until the answer is non-blank. ok is false when
// input ended.
func promptField(rl *readline.Instance, label string) (string, bool) {
	rl.SetPrompt(label)
	for {
		line, err := rl.Readline()
		if err != nil {
			return "", false
		}
		if model.ValidName(line) {
			return strings.TrimSpace(line), true
		}
	}
}

// confirmWith answers the controller's confirmation requests over readline.
func confirmWith(rl *readline.Instance) vent.Confirmer {
	return func(prompt string) bool {
		rl.SetPrompt(prompt + " [y/N] ")
		line, err := rl.Readline()
		if err != nil {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	}
}

func printComposeHelp(w io.Writer) {
	fmt.Fprintf(w, `Write freely and press enter to receive a reflection.
  :archive  review earlier reflections
  :reset    clear the current draft and reply
  :email    compose a hand-off to your year advisor
  :switch   return to the entry screen
  :quit     end the session
`)
}

func printHistory(w io.Writer, st vent.State) {
	fmt.Fprintf(w, "\nArchives for %s\n", st.Identity.Email)
	if len(st.History) == 0 {
		fmt.Fprintf(w, "No records found for this profile.\n\n")
		return
	}

	for _, r := range st.History {
		fmt.Fprintf(w, "\n[%s]\n%s\n", r.CreatedAt.Format("2006-01-02 15:04"), r.Content)
		if r.AIResponse != "" {
			fmt.Fprintf(w, "  → %s\n", r.AIResponse)
		}
	}
	fmt.Fprintln(w)
}

func printAdvisorHandoff(w io.Writer, st vent.State, advisor string) {
	if st.LastResponse == "" || strings.TrimSpace(st.Draft) == "" {
		fmt.Fprintf(w, "Submit a reflection first, then :email shares the latest one.\n")
		return
	}

	mail := vent.ComposeAdvisorMail(advisor, st.Identity, strings.TrimSpace(st.Draft), st.LastResponse)
	fmt.Fprintf(w, "\nTo: %s\nSubject: %s\n\n%s\n\nOpen in your mail client:\n%s\n\n",
		mail.Recipient, mail.Subject, mail.Body, mail.MailtoURL())
}
