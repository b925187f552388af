package vent

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/virtualvitae/vitae/pkg/model"
	"github.com/virtualvitae/vitae/pkg/repository"
)

var (
	// ErrInvalidEmail is surfaced to the UI as the email-format indicator.
	ErrInvalidEmail = goerr.New("email does not match the accepted domain")
	// ErrIncompleteIdentity blocks onboarding without a user-facing message.
	ErrIncompleteIdentity = goerr.New("identity is incomplete")
)

type View string

const (
	ViewOnboarding View = "onboarding"
	ViewComposing  View = "composing"
	ViewArchive    View = "archive"
)

// State is the observable session state. It is a plain value owned by the
// Controller; callers receive copies and never mutate it directly.
type State struct {
	View         View
	Identity     model.Identity
	Draft        string
	LastResponse string
	Generating   bool
	History      model.History
}

// Replier abstracts the response generator so tests can substitute one.
type Replier interface {
	Reply(ctx context.Context, reflection, name string) string
}

// Confirmer answers a yes/no question on behalf of the user. Purge and
// switch-identity require an explicit confirmation through it, keeping the
// controller free of any host prompt.
type Confirmer func(prompt string) bool

// Controller drives the session state machine across onboarding, composing
// and archive. The host delivers one user action at a time; the only
// suspension point is the generation call, guarded by State.Generating.
type Controller struct {
	repo      repository.Repository
	responder Replier
	confirm   Confirmer
	pattern   *regexp.Regexp
	now       func() time.Time

	state State
}

// NewControllerInput contains parameters for creating a Controller
type NewControllerInput struct {
	Repo      repository.Repository
	Responder Replier
	Confirm   Confirmer
	Pattern   *regexp.Regexp // email acceptance pattern; nil means the default domain
}

// ControllerOption is a functional option for Controller
type ControllerOption func(*Controller)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) {
		c.now = now
	}
}

func NewController(input NewControllerInput, opts ...ControllerOption) *Controller {
	pattern := input.Pattern
	if pattern == nil {
		pattern = model.EmailPattern(model.DefaultEmailDomain)
	}

	confirm := input.Confirm
	if confirm == nil {
		confirm = func(string) bool { return false }
	}

	c := &Controller{
		repo:      input.Repo,
		responder: input.Responder,
		confirm:   confirm,
		pattern:   pattern,
		now:       time.Now,
		state:     State{View: ViewOnboarding},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// State returns a copy of the current session state.
func (c *Controller) State() State {
	return c.state
}

// Enter validates the candidate identity and, when complete, loads the
// persisted history for it and moves to composing. On failure the session
// stays in onboarding.
func (c *Controller) Enter(ctx context.Context, identity model.Identity) error {
	if c.state.View != ViewOnboarding {
		return nil
	}

	if !model.ValidName(identity.FirstName) || !model.ValidName(identity.LastName) {
		return goerr.Wrap(ErrIncompleteIdentity, "name fields must not be blank")
	}
	if !c.pattern.MatchString(strings.TrimSpace(identity.Email)) {
		return goerr.Wrap(ErrInvalidEmail, "email rejected", goerr.V("email", identity.Email))
	}

	history, err := c.repo.GetHistory(ctx, identity.Key())
	if err != nil {
		return goerr.Wrap(err, "failed to load history")
	}

	c.state = State{
		View:     ViewComposing,
		Identity: identity,
		History:  history,
	}
	return nil
}

// EditDraft replaces the current draft text.
func (c *Controller) EditDraft(text string) {
	if c.state.View == ViewComposing {
		c.state.Draft = text
	}
}

// Reset clears the draft and the last response. History is untouched.
func (c *Controller) Reset() {
	c.state.Draft = ""
	c.state.LastResponse = ""
}

// Submit records the current draft as a new reflection. A blank draft or an
// in-flight generation makes it a no-op, so one draft can never produce two
// entries. The owning identity and its profile key are captured before the
// generation call: even if the session switches identity while the call is
// outstanding, the write lands in the history that submitted it.
func (c *Controller) Submit(ctx context.Context) error {
	if c.state.View != ViewComposing {
		return nil
	}
	content := strings.TrimSpace(c.state.Draft)
	if content == "" || c.state.Generating {
		return nil
	}

	c.state.Generating = true
	defer func() { c.state.Generating = false }()

	owner := c.state.Identity
	key := owner.Key()

	response := c.responder.Reply(ctx, content, owner.FirstName)

	reflection := &model.Reflection{
		ID:         model.NewReflectionID(),
		Content:    content,
		CreatedAt:  c.now(),
		AIResponse: response,
		Owner:      owner,
	}

	history, err := c.repo.PrependReflection(ctx, key, reflection)
	if err != nil {
		return goerr.Wrap(err, "failed to record reflection", goerr.V("key", key))
	}

	if c.state.Identity.Key() == key {
		c.state.History = history
		c.state.LastResponse = response
	}
	return nil
}

// OpenArchive moves to the archive view, re-reading the persisted history so
// the view never shows a stale in-memory copy.
func (c *Controller) OpenArchive(ctx context.Context) error {
	if c.state.View == ViewOnboarding {
		return nil
	}

	history, err := c.repo.GetHistory(ctx, c.state.Identity.Key())
	if err != nil {
		return goerr.Wrap(err, "failed to load history")
	}

	c.state.View = ViewArchive
	c.state.History = history
	return nil
}

// ReturnToCompose leaves the archive.
func (c *Controller) ReturnToCompose() {
	if c.state.View == ViewArchive {
		c.state.View = ViewComposing
	}
}

// Purge irreversibly deletes the persisted history for the current identity
// after confirmation. Other identities are unaffected.
func (c *Controller) Purge(ctx context.Context) error {
	if c.state.View != ViewArchive {
		return nil
	}
	if !c.confirm("Permanently delete all session history for " + c.state.Identity.Email + "?") {
		return nil
	}

	if err := c.repo.ClearHistory(ctx, c.state.Identity.Key()); err != nil {
		return goerr.Wrap(err, "failed to purge history")
	}

	c.state.History = model.History{}
	return nil
}

// SwitchIdentity abandons the current identity after confirmation and returns
// to onboarding. Durable storage for the abandoned identity is left intact.
// It reports whether the switch happened.
func (c *Controller) SwitchIdentity() bool {
	if c.state.View == ViewOnboarding {
		return false
	}
	if !c.confirm("Return to the entry screen? Your current session reflections are archived locally.") {
		return false
	}

	c.state = State{View: ViewOnboarding}
	return true
}
