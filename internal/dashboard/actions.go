package dashboard

import (
	"context"
	"errors"
	"fmt"
)

// Actions is the surface the page binds its buttons and forms to.
type Actions interface {
	SearchJobs(ctx context.Context)
	PerformSearch(ctx context.Context)
	GeneratePackage(ctx context.Context)
	GenerateForJob(ctx context.Context, jobID string)
	AnalyzeJob(ctx context.Context, jobID string)
	BulkApply(ctx context.Context)
	RefreshAnalytics(ctx context.Context)
	AddToDatabase(ctx context.Context, jobTitle string)
	CloseModal(ctx context.Context)
}

var _ Actions = (*Controller)(nil)

// Action names used by page markup.
const (
	ActionSearch           = "search"
	ActionFormSearch       = "form-search"
	ActionGeneratePackage  = "generate-package"
	ActionGenerateForJob   = "generate-for-job"
	ActionAnalyzeJob       = "analyze-job"
	ActionBulkApply        = "bulk-apply"
	ActionRefreshAnalytics = "refresh-analytics"
	ActionAddToDatabase    = "add-to-database"
	ActionCloseModal       = "close-modal"
)

var ErrUnknownAction = errors.New("unknown action")

// ErrMissingArg is returned when an action that needs an argument gets none.
var ErrMissingArg = errors.New("missing action argument")

// Dispatch invokes the named action. arg carries the job id or job title for
// actions that take one.
func Dispatch(ctx context.Context, a Actions, name, arg string) error {
	needArg := func() error {
		if arg == "" {
			return fmt.Errorf("%s: %w", name, ErrMissingArg)
		}
		return nil
	}

	switch name {
	case ActionSearch:
		a.SearchJobs(ctx)
	case ActionFormSearch:
		a.PerformSearch(ctx)
	case ActionGeneratePackage:
		a.GeneratePackage(ctx)
	case ActionGenerateForJob:
		if err := needArg(); err != nil {
			return err
		}
		a.GenerateForJob(ctx, arg)
	case ActionAnalyzeJob:
		if err := needArg(); err != nil {
			return err
		}
		a.AnalyzeJob(ctx, arg)
	case ActionBulkApply:
		a.BulkApply(ctx)
	case ActionRefreshAnalytics:
		a.RefreshAnalytics(ctx)
	case ActionAddToDatabase:
		if err := needArg(); err != nil {
			return err
		}
		a.AddToDatabase(ctx, arg)
	case ActionCloseModal:
		a.CloseModal(ctx)
	default:
		return fmt.Errorf("%q: %w", name, ErrUnknownAction)
	}
	return nil
}

// promptedController answers prompts from a per-call Prompter.
type promptedController struct {
	*Controller
	p Prompter
}

func (pc promptedController) GeneratePackage(ctx context.Context) {
	pc.Controller.generatePackage(ctx, pc.p)
}

func (pc promptedController) BulkApply(ctx context.Context) {
	pc.Controller.bulkApply(ctx, pc.p)
}

// StaticPrompter answers every prompt with fixed values.
type StaticPrompter struct {
	Answer    string
	Confirmed bool
}

func (s StaticPrompter) Prompt(string) (string, bool) { return s.Answer, s.Answer != "" }
func (s StaticPrompter) Confirm(string) bool          { return s.Confirmed }
