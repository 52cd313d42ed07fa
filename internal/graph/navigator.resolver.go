package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"skidqi-be/internal/category"
	"skidqi-be/internal/logger"
	"skidqi-be/internal/navigator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type mutationResolver struct{ *Resolver }

func (r *mutationResolver) typeName() string { return "Mutation" }

// field runs one navigation transition. A failed fetch is reported through
// the returned view (error and canRetry) rather than as a GraphQL error.
func (r *mutationResolver) field(ctx context.Context, name string, args map[string]any) (any, error) {
	sessionID := stringArg(args, "sessionId")
	ctx = logger.WithSessionID(ctx, sessionID)
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "graph"),
		zap.String("field", "Mutation."+name),
	)

	switch name {
	case "navInit":
		if sessionID == "" {
			sessionID = uuid.New().String()
			ctx = logger.WithSessionID(ctx, sessionID)
		}
		view, err := r.Navigators.GetOrCreate(sessionID).Init(ctx)
		if err = keepFetchError(err); err != nil {
			return nil, err
		}
		log.Info("nav session started")
		return &navSessionResolver{id: sessionID, view: r.view(view)}, nil

	case "navSelect":
		n, err := r.Navigators.Get(sessionID)
		if err != nil {
			return nil, err
		}
		outcome, err := n.SelectByID(ctx, stringArg(args, "categoryId"))
		return r.outcome(outcome, err)

	case "navBack":
		n, err := r.Navigators.Get(sessionID)
		if err != nil {
			return nil, err
		}
		toIndex, err := intArg(args, "toIndex")
		if err != nil {
			return nil, err
		}
		view, err := n.GoBack(ctx, toIndex)
		if err = keepFetchError(err); err != nil {
			return nil, err
		}
		return r.view(view), nil

	case "navReset":
		view, err := r.Navigators.GetOrCreate(sessionID).Reset(ctx)
		if err = keepFetchError(err); err != nil {
			return nil, err
		}
		return r.view(view), nil

	case "navRetry":
		n, err := r.Navigators.Get(sessionID)
		if err != nil {
			return nil, err
		}
		outcome, err := n.Retry(ctx)
		return r.outcome(outcome, err)

	case "navEnd":
		if !r.Navigators.Remove(sessionID) {
			return nil, navigator.ErrSessionNotFound
		}
		log.Info("nav session ended")
		return true, nil
	}
	return nil, fmt.Errorf("unknown field Mutation.%s", name)
}

func (r *mutationResolver) outcome(outcome navigator.Outcome, err error) (any, error) {
	if err = keepFetchError(err); err != nil {
		return nil, err
	}
	return &navOutcomeResolver{outcome: outcome, view: r.view(outcome.View)}, nil
}

// keepFetchError drops fetch failures, which the view already carries.
func keepFetchError(err error) error {
	if category.IsFetchError(err) {
		return nil
	}
	return err
}

type navViewResolver struct {
	*Resolver
	view navigator.View
}

func (r *Resolver) view(v navigator.View) *navViewResolver {
	return &navViewResolver{Resolver: r, view: v}
}

func (r *navViewResolver) typeName() string { return "NavView" }

func (r *navViewResolver) field(_ context.Context, name string, _ map[string]any) (any, error) {
	v := r.view
	switch name {
	case "state":
		return v.State.String(), nil
	case "path":
		return r.categoryList(v.Path), nil
	case "items":
		return r.categoryList(v.Items), nil
	case "step":
		return v.Step, nil
	case "loading":
		return v.Loading, nil
	case "canRetry":
		return v.CanRetry, nil
	case "error":
		if v.Err == "" {
			return nil, nil
		}
		return v.Err, nil
	}
	return nil, fmt.Errorf("unknown field NavView.%s", name)
}

type navOutcomeResolver struct {
	outcome navigator.Outcome
	view    *navViewResolver
}

func (r *navOutcomeResolver) typeName() string { return "NavOutcome" }

func (r *navOutcomeResolver) field(_ context.Context, name string, _ map[string]any) (any, error) {
	switch name {
	case "chosen":
		return r.outcome.Chosen, nil
	case "categoryId":
		if r.outcome.CategoryID == "" {
			return nil, nil
		}
		return r.outcome.CategoryID, nil
	case "view":
		return r.view, nil
	}
	return nil, fmt.Errorf("unknown field NavOutcome.%s", name)
}

type navSessionResolver struct {
	id   string
	view *navViewResolver
}

func (r *navSessionResolver) typeName() string { return "NavSession" }

func (r *navSessionResolver) field(_ context.Context, name string, _ map[string]any) (any, error) {
	switch name {
	case "sessionId":
		return r.id, nil
	case "view":
		return r.view, nil
	}
	return nil, fmt.Errorf("unknown field NavSession.%s", name)
}

// intArg reads an Int argument. Literals arrive as int64, variables as
// json.Number or float64 depending on the transport.
func intArg(args map[string]any, name string) (int, error) {
	switch v := args[name].(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("%s: %w", name, navigator.ErrInvalidIndex)
		}
		return int(i), nil
	case string:
		i, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", name, navigator.ErrInvalidIndex)
		}
		return i, nil
	}
	return 0, fmt.Errorf("%s: %w", name, navigator.ErrInvalidIndex)
}
