package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"skidqi-be/internal/category"
	"skidqi-be/internal/logger"
	"skidqi-be/internal/navigator"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.uber.org/zap"
)

var errIntrospectionDisabled = errors.New("introspection disabled")

// object is a resolved GraphQL object: it knows its type name and resolves
// its fields on demand.
type object interface {
	typeName() string
	field(ctx context.Context, name string, args map[string]any) (any, error)
}

type executableSchema struct {
	resolver *Resolver
}

func (es *executableSchema) Schema() *ast.Schema {
	return parsedSchema
}

func (es *executableSchema) Complexity(ctx context.Context, typeName, fieldName string, childComplexity int, args map[string]any) (int, bool) {
	if typeName == "Category" && fieldName == "children" {
		return 10 + childComplexity, true
	}
	return 0, false
}

func (es *executableSchema) Exec(ctx context.Context) graphql.ResponseHandler {
	op := graphql.GetOperationContext(ctx)

	var root object
	switch op.Operation.Operation {
	case ast.Query:
		root = &queryResolver{es.resolver}
	case ast.Mutation:
		root = &mutationResolver{es.resolver}
	default:
		return graphql.OneShot(graphql.ErrorResponse(ctx, "unsupported operation %s", op.Operation.Operation))
	}

	first := true
	return func(ctx context.Context) *graphql.Response {
		if !first {
			return nil
		}
		first = false

		e := &executor{op: op}
		data, ok := e.selectFields(ctx, root, op.Operation.SelectionSet, nil)

		raw := json.RawMessage("null")
		if ok {
			b, err := json.Marshal(data)
			if err != nil {
				return graphql.ErrorResponse(ctx, "encode response: %v", err)
			}
			raw = b
		}
		return &graphql.Response{Data: raw, Errors: e.errs}
	}
}

// executor walks one operation. Fields run in document order, so mutations
// are applied serially.
type executor struct {
	op   *graphql.OperationContext
	errs gqlerror.List
}

// selectFields resolves sel against obj. It returns false when a non-null
// field failed, which nulls obj in its parent.
func (e *executor) selectFields(ctx context.Context, obj object, sel ast.SelectionSet, path ast.Path) (*fieldSet, bool) {
	out := &fieldSet{}
	for _, f := range graphql.CollectFields(e.op, sel, []string{obj.typeName()}) {
		fieldPath := extend(path, ast.PathName(f.Alias))

		if f.Name == "__typename" {
			out.add(f.Alias, obj.typeName())
			continue
		}

		var (
			v   any
			err error
		)
		if f.Name == "__schema" || f.Name == "__type" {
			err = errIntrospectionDisabled
		} else {
			v, err = obj.field(ctx, f.Name, f.ArgumentMap(e.op.Variables))
		}
		if err != nil {
			e.addError(ctx, fieldPath, err)
			if f.Definition.Type.NonNull {
				return nil, false
			}
			out.add(f.Alias, nil)
			continue
		}

		completed, ok := e.complete(ctx, f.Definition.Type, f.Selections, fieldPath, v)
		if !ok {
			return nil, false
		}
		out.add(f.Alias, completed)
	}
	return out, true
}

// complete shapes a resolved value after its declared type. A false result
// means the value is null where the type forbids it.
func (e *executor) complete(ctx context.Context, t *ast.Type, sel ast.SelectionSet, path ast.Path, v any) (any, bool) {
	if v == nil {
		if t.NonNull {
			e.addError(ctx, path, errors.New("must not be null"))
			return nil, false
		}
		return nil, true
	}

	if t.Elem != nil {
		items, _ := v.([]any)
		out := make([]any, 0, len(items))
		for i, item := range items {
			c, ok := e.complete(ctx, t.Elem, sel, extend(path, ast.PathIndex(i)), item)
			if !ok {
				return nil, !t.NonNull
			}
			out = append(out, c)
		}
		return out, true
	}

	if obj, isObject := v.(object); isObject {
		fields, ok := e.selectFields(ctx, obj, sel, path)
		if !ok {
			return nil, !t.NonNull
		}
		return fields, true
	}
	return v, true
}

func (e *executor) addError(ctx context.Context, path ast.Path, err error) {
	code, msg := classify(err)
	if code == "INTERNAL" {
		logger.FromCtx(ctx).Error("graphql field failed",
			zap.String("path", path.String()),
			zap.Error(err),
		)
	}
	e.errs = append(e.errs, &gqlerror.Error{
		Message:    msg,
		Path:       path,
		Extensions: map[string]any{"code": code},
	})
}

// classify maps domain errors to an error code and a client-safe message.
func classify(err error) (string, string) {
	switch {
	case errors.Is(err, category.ErrCategoryNotFound),
		errors.Is(err, navigator.ErrSessionNotFound):
		return "NOT_FOUND", err.Error()
	case errors.Is(err, category.ErrInvalidCategoryID),
		errors.Is(err, navigator.ErrUnknownNode),
		errors.Is(err, navigator.ErrInvalidIndex),
		errors.Is(err, errIntrospectionDisabled):
		return "BAD_USER_INPUT", err.Error()
	case errors.Is(err, navigator.ErrNotInitialized),
		errors.Is(err, navigator.ErrNothingToRetry),
		errors.Is(err, navigator.ErrStale):
		return "CONFLICT", err.Error()
	case category.IsFetchError(err):
		return "UNAVAILABLE", err.Error()
	}
	return "INTERNAL", "internal error"
}

func extend(path ast.Path, el ast.PathElement) ast.Path {
	out := make(ast.Path, len(path), len(path)+1)
	copy(out, path)
	return append(out, el)
}

// fieldSet is a JSON object that keeps fields in selection order.
type fieldSet struct {
	keys   []string
	values []any
}

func (s *fieldSet) add(key string, v any) {
	s.keys = append(s.keys, key)
	s.values = append(s.values, v)
}

func (s *fieldSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(s.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
