package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/geocoder89/workoutseed/internal/domain/user"
	"github.com/geocoder89/workoutseed/internal/store"
	"github.com/geocoder89/workoutseed/internal/validate"
)

const tracerName = "github.com/geocoder89/workoutseed/internal/seed"

// Recorder receives one observation per finished item.
type Recorder interface {
	ObserveItem(kind, status string)
}

type noopRecorder struct{}

func (noopRecorder) ObserveItem(kind, status string) {}

// Orchestrator runs seed plans item by item. Each created item is committed
// on its own, so a failure never undoes earlier items of the same run.
type Orchestrator struct {
	store    store.Store
	factory  Factory
	log      *slog.Logger
	recorder Recorder
	tracer   trace.Tracer
	now      func() time.Time
}

type Option func(*Orchestrator)

func WithLogger(log *slog.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

func WithTracer(t trace.Tracer) Option {
	return func(o *Orchestrator) { o.tracer = t }
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

func New(st store.Store, hasher Hasher, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:    st,
		log:      slog.Default(),
		recorder: noopRecorder{},
		tracer:   otel.Tracer(tracerName),
		now:      func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(o)
	}

	o.factory = Factory{Hasher: hasher, Now: o.now}
	return o
}

// Run processes users, then exercises, then templates, strictly in order.
// The returned error is non-nil only when the store cannot be reached;
// item failures are reported in the Result.
func (o *Orchestrator) Run(ctx context.Context, plan Plan) (Result, error) {
	res := Result{RunID: uuid.NewString()}
	log := o.log.With("run_id", res.RunID)

	ctx, span := o.tracer.Start(ctx, "seed.run", trace.WithAttributes(
		attribute.String("seed.run_id", res.RunID),
		attribute.Int("seed.items", plan.Len()),
	))
	defer span.End()

	sess, err := o.store.Open(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store unavailable")
		return res, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	defer func() {
		if err := sess.Close(ctx); err != nil {
			log.Warn("closing seed session failed", "err", err)
		}
	}()

	log.Info("seed run started", "users", len(plan.Users), "exercises", len(plan.Exercises), "templates", len(plan.Templates))

	for _, in := range plan.Users {
		res.add(o.seedUser(ctx, log, sess, in))
	}
	for _, in := range plan.Exercises {
		res.add(o.seedExercise(ctx, log, sess, in))
	}
	for _, in := range plan.Templates {
		res.add(o.seedTemplate(ctx, log, sess, in))
	}

	c := res.Counts()
	span.SetAttributes(
		attribute.Int("seed.created", c.Created),
		attribute.Int("seed.skipped", c.Skipped),
		attribute.Int("seed.failed", c.Failed),
	)
	log.Info("seed run finished", "created", c.Created, "skipped", c.Skipped, "failed", c.Failed)

	return res, nil
}

// SeedDefaults seeds the admin account and the default catalog.
func (o *Orchestrator) SeedDefaults(ctx context.Context, admin UserInput) (Result, error) {
	return o.Run(ctx, DefaultPlan(admin))
}

// ListUsers reads all users through a short-lived session.
func (o *Orchestrator) ListUsers(ctx context.Context) ([]user.User, error) {
	sess, err := o.store.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	defer sess.Close(ctx)

	return sess.ListUsers(ctx)
}

func (o *Orchestrator) seedUser(ctx context.Context, log *slog.Logger, sess store.Session, in UserInput) Outcome {
	out := Outcome{Kind: store.KindUser, Key: in.Email, Stage: StageValidating}

	ctx, span := o.startItem(ctx, out)
	defer span.End()

	d, err := parseUser(in)
	if err != nil {
		return o.finish(ctx, log, span, sess, failed(out, err))
	}
	out.Key = d.Email

	err = NewGuard(sess).Check(ctx, store.KindUser,
		Key{Field: "email", Value: d.Email},
		Key{Field: "username", Value: d.Username},
	)
	if err != nil {
		return o.finish(ctx, log, span, sess, rejected(out, err))
	}

	var u user.User
	if d.Admin {
		u, err = o.factory.Admin(d)
	} else {
		u, err = o.factory.User(d)
	}
	if err != nil {
		return o.finish(ctx, log, span, sess, failed(out, fmt.Errorf("hash password: %w", err)))
	}

	out.Stage = StagePersisting
	id, err := sess.InsertUser(ctx, &u)
	if err != nil {
		return o.finish(ctx, log, span, sess, failed(out, &PersistenceError{Op: "insert user", Err: err}))
	}

	return o.finish(ctx, log, span, sess, created(out, id))
}

func (o *Orchestrator) seedExercise(ctx context.Context, log *slog.Logger, sess store.Session, in ExerciseInput) Outcome {
	out := Outcome{Kind: store.KindExercise, Key: in.Name, Stage: StageValidating}

	ctx, span := o.startItem(ctx, out)
	defer span.End()

	d, err := parseExercise(in)
	if err != nil {
		return o.finish(ctx, log, span, sess, failed(out, err))
	}
	out.Key = d.Name

	if err := NewGuard(sess).Check(ctx, store.KindExercise, Key{Field: "name", Value: d.Name}); err != nil {
		return o.finish(ctx, log, span, sess, rejected(out, err))
	}

	e := o.factory.Exercise(d)

	out.Stage = StagePersisting
	id, err := sess.InsertExercise(ctx, &e)
	if err != nil {
		return o.finish(ctx, log, span, sess, failed(out, &PersistenceError{Op: "insert exercise", Err: err}))
	}

	return o.finish(ctx, log, span, sess, created(out, id))
}

func (o *Orchestrator) seedTemplate(ctx context.Context, log *slog.Logger, sess store.Session, in TemplateInput) Outcome {
	out := Outcome{Kind: store.KindTemplate, Key: in.Name, Stage: StageValidating}

	ctx, span := o.startItem(ctx, out)
	defer span.End()

	d, warnings, err := parseTemplate(in, o.now)
	if err != nil {
		return o.finish(ctx, log, span, sess, failed(out, err))
	}
	out.Key = d.Name

	for _, w := range warnings {
		log.WarnContext(ctx, "invalid timestamp, using current time",
			"kind", out.Kind, "key", out.Key, "field", w.Field, "value", w.Value, "fallback", w.Fallback)
	}

	guard := NewGuard(sess)
	if err := guard.Check(ctx, store.KindTemplate, Key{Field: "name", Value: d.Name}); err != nil {
		return o.finish(ctx, log, span, sess, rejected(out, err))
	}

	owner, err := o.resolveOwner(ctx, sess, in, d.CreatedBy)
	if err != nil {
		return o.finish(ctx, log, span, sess, failed(out, err))
	}
	d.CreatedBy = owner

	t := o.factory.Template(d)

	out.Stage = StagePersisting
	id, err := sess.InsertTemplate(ctx, &t)
	if err != nil {
		return o.finish(ctx, log, span, sess, failed(out, &PersistenceError{Op: "insert template", Err: err}))
	}

	return o.finish(ctx, log, span, sess, created(out, id))
}

// resolveOwner returns the id of the template's creator and checks that the
// user exists.
func (o *Orchestrator) resolveOwner(ctx context.Context, sess store.Session, in TemplateInput, createdBy int64) (int64, error) {
	lookup := store.Lookup{Kind: store.KindUser, Field: "id", Value: createdBy}
	field, shown := "created_by", strconv.FormatInt(createdBy, 10)

	if createdBy == 0 && in.Owner != "" {
		lookup = store.Lookup{Kind: store.KindUser, Field: "username", Value: in.Owner}
		field, shown = "owner", in.Owner
	}

	id, found, err := sess.FindOne(ctx, lookup)
	if err != nil {
		return 0, &PersistenceError{Op: "lookup " + string(store.KindUser) + "." + lookup.Field, Err: err}
	}
	if !found {
		return 0, &validate.Error{
			Field:   field,
			Code:    validate.InvalidReference,
			Value:   shown,
			Message: "user " + shown + " does not exist",
		}
	}
	return id, nil
}

func (o *Orchestrator) startItem(ctx context.Context, out Outcome) (context.Context, trace.Span) {
	return o.tracer.Start(ctx, "seed."+string(out.Kind), trace.WithAttributes(
		attribute.String("seed.kind", string(out.Kind)),
		attribute.String("seed.key", out.Key),
	))
}

// finish commits created items and rolls back everything else, then records
// the outcome. A failed commit turns the item into a failure.
func (o *Orchestrator) finish(ctx context.Context, log *slog.Logger, span trace.Span, sess store.Session, out Outcome) Outcome {
	if out.Status == StatusCreated {
		if err := sess.Commit(ctx); err != nil {
			_ = sess.Rollback(ctx)
			out = failed(out, &PersistenceError{Op: "commit", Err: err})
			out.Stage = StagePersisting
			out.ID = 0
		}
	} else if err := sess.Rollback(ctx); err != nil {
		log.WarnContext(ctx, "rollback failed", "kind", out.Kind, "key", out.Key, "err", err)
	}

	span.SetAttributes(attribute.String("seed.status", string(out.Status)))

	switch out.Status {
	case StatusCreated:
		log.InfoContext(ctx, "item created", "kind", out.Kind, "key", out.Key, "id", out.ID)
	case StatusSkipped:
		log.InfoContext(ctx, "item skipped", "kind", out.Kind, "key", out.Key, "reason", out.Reason, "detail", out.Err)
	case StatusFailed:
		span.RecordError(out.Err)
		span.SetStatus(codes.Error, out.Reason)
		log.ErrorContext(ctx, "item failed", "kind", out.Kind, "key", out.Key, "stage", out.Stage, "err", out.Err)
	}

	o.recorder.ObserveItem(string(out.Kind), string(out.Status))
	return out
}

func created(out Outcome, id int64) Outcome {
	out.Status = StatusCreated
	out.Stage = StageRecorded
	out.ID = id
	return out
}

func failed(out Outcome, err error) Outcome {
	out.Status = StatusFailed
	out.Reason = err.Error()
	out.Err = err
	return out
}

// rejected maps a guard error: conflicts skip the item, anything else fails it.
func rejected(out Outcome, err error) Outcome {
	if errors.Is(err, ErrConflict) {
		out.Status = StatusSkipped
		out.Reason = ReasonExists
		out.Err = err
		return out
	}
	return failed(out, err)
}
