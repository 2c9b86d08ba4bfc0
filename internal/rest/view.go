package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/GoSim-25-26J-441/seed-api/internal/logging"
)

// View serves the CRUD endpoints of one resource on top of a Store and a Schema.
type View[T Model] struct {
	res    Resource
	store  Store[T]
	schema Schema[T]
	now    func() time.Time
	newID  func() string
}

type ViewOption[T Model] func(*View[T])

// WithClock overrides the time passed to Timestamped models.
func WithClock[T Model](now func() time.Time) ViewOption[T] {
	return func(v *View[T]) { v.now = now }
}

// WithIDGenerator overrides how the create handler assigns identifiers.
func WithIDGenerator[T Model](fn func() string) ViewOption[T] {
	return func(v *View[T]) { v.newID = fn }
}

func NewView[T Model](res Resource, store Store[T], schema Schema[T], opts ...ViewOption[T]) *View[T] {
	v := &View[T]{
		res:    res,
		store:  store,
		schema: schema,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *View[T]) Resource() Resource {
	return v.res
}

// Routes returns the declaration table for this view.
func (v *View[T]) Routes() []Route {
	return Routes(v.res, v)
}

// List handles GET /<resource>.
func (v *View[T]) List(c *gin.Context) {
	items, err := v.store.FindAll(c.Request.Context())
	if err != nil {
		v.fail(c, "list", err)
		return
	}
	if items == nil {
		items = []T{}
	}
	Respond(c, CodeSuccess, nil, items)
}

// Get handles GET /<resource>/:id. A missing entity is an empty success.
func (v *View[T]) Get(c *gin.Context, id string) {
	item, err := v.store.FindByID(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		Respond(c, CodeSuccess, nil, gin.H{})
		return
	}
	if err != nil {
		v.fail(c, "get", err)
		return
	}
	Respond(c, CodeSuccess, nil, item)
}

// Create handles POST /<resource> with a single object or an array.
func (v *View[T]) Create(c *gin.Context) {
	payload, ok := v.readPayload(c)
	if !ok {
		return
	}

	var (
		items []T
		errs  FieldErrors
	)
	if firstByte(payload) == '[' {
		items, errs = v.schema.LoadMany(payload)
	} else {
		item := v.schema.New()
		errs = v.schema.Load(payload, item)
		items = []T{item}
	}
	if len(errs) > 0 {
		Respond(c, CodeParamsValidError, errs, nil)
		return
	}

	for _, item := range items {
		item.SetID(v.newID())
		v.stamp(item, time.Time{})
	}
	if len(items) > 0 {
		if err := v.store.Save(c.Request.Context(), items...); err != nil {
			v.fail(c, "create", err)
			return
		}
	}
	logging.FromContext(c.Request.Context()).Info("resource created",
		"resource", v.res.Name, "count", len(items))
	Respond(c, CodeSuccess, nil, nil)
}

// Update handles PUT /<resource>/:id by merging the body into the stored entity.
func (v *View[T]) Update(c *gin.Context, id string) {
	payload, ok := v.readPayload(c)
	if !ok {
		return
	}

	item, err := v.store.FindByID(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		Respond(c, CodeError, msgNotExists, nil)
		return
	}
	if err != nil {
		v.fail(c, "update", err)
		return
	}

	created := createdTime(item)
	if errs := v.schema.Load(payload, item); len(errs) > 0 {
		Respond(c, CodeParamsValidError, errs, nil)
		return
	}
	item.SetID(id)
	v.stamp(item, created)

	if err := v.store.Save(c.Request.Context(), item); err != nil {
		v.fail(c, "update", err)
		return
	}
	Respond(c, CodeSuccess, nil, item)
}

// UpdateMany handles PUT /<resource> with an array of entities carrying their ids.
func (v *View[T]) UpdateMany(c *gin.Context) {
	payload, ok := v.readPayload(c)
	if !ok {
		return
	}

	items, errs := v.schema.LoadMany(payload)
	if len(errs) > 0 {
		Respond(c, CodeParamsValidError, errs, nil)
		return
	}
	errs = FieldErrors{}
	for i, item := range items {
		if item.GetID() == "" {
			errs.Add(fmt.Sprintf("%d.%s", i, IDParam), msgMissingField)
		}
	}
	if len(errs) > 0 {
		Respond(c, CodeParamsValidError, errs, nil)
		return
	}

	ctx := c.Request.Context()
	for _, item := range items {
		existing, err := v.store.FindByID(ctx, item.GetID())
		switch {
		case errors.Is(err, ErrNotFound):
			v.stamp(item, time.Time{})
		case err != nil:
			v.fail(c, "update_many", err)
			return
		default:
			v.stamp(item, createdTime(existing))
		}
	}
	if len(items) > 0 {
		if err := v.store.Save(ctx, items...); err != nil {
			v.fail(c, "update_many", err)
			return
		}
	}
	Respond(c, CodeSuccess, nil, items)
}

// Delete handles DELETE /<resource>/:id.
func (v *View[T]) Delete(c *gin.Context, id string) {
	deleted, err := v.store.Delete(c.Request.Context(), id)
	if err != nil {
		v.fail(c, "delete", err)
		return
	}
	if !deleted {
		Respond(c, CodeError, msgNotExists, nil)
		return
	}
	Respond(c, CodeSuccess, msgSuccess, nil)
}

func (v *View[T]) readPayload(c *gin.Context) (json.RawMessage, bool) {
	body, err := c.GetRawData()
	if err != nil || firstByte(body) == 0 {
		Respond(c, CodeParamsValidError, FieldErrors{schemaKey: {msgInvalidInput}}, nil)
		return nil, false
	}
	return body, true
}

// stamp sets the server times on item. A zero created marks a new entity.
func (v *View[T]) stamp(item T, created time.Time) {
	ts, ok := any(item).(Timestamped)
	if !ok {
		return
	}
	now := v.now().UTC()
	if created.IsZero() {
		created = now
	}
	ts.SetTimes(created, now)
}

func createdTime[T Model](item T) time.Time {
	if ts, ok := any(item).(Timestamped); ok {
		return ts.CreatedTime()
	}
	return time.Time{}
}

func (v *View[T]) fail(c *gin.Context, op string, err error) {
	if errors.Is(err, ErrConflict) {
		Respond(c, CodeError, "The data already exists!", nil)
		return
	}
	var refErr *ReferenceError
	if errors.As(err, &refErr) {
		field := refErr.Field
		if field == "" {
			field = schemaKey
		}
		Respond(c, CodeParamsValidError, FieldErrors{field: {msgMissingRelated}}, nil)
		return
	}
	logging.FromContext(c.Request.Context()).Error("store operation failed",
		"resource", v.res.Name, "op", op, "error", err)
	RespondStatus(c, http.StatusInternalServerError, CodeError, msgInternal, nil)
}
