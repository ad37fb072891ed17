// Package composer implements the multi-step listing form: four ordered steps,
// staged photos, a map point, and a submit that uploads then creates.
package composer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"

	"github.com/estatehub/backend-go/internal/client"
	"github.com/estatehub/backend-go/internal/config"
	"github.com/estatehub/backend-go/internal/database/models"
)

// Step is one stage of the composer
type Step int

const (
	StepBasicInfo Step = iota + 1
	StepLocation
	StepDetails
	StepPhotosReview
)

func (s Step) String() string {
	switch s {
	case StepBasicInfo:
		return "basic-info"
	case StepLocation:
		return "location"
	case StepDetails:
		return "details"
	case StepPhotosReview:
		return "photos-review"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// stepFields are the fields whose presence gates leaving each step
var stepFields = map[Step][]string{
	StepBasicInfo: {"Title", "Description", "PropertyType", "Status"},
	StepLocation:  {"Address", "City", "State", "ZipCode"},
	StepDetails:   {"Price", "Area"},
}

var (
	ErrPhotosRequired   = errors.New("at least one photo is required")
	ErrLocationRequired = errors.New("a map location is required")
	ErrNotFinalStep     = errors.New("submit is only available on the final step")
	ErrUnsupportedPhoto = errors.New("only JPG, PNG, or WEBP images are accepted")
	ErrPhotoTooLarge    = errors.New("image size should not exceed 5MB")
	ErrTooManyPhotos    = fmt.Errorf("you can only upload up to %d photos", config.MaxPhotos)
	ErrNoUploadedImages = errors.New("no image URLs returned from upload")
	ErrNoSuchPhoto      = errors.New("photo index out of range")
)

// FieldError is one failed field after validation
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every field that failed
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, " ")
}

// API is what the composer needs from the server
type API interface {
	UploadPhotos(ctx context.Context, photos []client.Photo, progress client.ProgressFunc) ([]string, error)
	CreateProperty(ctx context.Context, in client.CreatePropertyRequest) (*models.Property, error)
}

// Notification is a user-facing toast
type Notification struct {
	Title       string
	Description string
	Destructive bool
}

// Notifier receives every toast the composer raises
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

type Option func(*Composer)

func WithNotifier(n Notifier) Option {
	return func(c *Composer) {
		c.notifier = n
	}
}

func WithProgress(p client.ProgressFunc) Option {
	return func(c *Composer) {
		c.progress = p
	}
}

// Composer is not safe for concurrent use
type Composer struct {
	api         API
	form        Form
	step        Step
	photos      []client.Photo
	coordinates []float64
	submitting  bool
	created     *models.Property

	stepValidator *validator.Validate
	formValidator *validator.Validate
	notifier      Notifier
	progress      client.ProgressFunc
}

func New(api API, opts ...Option) *Composer {
	stepValidator := validator.New(validator.WithRequiredStructEnabled())
	stepValidator.SetTagName("step")

	c := &Composer{
		api:           api,
		form:          DefaultForm(),
		step:          StepBasicInfo,
		stepValidator: stepValidator,
		formValidator: validator.New(validator.WithRequiredStructEnabled()),
		notifier:      NotifierFunc(func(Notification) {}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Composer) Step() Step { return c.step }

// Form returns a copy of the current input
func (c *Composer) Form() Form { return c.form }

// Update edits the form in place
func (c *Composer) Update(edit func(f *Form)) {
	edit(&c.form)
}

// Next advances when the current step's required fields are present.
// It returns the missing fields otherwise.
func (c *Composer) Next() error {
	if c.step >= StepPhotosReview {
		return nil
	}
	if err := c.stepValidator.StructPartial(c.form, stepFields[c.step]...); err != nil {
		return toValidationError(err)
	}
	c.step++
	return nil
}

// Prev moves back one step; it never validates
func (c *Composer) Prev() {
	if c.step > StepBasicInfo {
		c.step--
	}
}

// StagePhoto keeps a photo for upload on submit. An empty content type is sniffed from data.
func (c *Composer) StagePhoto(name, contentType string, data []byte) error {
	if len(c.photos) >= config.MaxPhotos {
		c.notifier.Notify(Notification{Title: "Maximum photos reached", Description: ErrTooManyPhotos.Error(), Destructive: true})
		return ErrTooManyPhotos
	}
	if contentType == "" {
		contentType = mimetype.Detect(data).String()
	}
	if !config.IsAllowedPhotoType(contentType) {
		c.notifier.Notify(Notification{Title: "Invalid file type", Description: "Please upload only JPG, PNG, or WEBP images.", Destructive: true})
		return ErrUnsupportedPhoto
	}
	if int64(len(data)) > config.MaxPhotoSize {
		c.notifier.Notify(Notification{Title: "File too large", Description: "Image size should not exceed 5MB.", Destructive: true})
		return ErrPhotoTooLarge
	}

	c.photos = append(c.photos, client.Photo{Name: name, ContentType: contentType, Data: data})
	return nil
}

func (c *Composer) RemovePhoto(i int) error {
	if i < 0 || i >= len(c.photos) {
		return ErrNoSuchPhoto
	}
	c.photos = append(c.photos[:i], c.photos[i+1:]...)
	return nil
}

// Photos returns the staged photo names in order
func (c *Composer) Photos() []string {
	names := make([]string, len(c.photos))
	for i, p := range c.photos {
		names[i] = p.Name
	}
	return names
}

// SetCoordinates records the point picked on the map
func (c *Composer) SetCoordinates(lng, lat float64) {
	c.coordinates = []float64{lng, lat}
}

func (c *Composer) ClearCoordinates() {
	c.coordinates = nil
}

// Created is the listing returned by the last successful submit
func (c *Composer) Created() *models.Property {
	return c.created
}

// Submit uploads the staged photos and creates the listing. The photo and
// location checks run before any request is made. On failure the composer
// keeps its data and stays on the final step; photos already uploaded stay
// on the server.
func (c *Composer) Submit(ctx context.Context) (*models.Property, error) {
	if c.step != StepPhotosReview {
		return nil, ErrNotFinalStep
	}
	if c.submitting {
		return nil, errors.New("submission already in progress")
	}
	c.submitting = true
	defer func() { c.submitting = false }()

	if len(c.photos) == 0 {
		c.notifier.Notify(Notification{Title: "Photos required", Description: "Please upload at least one photo of your property.", Destructive: true})
		return nil, ErrPhotosRequired
	}
	if len(c.coordinates) != 2 {
		c.notifier.Notify(Notification{Title: "Invalid location", Description: "Please select a valid location on the map.", Destructive: true})
		return nil, ErrLocationRequired
	}
	if err := c.formValidator.Struct(c.form); err != nil {
		verr := toValidationError(err)
		c.fail(verr)
		return nil, verr
	}

	urls, err := c.api.UploadPhotos(ctx, c.photos, c.progress)
	if err != nil {
		c.fail(err)
		return nil, err
	}
	if len(urls) == 0 {
		c.fail(ErrNoUploadedImages)
		return nil, ErrNoUploadedImages
	}

	property, err := c.api.CreateProperty(ctx, c.request(urls))
	if err != nil {
		c.fail(err)
		return nil, err
	}

	c.created = property
	c.notifier.Notify(Notification{Title: "Success!", Description: "Your property listing has been created."})
	return property, nil
}

// request normalises the raw form into the create payload
func (c *Composer) request(images []string) client.CreatePropertyRequest {
	f := c.form
	amenities := f.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return client.CreatePropertyRequest{
		Title:        f.Title,
		Description:  f.Description,
		Price:        normalizedPrice(f.Price),
		Bedrooms:     intOr(f.Bedrooms, 0),
		Bathrooms:    floatOr(f.Bathrooms, 1),
		PropertyType: f.PropertyType,
		Status:       f.Status,
		Location:     f.Location,
		Address:      f.Address,
		City:         f.City,
		State:        f.State,
		ZipCode:      f.ZipCode,
		Area:         floatOr(f.Area, 0),
		YearBuilt:    normalizedYear(f.YearBuilt),
		LotSize:      f.LotSize,
		Garage:       intOr(f.Garage, 0),
		Amenities:    amenities,
		Images:       images,
		Coordinates:  []float64{c.coordinates[0], c.coordinates[1]},
	}
}

func (c *Composer) fail(err error) {
	message := "Failed to create property listing"
	var apiErr *client.APIError
	var verr *ValidationError
	switch {
	case errors.As(err, &apiErr):
		message = apiErr.Message
	case errors.As(err, &verr):
		message = verr.Error()
	case err != nil:
		message = err.Error()
	}
	c.notifier.Notify(Notification{Title: "Error", Description: message, Destructive: true})
}

func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Field()]
		if !ok {
			msg = fe.Field() + " is invalid."
		}
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}
