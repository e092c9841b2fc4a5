package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"petcare/internal/domain"
	"petcare/internal/validate"
)

const RescueConfirmationSubject = "Rescue Request Confirmation - Pet Care"

// RescueInput is the raw rescue form.
type RescueInput struct {
	Name        string
	Phone       string
	Date        string
	Time        string
	AnimalType  string
	Description string
	Location    string
	Image       string // stored media path, set after upload
}

type RescueService struct {
	Rescues RescueStore
	Notify  Dispatcher
	now     func() time.Time
}

func NewRescueService(rescues RescueStore, notify Dispatcher) *RescueService {
	return &RescueService{Rescues: rescues, Notify: notify, now: time.Now}
}

// Validate checks every field except the image and returns the normalized request.
func (s *RescueService) Validate(in RescueInput) (domain.RescueRequest, error) {
	var rr domain.RescueRequest
	var ok bool
	if rr.Name, ok = validate.Text(in.Name, 100); !ok {
		return rr, domain.Invalid("name", "enter your name (max 100 characters)")
	}
	if rr.Phone, ok = validate.Phone(in.Phone); !ok {
		return rr, domain.Invalid("phone_number", "enter a valid phone number")
	}
	if rr.Date, ok = validate.Date(in.Date); !ok {
		return rr, domain.Invalid("date", "use YYYY-MM-DD")
	}
	if rr.Time, ok = validate.Time(in.Time); !ok {
		return rr, domain.Invalid("time", "use HH:MM")
	}
	if rr.AnimalType, ok = validate.AnimalType(in.AnimalType); !ok {
		return rr, domain.Invalid("animal_type", "choose an animal type")
	}
	if rr.Description, ok = validate.Text(in.Description, 2000); !ok {
		return rr, domain.Invalid("description", "describe the animal and its condition")
	}
	if rr.Location, ok = validate.Text(in.Location, 255); !ok {
		return rr, domain.Invalid("location", "enter where the animal is")
	}
	return rr, nil
}

// Submit creates a pending rescue request owned by u and queues the
// confirmation. Delivery problems are the dispatcher's concern; the request
// is created either way.
func (s *RescueService) Submit(ctx context.Context, u *domain.User, in RescueInput) (domain.RescueRequest, error) {
	rr, err := s.Validate(in)
	if err != nil {
		return domain.RescueRequest{}, err
	}
	if in.Image == "" {
		return domain.RescueRequest{}, domain.Invalid("image", "attach a photo of the animal")
	}
	rr.ID = uuid.NewString()
	rr.UserID = u.ID
	rr.Image = in.Image
	rr.Status = domain.RescuePending
	rr.CreatedAt = domain.Stamp(s.now())

	if err := s.Rescues.Create(ctx, rr); err != nil {
		return domain.RescueRequest{}, fmt.Errorf("create rescue request: %w", err)
	}

	if s.Notify != nil && u.Email != "" {
		s.Notify.Dispatch(u.Email, RescueConfirmationSubject, RescueConfirmationBody(rr))
	}
	return rr, nil
}

func RescueConfirmationBody(rr domain.RescueRequest) string {
	return fmt.Sprintf(`Dear %s,

Thank you for submitting a rescue request to Pet Care!

Your rescue request details:
- Animal Type: %s
- Date: %s
- Time: %s
- Location: %s
- Status: %s

We have received your request and our team will review it shortly. We will contact you at %s with updates.

Together, we're making a difference in the lives of animals in need.

Best regards,
Pet Care Team
`, rr.Name, rr.AnimalType.Label(), rr.Date, rr.Time, rr.Location, rr.Status.Label(), rr.Phone)
}
