// internal/checkout/sequencer.go
package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"scholarstream/internal/common/errors"
	"scholarstream/internal/common/logger"
	"scholarstream/internal/common/metrics"
	"scholarstream/internal/common/observability"
	"scholarstream/internal/models"
	"scholarstream/internal/payment"
	"scholarstream/internal/routes"
)

// Applicant identifies who is checking out.
type Applicant struct {
	UID   string
	Name  string
	Email string
}

// Request is everything the sequencer needs for one checkout attempt.
type Request struct {
	ScholarshipID string
	Applicant     Applicant
	Card          payment.Card
}

// Outcome is the terminal state of a checkout attempt. Callers switch on
// the concrete type to decide what to render.
type Outcome interface {
	outcome()
	Kind() string
}

// Success means the charge went through, the application record is paid,
// and the payment record is written.
type Success struct {
	ScholarshipName string
	UniversityName  string
	Amount          int
	TransactionID   string
	RedirectTo      string
}

// Declined means the processor refused the confirmed charge. An unpaid,
// pending application record has been written so the attempt stays
// visible to the student.
type Declined struct {
	ScholarshipName string
	Message         string
	RedirectTo      string
}

// CardRejected means the card never tokenized. Nothing was written.
type CardRejected struct {
	Message string
}

// InitFailed means the backend could not produce a payment intent.
// Nothing was written.
type InitFailed struct {
	Message string
}

func (Success) outcome()      {}
func (Declined) outcome()     {}
func (CardRejected) outcome() {}
func (InitFailed) outcome()   {}

func (Success) Kind() string      { return "success" }
func (Declined) Kind() string     { return "declined" }
func (CardRejected) Kind() string { return "card_rejected" }
func (InitFailed) Kind() string   { return "init_failed" }

// ScholarshipGetter loads the scholarship being applied for.
type ScholarshipGetter interface {
	Get(ctx context.Context, id string) (*models.Scholarship, error)
}

// IntentCreator asks the backend for a payment intent.
type IntentCreator interface {
	CreateIntent(ctx context.Context, amount int, attemptID string) (*models.PaymentIntent, error)
}

// ApplicationCreator persists the application record.
type ApplicationCreator interface {
	Create(ctx context.Context, app models.Application) error
}

// PaymentRecorder persists the payment record after a successful charge.
type PaymentRecorder interface {
	Record(ctx context.Context, rec models.PaymentRecord) error
}

// Sequencer runs the checkout flow in its fixed order: load scholarship,
// create intent, tokenize card, confirm charge, and only then write the
// application record reflecting the charge result. No application record
// ever exists before the payment outcome is known.
type Sequencer struct {
	scholarships ScholarshipGetter
	payments     IntentCreator
	processor    payment.Processor
	applications ApplicationCreator
	recorder     PaymentRecorder
	obs          *observability.Observability
	logger       logger.Logger
	now          func() time.Time
}

func NewSequencer(
	scholarships ScholarshipGetter,
	payments IntentCreator,
	processor payment.Processor,
	applications ApplicationCreator,
	recorder PaymentRecorder,
	obs *observability.Observability,
	log logger.Logger,
) *Sequencer {
	return &Sequencer{
		scholarships: scholarships,
		payments:     payments,
		processor:    processor,
		applications: applications,
		recorder:     recorder,
		obs:          obs,
		logger:       log,
		now:          time.Now,
	}
}

// Run executes one checkout attempt. It returns a non-nil Outcome for
// every terminal state the applicant can act on; errors are reserved for
// states where the sequencer cannot say what happened (missing
// scholarship, record write failures).
func (s *Sequencer) Run(ctx context.Context, req Request) (Outcome, error) {
	start := s.now()
	attemptID := uuid.New().String()

	log := s.logger.WithFields(map[string]interface{}{
		"attempt_id":     attemptID,
		"scholarship_id": req.ScholarshipID,
		"user_email":     req.Applicant.Email,
	})

	scholarship, err := s.scholarships.Get(ctx, req.ScholarshipID)
	if err != nil {
		log.Error("checkout aborted: scholarship lookup failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	amount := scholarship.TotalAmount()

	// The intent is created for the full amount even when it is zero, so
	// a free application still runs the same confirmation path.
	intent, err := s.payments.CreateIntent(ctx, amount, attemptID)
	if err != nil {
		log.Warn("checkout stopped: payment intent creation failed", map[string]interface{}{
			"error": err.Error(),
		})
		s.finish(ctx, start, "init_failed")
		return InitFailed{Message: err.Error()}, nil
	}

	methodID, err := s.processor.CreatePaymentMethod(ctx, req.Card)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeCard) {
			log.Info("checkout stopped: card rejected at tokenization", map[string]interface{}{
				"error": err.Error(),
			})
			s.finish(ctx, start, "card_rejected")
			return CardRejected{Message: err.Error()}, nil
		}
		s.finish(ctx, start, "error")
		return nil, errors.NewUnexpectedPaymentError(err)
	}

	result, err := s.processor.ConfirmPayment(ctx, intent.ClientSecret, methodID)
	if err != nil {
		// The charge state is unknown here, so no record is written.
		log.Error("checkout failed: payment confirmation errored", map[string]interface{}{
			"error": err.Error(),
		})
		s.finish(ctx, start, "error")
		return nil, errors.NewUnexpectedPaymentError(err)
	}

	app := models.Application{
		ScholarshipID:       scholarship.ID,
		UserID:              req.Applicant.UID,
		UserName:            req.Applicant.Name,
		UserEmail:           req.Applicant.Email,
		UniversityName:      scholarship.UniversityName,
		ScholarshipCategory: scholarship.ScholarshipCategory,
		SubjectCategory:     scholarship.SubjectCategory,
		Degree:              scholarship.Degree,
		ApplicationFees:     scholarship.ApplicationFees,
		ServiceCharge:       scholarship.ServiceCharge,
		ApplicationStatus:   models.ApplicationPending,
		ApplicationDate:     s.now(),
	}

	if result.Declined {
		app.PaymentStatus = models.PaymentUnpaid
		if err := s.applications.Create(ctx, app); err != nil {
			log.Error("declined payment: application record write failed", map[string]interface{}{
				"error": err.Error(),
			})
			return nil, err
		}
		log.Info("checkout declined, unpaid application recorded", map[string]interface{}{
			"reason": result.Message,
		})
		s.finish(ctx, start, "declined")
		return Declined{
			ScholarshipName: scholarship.ScholarshipName,
			Message:         result.Message,
			RedirectTo:      routes.PaymentFailed,
		}, nil
	}

	app.PaymentStatus = models.PaymentPaid
	app.TransactionID = result.TransactionID
	if err := s.applications.Create(ctx, app); err != nil {
		log.Error("paid but application record write failed", map[string]interface{}{
			"transaction_id": result.TransactionID,
			"error":          err.Error(),
		})
		return nil, err
	}

	rec := models.PaymentRecord{
		UserEmail:     req.Applicant.Email,
		ScholarshipID: scholarship.ID,
		Amount:        amount,
		TransactionID: result.TransactionID,
		PaymentDate:   s.now(),
	}
	if err := s.recorder.Record(ctx, rec); err != nil {
		// The application is already paid; the missing payment record is
		// recoverable server-side from the transaction id.
		log.Error("payment record write failed after successful charge", map[string]interface{}{
			"transaction_id": result.TransactionID,
			"error":          err.Error(),
		})
	}

	log.Info("checkout succeeded", map[string]interface{}{
		"transaction_id": result.TransactionID,
		"amount":         amount,
	})
	s.finish(ctx, start, "success")
	return Success{
		ScholarshipName: scholarship.ScholarshipName,
		UniversityName:  scholarship.UniversityName,
		Amount:          amount,
		TransactionID:   result.TransactionID,
		RedirectTo:      routes.PaymentSuccess,
	}, nil
}

func (s *Sequencer) finish(ctx context.Context, start time.Time, outcome string) {
	elapsed := s.now().Sub(start)
	metrics.CheckoutOutcomes.With(prometheus.Labels{"outcome": outcome}).Inc()
	metrics.CheckoutDuration.With(prometheus.Labels{"outcome": outcome}).Observe(elapsed.Seconds())
	if s.obs != nil {
		s.obs.RecordCheckoutDuration(ctx, elapsed, outcome)
	}
}
